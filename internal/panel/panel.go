// Package panel implements the Panel State Machine (C5): per-pane
// directory, cursor, marks, sort/view, scroll window, quick-search buffer,
// and navigation history.
package panel

import (
	"context"
	"path/filepath"

	"github.com/go-nc/nc/internal/dircache"
	"github.com/go-nc/nc/internal/fsadapter"
	"github.com/go-nc/nc/internal/selection"
	"github.com/go-nc/nc/internal/sortview"
)

// Mode is one of the three states spec.md §4.5 defines.
type Mode int

const (
	Browsing Mode = iota
	QuickSearching
	AwaitingDialog
)

// State is one pane's complete, independent state.
type State struct {
	Dir     string
	Back    []string
	Forward []string

	Listing *fsadapter.Listing
	Sort    sortview.Descriptor
	View    sortview.View

	Cursor      int
	ScrollTop   int
	Marks       selection.Set
	QuickSearch selection.QuickSearch

	Mode   Mode
	Active bool

	ShowHidden bool
}

// New constructs a panel rooted at dir, in Browsing mode with no history.
func New(dir string, showHidden bool) *State {
	return &State{
		Dir:        filepath.Clean(dir),
		Marks:      selection.NewSet(),
		Sort:       sortview.Default,
		View:       sortview.Full,
		ShowHidden: showHidden,
	}
}

// Entries returns the current listing's entries, or nil if none loaded yet.
func (s *State) Entries() []fsadapter.Entry {
	if s.Listing == nil {
		return nil
	}
	return s.Listing.Entries
}

// Current returns the entry under the cursor, and whether one exists
// (invariant 1: undefined when the listing is empty).
func (s *State) Current() (fsadapter.Entry, bool) {
	entries := s.Entries()
	if s.Cursor < 0 || s.Cursor >= len(entries) {
		return fsadapter.Entry{}, false
	}
	return entries[s.Cursor], true
}

// Load fetches dir's listing (through cache unless forced) and replaces
// the panel's current directory and listing, reconciling marks and cursor
// per spec.md §4.5 ("On listing replacement, marks are filtered to
// surviving paths; cursor is relocated to the previously focused path if
// still present, else clamped to its former index").
func (s *State) Load(ctx context.Context, adapter fsadapter.Adapter, cache *dircache.Cache, dir string, forceRefresh bool) error {
	dir = filepath.Clean(dir)
	key := dircache.Key{Path: dir, ShowHidden: s.ShowHidden}

	var listing *fsadapter.Listing
	if !forceRefresh {
		if cached, ok := cache.Get(key); ok {
			listing = cached
		}
	}
	if listing == nil {
		fresh, err := adapter.List(ctx, dir, s.ShowHidden)
		if err != nil {
			return err
		}
		cache.Put(key, fresh)
		listing = fresh
	}

	listing = withParentEntry(dir, listing)
	sortview.Sort(listing.Entries, s.Sort)

	var focusedPath string
	if e, ok := s.Current(); ok {
		focusedPath = e.Path
	}

	s.Dir = dir
	s.Listing = listing
	s.Marks.Reconcile(listing.Entries)
	s.relocateCursor(focusedPath)
	s.clampScroll(defaultPageSize)
	return nil
}

// withParentEntry prepends a synthetic ".." entry unless dir is a root.
func withParentEntry(dir string, listing *fsadapter.Listing) *fsadapter.Listing {
	parent := filepath.Dir(dir)
	if parent == dir {
		return listing // already at a filesystem root
	}
	out := *listing
	out.Entries = append([]fsadapter.Entry{{
		Path:  parent,
		Name:  "..",
		IsDir: true,
	}}, listing.Entries...)
	return &out
}

func (s *State) relocateCursor(focusedPath string) {
	entries := s.Entries()
	if focusedPath != "" {
		for i, e := range entries {
			if e.Path == focusedPath {
				s.Cursor = i
				return
			}
		}
	}
	if s.Cursor >= len(entries) {
		s.Cursor = len(entries) - 1
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
}

// Resort re-orders the current listing without re-reading the directory,
// relocating the cursor to stay on the same entry.
func (s *State) Resort(d sortview.Descriptor) {
	if s.Listing == nil {
		s.Sort = d
		return
	}
	var focusedPath string
	if e, ok := s.Current(); ok {
		focusedPath = e.Path
	}
	s.Sort = d
	sortview.Sort(s.Listing.Entries, d)
	s.relocateCursor(focusedPath)
}
