// Package selection implements the Selection & Search component (C4): the
// marked-set algebra, incremental quick-search, and recursive find.
package selection

import (
	"github.com/go-nc/nc/internal/fsadapter"
	"github.com/go-nc/nc/internal/glob"
)

// Set is the marked-set M of spec.md §4.4, keyed by stable path identity.
type Set map[string]struct{}

// NewSet returns an empty marked set.
func NewSet() Set { return make(Set) }

// Has reports whether path is marked.
func (s Set) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// Toggle flips path's membership: M ← M △ {path}.
func (s Set) Toggle(path string) {
	if s.Has(path) {
		delete(s, path)
	} else {
		s[path] = struct{}{}
	}
}

// Clear empties the set: M ← ∅ (unselect_all).
func (s Set) Clear() {
	for k := range s {
		delete(s, k)
	}
}

// SelectAllFiles adds every non-directory entry: M ← M ∪ {e ∈ L :
// not e.is_directory}.
func (s Set) SelectAllFiles(entries []fsadapter.Entry) {
	for _, e := range entries {
		if !e.IsDir && e.Name != ".." {
			s[e.Path] = struct{}{}
		}
	}
}

// GroupSelect adds every matching file entry, excluding directories under
// the default files-only rule: M ← M ∪ {e ∈ L_files : glob_match(e.name,
// pattern, case)}.
func (s Set) GroupSelect(entries []fsadapter.Entry, pattern string, caseSensitive bool) {
	for _, e := range entries {
		if e.IsDir || e.Name == ".." {
			continue
		}
		if glob.Match(e.Name, pattern, caseSensitive) {
			s[e.Path] = struct{}{}
		}
	}
}

// GroupDeselect removes every entry whose name matches pattern:
// M ← M \ {e ∈ L : glob_match(e.name, pattern, case)}.
func (s Set) GroupDeselect(entries []fsadapter.Entry, pattern string, caseSensitive bool) {
	for _, e := range entries {
		if glob.Match(e.Name, pattern, caseSensitive) {
			delete(s, e.Path)
		}
	}
}

// InvertSelection implements M ← L_files △ M, where L_files excludes
// directories and the parent-link entry, satisfying the law
// invert(invert(M, L), L) = M ∩ L_files.
func (s Set) InvertSelection(entries []fsadapter.Entry) {
	for _, e := range entries {
		if e.IsDir || e.Name == ".." {
			continue
		}
		s.Toggle(e.Path)
	}
}

// Reconcile drops marks whose path is no longer present in entries, the
// invariant spec.md §3 requires after every refresh: marked(p) ⊆
// paths(listing(p)).
func (s Set) Reconcile(entries []fsadapter.Entry) {
	present := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		present[e.Path] = struct{}{}
	}
	for path := range s {
		if _, ok := present[path]; !ok {
			delete(s, path)
		}
	}
}

// Paths returns the marked paths in no particular order (map iteration
// order); it does not sort them.
func (s Set) Paths() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	return out
}

// Len reports how many entries are marked.
func (s Set) Len() int { return len(s) }
