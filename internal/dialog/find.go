package dialog

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/go-nc/nc/internal/fsadapter"
	"github.com/go-nc/nc/internal/selection"
)

// Find is the pattern + flags prompt that starts a streaming recursive
// search, and the result list it fills in as matches arrive.
type Find struct {
	Root      string
	Pattern   string
	Flags     selection.FindFlags
	Results   []selection.FindResult
	Cursor    int
	searching bool
	Canceled  bool

	editingField int // 0 = pattern text, 1+ reserved for flag toggles
}

// NewFind builds a Find dialog rooted at root with default flags.
func NewFind(root string) *Find {
	return &Find{Root: root, Flags: selection.FindFlags{ResultCap: selection.DefaultResultCap}}
}

func (f *Find) Kind() Kind { return KindFind }

// Start launches the search against adapter, streaming results into
// f.Results as they arrive. The caller (C11) drives this from the event
// loop and triggers a redraw on each received result.
func (f *Find) Start(ctx context.Context, adapter fsadapter.Adapter, cancel *fsadapter.CancelToken, onResult func()) {
	f.searching = true
	f.Results = nil
	ch := selection.Find(ctx, adapter, f.Root, f.Pattern, f.Flags, cancel)
	go func() {
		for r := range ch {
			f.Results = append(f.Results, r)
			if onResult != nil {
				onResult()
			}
		}
		f.searching = false
		if onResult != nil {
			onResult()
		}
	}()
}

func (f *Find) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEsc:
		f.Canceled = true
		return true
	case tcell.KeyEnter:
		return !f.searching && len(f.Results) > 0
	case tcell.KeyDown:
		if f.Cursor < len(f.Results)-1 {
			f.Cursor++
		}
		return false
	case tcell.KeyUp:
		if f.Cursor > 0 {
			f.Cursor--
		}
		return false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(f.Pattern) > 0 {
			r := []rune(f.Pattern)
			f.Pattern = string(r[:len(r)-1])
		}
		return false
	case tcell.KeyRune:
		f.Pattern += string(ev.Rune())
		return false
	case tcell.KeyCtrlR:
		f.Flags.Regex = !f.Flags.Regex
		return false
	case tcell.KeyCtrlS:
		f.Flags.Subdirs = !f.Flags.Subdirs
		return false
	case tcell.KeyCtrlC:
		f.Flags.CaseSensitive = !f.Flags.CaseSensitive
		return false
	}
	return false
}

// Selected returns the currently-highlighted result path, if any matched
// and the cursor sits on a successful (non-error) entry.
func (f *Find) Selected() (string, bool) {
	if f.Cursor < 0 || f.Cursor >= len(f.Results) {
		return "", false
	}
	r := f.Results[f.Cursor]
	if r.Err != nil {
		return "", false
	}
	return r.Path, true
}
