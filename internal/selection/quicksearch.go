package selection

import (
	"github.com/go-nc/nc/internal/fsadapter"
	"github.com/go-nc/nc/internal/glob"
)

// QuickSearch is the incremental type-to-filter buffer of spec.md §4.4. A
// panel owns exactly one; it is active whenever Buffer is non-empty.
type QuickSearch struct {
	Buffer        string
	CaseSensitive bool
}

// Extend appends ch to the buffer (a printable key was pressed).
func (q *QuickSearch) Extend(ch rune) {
	q.Buffer += string(ch)
}

// Shrink removes the last rune (Backspace). No-op on an empty buffer.
func (q *QuickSearch) Shrink() {
	if q.Buffer == "" {
		return
	}
	r := []rune(q.Buffer)
	q.Buffer = string(r[:len(r)-1])
}

// Clear empties the buffer (Esc).
func (q *QuickSearch) Clear() { q.Buffer = "" }

// Active reports whether the buffer is non-empty. A panel's quick-search
// mode is tracked separately (panel.State.Mode) and can differ, e.g. an
// emptied buffer while still QuickSearching.
func (q *QuickSearch) Active() bool { return q.Buffer != "" }

// Locate returns the index of the first entry whose name contains Buffer,
// scanning the whole listing from the top (spec.md: "sets the cursor to
// the first entry whose name contains the buffer"). ok is false when the
// buffer is empty or matches nothing, in which case the caller should
// leave the cursor at its prior valid position and may signal "no match".
func (q *QuickSearch) Locate(entries []fsadapter.Entry) (index int, ok bool) {
	if q.Buffer == "" {
		return 0, false
	}
	for i, e := range entries {
		if glob.Contains(e.Name, q.Buffer, q.CaseSensitive) {
			return i, true
		}
	}
	return 0, false
}
