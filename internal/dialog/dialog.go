// Package dialog implements the Menu & Dialog Layer (C9): modal surfaces
// stacked over the panel view. Dialogs never perform filesystem I/O
// themselves; they validate input and emit an action back to C8/C7.
package dialog

import "github.com/gdamore/tcell/v2"

// Kind identifies which modal surface a Dialog is.
type Kind int

const (
	KindConfirm Kind = iota
	KindInput
	KindProgress
	KindFind
	KindConfig
	KindMenu
	KindConflict
)

// Validator checks free-text Input dialog content before it can be
// submitted; a non-nil error is shown inline and blocks submission.
type Validator func(text string) error

// Dialog is the common shape every modal surface implements. Stack holds
// these; only the top one receives input (spec.md §4.9: "single-instance,
// stacked").
type Dialog interface {
	Kind() Kind
	// HandleKey consumes one key event. submitted is true when the dialog
	// considers itself done (confirmed, canceled, or a button activated);
	// the stack pops it in that case.
	HandleKey(ev *tcell.EventKey) (submitted bool)
}

// Stack is the single-instance, stacked modal surface of spec.md §4.9.
// Opening pushes a context; closing pops it.
type Stack struct {
	dialogs []Dialog
}

// Push opens d on top of the stack.
func (s *Stack) Push(d Dialog) { s.dialogs = append(s.dialogs, d) }

// Pop closes the top dialog, if any.
func (s *Stack) Pop() {
	if len(s.dialogs) == 0 {
		return
	}
	s.dialogs = s.dialogs[:len(s.dialogs)-1]
}

// Top returns the currently-interactive dialog, if the stack isn't empty.
func (s *Stack) Top() (Dialog, bool) {
	if len(s.dialogs) == 0 {
		return nil, false
	}
	return s.dialogs[len(s.dialogs)-1], true
}

// Empty reports whether no dialog is open, i.e. the panel context applies.
func (s *Stack) Empty() bool { return len(s.dialogs) == 0 }

// HandleKey routes ev to the top dialog, popping it from the stack if it
// reports submission.
func (s *Stack) HandleKey(ev *tcell.EventKey) bool {
	d, ok := s.Top()
	if !ok {
		return false
	}
	if d.HandleKey(ev) {
		s.Pop()
	}
	return true
}
