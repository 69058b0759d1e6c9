package dialog

import "github.com/gdamore/tcell/v2"

// Confirm is a yes/no prompt, e.g. "Delete 3 items?" / "Overwrite existing
// file?".
type Confirm struct {
	Message  string
	Accepted bool // valid only once HandleKey reports submitted

	focusYes bool
}

// NewConfirm builds a Confirm dialog with Yes focused by default.
func NewConfirm(message string) *Confirm {
	return &Confirm{Message: message, focusYes: true}
}

func (c *Confirm) Kind() Kind { return KindConfirm }

func (c *Confirm) HandleKey(ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyLeft, ev.Key() == tcell.KeyRight, ev.Key() == tcell.KeyTab:
		c.focusYes = !c.focusYes
		return false
	case ev.Key() == tcell.KeyEnter:
		c.Accepted = c.focusYes
		return true
	case ev.Key() == tcell.KeyEsc:
		c.Accepted = false
		return true
	case ev.Key() == tcell.KeyRune && (ev.Rune() == 'y' || ev.Rune() == 'Y'):
		c.Accepted = true
		return true
	case ev.Key() == tcell.KeyRune && (ev.Rune() == 'n' || ev.Rune() == 'N'):
		c.Accepted = false
		return true
	}
	return false
}
