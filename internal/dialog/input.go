package dialog

import "github.com/gdamore/tcell/v2"

// Input is a free-text prompt with an optional Validator, e.g. "New name:"
// for rename/mkdir.
type Input struct {
	Prompt    string
	Text      string
	Validator Validator
	Err       error

	Canceled bool
}

// NewInput builds an Input dialog seeded with initial text (e.g. the
// current name, for rename).
func NewInput(prompt, initial string, validator Validator) *Input {
	return &Input{Prompt: prompt, Text: initial, Validator: validator}
}

func (i *Input) Kind() Kind { return KindInput }

func (i *Input) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEnter:
		if i.Validator != nil {
			if err := i.Validator(i.Text); err != nil {
				i.Err = err
				return false
			}
		}
		i.Err = nil
		return true
	case tcell.KeyEsc:
		i.Canceled = true
		return true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(i.Text) > 0 {
			r := []rune(i.Text)
			i.Text = string(r[:len(r)-1])
		}
		i.Err = nil
		return false
	case tcell.KeyRune:
		i.Text += string(ev.Rune())
		i.Err = nil
		return false
	}
	return false
}
