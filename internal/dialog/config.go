package dialog

import "github.com/gdamore/tcell/v2"

// ConfigField is one editable row within a Config dialog tab.
type ConfigField struct {
	Label     string
	Value     string
	Validator Validator
	Err       error
}

// ConfigTab groups related fields, e.g. "General", "Left panel", "Cache".
type ConfigTab struct {
	Title  string
	Fields []ConfigField
}

// Config is the tabbed settings dialog (spec.md §4.9). Editing happens
// field-by-field; Applied is set once the user confirms, at which point C11
// validates and persists every field via the theme/config store.
type Config struct {
	Tabs      []ConfigTab
	tabIndex  int
	fieldIndex int
	editing   bool

	Applied  bool
	Canceled bool
}

// NewConfig builds a Config dialog over the given tabs.
func NewConfig(tabs []ConfigTab) *Config { return &Config{Tabs: tabs} }

func (c *Config) Kind() Kind { return KindConfig }

func (c *Config) currentTab() *ConfigTab { return &c.Tabs[c.tabIndex] }

func (c *Config) HandleKey(ev *tcell.EventKey) bool {
	tab := c.currentTab()
	if c.editing {
		field := &tab.Fields[c.fieldIndex]
		switch ev.Key() {
		case tcell.KeyEnter:
			if field.Validator != nil {
				if err := field.Validator(field.Value); err != nil {
					field.Err = err
					return false
				}
			}
			field.Err = nil
			c.editing = false
			return false
		case tcell.KeyEsc:
			c.editing = false
			field.Err = nil
			return false
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if len(field.Value) > 0 {
				r := []rune(field.Value)
				field.Value = string(r[:len(r)-1])
			}
			return false
		case tcell.KeyRune:
			field.Value += string(ev.Rune())
			return false
		}
		return false
	}

	switch ev.Key() {
	case tcell.KeyTab, tcell.KeyRight:
		c.tabIndex = (c.tabIndex + 1) % len(c.Tabs)
		c.fieldIndex = 0
		return false
	case tcell.KeyLeft:
		c.tabIndex = (c.tabIndex - 1 + len(c.Tabs)) % len(c.Tabs)
		c.fieldIndex = 0
		return false
	case tcell.KeyUp:
		if c.fieldIndex > 0 {
			c.fieldIndex--
		}
		return false
	case tcell.KeyDown:
		if c.fieldIndex < len(tab.Fields)-1 {
			c.fieldIndex++
		}
		return false
	case tcell.KeyEnter:
		if len(tab.Fields) > 0 {
			c.editing = true
		}
		return false
	case tcell.KeyF2:
		c.Applied = true
		return true
	case tcell.KeyEsc:
		c.Canceled = true
		return true
	}
	return false
}

// ActiveField returns the tab/field currently selected, for rendering.
func (c *Config) ActiveField() (tabIndex, fieldIndex int, editing bool) {
	return c.tabIndex, c.fieldIndex, c.editing
}
