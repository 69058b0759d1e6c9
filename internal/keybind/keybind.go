// Package keybind implements the Keybinding & Action Dispatcher (C8): a
// registry mapping (context, chord) to a named Action, resolved by walking
// an ordered context chain and dispatching the first match.
package keybind

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Context is one scope in the resolution chain. Contexts are tried in
// Chain order (most specific first), per spec.md §4.8.
type Context int

const (
	ContextDialog Context = iota
	ContextMenu
	ContextQuickSearch
	ContextPanel
	ContextGlobal
)

func (c Context) String() string {
	switch c {
	case ContextDialog:
		return "dialog"
	case ContextMenu:
		return "menu"
	case ContextQuickSearch:
		return "quick-search"
	case ContextPanel:
		return "panel"
	case ContextGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// Chain is the fixed resolution order: dialog > menu > quick-search > panel
// > global. A caller assembling the active chain omits contexts that don't
// currently apply (e.g. no dialog open).
var Chain = []Context{ContextDialog, ContextMenu, ContextQuickSearch, ContextPanel, ContextGlobal}

// Action is the stable identifier of a dispatchable action, as it appears
// in config overrides (spec.md §6, "panel.copy", "global.quit", ...).
type Action string

// Chord is a key or modified-key combination. For printable keys, Rune is
// set and Key is tcell.KeyRune; for named keys (F1, Up, Ctrl-R as a single
// tcell key constant), Key carries the tcell constant and Rune is 0.
type Chord struct {
	Key  tcell.Key
	Rune rune
	Mods tcell.ModMask
}

// ChordFromEvent derives the Chord a dispatcher should look up for ev.
func ChordFromEvent(ev *tcell.EventKey) Chord {
	c := Chord{Key: ev.Key(), Mods: ev.Modifiers()}
	if ev.Key() == tcell.KeyRune {
		c.Rune = ev.Rune()
	}
	return c
}

// String renders a Chord the way config overrides and help text spell it,
// e.g. "Ctrl+R", "F5", "a".
func (c Chord) String() string {
	var parts []string
	if c.Mods&tcell.ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if c.Mods&tcell.ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if c.Mods&tcell.ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if c.Key == tcell.KeyRune {
		switch c.Rune {
		case '+', '-', '*':
			parts = append(parts, "Gray"+string(c.Rune))
		case ' ':
			parts = append(parts, "Space")
		default:
			parts = append(parts, string(c.Rune))
		}
	} else if name, ok := keyNames[c.Key]; ok {
		parts = append(parts, name)
	} else {
		parts = append(parts, fmt.Sprintf("Key(%d)", c.Key))
	}
	return strings.Join(parts, "+")
}

var keyNames = map[tcell.Key]string{
	tcell.KeyF1: "F1", tcell.KeyF2: "F2", tcell.KeyF3: "F3", tcell.KeyF4: "F4",
	tcell.KeyF5: "F5", tcell.KeyF6: "F6", tcell.KeyF7: "F7", tcell.KeyF8: "F8",
	tcell.KeyF9: "F9", tcell.KeyF10: "F10", tcell.KeyF11: "F11", tcell.KeyF12: "F12",
	tcell.KeyUp: "Up", tcell.KeyDown: "Down", tcell.KeyLeft: "Left", tcell.KeyRight: "Right",
	tcell.KeyPgUp: "PageUp", tcell.KeyPgDn: "PageDown", tcell.KeyHome: "Home", tcell.KeyEnd: "End",
	tcell.KeyEnter: "Enter", tcell.KeyBackspace: "Backspace", tcell.KeyBackspace2: "Backspace",
	tcell.KeyTab: "Tab", tcell.KeyEsc: "Esc", tcell.KeyInsert: "Insert", tcell.KeyDelete: "Delete",
}

var namesToKey = func() map[string]tcell.Key {
	m := make(map[string]tcell.Key, len(keyNames))
	for k, v := range keyNames {
		if _, exists := m[v]; !exists {
			m[v] = k
		}
	}
	return m
}()

// ParseChord parses the config-file spelling of a chord, e.g. "Ctrl+R",
// "F5", "Gray+" (the keypad plus key, used for group-select per spec.md
// §4.8). Returns an error for unrecognized syntax so C10 can reject an
// invalid override at load time rather than silently dropping it.
func ParseChord(s string) (Chord, error) {
	var c Chord
	parts := strings.Split(s, "+")
	if s == "" || len(parts) == 0 {
		return c, fmt.Errorf("keybind: empty chord")
	}
	// "Gray+"/"Gray-"/"Gray*" keep their trailing operator glued to "Gray".
	if len(parts) >= 2 && parts[0] == "Gray" {
		parts = []string{"Gray+" + parts[1]}
	}
	last := parts[len(parts)-1]
	for _, mod := range parts[:len(parts)-1] {
		switch mod {
		case "Ctrl":
			c.Mods |= tcell.ModCtrl
		case "Alt":
			c.Mods |= tcell.ModAlt
		case "Shift":
			c.Mods |= tcell.ModShift
		default:
			return c, fmt.Errorf("keybind: unknown modifier %q", mod)
		}
	}
	if key, ok := namesToKey[last]; ok {
		c.Key = key
		return c, nil
	}
	switch last {
	case "Gray+":
		c.Key, c.Rune = tcell.KeyRune, '+'
		return c, nil
	case "Gray-":
		c.Key, c.Rune = tcell.KeyRune, '-'
		return c, nil
	case "Gray*":
		c.Key, c.Rune = tcell.KeyRune, '*'
		return c, nil
	case "Space":
		c.Key, c.Rune = tcell.KeyRune, ' '
		return c, nil
	}
	runes := []rune(last)
	if len(runes) == 1 {
		c.Key, c.Rune = tcell.KeyRune, runes[0]
		return c, nil
	}
	return c, fmt.Errorf("keybind: unrecognized key %q", last)
}
