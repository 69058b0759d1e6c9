package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Palette is the named set of colors every UI component reads by name,
// never by raw literal (spec.md §4.10).
type Palette struct {
	Primary       string `yaml:"primary"`
	Accent        string `yaml:"accent"`
	Surface       string `yaml:"surface"`
	Panel         string `yaml:"panel"`
	Text          string `yaml:"text"`
	TextMuted     string `yaml:"text_muted"`
	Warning       string `yaml:"warning"`
	Error         string `yaml:"error"`
	Success       string `yaml:"success"`
	Selection     string `yaml:"selection"`
	SelectionText string `yaml:"selection_text"`
}

// Theme is one loadable theme file (spec.md §6).
type Theme struct {
	ID          string  `yaml:"id"`
	DisplayName string  `yaml:"display_name"`
	Palette     Palette `yaml:"palette"`
}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Validate checks the id, display name, and every palette value.
func (t *Theme) Validate() error {
	if !ValidThemeID(t.ID) {
		return errors.Errorf("theme: invalid id %q", t.ID)
	}
	if t.DisplayName == "" {
		return errors.New("theme: display_name is required")
	}
	fields := map[string]string{
		"primary": t.Palette.Primary, "accent": t.Palette.Accent, "surface": t.Palette.Surface,
		"panel": t.Palette.Panel, "text": t.Palette.Text, "text_muted": t.Palette.TextMuted,
		"warning": t.Palette.Warning, "error": t.Palette.Error, "success": t.Palette.Success,
		"selection": t.Palette.Selection, "selection_text": t.Palette.SelectionText,
	}
	for name, value := range fields {
		if !hexColorPattern.MatchString(value) {
			return errors.Errorf("theme: palette.%s is not a valid hex color: %q", name, value)
		}
	}
	return nil
}

// BuiltinDefaultID names the theme used when config doesn't specify one, or
// the specified one can't be found.
const BuiltinDefaultID = "nc-dark"

// builtins ships two embedded palettes; custom themes live in writable
// slots under ConfigDir()/themes.
var builtins = map[string]*Theme{
	"nc-dark": {
		ID: "nc-dark", DisplayName: "Commander Dark",
		Palette: Palette{
			Primary: "#268BD2", Accent: "#2AA198", Surface: "#002B36", Panel: "#073642",
			Text: "#EEE8D5", TextMuted: "#657B83", Warning: "#B58900", Error: "#DC322F",
			Success: "#859900", Selection: "#586E75", SelectionText: "#FDF6E3",
		},
	},
	"nc-light": {
		ID: "nc-light", DisplayName: "Commander Light",
		Palette: Palette{
			Primary: "#268BD2", Accent: "#2AA198", Surface: "#FDF6E3", Panel: "#EEE8D5",
			Text: "#073642", TextMuted: "#93A1A1", Warning: "#B58900", Error: "#DC322F",
			Success: "#859900", Selection: "#EEE8D5", SelectionText: "#002B36",
		},
	},
}

// NoColor returns a theme whose palette fields are all empty, which the
// renderer maps to the terminal's default foreground/background instead of
// a named color (for --no-color or terminals with no color support).
func NoColor() *Theme {
	return &Theme{ID: "no-color", DisplayName: "No Color"}
}

func themesDir(configDir string) string { return filepath.Join(configDir, "themes") }

func themePath(configDir, id string) string {
	return filepath.Join(themesDir(configDir), id+".yaml")
}

// Builtin returns a builtin theme by id, if one exists.
func Builtin(id string) (*Theme, bool) {
	t, ok := builtins[id]
	return t, ok
}

// BuiltinIDs returns the stable ids of every embedded theme, in a fixed
// display order.
func BuiltinIDs() []string { return []string{"nc-dark", "nc-light"} }

// LoadTheme resolves id to a Theme: first the builtin set, then a custom
// theme file under configDir/themes. On any failure it falls back to the
// builtin default and reports a warning, matching Config's load-with-defaults
// policy.
func LoadTheme(configDir, id string) (*Theme, string) {
	if !ValidThemeID(id) {
		return builtins[BuiltinDefaultID], fmt.Sprintf("theme: invalid id %q, using default", id)
	}
	if t, ok := builtins[id]; ok {
		return t, ""
	}
	data, err := os.ReadFile(themePath(configDir, id))
	if err != nil {
		return builtins[BuiltinDefaultID], fmt.Sprintf("theme: loading %q: %v, using default", id, err)
	}
	var t Theme
	if err := yaml.Unmarshal(data, &t); err != nil {
		return builtins[BuiltinDefaultID], fmt.Sprintf("theme: parsing %q: %v, using default", id, err)
	}
	if err := t.Validate(); err != nil {
		return builtins[BuiltinDefaultID], fmt.Sprintf("theme: %v, using default", err)
	}
	return &t, ""
}

// SaveCustom persists a custom theme into its writable slot, up to two
// custom slots total (spec.md's "up to two custom theme slots"), rejecting
// an id that collides with a builtin.
func SaveCustom(configDir string, t *Theme, existingCustomIDs []string) error {
	if _, ok := builtins[t.ID]; ok {
		return errors.Errorf("theme: %q is a builtin id and cannot be overwritten", t.ID)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	alreadyPresent := false
	for _, id := range existingCustomIDs {
		if id == t.ID {
			alreadyPresent = true
		}
	}
	if !alreadyPresent && len(existingCustomIDs) >= 2 {
		return errors.New("theme: at most two custom theme slots are allowed")
	}
	if err := os.MkdirAll(themesDir(configDir), 0o700); err != nil {
		return errors.Wrap(err, "theme: creating themes directory")
	}
	data, err := yaml.Marshal(t)
	if err != nil {
		return errors.Wrap(err, "theme: marshaling")
	}
	return atomicWrite(themePath(configDir, t.ID), data)
}

// CycleNext returns the id that follows currentID in the ordered list of
// builtin ids followed by custom ids, wrapping around, for Ctrl-T
// cycle-theme. Returns currentID unchanged if ids is empty.
func CycleNext(currentID string, customIDs []string) string {
	all := append(append([]string{}, BuiltinIDs()...), customIDs...)
	if len(all) == 0 {
		return currentID
	}
	for i, id := range all {
		if id == currentID {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// ListCustomIDs returns the ids of every theme file under configDir/themes.
func ListCustomIDs(configDir string) ([]string, error) {
	entries, err := os.ReadDir(themesDir(configDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "theme: listing themes directory")
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		const ext = ".yaml"
		if len(name) > len(ext) && name[len(name)-len(ext):] == ext {
			ids = append(ids, name[:len(name)-len(ext)])
		}
	}
	return ids, nil
}
