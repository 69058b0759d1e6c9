// Package theme implements the Theme & Config Store (C10): durable
// application settings and color palettes, loaded at startup from a
// platform-conventional location and written atomically.
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/go-nc/nc/internal/sortview"
	"github.com/go-nc/nc/internal/xlog"
)

// PanelConfig is one panel's persisted settings (spec.md §6).
type PanelConfig struct {
	StartPath     string `yaml:"start-path"`
	SortKey       string `yaml:"sort-key"`
	SortDirection string `yaml:"sort-direction"`
	ViewMode      string `yaml:"view-mode"`
}

// CacheConfig governs the directory cache (internal/dircache).
type CacheConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxEntries int  `yaml:"max-entries"`
	TTLSeconds int  `yaml:"ttl-seconds"`
}

// GeneralConfig holds top-level behavior switches.
type GeneralConfig struct {
	StartPath       string `yaml:"start-path"`
	ShowHidden      bool   `yaml:"show-hidden"`
	ConfirmDelete   bool   `yaml:"confirm-delete"`
	ConfirmOverwrite bool  `yaml:"confirm-overwrite"`
}

// Config is the full persisted configuration tree of spec.md §6.
type Config struct {
	General     GeneralConfig          `yaml:"general"`
	PanelLeft   PanelConfig            `yaml:"panels.left"`
	PanelRight  PanelConfig            `yaml:"panels.right"`
	Cache       CacheConfig            `yaml:"cache"`
	ThemeID     string                 `yaml:"theme"`
	Keybindings map[string]string      `yaml:"keybindings"`

	// dirty tracks whether in-memory Config diverges from what's on disk.
	// Save always writes the whole file and clears it.
	dirty bool
}

// Default returns the built-in configuration used when no file exists yet
// or the file on disk fails validation.
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			StartPath:        ".",
			ShowHidden:       false,
			ConfirmDelete:    true,
			ConfirmOverwrite: true,
		},
		PanelLeft:  PanelConfig{StartPath: ".", SortKey: "name", SortDirection: "asc", ViewMode: "full"},
		PanelRight: PanelConfig{StartPath: ".", SortKey: "name", SortDirection: "asc", ViewMode: "full"},
		Cache:      CacheConfig{Enabled: true, MaxEntries: 100, TTLSeconds: 60},
		ThemeID:    BuiltinDefaultID,
	}
}

// MarkDirty flags the config as needing a write on next Save/shutdown.
func (c *Config) MarkDirty() { c.dirty = true }

// Dirty reports whether the config has unsaved changes.
func (c *Config) Dirty() bool { return c.dirty }

var validSortKeys = map[string]bool{"name": true, "size": true, "modified": true, "extension": true, "type": true}
var validDirections = map[string]bool{"asc": true, "desc": true}
var validViewModes = map[string]bool{"full": true, "brief": true, "info": true}

// Validate rejects values outside the allowed domains (spec.md §4.10).
func (c *Config) Validate() error {
	if c.Cache.MaxEntries < 1 {
		return errors.New("config: cache.max-entries must be >= 1")
	}
	if c.Cache.TTLSeconds < 0 {
		return errors.New("config: cache.ttl-seconds must be >= 0")
	}
	for _, p := range []PanelConfig{c.PanelLeft, c.PanelRight} {
		if p.SortKey != "" && !validSortKeys[p.SortKey] {
			return errors.Errorf("config: invalid sort-key %q", p.SortKey)
		}
		if p.SortDirection != "" && !validDirections[p.SortDirection] {
			return errors.Errorf("config: invalid sort-direction %q", p.SortDirection)
		}
		if p.ViewMode != "" && !validViewModes[p.ViewMode] {
			return errors.Errorf("config: invalid view-mode %q", p.ViewMode)
		}
	}
	if !ValidThemeID(c.ThemeID) {
		return errors.Errorf("config: invalid theme id %q", c.ThemeID)
	}
	return nil
}

// SortDescriptor converts a PanelConfig's string fields into a
// sortview.Descriptor, falling back to sortview.Default on unknown values.
func (p PanelConfig) SortDescriptor() sortview.Descriptor {
	d := sortview.Default
	switch p.SortKey {
	case "size":
		d.Key = sortview.KeySize
	case "modified":
		d.Key = sortview.KeyModified
	case "extension":
		d.Key = sortview.KeyExtension
	case "type":
		d.Key = sortview.KeyType
	case "name":
		d.Key = sortview.KeyName
	}
	if p.SortDirection == "desc" {
		d.Direction = sortview.Descending
	}
	return d
}

// View converts a PanelConfig's view-mode string into a sortview.View.
func (p PanelConfig) View() sortview.View {
	switch p.ViewMode {
	case "brief":
		return sortview.Brief
	case "info":
		return sortview.Info
	default:
		return sortview.Full
	}
}

// ConfigDir returns the platform-conventional directory configuration and
// themes live under: $XDG_CONFIG_HOME/nc, else ~/.config/nc. It returns an
// error when XDG_CONFIG_HOME is unset and the home directory cannot be
// resolved.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "nc"), nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "config: resolving home directory")
	}
	return filepath.Join(home, ".config", "nc"), nil
}

func configPath(dir string) string { return filepath.Join(dir, "config.yaml") }

// Load reads config.yaml from dir. A missing file returns Default() with no
// error. A present-but-invalid file logs a warning and also returns
// Default(), per spec.md §7: "invalid files cause a load-with-defaults and
// a one-time user-visible warning (no crash)".
func Load(dir string) (*Config, []string) {
	var warnings []string
	data, err := os.ReadFile(configPath(dir))
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("config: reading config.yaml: %v; using defaults", err))
		xlog.Errorf("config", "%s", warnings[len(warnings)-1])
		return Default(), warnings
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		warnings = append(warnings, fmt.Sprintf("config: parsing config.yaml: %v; using defaults", err))
		xlog.Errorf("config", "%s", warnings[len(warnings)-1])
		return Default(), warnings
	}
	if err := cfg.Validate(); err != nil {
		warnings = append(warnings, fmt.Sprintf("config: %v; using defaults", err))
		xlog.Errorf("config", "%s", warnings[len(warnings)-1])
		return Default(), warnings
	}
	return cfg, warnings
}

// Save writes cfg atomically (write-to-temp then rename) into dir, creating
// dir if necessary, and clears the dirty flag on success.
func Save(dir string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "config: creating config directory")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "config: marshaling")
	}
	if err := atomicWrite(configPath(dir), data); err != nil {
		return err
	}
	cfg.dirty = false
	return nil
}

// atomicWrite writes data to a temp file in the same directory as path,
// then renames it into place, so a crash mid-write never corrupts the
// previous file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".nc-tmp-*")
	if err != nil {
		return errors.Wrap(err, "config: creating temp file")
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrap(err, "config: writing temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "config: closing temp file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "config: renaming into place")
	}
	return nil
}

var themeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ValidThemeID enforces spec.md §4.10's "conservative character set, rejects
// path traversal patterns": alphanumeric plus dash/underscore, no dots or
// separators at all, which as a side effect rules out "..", "/", "\".
func ValidThemeID(id string) bool {
	return themeIDPattern.MatchString(id)
}
