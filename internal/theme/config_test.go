package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-nc/nc/internal/sortview"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidateRejectsBadFields(t *testing.T) {
	cfg := Default()
	cfg.Cache.MaxEntries = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.PanelLeft.SortKey = "alphabetical"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.ThemeID = "../etc"
	assert.Error(t, cfg.Validate())
}

func TestPanelConfigSortDescriptor(t *testing.T) {
	p := PanelConfig{SortKey: "size", SortDirection: "desc"}
	d := p.SortDescriptor()
	assert.Equal(t, sortview.KeySize, d.Key)
	assert.Equal(t, sortview.Descending, d.Direction)

	p = PanelConfig{SortKey: "bogus"}
	d = p.SortDescriptor()
	assert.Equal(t, sortview.Default.Key, d.Key)
}

func TestPanelConfigView(t *testing.T) {
	assert.Equal(t, sortview.Brief, PanelConfig{ViewMode: "brief"}.View())
	assert.Equal(t, sortview.Info, PanelConfig{ViewMode: "info"}.View())
	assert.Equal(t, sortview.Full, PanelConfig{ViewMode: "anything-else"}.View())
}

func TestLoadMissingFileReturnsDefaultsNoWarning(t *testing.T) {
	dir := t.TempDir()
	cfg, warnings := Load(dir)
	assert.Empty(t, warnings)
	assert.Equal(t, Default(), cfg)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.ThemeID = "nc-light"
	cfg.Cache.MaxEntries = 42
	require.NoError(t, Save(dir, cfg))
	assert.False(t, cfg.Dirty())

	loaded, warnings := Load(dir)
	assert.Empty(t, warnings)
	assert.Equal(t, "nc-light", loaded.ThemeID)
	assert.Equal(t, 42, loaded.Cache.MaxEntries)
}

func TestLoadInvalidFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("not: [valid: yaml"), 0o600))
	cfg, warnings := Load(dir)
	assert.NotEmpty(t, warnings)
	assert.Equal(t, Default(), cfg)
}

func TestValidThemeIDRejectsTraversal(t *testing.T) {
	assert.True(t, ValidThemeID("nc-dark"))
	assert.True(t, ValidThemeID("My_Theme-2"))
	assert.False(t, ValidThemeID("../etc"))
	assert.False(t, ValidThemeID("a/b"))
	assert.False(t, ValidThemeID(""))
}
