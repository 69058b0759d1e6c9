package keybind

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChordStringAndParseRoundTrip(t *testing.T) {
	for _, s := range []string{"F5", "Ctrl+R", "Alt+Shift+F10", "Gray+", "Gray-", "Space"} {
		c, err := ParseChord(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, c.String(), s)
	}
}

func TestParseChordSingleRune(t *testing.T) {
	c, err := ParseChord("a")
	require.NoError(t, err)
	assert.Equal(t, tcell.KeyRune, c.Key)
	assert.Equal(t, 'a', c.Rune)
}

func TestParseChordErrors(t *testing.T) {
	for _, s := range []string{"", "Bogus+R", "F99"} {
		_, err := ParseChord(s)
		assert.Error(t, err, s)
	}
}

func TestChordFromEvent(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModCtrl)
	c := ChordFromEvent(ev)
	assert.Equal(t, tcell.KeyRune, c.Key)
	assert.Equal(t, 'x', c.Rune)
	assert.Equal(t, tcell.ModCtrl, c.Mods)

	ev2 := tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone)
	c2 := ChordFromEvent(ev2)
	assert.Equal(t, tcell.KeyF5, c2.Key)
	assert.Equal(t, rune(0), c2.Rune)
}

func TestActiveChainOrder(t *testing.T) {
	assert.Equal(t, []Context{ContextPanel, ContextGlobal}, ActiveChain(false, false, false))
	assert.Equal(t, []Context{ContextQuickSearch, ContextPanel, ContextGlobal}, ActiveChain(false, false, true))
	assert.Equal(t, []Context{ContextDialog, ContextMenu, ContextQuickSearch, ContextPanel, ContextGlobal},
		ActiveChain(true, true, true))
}

func TestResolvePrefersMostSpecificContext(t *testing.T) {
	r := NewRegistry()
	chord := Chord{Key: tcell.KeyEsc}
	r.Bind(ContextGlobal, chord, Action("global.cancel"))
	r.Bind(ContextDialog, chord, Action("dialog.cancel"))

	action, ctx, ok := r.Resolve(ActiveChain(true, false, false), chord)
	require.True(t, ok)
	assert.Equal(t, Action("dialog.cancel"), action)
	assert.Equal(t, ContextDialog, ctx)

	action, ctx, ok = r.Resolve(ActiveChain(false, false, false), chord)
	require.True(t, ok)
	assert.Equal(t, Action("global.cancel"), action)
	assert.Equal(t, ContextGlobal, ctx)
}

func TestResolveNoMatch(t *testing.T) {
	r := NewRegistry()
	_, _, ok := r.Resolve(ActiveChain(false, false, false), Chord{Key: tcell.KeyF12})
	assert.False(t, ok)
}

func TestDefaultsBindQuit(t *testing.T) {
	reg := Defaults()
	action, _, ok := reg.Resolve(ActiveChain(false, false, false), Chord{Key: tcell.KeyF10})
	require.True(t, ok)
	assert.Equal(t, ActionQuit, action)
}
