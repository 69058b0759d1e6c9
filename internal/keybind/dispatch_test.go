package keybind

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchRunsBoundHandler(t *testing.T) {
	reg := NewRegistry()
	chord := Chord{Key: tcell.KeyF5}
	reg.Bind(ContextPanel, chord, Action("panel.copy"))

	d := NewDispatcher(reg)
	var ran bool
	d.Handle(Action("panel.copy"), func() Effect { ran = true; return Effect{Redraw: true} })

	effect, ok := d.Dispatch(ActiveChain(false, false, false), chord)
	require.True(t, ok)
	assert.True(t, ran)
	assert.True(t, effect.Redraw)
}

func TestDispatchUnboundChordFails(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)
	_, ok := d.Dispatch(ActiveChain(false, false, false), Chord{Key: tcell.KeyF12})
	assert.False(t, ok)
}

func TestDispatchActionWithNoHandlerFails(t *testing.T) {
	reg := NewRegistry()
	chord := Chord{Key: tcell.KeyF5}
	reg.Bind(ContextPanel, chord, Action("panel.copy"))
	d := NewDispatcher(reg)
	_, ok := d.Dispatch(ActiveChain(false, false, false), chord)
	assert.False(t, ok)
}

func TestInvokeBypassesChordResolution(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)
	var ran bool
	d.Handle(Action("menu.pick"), func() Effect { ran = true; return Effect{} })

	_, ok := d.Invoke(Action("menu.pick"))
	require.True(t, ok)
	assert.True(t, ran)

	_, ok = d.Invoke(Action("nonexistent"))
	assert.False(t, ok)
}
