package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/go-nc/nc/internal/keybind"
	"github.com/go-nc/nc/internal/panel"
)

// Run attaches to the terminal event loop: a single-threaded cooperative
// loop that hosts input handling, dispatch, and rendering (spec.md §5).
// The caller owns Screen.Init/Fini; Run returns once Quit is requested.
func (a *App) Run() {
	a.draw()
	for !a.quit {
		ev := a.Screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			a.handleKey(ev)
		case *tcell.EventResize:
			a.Screen.Sync()
		case *tcell.EventInterrupt:
			// woken by a worker goroutine (progress tick or completion);
			// drainPendingApply below picks up whatever it left.
		case nil:
			a.quit = true
		}
		a.drainPendingApply()
		if !a.quit {
			a.draw()
		}
	}
}

// handleKey routes one key event: to the top dialog if one is open,
// otherwise through the dispatcher against the currently active context
// chain (spec.md §4.8's dialog > menu > quick-search > panel > global).
func (a *App) handleKey(ev *tcell.EventKey) {
	if d, ok := a.Dialogs.Top(); ok {
		if d.HandleKey(ev) {
			a.popDialog(d)
		}
		return
	}

	active := a.Panels.Active()
	if active.Mode == panel.QuickSearching {
		switch ev.Key() {
		case tcell.KeyRune:
			active.TypeKey(ev.Rune())
			return
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			active.Backspace()
			return
		case tcell.KeyEsc:
			active.EscapeQuickSearch()
			return
		default:
			// navigation keys exit search mode but preserve the buffer's
			// last position (spec.md §4.4), then fall through to normal
			// panel dispatch below.
			active.ExitQuickSearchPreservingPosition()
		}
	}

	chain := keybind.ActiveChain(false, false, active.Mode == panel.QuickSearching)
	chord := keybind.ChordFromEvent(ev)
	if effect, ok := a.Dispatch.Dispatch(chain, chord); ok {
		a.applyEffect(effect)
		return
	}
	if ev.Key() == tcell.KeyRune {
		active.TypeKey(ev.Rune())
	}
}

func (a *App) applyEffect(e keybind.Effect) {
	if e.Quit {
		a.quit = true
	}
}

func (a *App) draw() {
	drawApp(a)
}
