package keybind

import "github.com/gdamore/tcell/v2"

// Registry maps (context, chord) to an action, per context.
type Registry struct {
	bindings map[Context]map[Chord]Action
}

// NewRegistry builds an empty registry with Chain's contexts initialized.
func NewRegistry() *Registry {
	r := &Registry{bindings: map[Context]map[Chord]Action{}}
	for _, ctx := range Chain {
		r.bindings[ctx] = map[Chord]Action{}
	}
	return r
}

// Bind registers chord → action within ctx, replacing any existing binding
// for that (ctx, chord) pair. Config overrides call this after the default
// table has been loaded.
func (r *Registry) Bind(ctx Context, chord Chord, action Action) {
	r.bindings[ctx][chord] = action
}

// Resolve walks activeChain (a subsequence of Chain reflecting which
// contexts currently apply) and returns the first action bound to chord,
// along with the context it matched in.
func (r *Registry) Resolve(activeChain []Context, chord Chord) (Action, Context, bool) {
	for _, ctx := range activeChain {
		if m, ok := r.bindings[ctx]; ok {
			if action, ok := m[chord]; ok {
				return action, ctx, true
			}
		}
	}
	return "", 0, false
}

// ActiveChain builds the subsequence of Chain that applies given which
// contexts are currently live, preserving Chain's priority order.
func ActiveChain(dialogOpen, menuOpen, quickSearching bool) []Context {
	var chain []Context
	if dialogOpen {
		chain = append(chain, ContextDialog)
	}
	if menuOpen {
		chain = append(chain, ContextMenu)
	}
	if quickSearching {
		chain = append(chain, ContextQuickSearch)
	}
	chain = append(chain, ContextPanel, ContextGlobal)
	return chain
}

// Bindings returns every (context, chord, action) triple currently bound,
// for the help dialog and config-export path.
func (r *Registry) Bindings() []struct {
	Context Context
	Chord   Chord
	Action  Action
} {
	var out []struct {
		Context Context
		Chord   Chord
		Action  Action
	}
	for ctx, m := range r.bindings {
		for chord, action := range m {
			out = append(out, struct {
				Context Context
				Chord   Chord
				Action  Action
			}{ctx, chord, action})
		}
	}
	return out
}

// Default action identifiers, stable per spec.md §6 for use in config
// overrides and help text.
const (
	ActionQuit              Action = "global.quit"
	ActionSwitchPanel       Action = "global.switch-panel"
	ActionHelp              Action = "global.help"
	ActionOpenConfig        Action = "global.open-config"
	ActionOpenMenu          Action = "global.open-menu"
	ActionNavUp             Action = "panel.nav-up"
	ActionNavDown           Action = "panel.nav-down"
	ActionPageUp            Action = "panel.page-up"
	ActionPageDown          Action = "panel.page-down"
	ActionHome              Action = "panel.home"
	ActionEnd               Action = "panel.end"
	ActionActivate          Action = "panel.activate"
	ActionParent            Action = "panel.parent"
	ActionToggleMark        Action = "panel.toggle-mark"
	ActionToggleMarkAndDown Action = "panel.toggle-mark-and-down"
	ActionGroupSelect       Action = "panel.group-select"
	ActionGroupDeselect     Action = "panel.group-deselect"
	ActionInvertSelection   Action = "panel.invert-selection"
	ActionView              Action = "panel.view"
	ActionEdit              Action = "panel.edit"
	ActionCopy              Action = "panel.copy"
	ActionMove              Action = "panel.move"
	ActionMkdir             Action = "panel.mkdir"
	ActionDelete            Action = "panel.delete"
	ActionRefresh           Action = "panel.refresh"
	ActionFind              Action = "panel.find"
	ActionQuickView         Action = "panel.quick-view"
	ActionToggleHidden      Action = "panel.toggle-hidden"
	ActionCycleTheme        Action = "panel.cycle-theme"
	ActionUndo              Action = "panel.undo"
	ActionRedo              Action = "panel.redo"
	ActionHistoryBack       Action = "panel.history-back"
	ActionHistoryForward    Action = "panel.history-forward"

	ActionQuickSearchExtend = "quick-search.extend"
	ActionQuickSearchShrink = "quick-search.shrink"
	ActionQuickSearchEscape = "quick-search.escape"
)

// Defaults builds the registry from spec.md §4.8's default binding table.
func Defaults() *Registry {
	r := NewRegistry()

	r.Bind(ContextGlobal, Chord{Key: tcell.KeyF10}, ActionQuit)
	r.Bind(ContextGlobal, Chord{Key: tcell.KeyTab}, ActionSwitchPanel)
	r.Bind(ContextGlobal, Chord{Key: tcell.KeyF1}, ActionHelp)
	r.Bind(ContextGlobal, Chord{Key: tcell.KeyF9}, ActionOpenConfig)
	r.Bind(ContextGlobal, Chord{Key: tcell.KeyF2}, ActionOpenMenu)

	r.Bind(ContextPanel, Chord{Key: tcell.KeyUp}, ActionNavUp)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyDown}, ActionNavDown)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyPgUp}, ActionPageUp)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyPgDn}, ActionPageDown)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyHome}, ActionHome)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyEnd}, ActionEnd)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyEnter}, ActionActivate)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyBackspace2}, ActionParent)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyLeft}, ActionParent)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyLeft, Mods: tcell.ModAlt}, ActionHistoryBack)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyRight, Mods: tcell.ModAlt}, ActionHistoryForward)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyInsert}, ActionToggleMark)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyRune, Rune: ' '}, ActionToggleMarkAndDown)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyRune, Rune: '+'}, ActionGroupSelect)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyRune, Rune: '-'}, ActionGroupDeselect)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyRune, Rune: '*'}, ActionInvertSelection)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyF3}, ActionView)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyF4}, ActionEdit)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyF5}, ActionCopy)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyF6}, ActionMove)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyF7}, ActionMkdir)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyF8}, ActionDelete)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyCtrlR}, ActionRefresh)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyCtrlF}, ActionFind)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyCtrlQ}, ActionQuickView)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyCtrlH}, ActionToggleHidden)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyCtrlT}, ActionCycleTheme)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyCtrlZ}, ActionUndo)
	r.Bind(ContextPanel, Chord{Key: tcell.KeyCtrlY}, ActionRedo)

	return r
}

// ApplyOverrides rebinds actions named in overrides (action name → chord
// spelling, as persisted in config.keybindings) onto ctx. Malformed chord
// strings are reported but don't abort the remaining overrides, per
// spec.md §7's "invalid files degrade with a warning, never a crash".
func (r *Registry) ApplyOverrides(ctx Context, overrides map[string]string) (warnings []string) {
	for action, spelling := range overrides {
		chord, err := ParseChord(spelling)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		r.Bind(ctx, chord, Action(action))
	}
	return warnings
}
