// Package app is the Application Shell (C11): it composes the panel pair,
// dispatcher, pipeline, command history, and dialog stack, and owns the
// terminal event loop. Startup loads config and themes; shutdown persists
// state and cancels in-flight operations with a short grace period.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/go-nc/nc/internal/command"
	"github.com/go-nc/nc/internal/dialog"
	"github.com/go-nc/nc/internal/dircache"
	"github.com/go-nc/nc/internal/fsadapter"
	"github.com/go-nc/nc/internal/keybind"
	"github.com/go-nc/nc/internal/panel"
	"github.com/go-nc/nc/internal/pipeline"
	"github.com/go-nc/nc/internal/theme"
	"github.com/go-nc/nc/internal/xlog"
)

// shutdownGrace is how long shutdown sleeps after tripping the cancel token
// of the last started operation, giving it time to notice cancellation
// before the process exits (spec.md §4.11).
const shutdownGrace = 2 * time.Second

// App wires C1 through C10 into one runnable shell.
type App struct {
	Screen tcell.Screen

	Adapter  fsadapter.Adapter
	Cache    *dircache.Cache
	Pipeline *pipeline.Pipeline
	History  *command.History
	Panels   *panel.Pair
	Dialogs  dialog.Stack
	Dispatch *keybind.Dispatcher

	ConfigDir string
	Config    *theme.Config
	Theme     *theme.Theme

	cancel        *fsadapter.CancelToken
	quit          bool
	warnings      []string
	continuations []func(dialog.Dialog)

	pendingMu     sync.Mutex
	pendingApply  func(*App) // set by a worker goroutine, drained on the event-loop goroutine
}

// pushDialog opens d and records the continuation to run with it once it
// reports submission (dialogs never act directly; this is how Effects of
// "open a dialog, then do X with what it collected" get threaded through
// the stack, per spec.md §4.9: "dialogs ... emit an action back to C8/C7").
func (a *App) pushDialog(d dialog.Dialog, onSubmit func(dialog.Dialog)) {
	a.Dialogs.Push(d)
	a.continuations = append(a.continuations, onSubmit)
}

// popDialog closes the top dialog and runs its continuation, if any.
func (a *App) popDialog(d dialog.Dialog) {
	a.Dialogs.Pop()
	if len(a.continuations) == 0 {
		return
	}
	cont := a.continuations[len(a.continuations)-1]
	a.continuations = a.continuations[:len(a.continuations)-1]
	if cont != nil {
		cont(d)
	}
}

// Options configures New, letting cmd/nc override discovery of config
// paths and initial directories without poking at App internals.
type Options struct {
	ConfigDir   string // empty selects theme.ConfigDir()
	LeftStart   string // empty selects config.panels.left.start-path
	RightStart  string
	LogFile     string
	NoColor     bool
}

// New constructs an App: loads config and themes, builds both panels from
// their configured starting paths, and wires the default keybinding table.
func New(screen tcell.Screen, opts Options) (*App, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := theme.ConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	cfg, warnings := theme.Load(configDir)
	th, warn := theme.LoadTheme(configDir, cfg.ThemeID)
	if warn != "" {
		warnings = append(warnings, warn)
	}
	if opts.NoColor {
		th = theme.NoColor()
	}
	for _, w := range warnings {
		xlog.Errorf("startup", "%s", w)
	}

	adapter := fsadapter.NewLocal()
	cache := dircache.New(cfg.Cache.MaxEntries, time.Duration(cfg.Cache.TTLSeconds)*time.Second, cfg.Cache.Enabled)

	leftStart := firstNonEmpty(opts.LeftStart, cfg.PanelLeft.StartPath, cfg.General.StartPath, ".")
	rightStart := firstNonEmpty(opts.RightStart, cfg.PanelRight.StartPath, cfg.General.StartPath, ".")

	left := panel.New(leftStart, cfg.General.ShowHidden)
	left.Sort = cfg.PanelLeft.SortDescriptor()
	left.View = cfg.PanelLeft.View()
	right := panel.New(rightStart, cfg.General.ShowHidden)
	right.Sort = cfg.PanelRight.SortDescriptor()
	right.View = cfg.PanelRight.View()

	a := &App{
		Screen:    screen,
		Adapter:   adapter,
		Cache:     cache,
		Pipeline:  pipeline.New(adapter, cache),
		History:   command.NewHistory(command.DefaultBound),
		Panels:    panel.NewPair(left, right),
		ConfigDir: configDir,
		Config:    cfg,
		Theme:     th,
		warnings:  warnings,
	}

	reg := keybind.Defaults()
	for action, chord := range cfg.Keybindings {
		c, err := keybind.ParseChord(chord)
		if err != nil {
			a.warnings = append(a.warnings, fmt.Sprintf("config: keybindings.%s: %v", action, err))
			continue
		}
		reg.Bind(keybind.ContextPanel, c, keybind.Action(action))
	}
	a.Dispatch = keybind.NewDispatcher(reg)
	a.installHandlers()

	ctx := context.Background()
	if err := a.Panels.Left.Load(ctx, adapter, cache, left.Dir, false); err != nil {
		xlog.Errorf(left.Dir, "initial listing failed: %v", err)
	}
	if err := a.Panels.Right.Load(ctx, adapter, cache, right.Dir, false); err != nil {
		xlog.Errorf(right.Dir, "initial listing failed: %v", err)
	}

	return a, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// setPendingApply records a closure a worker goroutine wants run on the
// event-loop goroutine once it notices completion (spec.md §5: PanelState,
// DirectoryCache, and command.History are only ever touched from the
// event-loop task).
func (a *App) setPendingApply(fn func(*App)) {
	a.pendingMu.Lock()
	a.pendingApply = fn
	a.pendingMu.Unlock()
}

// drainPendingApply runs and clears any pending closure; called by the
// event loop after every event it processes.
func (a *App) drainPendingApply() {
	a.pendingMu.Lock()
	fn := a.pendingApply
	a.pendingApply = nil
	a.pendingMu.Unlock()
	if fn != nil {
		fn(a)
	}
}

// Quit requests shell shutdown after the current event is processed.
func (a *App) Quit() { a.quit = true }

// Warnings returns load-time warnings accumulated during New, for a
// one-time startup banner (spec.md §7).
func (a *App) Warnings() []string { return a.warnings }

// Shutdown records both panels' directories, saves the config, and, if an
// operation was ever started, cancels it and sleeps the full shutdownGrace
// (whether or not that operation is still running).
func (a *App) Shutdown() {
	a.Config.PanelLeft.StartPath = a.Panels.Left.Dir
	a.Config.PanelRight.StartPath = a.Panels.Right.Dir
	a.Config.MarkDirty()
	if a.Config.Dirty() {
		if err := theme.Save(a.ConfigDir, a.Config); err != nil {
			xlog.Errorf("shutdown", "saving config: %v", err)
		}
	}
	if a.cancel != nil {
		a.cancel.Cancel()
		time.Sleep(shutdownGrace)
	}
}
