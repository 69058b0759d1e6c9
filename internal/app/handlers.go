package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/go-nc/nc/internal/command"
	"github.com/go-nc/nc/internal/dialog"
	"github.com/go-nc/nc/internal/fsadapter"
	"github.com/go-nc/nc/internal/keybind"
	"github.com/go-nc/nc/internal/panel"
	"github.com/go-nc/nc/internal/pipeline"
	"github.com/go-nc/nc/internal/theme"
	"github.com/go-nc/nc/internal/xlog"
)

// installHandlers binds every default Action to a Handler closure over a.
// Handlers are total functions over (app state, inputs) returning an
// Effect, per spec.md §4.8 — they never mutate global state directly
// outside of what the Effect describes, except for the panel-local
// navigation/selection mutations that spec.md §4.5 treats as cheap,
// synchronous state-machine transitions.
func (a *App) installHandlers() {
	d := a.Dispatch

	d.Handle(keybind.ActionQuit, func() keybind.Effect {
		return keybind.Effect{Quit: true}
	})
	d.Handle(keybind.ActionSwitchPanel, func() keybind.Effect {
		a.Panels.Switch()
		return keybind.Effect{Redraw: true}
	})
	d.Handle(keybind.ActionHelp, func() keybind.Effect {
		return keybind.Effect{OpenDialog: "help"}
	})
	d.Handle(keybind.ActionOpenConfig, func() keybind.Effect {
		cfgDialog := a.buildConfigDialog()
		a.pushDialog(cfgDialog, func(dialog.Dialog) { a.applyConfigDialog(cfgDialog) })
		return keybind.Effect{OpenDialog: "config", Redraw: true}
	})
	d.Handle(keybind.ActionOpenMenu, func() keybind.Effect {
		menu := dialog.NewMenu(a.menuTree())
		a.pushDialog(menu, func(dialog.Dialog) { a.runMenuAction(menu) })
		return keybind.Effect{OpenDialog: "menu", Redraw: true}
	})

	d.Handle(keybind.ActionNavUp, func() keybind.Effect { a.Panels.Active().MoveCursor(-1); return keybind.Effect{Redraw: true} })
	d.Handle(keybind.ActionNavDown, func() keybind.Effect { a.Panels.Active().MoveCursor(1); return keybind.Effect{Redraw: true} })
	d.Handle(keybind.ActionPageUp, func() keybind.Effect { a.Panels.Active().PageMove(0, false); return keybind.Effect{Redraw: true} })
	d.Handle(keybind.ActionPageDown, func() keybind.Effect { a.Panels.Active().PageMove(0, true); return keybind.Effect{Redraw: true} })
	d.Handle(keybind.ActionHome, func() keybind.Effect { a.Panels.Active().Home(); return keybind.Effect{Redraw: true} })
	d.Handle(keybind.ActionEnd, func() keybind.Effect { a.Panels.Active().End(); return keybind.Effect{Redraw: true} })

	d.Handle(keybind.ActionActivate, func() keybind.Effect { return a.activate() })
	d.Handle(keybind.ActionParent, func() keybind.Effect { return a.navigateParent() })
	d.Handle(keybind.ActionHistoryBack, func() keybind.Effect { return a.historyBack() })
	d.Handle(keybind.ActionHistoryForward, func() keybind.Effect { return a.historyForward() })

	d.Handle(keybind.ActionToggleMark, func() keybind.Effect { return a.toggleMark(false) })
	d.Handle(keybind.ActionToggleMarkAndDown, func() keybind.Effect { return a.toggleMark(true) })
	d.Handle(keybind.ActionGroupSelect, func() keybind.Effect { return a.startGroupSelect(true) })
	d.Handle(keybind.ActionGroupDeselect, func() keybind.Effect { return a.startGroupSelect(false) })
	d.Handle(keybind.ActionInvertSelection, func() keybind.Effect {
		p := a.Panels.Active()
		p.Marks.InvertSelection(p.Entries())
		return keybind.Effect{Redraw: true}
	})

	d.Handle(keybind.ActionCopy, func() keybind.Effect { return a.startBulk(command.KindCopy) })
	d.Handle(keybind.ActionMove, func() keybind.Effect { return a.startBulk(command.KindMove) })
	d.Handle(keybind.ActionDelete, func() keybind.Effect { return a.startDelete() })
	d.Handle(keybind.ActionMkdir, func() keybind.Effect {
		input := dialog.NewInput("New directory name:", "", validateName)
		a.pushDialog(input, func(dialog.Dialog) {
			if input.Canceled {
				return
			}
			a.runMkdir(input.Text)
		})
		return keybind.Effect{OpenDialog: "input", Redraw: true}
	})

	d.Handle(keybind.ActionRefresh, func() keybind.Effect { return a.refresh() })
	d.Handle(keybind.ActionFind, func() keybind.Effect {
		find := dialog.NewFind(a.Panels.Active().Dir)
		a.pushDialog(find, func(dialog.Dialog) {
			if find.Canceled {
				return
			}
			if target, ok := find.Selected(); ok {
				p := a.Panels.Active()
				p.PushHistory(target)
				a.navigateTo(p, target)
			}
		})
		ctx := context.Background()
		find.Start(ctx, a.Adapter, fsadapter.NewCancelToken(), func() { a.Screen.PostEvent(tcell.NewEventInterrupt(nil)) })
		return keybind.Effect{OpenDialog: "find", Redraw: true}
	})
	d.Handle(keybind.ActionToggleHidden, func() keybind.Effect {
		p := a.Panels.Active()
		p.ShowHidden = !p.ShowHidden
		return a.reload(p)
	})
	d.Handle(keybind.ActionCycleTheme, func() keybind.Effect { return a.cycleTheme() })

	d.Handle(keybind.ActionUndo, func() keybind.Effect {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		res, err := a.History.Undo(ctx)
		if err != nil && err != command.ErrNothingToUndo {
			return keybind.Effect{OpenDialog: "error:" + err.Error(), Redraw: true}
		}
		_ = res
		return keybind.Effect{Redraw: true}
	})
	d.Handle(keybind.ActionRedo, func() keybind.Effect {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		_, err := a.History.Redo(ctx)
		if err != nil && err != command.ErrNothingToRedo {
			return keybind.Effect{OpenDialog: "error:" + err.Error(), Redraw: true}
		}
		return keybind.Effect{Redraw: true}
	})
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if name == "." || name == ".." || filepath.Base(name) != name {
		return fmt.Errorf("invalid name %q", name)
	}
	return nil
}

func (a *App) activate() keybind.Effect {
	p := a.Panels.Active()
	if target, isDir := p.EnterCursor(); isDir {
		p.PushHistory(target)
		return a.navigateTo(p, target)
	}
	return keybind.Effect{OpenDialog: "view"}
}

func (a *App) navigateParent() keybind.Effect {
	p := a.Panels.Active()
	if target, ok := p.Parent(); ok {
		p.PushHistory(target)
		return a.navigateTo(p, target)
	}
	return keybind.Effect{}
}

// historyBack traverses the active panel's back-history stack without
// mutating it (spec.md §4.8: "alt-left/right traverse history without
// mutating it" — NavigateBack itself only shuffles entries between Back
// and Forward, never pushes a fresh entry the way a normal navigation does).
func (a *App) historyBack() keybind.Effect {
	p := a.Panels.Active()
	if target, ok := p.NavigateBack(); ok {
		return a.navigateTo(p, target)
	}
	return keybind.Effect{}
}

// historyForward is historyBack's mirror image.
func (a *App) historyForward() keybind.Effect {
	p := a.Panels.Active()
	if target, ok := p.NavigateForward(); ok {
		return a.navigateTo(p, target)
	}
	return keybind.Effect{}
}

// navigateTo loads dir into p. A failure (e.g. permission denied) is
// non-fatal per spec.md §7: the panel stays on its previous directory and
// the error is surfaced through the log ring, not a crash.
func (a *App) navigateTo(p *panel.State, dir string) keybind.Effect {
	ctx := context.Background()
	if err := p.Load(ctx, a.Adapter, a.Cache, dir, false); err != nil {
		xlog.Errorf(dir, "navigation failed: %v", err)
	}
	return keybind.Effect{Redraw: true}
}

func (a *App) reload(p *panel.State) keybind.Effect {
	ctx := context.Background()
	if err := p.Load(ctx, a.Adapter, a.Cache, p.Dir, true); err != nil {
		xlog.Errorf(p.Dir, "refresh failed: %v", err)
	}
	return keybind.Effect{Redraw: true}
}

func (a *App) refresh() keybind.Effect {
	a.Cache.Invalidate(a.Panels.Left.Dir)
	a.Cache.Invalidate(a.Panels.Right.Dir)
	a.Panels.Each(func(p *panel.State) { a.reload(p) })
	return keybind.Effect{Redraw: true}
}

func (a *App) toggleMark(advance bool) keybind.Effect {
	p := a.Panels.Active()
	if e, ok := p.Current(); ok && e.Name != ".." {
		p.Marks.Toggle(e.Path)
	}
	if advance {
		p.MoveCursor(1)
	}
	return keybind.Effect{Redraw: true}
}

func (a *App) cycleTheme() keybind.Effect {
	customIDs, _ := theme.ListCustomIDs(a.ConfigDir)
	next := theme.CycleNext(a.Config.ThemeID, customIDs)
	th, warn := theme.LoadTheme(a.ConfigDir, next)
	a.Theme = th
	a.Config.ThemeID = next
	a.Config.MarkDirty()
	if warn != "" {
		a.warnings = append(a.warnings, warn)
	}
	return keybind.Effect{Redraw: true}
}

func (a *App) startBulk(kind command.Kind) keybind.Effect {
	p := a.Panels.Active()
	sources := p.Marks.Paths()
	if len(sources) == 0 {
		if e, ok := p.Current(); ok && e.Name != ".." {
			sources = []string{e.Path}
		}
	}
	if len(sources) == 0 {
		return keybind.Effect{}
	}
	destDir := a.Panels.Inactive().Dir
	conflict := dialog.NewConflict(fmt.Sprintf("%s %d item(s) to %s?", kind, len(sources), destDir))
	a.pushDialog(conflict, func(dialog.Dialog) {
		if conflict.Accepted {
			a.runBulk(kind, sources, destDir, conflict.Policy())
		}
	})
	return keybind.Effect{OpenDialog: "conflict", Redraw: true}
}

func (a *App) startDelete() keybind.Effect {
	p := a.Panels.Active()
	paths := p.Marks.Paths()
	if len(paths) == 0 {
		if e, ok := p.Current(); ok && e.Name != ".." {
			paths = []string{e.Path}
		}
	}
	if len(paths) == 0 {
		return keybind.Effect{}
	}
	confirm := dialog.NewConfirm(fmt.Sprintf("Delete %d item(s)?", len(paths)))
	a.pushDialog(confirm, func(dialog.Dialog) {
		if confirm.Accepted {
			a.runDelete(paths)
		}
	})
	return keybind.Effect{OpenDialog: "confirm", Redraw: true}
}

// runBulk drives a copy/move through the pipeline on a worker goroutine so
// the event loop keeps processing input while it runs (spec.md §5), shows
// a Progress dialog, and once done hands the History.Push (and any other
// event-loop-only state change) back via setPendingApply. Per spec.md §7,
// a record is only pushed when the primary outcome isn't outright failure.
// policy is whatever the Conflict dialog in startBulk resolved per-entry
// conflicts to (spec.md §4.7); redo replays the same policy.
func (a *App) runBulk(kind command.Kind, sources []string, destDir string, policy fsadapter.OverwritePolicy) {
	cancel := fsadapter.NewCancelToken()
	a.cancel = cancel
	opts := fsadapter.CopyOptions{Overwrite: policy, PreserveTimestamps: true}

	pd := dialog.NewProgress(kind.String(), cancel)
	a.pushDialog(pd, nil)

	go func() {
		ctx := context.Background()
		sink := func(ev fsadapter.ProgressEvent) {
			pd.Update(ev)
			a.Screen.PostEvent(tcell.NewEventInterrupt(nil))
		}
		var s *pipeline.Summary
		if kind == command.KindCopy {
			s = a.Pipeline.Copy(ctx, sources, destDir, opts, sink, cancel)
		} else {
			s = a.Pipeline.Move(ctx, sources, destDir, opts, sink, cancel)
		}
		pd.Finish(fmt.Sprintf("%s done: %d ok, %d skipped, %d failed", kind, s.SuccessCount, s.SkippedCount, s.FailureCount))

		a.setPendingApply(func(a *App) {
			if s.FailureCount > 0 && s.SuccessCount == 0 && s.SkippedCount == 0 {
				return // total failure: nothing undoable pushed, per spec.md §7
			}
			destinations := s.Destinations
			rec := command.NewRecord(kind, fmt.Sprintf("%s %d item(s)", kind, len(destinations)),
				func(ctx context.Context) error { return a.undoBulk(kind, destinations) },
				func(ctx context.Context) error {
					redoSources := make([]string, 0, len(destinations))
					for src := range destinations {
						redoSources = append(redoSources, src)
					}
					if kind == command.KindCopy {
						a.Pipeline.Copy(ctx, redoSources, destDir, opts, nil, fsadapter.NewCancelToken())
					} else {
						a.Pipeline.Move(ctx, redoSources, destDir, opts, nil, fsadapter.NewCancelToken())
					}
					return nil
				})
			a.History.Push(rec)
		})
		a.Screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()
}

func (a *App) undoBulk(kind command.Kind, destinations map[string]string) error {
	ctx := context.Background()
	for src, dst := range destinations {
		if kind == command.KindCopy {
			if _, err := a.Adapter.DeleteEntry(ctx, dst, fsadapter.DeleteOptions{Recurse: true}, nil, fsadapter.NewCancelToken()); err != nil {
				return err
			}
		} else {
			if err := a.Adapter.MoveEntry(ctx, dst, src, fsadapter.CopyOptions{}, nil, fsadapter.NewCancelToken()); err != nil {
				return err
			}
		}
	}
	a.Panels.Each(func(p *panel.State) { a.Cache.Invalidate(p.Dir) })
	return nil
}

func (a *App) runDelete(paths []string) {
	cancel := fsadapter.NewCancelToken()
	a.cancel = cancel
	delOpts := fsadapter.DeleteOptions{Recurse: true, IntoTrash: true}

	pd := dialog.NewProgress("delete", cancel)
	a.pushDialog(pd, nil)

	go func() {
		ctx := context.Background()
		sink := func(ev fsadapter.ProgressEvent) {
			pd.Update(ev)
			a.Screen.PostEvent(tcell.NewEventInterrupt(nil))
		}
		s := a.Pipeline.Delete(ctx, paths, delOpts, sink, cancel)
		pd.Finish(fmt.Sprintf("delete done: %d ok, %d failed", s.SuccessCount, s.FailureCount))

		a.setPendingApply(func(a *App) {
			if s.FailureCount > 0 && s.SuccessCount == 0 {
				return
			}
			trashed := s.Trashed
			rec := command.NewRecord(command.KindDelete, fmt.Sprintf("delete %d item(s)", len(trashed)),
				func(ctx context.Context) error {
					for src, stagedAt := range trashed {
						if stagedAt == "" {
							return fmt.Errorf("%s was unlinked directly, cannot be restored", src)
						}
						if err := a.Adapter.MoveEntry(ctx, stagedAt, src, fsadapter.CopyOptions{}, nil, fsadapter.NewCancelToken()); err != nil {
							return err
						}
					}
					return nil
				},
				func(ctx context.Context) error {
					redoPaths := make([]string, 0, len(trashed))
					for src := range trashed {
						redoPaths = append(redoPaths, src)
					}
					a.Pipeline.Delete(ctx, redoPaths, delOpts, nil, fsadapter.NewCancelToken())
					return nil
				})
			if len(trashed) > 0 {
				a.History.Push(rec)
			}
		})
		a.Screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()
}

func (a *App) menuTree() []dialog.MenuItem {
	return []dialog.MenuItem{
		{Label: "Left", Children: []dialog.MenuItem{
			{Label: "Sort by name", Action: "menu.left.sort.name"},
			{Label: "Sort by size", Action: "menu.left.sort.size"},
		}},
		{Label: "Files", Children: []dialog.MenuItem{
			{Label: "Copy", Action: string(keybind.ActionCopy)},
			{Label: "Move", Action: string(keybind.ActionMove)},
			{Label: "Delete", Action: string(keybind.ActionDelete)},
			{Label: "Mkdir", Action: string(keybind.ActionMkdir)},
		}},
		{Label: "Commands", Children: []dialog.MenuItem{
			{Label: "Find", Action: string(keybind.ActionFind)},
			{Label: "Undo", Action: string(keybind.ActionUndo)},
			{Label: "Redo", Action: string(keybind.ActionRedo)},
		}},
		{Label: "Options", Children: []dialog.MenuItem{
			{Label: "Configuration", Action: string(keybind.ActionOpenConfig)},
			{Label: "Cycle theme", Action: string(keybind.ActionCycleTheme)},
		}},
	}
}

func (a *App) buildConfigDialog() *dialog.Config {
	return dialog.NewConfig([]dialog.ConfigTab{
		{Title: "General", Fields: []dialog.ConfigField{
			{Label: "Start path", Value: a.Config.General.StartPath},
			{Label: "Confirm delete", Value: boolStr(a.Config.General.ConfirmDelete)},
		}},
		{Title: "Cache", Fields: []dialog.ConfigField{
			{Label: "Max entries", Value: fmt.Sprintf("%d", a.Config.Cache.MaxEntries)},
			{Label: "TTL seconds", Value: fmt.Sprintf("%d", a.Config.Cache.TTLSeconds)},
		}},
	})
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// startGroupSelect prompts for a glob pattern and applies it to the active
// panel's marked set (selecting=true for "+", false for "-"), per spec.md
// §4.4/§4.8's Gray+/Gray- bindings.
func (a *App) startGroupSelect(selecting bool) keybind.Effect {
	prompt := "Select files matching:"
	if !selecting {
		prompt = "Deselect files matching:"
	}
	input := dialog.NewInput(prompt, "*", nil)
	a.pushDialog(input, func(dialog.Dialog) {
		if input.Canceled {
			return
		}
		p := a.Panels.Active()
		if selecting {
			p.Marks.GroupSelect(p.Entries(), input.Text, false)
		} else {
			p.Marks.GroupDeselect(p.Entries(), input.Text, false)
		}
	})
	return keybind.Effect{OpenDialog: "input", Redraw: true}
}

// applyConfigDialog validates and persists the edited fields, or discards
// them on cancel.
func (a *App) applyConfigDialog(d *dialog.Config) {
	if !d.Applied {
		return
	}
	general := d.Tabs[0].Fields
	a.Config.General.StartPath = general[0].Value
	a.Config.General.ConfirmDelete = general[1].Value == "true"

	cache := d.Tabs[1].Fields
	if n, err := fmt.Sscanf(cache[0].Value, "%d", &a.Config.Cache.MaxEntries); err != nil || n != 1 {
		a.warnings = append(a.warnings, fmt.Sprintf("config: invalid max-entries %q, keeping previous value", cache[0].Value))
	}
	if n, err := fmt.Sscanf(cache[1].Value, "%d", &a.Config.Cache.TTLSeconds); err != nil || n != 1 {
		a.warnings = append(a.warnings, fmt.Sprintf("config: invalid ttl-seconds %q, keeping previous value", cache[1].Value))
	}
	a.Config.MarkDirty()
	if err := a.Config.Validate(); err != nil {
		a.warnings = append(a.warnings, err.Error())
		return
	}
	a.Cache.SetEnabled(a.Config.Cache.Enabled)
}

// runMenuAction dispatches the action a menu selection names, unless the
// menu was dismissed with no selection.
func (a *App) runMenuAction(m *dialog.Menu) {
	if m.Dismissed || m.Selected == "" {
		return
	}
	a.Dispatch.Invoke(keybind.Action(m.Selected))
}

// runMkdir creates a new directory under the active panel, invalidates the
// cache, reloads the panel, and pushes an undoable record (rmdir).
func (a *App) runMkdir(name string) {
	p := a.Panels.Active()
	target := filepath.Join(p.Dir, name)
	ctx := context.Background()
	if err := a.Adapter.Mkdir(ctx, target, false); err != nil {
		xlog.Errorf(target, "mkdir failed: %v", err)
		return
	}
	a.Cache.Invalidate(p.Dir)
	a.reload(p)

	rec := command.NewRecord(command.KindMkdir, fmt.Sprintf("mkdir %s", target),
		func(ctx context.Context) error {
			_, err := a.Adapter.DeleteEntry(ctx, target, fsadapter.DeleteOptions{Recurse: false}, nil, fsadapter.NewCancelToken())
			if err == nil {
				a.Cache.Invalidate(p.Dir)
			}
			return err
		},
		func(ctx context.Context) error {
			if err := a.Adapter.Mkdir(ctx, target, false); err != nil {
				return err
			}
			a.Cache.Invalidate(p.Dir)
			return nil
		})
	a.History.Push(rec)
}
