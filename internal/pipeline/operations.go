package pipeline

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/go-nc/nc/internal/errkind"
	"github.com/go-nc/nc/internal/fsadapter"
)

// subtaskResult is what one source path produced.
type subtaskResult struct {
	source      string
	destination string // final destination used, for Copy/Move
	trashedTo   string // for Delete
	err         error
}

// runSubtasks fans work out over at most p.Concurrency goroutines, one per
// source path, honoring cancel and ctx, and collects results in source
// order. Once cancel is tripped no new subtask starts; the remaining
// sources are recorded as canceled. Each worker slot reports its current
// path to state for the progress ticker.
func (p *Pipeline) runSubtasks(ctx context.Context, sources []string, state *progressState, cancel *fsadapter.CancelToken, work func(slot int, source string) subtaskResult) []subtaskResult {
	results := make([]subtaskResult, len(sources))
	sem := semaphore.NewWeighted(p.Concurrency)
	var wg sync.WaitGroup

	for i, src := range sources {
		if cancel.Canceled() {
			results[i] = subtaskResult{source: src, err: errkind.Wrap(errkind.Canceled, src, errkind.ErrCanceled)}
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			// context canceled while queued: record as canceled and move on
			// without spawning the worker.
			results[i] = subtaskResult{source: src, err: ctx.Err()}
			continue
		}
		wg.Add(1)
		go func(i int, src string) {
			defer wg.Done()
			defer sem.Release(1)
			slot := i % int(p.Concurrency)
			state.setCurrent(slot, src)
			results[i] = work(slot, src)
			state.clearCurrent(slot)
			state.fileDone()
		}(i, src)
	}
	wg.Wait()
	return results
}

// sizeOfSources estimates bytes-total for the progress header: the sum of
// top-level source sizes when every source is a plain file, or -1 (unknown)
// as soon as any source is a directory, since sizing a tree requires a walk
// the caller hasn't asked for.
func sizeOfSources(ctx context.Context, adapter fsadapter.Adapter, sources []string) int64 {
	var total int64
	for _, src := range sources {
		e, err := adapter.Stat(ctx, src)
		if err != nil {
			return -1
		}
		if e.IsDir {
			return -1
		}
		total += e.Size
	}
	return total
}

func summarize(results []subtaskResult, canceled bool) *Summary {
	s := &Summary{
		Trashed:      map[string]string{},
		Destinations: map[string]string{},
	}
	for _, r := range results {
		switch {
		case r.err == nil:
			s.SuccessCount++
			if r.destination != "" {
				s.Destinations[r.source] = r.destination
			}
			if r.trashedTo != "" {
				s.Trashed[r.source] = r.trashedTo
			}
		case r.err == fsadapter.ErrSkipped:
			s.SkippedCount++
		default:
			s.FailureCount++
			ee := classifyErr(r.err)
			ee.Path = r.source
			s.Errors = append(s.Errors, ee)
			sinkLog(r.source, r.err)
		}
	}
	s.Outcome = computeOutcome(s.SuccessCount, s.SkippedCount, s.FailureCount, len(results), canceled)
	return s
}

// Copy copies every path in sources into destDir, each as an independent
// subtask bounded by Concurrency, reporting rate-limited aggregate progress
// and invalidating the cache for destDir once done.
func (p *Pipeline) Copy(ctx context.Context, sources []string, destDir string, opts fsadapter.CopyOptions, progress fsadapter.ProgressSink, cancel *fsadapter.CancelToken) *Summary {
	state := newProgressState(len(sources), sizeOfSources(ctx, p.Adapter, sources))
	stop := make(chan struct{})
	go runTicker(state, progress, p.ProgressInterval, stop)

	results := p.runSubtasks(ctx, sources, state, cancel, func(slot int, src string) subtaskResult {
		dst := fsadapter.DestPathFor(destDir, src)
		tick := func(path string, delta int64) {
			state.addBytes(delta)
			state.setCurrent(slot, path)
		}
		err := p.Adapter.CopyEntry(ctx, src, dst, opts, tick, cancel)
		return subtaskResult{source: src, destination: dst, err: err}
	})
	close(stop)

	p.invalidateParents(destDir)
	return summarize(results, cancel.Canceled())
}

// Move moves every path in sources into destDir. Cross-device moves fall
// back to copy+delete inside fsadapter.MoveEntry; per spec.md §9, a move
// canceled mid-flight is not rolled back — files already moved stay moved.
func (p *Pipeline) Move(ctx context.Context, sources []string, destDir string, opts fsadapter.CopyOptions, progress fsadapter.ProgressSink, cancel *fsadapter.CancelToken) *Summary {
	state := newProgressState(len(sources), sizeOfSources(ctx, p.Adapter, sources))
	stop := make(chan struct{})
	go runTicker(state, progress, p.ProgressInterval, stop)

	results := p.runSubtasks(ctx, sources, state, cancel, func(slot int, src string) subtaskResult {
		dst := fsadapter.DestPathFor(destDir, src)
		tick := func(path string, delta int64) {
			state.addBytes(delta)
			state.setCurrent(slot, path)
		}
		err := p.Adapter.MoveEntry(ctx, src, dst, opts, tick, cancel)
		return subtaskResult{source: src, destination: dst, err: err}
	})
	close(stop)

	sourceDirs := make([]string, 0, len(sources)+1)
	sourceDirs = append(sourceDirs, destDir)
	sourceDirs = append(sourceDirs, sources...)
	p.invalidateParents(sourceDirs...)
	return summarize(results, cancel.Canceled())
}

// Delete removes every path in paths, staging into trash when opts.IntoTrash
// is set. Each path's parent directory is invalidated individually since
// paths may span multiple directories (a marked-set delete across one panel
// always shares a parent, but Find-triggered deletes need not).
func (p *Pipeline) Delete(ctx context.Context, paths []string, opts fsadapter.DeleteOptions, progress fsadapter.ProgressSink, cancel *fsadapter.CancelToken) *Summary {
	state := newProgressState(len(paths), -1)
	stop := make(chan struct{})
	go runTicker(state, progress, p.ProgressInterval, stop)

	results := p.runSubtasks(ctx, paths, state, cancel, func(slot int, src string) subtaskResult {
		tick := func(path string, delta int64) {
			state.addBytes(delta)
			state.setCurrent(slot, path)
		}
		trashedTo, err := p.Adapter.DeleteEntry(ctx, src, opts, tick, cancel)
		return subtaskResult{source: src, trashedTo: trashedTo, err: err}
	})
	close(stop)

	p.invalidateParents(paths...)
	return summarize(results, cancel.Canceled())
}

// ContainsSelfOrAncestor reports whether a bulk destination is one of the
// sources or nested inside one (spec.md §4.7's "refuse a destination that
// is a source or nested inside one"). Copy and Move do not call it.
func ContainsSelfOrAncestor(destDir string, sources []string) bool {
	clean := filepath.Clean(destDir)
	for _, src := range sources {
		s := filepath.Clean(src)
		if clean == s {
			return true
		}
		rel, err := filepath.Rel(s, clean)
		if err == nil && rel != ".." && !filepath.IsAbs(rel) && len(rel) > 0 && rel[0] != '.' {
			return true
		}
	}
	return false
}
