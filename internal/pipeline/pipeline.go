// Package pipeline implements the Async Operation Pipeline (C7): it
// orchestrates bulk copy/move/delete across many source paths without
// blocking input — concurrency cap, rate-limited progress, cancellation,
// and a deterministic partial-failure report.
package pipeline

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/go-nc/nc/internal/dircache"
	"github.com/go-nc/nc/internal/errkind"
	"github.com/go-nc/nc/internal/fsadapter"
	"github.com/go-nc/nc/internal/xlog"
)

// Defaults match spec.md §4.7.
const (
	DefaultConcurrency      = 10
	DefaultProgressInterval = 100 * time.Millisecond
)

// Outcome summarizes a bulk operation's overall result.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomePartial
	OutcomeFailure
	OutcomeCanceled
)

// EntryError records one per-entry failure within a bulk operation.
type EntryError struct {
	Path    string
	Kind    string
	Message string
}

// Summary is the OperationSummary of spec.md §3/§4.7.
type Summary struct {
	Outcome      Outcome
	SuccessCount int
	SkippedCount int
	FailureCount int
	Errors       []EntryError

	// Trashed maps a successfully-deleted source path to where it was
	// staged (empty string if it was unlinked directly), so C6 can build
	// an undo closure for a staged delete.
	Trashed map[string]string
	// Destinations maps a successfully-copied/moved source path to the
	// final destination path actually used (after conflict resolution,
	// e.g. a rename-with-suffix), so C6 can build an undo closure.
	Destinations map[string]string
}

// Pipeline is the bulk-operation orchestrator. One Pipeline is shared by
// the whole application; each call to Copy/Move/Delete is one operation.
type Pipeline struct {
	Adapter          fsadapter.Adapter
	Cache            *dircache.Cache
	Concurrency      int64
	ProgressInterval time.Duration
}

// New constructs a Pipeline with spec-mandated defaults.
func New(adapter fsadapter.Adapter, cache *dircache.Cache) *Pipeline {
	return &Pipeline{
		Adapter:          adapter,
		Cache:            cache,
		Concurrency:      DefaultConcurrency,
		ProgressInterval: DefaultProgressInterval,
	}
}

// progressState is the live counters a running operation reports. runTicker
// sends a snapshot every ProgressInterval and once more when the operation
// ends; a subtask starting or finishing does not trigger a report of its
// own.
type progressState struct {
	mu             sync.Mutex
	filesCompleted int
	filesTotal     int
	bytesCompleted int64
	bytesTotal     int64
	currentPaths   map[int]string // per in-flight slot, for a representative "current path"
}

func newProgressState(filesTotal int, bytesTotal int64) *progressState {
	return &progressState{filesTotal: filesTotal, bytesTotal: bytesTotal, currentPaths: map[int]string{}}
}

func (p *progressState) snapshot() fsadapter.ProgressEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var cur string
	for _, v := range p.currentPaths {
		cur = v // arbitrary representative; good enough for a status line
	}
	return fsadapter.ProgressEvent{
		FilesCompleted: p.filesCompleted,
		FilesTotal:     p.filesTotal,
		BytesCompleted: p.bytesCompleted,
		BytesTotal:     p.bytesTotal,
		CurrentPath:    cur,
	}
}

func (p *progressState) setCurrent(slot int, path string) {
	p.mu.Lock()
	p.currentPaths[slot] = path
	p.mu.Unlock()
}

func (p *progressState) clearCurrent(slot int) {
	p.mu.Lock()
	delete(p.currentPaths, slot)
	p.mu.Unlock()
}

func (p *progressState) addBytes(delta int64) {
	p.mu.Lock()
	p.bytesCompleted += delta
	p.mu.Unlock()
}

func (p *progressState) fileDone() {
	p.mu.Lock()
	p.filesCompleted++
	p.mu.Unlock()
}

// runTicker emits progress at most every interval until stop is closed,
// guaranteeing monotonic (files-completed, bytes-completed) per spec.md §5
// since both counters only ever increase.
func runTicker(state *progressState, sink fsadapter.ProgressSink, interval time.Duration, stop <-chan struct{}) {
	if sink == nil {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			sink(state.snapshot())
			return
		case <-t.C:
			sink(state.snapshot())
		}
	}
}

// invalidateParents tells the directory cache that every unique parent
// directory in paths must be re-listed, per spec.md §4.2/§4.7: cache
// invalidation for a path precedes any panel refresh that would display
// it.
func (p *Pipeline) invalidateParents(paths ...string) {
	seen := map[string]struct{}{}
	for _, path := range paths {
		if path == "" {
			continue
		}
		dir := filepath.Dir(path)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		p.Cache.Invalidate(dir)
	}
}

func classifyErr(err error) EntryError {
	return EntryError{Kind: errkind.Classify(err).String(), Message: err.Error()}
}

func computeOutcome(success, skipped, failure, total int, canceled bool) Outcome {
	if canceled {
		return OutcomeCanceled
	}
	if failure == 0 {
		return OutcomeSuccess
	}
	if success+skipped > 0 {
		return OutcomePartial
	}
	return OutcomeFailure
}

func sinkLog(path string, err error) {
	xlog.Errorf(path, "operation failed: %v", err)
}
