// Package fsadapter is the filesystem adapter (C1): a uniform view over
// directory listings and metadata, and the only place that issues mutating
// filesystem calls (copy/move/delete/mkdir/rename), each with cancellation
// and progress callbacks. Platform policy — path separators, hidden-file
// detection, long-path handling, permission/ownership availability — lives
// entirely inside this package and never leaks upward.
//
// Bulk orchestration across many entries (concurrency cap, aggregate
// progress, partial-failure reporting) is the Async Operation Pipeline's
// job (internal/pipeline, C7); this package only knows how to act on one
// source path at a time, recursing into a directory tree itself when the
// source is a directory.
package fsadapter

import (
	"context"
	"time"
)

// Entry is one immutable directory entry, produced only by Adapter.List or
// Adapter.Stat. Owner/Group/Mode are populated only on platforms that
// expose them; HasOwner/HasMode say whether they are meaningful.
type Entry struct {
	Path      string
	Name      string
	IsDir     bool
	IsSymlink bool
	IsHidden  bool
	Size      int64
	ModTime   time.Time

	HasOwner bool
	Owner    string
	Group    string

	HasMode bool
	Mode    uint32 // platform permission bits, e.g. unix mode & 0777
}

// Listing is an ordered snapshot of a directory's contents as produced by
// Adapter.List. Version increases every time a fresh (non-cached) listing
// is produced, so panels and the cache can detect staleness.
type Listing struct {
	Path       string
	Entries    []Entry
	Version    uint64
	ProducedAt time.Time
}

// CancelToken is a one-shot, idempotent cancellation signal shared by a
// single long-running operation and everything that observes it.
type CancelToken struct {
	done chan struct{}
}

// NewCancelToken returns a token in the not-canceled state.
func NewCancelToken() *CancelToken {
	return &CancelToken{done: make(chan struct{})}
}

// Cancel trips the token. Safe to call more than once and from any
// goroutine; subsequent calls are no-ops.
func (t *CancelToken) Cancel() {
	select {
	case <-t.done:
	default:
		close(t.done)
	}
}

// Canceled reports whether Cancel has been called.
func (t *CancelToken) Canceled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the token is canceled, for use in
// select statements at chunk/file boundaries.
func (t *CancelToken) Done() <-chan struct{} { return t.done }

// Tick is called by the adapter as it makes progress on a single entry:
// bytesDelta bytes were just transferred (copy/move) or about to be removed
// (delete accounts bytesDelta as the size freed), and path is the file
// currently being processed (useful when an entry is itself a directory
// being recursed into).
type Tick func(path string, bytesDelta int64)

// ProgressEvent is a rate-limited snapshot of a bulk operation's progress,
// as reported by the pipeline (C7) to a progress dialog (C9).
type ProgressEvent struct {
	FilesCompleted int
	FilesTotal     int
	BytesCompleted int64
	BytesTotal     int64 // -1 when unknown (e.g. a directory source not yet sized)
	CurrentPath    string
}

// ProgressSink receives ProgressEvents. Called from whatever goroutine is
// driving the operation; implementations must not block.
type ProgressSink func(ProgressEvent)

// OverwritePolicy governs what happens when a copy/move destination already
// exists.
type OverwritePolicy int

const (
	OverwriteFail OverwritePolicy = iota
	OverwriteReplace
	OverwriteSkip
	OverwriteRenameSuffix
)

// String renders the policy the way the conflict dialog and status line
// show it to the user.
func (p OverwritePolicy) String() string {
	switch p {
	case OverwriteFail:
		return "fail"
	case OverwriteReplace:
		return "overwrite"
	case OverwriteSkip:
		return "skip"
	case OverwriteRenameSuffix:
		return "rename"
	default:
		return "unknown"
	}
}

// ErrSkipped is returned by CopyEntry/MoveEntry when OverwriteSkip applied
// and nothing was done; callers treat this as a distinguished non-error
// outcome (OperationSummary.SkippedCount), not a failure.
var ErrSkipped = skipErr{}

type skipErr struct{}

func (skipErr) Error() string { return "skipped: destination exists" }

// CopyOptions configures CopyEntry and MoveEntry (move falls back to
// copy+delete across devices and uses the same conflict handling).
type CopyOptions struct {
	Overwrite          OverwritePolicy
	PreserveTimestamps bool
	FollowSymlinks     bool
	ChunkSize          int // bytes; 0 selects the adapter's default (64 KiB)
}

// DeleteOptions configures DeleteEntry.
type DeleteOptions struct {
	Recurse   bool
	IntoTrash bool
}

// Adapter is the uniform filesystem interface C1 exposes. The only
// implementation shipped is Local; the interface exists so tests and the
// pipeline can substitute an in-memory fake.
type Adapter interface {
	List(ctx context.Context, path string, showHidden bool) (*Listing, error)
	Stat(ctx context.Context, path string) (Entry, error)

	// CopyEntry copies src (file or directory, recursively) to dst. On
	// success for a directory copy, dst is created if missing.
	CopyEntry(ctx context.Context, src, dst string, opts CopyOptions, tick Tick, cancel *CancelToken) error
	// MoveEntry moves src to dst: a same-device rename when possible,
	// otherwise CopyEntry followed by DeleteEntry of the source.
	MoveEntry(ctx context.Context, src, dst string, opts CopyOptions, tick Tick, cancel *CancelToken) error
	// DeleteEntry removes path. If opts.IntoTrash, a best-effort move to
	// a platform trash/staging area is attempted first; TrashedTo reports
	// where it landed (empty if unlinked directly), for C6's undo staging.
	DeleteEntry(ctx context.Context, path string, opts DeleteOptions, tick Tick, cancel *CancelToken) (trashedTo string, err error)

	Mkdir(ctx context.Context, path string, createParents bool) error
	Rename(ctx context.Context, path, newName string) error
}
