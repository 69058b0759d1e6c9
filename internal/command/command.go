// Package command implements the Command & Undo Engine (C6): every
// mutating user action reified as a do/undo pair, kept in bounded undo and
// redo stacks.
package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/go-nc/nc/internal/xlog"
)

// Kind identifies which mutating verb a Record represents.
type Kind int

const (
	KindCopy Kind = iota
	KindMove
	KindDelete
	KindMkdir
	KindRename
)

func (k Kind) String() string {
	switch k {
	case KindCopy:
		return "copy"
	case KindMove:
		return "move"
	case KindDelete:
		return "delete"
	case KindMkdir:
		return "mkdir"
	case KindRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Record is a reified, possibly-reversible mutating command. Do has
// already run by the time a Record is pushed onto the history (Push
// records successful dispatches, per spec.md §4.6); Undo is nil when the
// reverse is unavailable (e.g. an unstaged delete).
type Record struct {
	ID      uuid.UUID
	Kind    Kind
	Summary string

	// Undo reverses the already-applied Do. Nil means "not reversible":
	// the record is kept for auditability but Undo() skips past it.
	Undo func(ctx context.Context) error
	// Redo re-applies Do after an Undo. Required whenever Undo is non-nil.
	Redo func(ctx context.Context) error
}

// NewRecord builds a Record with a fresh id.
func NewRecord(kind Kind, summary string, undo, redo func(ctx context.Context) error) *Record {
	return &Record{ID: uuid.New(), Kind: kind, Summary: summary, Undo: undo, Redo: redo}
}

// Reversible reports whether this record can be undone.
func (r *Record) Reversible() bool { return r.Undo != nil }

// DefaultBound is the default history depth, per spec.md §4.6.
const DefaultBound = 100

// History holds the bounded undo/redo stacks shared by both panels (a
// single global history, as in every Commander-lineage file manager).
type History struct {
	undo  []*Record
	redo  []*Record
	bound int
}

// NewHistory constructs a History bounded to at most `bound` entries per
// stack; bound <= 0 uses DefaultBound.
func NewHistory(bound int) *History {
	if bound <= 0 {
		bound = DefaultBound
	}
	return &History{bound: bound}
}

// Push records a newly-applied command, clearing the redo stack (a new
// command invalidates any previously-undone future), per spec.md §4.6:
// "Performing a new command clears redo."
func (h *History) Push(r *Record) {
	h.undo = append(h.undo, r)
	if len(h.undo) > h.bound {
		h.undo = h.undo[len(h.undo)-h.bound:]
	}
	h.redo = nil
}

// UndoResult reports what Undo actually did.
type UndoResult struct {
	Applied *Record   // the record whose Undo ran, nil if none did
	Skipped []*Record // non-reversible records encountered and skipped
}

// Undo pops from the undo stack until it finds a reversible record (or the
// stack is exhausted), running its Undo closure and pushing it onto redo.
// Records with no reverse are surfaced in Skipped — per spec.md §4.6, "the
// engine skips past them when the user invokes undo, surfacing a notice" —
// and are permanently dropped from the undo stack (they can never become
// undoable by being revisited).
func (h *History) Undo(ctx context.Context) (UndoResult, error) {
	var result UndoResult
	for len(h.undo) > 0 {
		r := h.undo[len(h.undo)-1]
		h.undo = h.undo[:len(h.undo)-1]
		if !r.Reversible() {
			xlog.Infof(r.Summary, "command has no undo, skipping")
			result.Skipped = append(result.Skipped, r)
			continue
		}
		if err := r.Undo(ctx); err != nil {
			return result, err
		}
		h.redo = append(h.redo, r)
		result.Applied = r
		return result, nil
	}
	return result, ErrNothingToUndo
}

// Redo re-applies the most recently undone record, if any.
func (h *History) Redo(ctx context.Context) (*Record, error) {
	if len(h.redo) == 0 {
		return nil, ErrNothingToRedo
	}
	r := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	if err := r.Redo(ctx); err != nil {
		return nil, err
	}
	h.undo = append(h.undo, r)
	if len(h.undo) > h.bound {
		h.undo = h.undo[len(h.undo)-h.bound:]
	}
	return r, nil
}

// UndoDepth and RedoDepth report current stack sizes, for the invariant
// checks in spec.md §8 (undo stack depth ≤ bound; redo empty right after a
// new push).
func (h *History) UndoDepth() int { return len(h.undo) }
func (h *History) RedoDepth() int { return len(h.redo) }

// sentinel errors
type historyError string

func (e historyError) Error() string { return string(e) }

const (
	ErrNothingToUndo = historyError("nothing to undo")
	ErrNothingToRedo = historyError("nothing to redo")
)
