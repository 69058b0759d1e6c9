package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingRecord(kind Kind, applied *int) *Record {
	return NewRecord(kind, kind.String(),
		func(ctx context.Context) error { *applied--; return nil },
		func(ctx context.Context) error { *applied++; return nil })
}

func TestPushClearsRedo(t *testing.T) {
	h := NewHistory(0)
	applied := 1
	h.Push(countingRecord(KindMkdir, &applied))
	_, err := h.Undo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, h.RedoDepth())

	h.Push(countingRecord(KindMkdir, &applied))
	assert.Equal(t, 0, h.RedoDepth())
}

func TestUndoRedoRoundTrip(t *testing.T) {
	h := NewHistory(0)
	applied := 1
	rec := countingRecord(KindCopy, &applied)
	h.Push(rec)

	result, err := h.Undo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rec, result.Applied)
	assert.Equal(t, 0, applied)
	assert.Equal(t, 0, h.UndoDepth())
	assert.Equal(t, 1, h.RedoDepth())

	redone, err := h.Redo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rec, redone)
	assert.Equal(t, 1, applied)
	assert.Equal(t, 1, h.UndoDepth())
	assert.Equal(t, 0, h.RedoDepth())
}

func TestUndoSkipsNonReversible(t *testing.T) {
	h := NewHistory(0)
	applied := 0
	irreversible := NewRecord(KindDelete, "unstaged delete", nil, nil)
	reversible := countingRecord(KindMkdir, &applied)

	h.Push(reversible)
	h.Push(irreversible)

	result, err := h.Undo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, reversible, result.Applied)
	assert.Equal(t, []*Record{irreversible}, result.Skipped)
	assert.Equal(t, -1, applied)
}

func TestUndoEmptyHistory(t *testing.T) {
	h := NewHistory(0)
	_, err := h.Undo(context.Background())
	assert.ErrorIs(t, err, ErrNothingToUndo)
}

func TestRedoEmptyHistory(t *testing.T) {
	h := NewHistory(0)
	_, err := h.Redo(context.Background())
	assert.ErrorIs(t, err, ErrNothingToRedo)
}

func TestHistoryBoundEvictsOldest(t *testing.T) {
	h := NewHistory(2)
	applied := 0
	for i := 0; i < 5; i++ {
		h.Push(countingRecord(KindCopy, &applied))
	}
	assert.Equal(t, 2, h.UndoDepth())
}

func TestUndoPropagatesError(t *testing.T) {
	h := NewHistory(0)
	failing := NewRecord(KindMove, "bad move",
		func(ctx context.Context) error { return errors.New("boom") },
		func(ctx context.Context) error { return nil })
	h.Push(failing)
	_, err := h.Undo(context.Background())
	assert.EqualError(t, err, "boom")
}
