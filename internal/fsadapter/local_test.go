package fsadapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestListExcludesDotAndDotDot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	l := NewLocal()
	listing, err := l.List(context.Background(), dir, true)
	require.NoError(t, err)

	var names []string
	for _, e := range listing.Entries {
		names = append(names, e.Name)
	}
	assert.ElementsMatch(t, []string{"a.txt", "sub"}, names)
}

func TestListHidesDotfilesUnlessShowHidden(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".hidden"), "h")
	writeFile(t, filepath.Join(dir, "visible.txt"), "v")

	l := NewLocal()
	listing, err := l.List(context.Background(), dir, false)
	require.NoError(t, err)
	assert.Len(t, listing.Entries, 1)
	assert.Equal(t, "visible.txt", listing.Entries[0].Name)

	listing, err = l.List(context.Background(), dir, true)
	require.NoError(t, err)
	assert.Len(t, listing.Entries, 2)
}

func TestListVersionIncreasesEachCall(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal()
	first, err := l.List(context.Background(), dir, true)
	require.NoError(t, err)
	second, err := l.List(context.Background(), dir, true)
	require.NoError(t, err)
	assert.Greater(t, second.Version, first.Version)
}

func TestListNonexistentDirReturnsError(t *testing.T) {
	l := NewLocal()
	_, err := l.List(context.Background(), filepath.Join(t.TempDir(), "ghost"), true)
	assert.Error(t, err)
}

func TestStatReturnsEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	writeFile(t, path, "hello")

	l := NewLocal()
	e, err := l.Stat(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "f.txt", e.Name)
	assert.False(t, e.IsDir)
	assert.EqualValues(t, 5, e.Size)
}

func TestMkdirSingleLevel(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal()
	target := filepath.Join(dir, "sub")
	require.NoError(t, l.Mkdir(context.Background(), target, false))
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestMkdirWithParents(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal()
	target := filepath.Join(dir, "a", "b", "c")
	require.NoError(t, l.Mkdir(context.Background(), target, true))
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestMkdirWithoutParentsFailsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal()
	target := filepath.Join(dir, "a", "b")
	assert.Error(t, l.Mkdir(context.Background(), target, false))
}

func TestRenameSucceeds(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "old.txt")
	writeFile(t, src, "data")

	l := NewLocal()
	require.NoError(t, l.Rename(context.Background(), src, "new.txt"))

	_, err := os.Stat(filepath.Join(dir, "new.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}

func TestRenameRejectsInvalidName(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "old.txt")
	writeFile(t, src, "data")

	l := NewLocal()
	assert.Error(t, l.Rename(context.Background(), src, "../escape"))
}

func TestRenameRejectsExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "old.txt")
	writeFile(t, src, "data")
	writeFile(t, filepath.Join(dir, "new.txt"), "other")

	l := NewLocal()
	assert.Error(t, l.Rename(context.Background(), src, "new.txt"))
}

func TestCancelTokenIdempotent(t *testing.T) {
	tok := NewCancelToken()
	assert.False(t, tok.Canceled())
	tok.Cancel()
	tok.Cancel()
	assert.True(t, tok.Canceled())
	select {
	case <-tok.Done():
	default:
		t.Fatal("Done channel should be closed")
	}
}
