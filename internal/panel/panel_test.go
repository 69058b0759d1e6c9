package panel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-nc/nc/internal/dircache"
	"github.com/go-nc/nc/internal/fsadapter"
	"github.com/go-nc/nc/internal/sortview"
)

type fakeAdapter struct {
	listings map[string][]fsadapter.Entry
	calls    int
}

func (f *fakeAdapter) List(ctx context.Context, path string, showHidden bool) (*fsadapter.Listing, error) {
	f.calls++
	entries := f.listings[path]
	return &fsadapter.Listing{Path: path, Entries: append([]fsadapter.Entry(nil), entries...), Version: uint64(f.calls)}, nil
}
func (f *fakeAdapter) Stat(ctx context.Context, path string) (fsadapter.Entry, error) {
	return fsadapter.Entry{}, nil
}
func (f *fakeAdapter) CopyEntry(ctx context.Context, src, dst string, opts fsadapter.CopyOptions, tick fsadapter.Tick, cancel *fsadapter.CancelToken) error {
	return nil
}
func (f *fakeAdapter) MoveEntry(ctx context.Context, src, dst string, opts fsadapter.CopyOptions, tick fsadapter.Tick, cancel *fsadapter.CancelToken) error {
	return nil
}
func (f *fakeAdapter) DeleteEntry(ctx context.Context, path string, opts fsadapter.DeleteOptions, tick fsadapter.Tick, cancel *fsadapter.CancelToken) (string, error) {
	return "", nil
}
func (f *fakeAdapter) Mkdir(ctx context.Context, path string, createParents bool) error { return nil }
func (f *fakeAdapter) Rename(ctx context.Context, path, newName string) error           { return nil }

func TestNewPanelDefaults(t *testing.T) {
	p := New("/home/user", false)
	assert.Equal(t, "/home/user", p.Dir)
	assert.Equal(t, Browsing, p.Mode)
	_, ok := p.Current()
	assert.False(t, ok)
}

func TestLoadPopulatesListingWithParentEntry(t *testing.T) {
	adapter := &fakeAdapter{listings: map[string][]fsadapter.Entry{
		"/a/b": {{Name: "file.txt", Path: "/a/b/file.txt"}},
	}}
	cache := dircache.New(0, 0, true)
	p := New("/a/b", false)

	require.NoError(t, p.Load(context.Background(), adapter, cache, "/a/b", false))
	assert.Len(t, p.Entries(), 2)
	assert.Equal(t, "..", p.Entries()[0].Name)
}

func TestLoadUsesCacheOnSecondCall(t *testing.T) {
	adapter := &fakeAdapter{listings: map[string][]fsadapter.Entry{
		"/a": {{Name: "f.txt", Path: "/a/f.txt"}},
	}}
	cache := dircache.New(0, 0, true)
	p := New("/a", false)

	require.NoError(t, p.Load(context.Background(), adapter, cache, "/a", false))
	require.NoError(t, p.Load(context.Background(), adapter, cache, "/a", false))
	assert.Equal(t, 1, adapter.calls)
}

func TestLoadForceRefreshBypassesCache(t *testing.T) {
	adapter := &fakeAdapter{listings: map[string][]fsadapter.Entry{
		"/a": {{Name: "f.txt", Path: "/a/f.txt"}},
	}}
	cache := dircache.New(0, 0, true)
	p := New("/a", false)

	require.NoError(t, p.Load(context.Background(), adapter, cache, "/a", false))
	require.NoError(t, p.Load(context.Background(), adapter, cache, "/a", true))
	assert.Equal(t, 2, adapter.calls)
}

func TestLoadRelocatesCursorToSamePath(t *testing.T) {
	adapter := &fakeAdapter{listings: map[string][]fsadapter.Entry{
		"/a": {
			{Name: "a.txt", Path: "/a/a.txt"},
			{Name: "b.txt", Path: "/a/b.txt"},
		},
	}}
	cache := dircache.New(0, 0, true)
	p := New("/a", false)
	require.NoError(t, p.Load(context.Background(), adapter, cache, "/a", false))

	idx := -1
	for i, e := range p.Entries() {
		if e.Name == "b.txt" {
			idx = i
		}
	}
	p.Cursor = idx

	adapter.listings["/a"] = []fsadapter.Entry{
		{Name: "a.txt", Path: "/a/a.txt"},
		{Name: "b.txt", Path: "/a/b.txt"},
		{Name: "c.txt", Path: "/a/c.txt"},
	}
	require.NoError(t, p.Load(context.Background(), adapter, cache, "/a", true))
	cur, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, "b.txt", cur.Name)
}

func TestLoadReconcilesMarksToSurvivingPaths(t *testing.T) {
	adapter := &fakeAdapter{listings: map[string][]fsadapter.Entry{
		"/a": {
			{Name: "a.txt", Path: "/a/a.txt"},
			{Name: "b.txt", Path: "/a/b.txt"},
		},
	}}
	cache := dircache.New(0, 0, true)
	p := New("/a", false)
	require.NoError(t, p.Load(context.Background(), adapter, cache, "/a", false))
	p.Marks.Toggle("/a/a.txt")
	p.Marks.Toggle("/a/b.txt")

	adapter.listings["/a"] = []fsadapter.Entry{{Name: "a.txt", Path: "/a/a.txt"}}
	require.NoError(t, p.Load(context.Background(), adapter, cache, "/a", true))
	assert.True(t, p.Marks.Has("/a/a.txt"))
	assert.False(t, p.Marks.Has("/a/b.txt"))
}

func TestResortReordersWithoutReload(t *testing.T) {
	adapter := &fakeAdapter{listings: map[string][]fsadapter.Entry{
		"/a": {
			{Name: "b.txt", Path: "/a/b.txt", Size: 2},
			{Name: "a.txt", Path: "/a/a.txt", Size: 1},
		},
	}}
	cache := dircache.New(0, 0, true)
	p := New("/a", false)
	require.NoError(t, p.Load(context.Background(), adapter, cache, "/a", false))
	calls := adapter.calls

	p.Resort(sortview.Descriptor{Key: sortview.KeyName, Direction: sortview.Descending})
	assert.Equal(t, calls, adapter.calls, "Resort must not re-read the directory")
	assert.Equal(t, "..", p.Entries()[0].Name)
	assert.Equal(t, "b.txt", p.Entries()[1].Name)
}

func TestResortOnEmptyPanelOnlyStoresDescriptor(t *testing.T) {
	p := New("/a", false)
	d := sortDescByName()
	p.Resort(d)
	assert.Equal(t, d, p.Sort)
}

func TestMoveCursorClampsToBounds(t *testing.T) {
	p := panelWithNEntries(3)
	p.MoveCursor(-5)
	assert.Equal(t, 0, p.Cursor)
	p.MoveCursor(100)
	assert.Equal(t, 2, p.Cursor)
}

func TestMoveCursorNoopOnEmptyListing(t *testing.T) {
	p := New("/a", false)
	p.MoveCursor(1)
	assert.Equal(t, 0, p.Cursor)
}

func TestHomeAndEnd(t *testing.T) {
	p := panelWithNEntries(5)
	p.Cursor = 2
	p.End()
	assert.Equal(t, 4, p.Cursor)
	p.Home()
	assert.Equal(t, 0, p.Cursor)
}

func TestPageMove(t *testing.T) {
	p := panelWithNEntries(50)
	p.PageMove(10, true)
	assert.Equal(t, 10, p.Cursor)
	p.PageMove(10, false)
	assert.Equal(t, 0, p.Cursor)
}

func TestEnterCursorOnDirectory(t *testing.T) {
	p := New("/a", false)
	p.Listing = &fsadapter.Listing{Entries: []fsadapter.Entry{{Name: "sub", Path: "/a/sub", IsDir: true}}}
	target, isDir := p.EnterCursor()
	assert.True(t, isDir)
	assert.Equal(t, "/a/sub", target)
}

func TestEnterCursorOnFileFails(t *testing.T) {
	p := New("/a", false)
	p.Listing = &fsadapter.Listing{Entries: []fsadapter.Entry{{Name: "f.txt", Path: "/a/f.txt"}}}
	_, isDir := p.EnterCursor()
	assert.False(t, isDir)
}

func TestPushHistoryThenNavigateBackAndForward(t *testing.T) {
	p := New("/a", false)
	p.PushHistory("/a/b")
	p.Dir = "/a/b"
	p.PushHistory("/a/b/c")
	p.Dir = "/a/b/c"

	target, ok := p.NavigateBack()
	require.True(t, ok)
	assert.Equal(t, "/a/b", target)
	p.Dir = target

	target, ok = p.NavigateBack()
	require.True(t, ok)
	assert.Equal(t, "/a", target)
	p.Dir = target

	_, ok = p.NavigateBack()
	assert.False(t, ok)

	target, ok = p.NavigateForward()
	require.True(t, ok)
	assert.Equal(t, "/a/b", target)
}

func TestPushHistoryNoopWhenSameDir(t *testing.T) {
	p := New("/a", false)
	p.PushHistory("/a")
	assert.Empty(t, p.Back)
}

func TestPushHistoryClearsForward(t *testing.T) {
	p := New("/a", false)
	p.PushHistory("/b")
	p.Dir = "/b"
	p.NavigateBack()
	p.PushHistory("/c")
	assert.Empty(t, p.Forward)
}

func TestParentReflectsSyntheticEntry(t *testing.T) {
	p := New("/a/b", false)
	p.Listing = &fsadapter.Listing{Entries: []fsadapter.Entry{{Name: "..", Path: "/a", IsDir: true}}}
	parent, ok := p.Parent()
	require.True(t, ok)
	assert.Equal(t, "/a", parent)
}

func TestParentFalseAtRoot(t *testing.T) {
	p := New("/", false)
	p.Listing = &fsadapter.Listing{Entries: []fsadapter.Entry{{Name: "etc", Path: "/etc", IsDir: true}}}
	_, ok := p.Parent()
	assert.False(t, ok)
}

func TestTypeKeyEntersQuickSearchAndMovesCursor(t *testing.T) {
	p := panelWithNamedEntries([]string{"apple", "banana", "cherry"})
	p.TypeKey('b')
	assert.Equal(t, QuickSearching, p.Mode)
	assert.Equal(t, 1, p.Cursor)
}

func TestBackspaceEmptyBufferStaysInQuickSearching(t *testing.T) {
	p := panelWithNamedEntries([]string{"apple"})
	p.TypeKey('a')
	p.Backspace()
	assert.Equal(t, QuickSearching, p.Mode)
	assert.Empty(t, p.QuickSearch.Buffer)
}

func TestEscapeQuickSearchClearsBuffer(t *testing.T) {
	p := panelWithNamedEntries([]string{"apple"})
	p.TypeKey('a')
	p.EscapeQuickSearch()
	assert.Equal(t, Browsing, p.Mode)
	assert.Empty(t, p.QuickSearch.Buffer)
}

func TestExitQuickSearchPreservingPosition(t *testing.T) {
	p := panelWithNamedEntries([]string{"apple"})
	p.TypeKey('a')
	p.ExitQuickSearchPreservingPosition()
	assert.Equal(t, Browsing, p.Mode)
	assert.Equal(t, "a", p.QuickSearch.Buffer)
}

func TestEnterAndResolveDialogRestoresMode(t *testing.T) {
	p := panelWithNamedEntries([]string{"apple"})
	p.TypeKey('a')
	prev := p.EnterDialog()
	assert.Equal(t, AwaitingDialog, p.Mode)
	p.ResolveDialog(prev)
	assert.Equal(t, QuickSearching, p.Mode)
}

func TestPairSwitchMaintainsExactlyOneActive(t *testing.T) {
	pair := NewPair(New("/a", false), New("/b", false))
	assert.True(t, pair.Left.Active)
	assert.False(t, pair.Right.Active)
	assert.Same(t, pair.Left, pair.Active())

	pair.Switch()
	assert.False(t, pair.Left.Active)
	assert.True(t, pair.Right.Active)
	assert.Same(t, pair.Right, pair.Active())
	assert.Same(t, pair.Left, pair.Inactive())
}

func TestPairEachVisitsBothInOrder(t *testing.T) {
	pair := NewPair(New("/a", false), New("/b", false))
	var visited []string
	pair.Each(func(s *State) { visited = append(visited, s.Dir) })
	assert.Equal(t, []string{"/a", "/b"}, visited)
}

func panelWithNEntries(n int) *State {
	p := New("/a", false)
	entries := make([]fsadapter.Entry, n)
	for i := range entries {
		entries[i] = fsadapter.Entry{Name: string(rune('a' + i)), Path: "/a/x", ModTime: time.Now()}
	}
	p.Listing = &fsadapter.Listing{Entries: entries}
	return p
}

func panelWithNamedEntries(names []string) *State {
	p := New("/a", false)
	entries := make([]fsadapter.Entry, len(names))
	for i, n := range names {
		entries[i] = fsadapter.Entry{Name: n, Path: "/a/" + n}
	}
	p.Listing = &fsadapter.Listing{Entries: entries}
	return p
}

func sortDescByName() sortview.Descriptor {
	return sortview.Descriptor{Key: sortview.KeyName, Direction: sortview.Ascending}
}
