package selection

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-nc/nc/internal/fsadapter"
)

func entries() []fsadapter.Entry {
	return []fsadapter.Entry{
		{Path: "/d/..", Name: "..", IsDir: true},
		{Path: "/d/sub", Name: "sub", IsDir: true},
		{Path: "/d/a.txt", Name: "a.txt"},
		{Path: "/d/b.txt", Name: "b.txt"},
		{Path: "/d/c.log", Name: "c.log"},
	}
}

func paths(s Set) []string {
	p := s.Paths()
	sort.Strings(p)
	return p
}

func TestToggle(t *testing.T) {
	s := NewSet()
	assert.False(t, s.Has("/d/a.txt"))
	s.Toggle("/d/a.txt")
	assert.True(t, s.Has("/d/a.txt"))
	s.Toggle("/d/a.txt")
	assert.False(t, s.Has("/d/a.txt"))
}

func TestSelectAllFilesExcludesDirsAndParent(t *testing.T) {
	s := NewSet()
	s.SelectAllFiles(entries())
	assert.Equal(t, []string{"/d/a.txt", "/d/b.txt", "/d/c.log"}, paths(s))
}

func TestGroupSelectAndDeselect(t *testing.T) {
	s := NewSet()
	s.GroupSelect(entries(), "*.txt", true)
	assert.Equal(t, []string{"/d/a.txt", "/d/b.txt"}, paths(s))

	s.GroupDeselect(entries(), "a.txt", true)
	assert.Equal(t, []string{"/d/b.txt"}, paths(s))
}

func TestGroupSelectSkipsParent(t *testing.T) {
	s := NewSet()
	s.GroupSelect(entries(), "*", true)
	for _, p := range paths(s) {
		assert.NotEqual(t, "/d/..", p)
	}
}

func TestGroupSelectSkipsDirectories(t *testing.T) {
	s := NewSet()
	s.GroupSelect(entries(), "*", true)
	assert.Equal(t, []string{"/d/a.txt", "/d/b.txt", "/d/c.log"}, paths(s))
}

func TestInvertSelectionIsInvolutive(t *testing.T) {
	s := NewSet()
	s.Toggle("/d/a.txt")
	s.InvertSelection(entries())
	assert.Equal(t, []string{"/d/b.txt", "/d/c.log"}, paths(s))

	s.InvertSelection(entries())
	assert.Equal(t, []string{"/d/a.txt"}, paths(s))
}

func TestReconcileDropsStaleMarks(t *testing.T) {
	s := NewSet()
	s.Toggle("/d/a.txt")
	s.Toggle("/d/removed.txt")
	s.Reconcile(entries())
	assert.Equal(t, []string{"/d/a.txt"}, paths(s))
}

func TestClearAndLen(t *testing.T) {
	s := NewSet()
	s.Toggle("/d/a.txt")
	s.Toggle("/d/b.txt")
	assert.Equal(t, 2, s.Len())
	s.Clear()
	assert.Equal(t, 0, s.Len())
}
