package sortview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/go-nc/nc/internal/fsadapter"
)

func names(entries []fsadapter.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func sampleEntries() []fsadapter.Entry {
	return []fsadapter.Entry{
		{Name: "banana.txt", Path: "/d/banana.txt", Size: 300},
		{Name: "..", Path: "/d/..", IsDir: true},
		{Name: "apple.txt", Path: "/d/apple.txt", Size: 100},
		{Name: "zdir", Path: "/d/zdir", IsDir: true},
		{Name: "Cherry.txt", Path: "/d/Cherry.txt", Size: 200},
	}
}

func TestSortDefaultGroupsDirsAndParentFirst(t *testing.T) {
	entries := sampleEntries()
	Sort(entries, Default)
	assert.Equal(t, []string{"..", "zdir", "apple.txt", "banana.txt", "Cherry.txt"}, names(entries))
}

func TestSortByNameIsCaseInsensitive(t *testing.T) {
	entries := sampleEntries()
	Sort(entries, Descriptor{Key: KeyName, Direction: Ascending})
	assert.Equal(t, []string{"..", "apple.txt", "banana.txt", "Cherry.txt", "zdir"}, names(entries))
}

func TestSortBySizeDescending(t *testing.T) {
	entries := sampleEntries()
	Sort(entries, Descriptor{Key: KeySize, Direction: Descending})
	// ".." always first regardless of key/direction.
	assert.Equal(t, "..", names(entries)[0])
	assert.Equal(t, []string{"banana.txt", "Cherry.txt", "apple.txt", "zdir"}, names(entries)[1:])
}

func TestSortByModified(t *testing.T) {
	now := time.Now()
	entries := []fsadapter.Entry{
		{Name: "old.txt", ModTime: now.Add(-time.Hour)},
		{Name: "new.txt", ModTime: now},
	}
	Sort(entries, Descriptor{Key: KeyModified, Direction: Ascending})
	assert.Equal(t, []string{"old.txt", "new.txt"}, names(entries))
}

func TestSortIsIdempotent(t *testing.T) {
	entries := sampleEntries()
	Sort(entries, Default)
	first := append([]fsadapter.Entry(nil), entries...)
	Sort(entries, Default)
	assert.Equal(t, names(first), names(entries))
}

func TestColumns(t *testing.T) {
	assert.Len(t, Columns(Brief, true), 1)
	assert.Len(t, Columns(Full, true), 4)
	assert.Len(t, Columns(Info, true), 6)
	assert.Len(t, Columns(Info, false), 4)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "<DIR>", FormatSize(fsadapter.Entry{IsDir: true}))
	assert.NotEqual(t, "<DIR>", FormatSize(fsadapter.Entry{Size: 2048}))
}
