// Package sortview implements the Sort & View Strategies (C3): ordering
// policies over a directory listing, and the column projections each view
// mode exposes.
package sortview

import (
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/go-nc/nc/internal/fsadapter"
)

// Key selects the primary comparison field.
type Key int

const (
	KeyName Key = iota
	KeySize
	KeyModified
	KeyExtension
	KeyType
)

// Direction is ascending or descending.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Descriptor is a complete sort configuration: primary key, direction, and
// whether directories are grouped before files regardless of key.
type Descriptor struct {
	Key            Key
	Direction      Direction
	DirectoriesFirst bool
}

// Default is name-ascending with directories grouped first, matching the
// panel default in spec.md §6.
var Default = Descriptor{Key: KeyName, Direction: Ascending, DirectoriesFirst: true}

// Sort orders entries in place per d, honoring spec.md §4.3:
//   - a ".." parent-link entry (if present, identified by Name == "..")
//     always sorts first;
//   - when DirectoriesFirst, directories precede files/symlinks regardless
//     of the secondary key;
//   - within each group, the secondary key and direction apply;
//   - name comparisons are case-insensitive and locale-agnostic (simple
//     byte-wise fold, not a collator — no pack library provides locale
//     collation for a concern this small).
//
// Sort is idempotent: sorting an already-sorted listing with the same
// Descriptor yields the same order (stable sort, total order on ties via
// path as a final tiebreaker).
func Sort(entries []fsadapter.Entry, d Descriptor) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Name == ".." {
			return true
		}
		if b.Name == ".." {
			return false
		}
		if d.DirectoriesFirst {
			ta, tb := typeRank(a), typeRank(b)
			if ta != tb {
				return ta < tb
			}
		}
		less, eq := compareKey(a, b, d.Key)
		if !eq {
			if d.Direction == Descending {
				return !less
			}
			return less
		}
		return a.Path < b.Path
	})
}

// typeRank groups directories before files before symlinks, used both as
// the DirectoriesFirst grouping and as the tiebreak for KeyType.
func typeRank(e fsadapter.Entry) int {
	switch {
	case e.IsDir:
		return 0
	case e.IsSymlink:
		return 2
	default:
		return 1
	}
}

func compareKey(a, b fsadapter.Entry, key Key) (less, equal bool) {
	switch key {
	case KeySize:
		if a.Size == b.Size {
			return false, true
		}
		return a.Size < b.Size, false
	case KeyModified:
		if a.ModTime.Equal(b.ModTime) {
			return false, true
		}
		return a.ModTime.Before(b.ModTime), false
	case KeyExtension:
		ea, eb := strings.ToLower(extOf(a.Name)), strings.ToLower(extOf(b.Name))
		if ea == eb {
			return compareNameFold(a.Name, b.Name)
		}
		return ea < eb, false
	case KeyType:
		ta, tb := typeRank(a), typeRank(b)
		if ta == tb {
			return compareNameFold(a.Name, b.Name)
		}
		return ta < tb, false
	default: // KeyName
		return compareNameFold(a.Name, b.Name)
	}
}

func compareNameFold(a, b string) (less, equal bool) {
	fa, fb := strings.ToLower(a), strings.ToLower(b)
	if fa == fb {
		return false, true
	}
	return fa < fb, false
}

func extOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[i:]
	}
	return ""
}

// View selects which columns a panel exposes.
type View int

const (
	Full View = iota
	Brief
	Info
)

// Column is one displayed field for a panel row.
type Column struct {
	Header   string
	MinWidth int
}

// Columns returns the column set and minimum widths for the given view
// mode. Owner/permission columns are included for Info only when at least
// one rendered entry actually has that data (spec.md §9: omit rather than
// fabricate on platforms that don't expose it) — callers pass
// hasOwnerPermission accordingly.
func Columns(v View, hasOwnerPermission bool) []Column {
	switch v {
	case Brief:
		return []Column{{Header: "Name", MinWidth: 14}}
	case Info:
		cols := []Column{
			{Header: "Name", MinWidth: 20},
			{Header: "Size", MinWidth: 9},
			{Header: "Date", MinWidth: 10},
			{Header: "Time", MinWidth: 5},
		}
		if hasOwnerPermission {
			cols = append(cols,
				Column{Header: "Perms", MinWidth: 10},
				Column{Header: "Owner", MinWidth: 8},
			)
		}
		return cols
	default: // Full
		return []Column{
			{Header: "Name", MinWidth: 20},
			{Header: "Size", MinWidth: 9},
			{Header: "Date", MinWidth: 10},
			{Header: "Time", MinWidth: 5},
		}
	}
}

// FormatSize renders an entry's size for the panel rows' size column:
// human-readable bytes (go-humanize), "<DIR>" for directories.
func FormatSize(e fsadapter.Entry) string {
	if e.IsDir {
		return "<DIR>"
	}
	return humanize.Bytes(uint64(e.Size))
}
