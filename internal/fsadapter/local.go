package fsadapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/go-nc/nc/internal/errkind"
	"github.com/go-nc/nc/internal/xlog"
)

// Local is the platform-local filesystem adapter, modeled on the teacher's
// backend/local: a thin, policy-heavy layer over os/io with no network
// dependency.
type Local struct {
	version uint64 // atomic, bumped on every fresh List
}

// NewLocal constructs the local-disk adapter.
func NewLocal() *Local {
	return &Local{}
}

var _ Adapter = (*Local)(nil)

// List reads one directory and returns its entries unsorted (sorting is a
// C3 concern layered on by the caller). Entries named "." and ".." are
// never returned by List; panels synthesize the ".." row themselves so
// that sort strategies (which must always place it first) don't need
// special-case adapter knowledge.
func (l *Local) List(ctx context.Context, path string, showHidden bool) (*Listing, error) {
	path = normalizePath(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, errkind.Wrap(errkind.Classify(err), path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			xlog.Errorf(path, "close directory: %v", cerr)
		}
	}()

	infos, err := f.Readdir(-1)
	if err != nil {
		return nil, errkind.Wrap(errkind.Classify(err), path, fmt.Errorf("read directory entries: %w", err))
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		select {
		case <-ctx.Done():
			return nil, errkind.Wrap(errkind.Canceled, path, ctx.Err())
		default:
		}
		name := info.Name()
		full := filepath.Join(path, name)
		hidden := isHiddenName(name) || platformHidden(full, info)
		if hidden && !showHidden {
			continue
		}
		entries = append(entries, buildEntry(full, name, info))
	}

	return &Listing{
		Path:       path,
		Entries:    entries,
		Version:    atomic.AddUint64(&l.version, 1),
		ProducedAt: nowFunc(),
	}, nil
}

// Stat returns metadata for a single path, following the same hidden-file
// and platform-metadata rules as List.
func (l *Local) Stat(ctx context.Context, path string) (Entry, error) {
	path = normalizePath(path)
	info, err := os.Lstat(path)
	if err != nil {
		return Entry{}, errkind.Wrap(errkind.Classify(err), path, err)
	}
	name := filepath.Base(path)
	return buildEntry(path, name, info), nil
}

// Mkdir creates a directory, optionally with parents (MkdirAll semantics).
func (l *Local) Mkdir(ctx context.Context, path string, createParents bool) error {
	path = normalizePath(path)
	var err error
	if createParents {
		err = os.MkdirAll(path, 0o777)
	} else {
		err = os.Mkdir(path, 0o777)
	}
	if err != nil {
		return errkind.Wrap(errkind.Classify(err), path, err)
	}
	return nil
}

// Rename renames path in place to newName (sibling within the same
// directory); it does not move across directories — bulk moves go through
// Move.
func (l *Local) Rename(ctx context.Context, path, newName string) error {
	path = normalizePath(path)
	if err := validateName(newName); err != nil {
		return err
	}
	dst := filepath.Join(filepath.Dir(path), newName)
	if _, err := os.Lstat(dst); err == nil {
		return errkind.Wrap(errkind.AlreadyExists, dst, fmt.Errorf("destination already exists"))
	}
	if err := os.Rename(path, dst); err != nil {
		return errkind.Wrap(errkind.Classify(err), path, err)
	}
	return nil
}

func buildEntry(full, name string, info os.FileInfo) Entry {
	e := Entry{
		Path:      full,
		Name:      name,
		IsDir:     info.IsDir(),
		IsSymlink: info.Mode()&os.ModeSymlink != 0,
		IsHidden:  isHiddenName(name) || platformHidden(full, info),
		Size:      info.Size(),
		ModTime:   info.ModTime(),
	}
	if e.IsDir {
		e.Size = 0
	}
	populatePlatformMetadata(&e, info)
	return e
}

// isHiddenName applies the leading-dot convention common to POSIX systems.
// "." and ".." are not considered hidden by this rule (they're excluded
// from listings entirely, see List).
func isHiddenName(name string) bool {
	return len(name) > 0 && name[0] == '.' && name != "." && name != ".."
}

func normalizePath(path string) string {
	return filepath.Clean(path)
}

// validateName rejects names that would require no I/O to reject: path
// traversal, empty names, separators, and (on the relevant platform)
// reserved device names. Rename applies it to the new name before any I/O;
// the mkdir dialog uses its own validator in internal/app.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return errkind.Wrap(errkind.InvalidName, name, fmt.Errorf("invalid name"))
	}
	if filepath.Base(name) != name {
		return errkind.Wrap(errkind.InvalidName, name, fmt.Errorf("name must not contain a path separator"))
	}
	if reservedName(name) {
		return errkind.Wrap(errkind.InvalidName, name, fmt.Errorf("reserved name on this platform"))
	}
	return nil
}

// nowFunc is overridable in tests.
var nowFunc = time.Now
