package fsadapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-nc/nc/internal/errkind"
	"github.com/go-nc/nc/internal/xlog"
)

// stagingRoot is where IntoTrash deletes park their victim when no desktop
// trash integration is available, so C6 can undo a delete by moving the
// entry back. Resolved lazily so tests can override it.
var stagingRoot = func() string {
	return filepath.Join(os.TempDir(), "nc-staged-deletes")
}

// DeleteEntry removes path. When opts.IntoTrash is set it first tries the
// platform trash (best-effort, see trashPath); failing that it stages the
// entry into stagingRoot() and reports where, so the delete remains
// undoable per spec.md's Open Question #1 resolution (DESIGN.md). With
// IntoTrash unset the entry is unlinked directly and is not undoable.
func (l *Local) DeleteEntry(ctx context.Context, path string, opts DeleteOptions, tick Tick, cancel *CancelToken) (string, error) {
	path = normalizePath(path)
	info, err := os.Lstat(path)
	if err != nil {
		return "", errkind.Wrap(errkind.Classify(err), path, err)
	}
	if info.IsDir() && !opts.Recurse {
		hasChildren, err := dirHasEntries(path)
		if err != nil {
			return "", errkind.Wrap(errkind.Classify(err), path, err)
		}
		if hasChildren {
			return "", errkind.Wrap(errkind.IsADirectory, path, fmt.Errorf("directory not empty"))
		}
	}

	if opts.IntoTrash {
		if dest, err := trashPath(path); err == nil {
			if err := os.Rename(path, dest); err == nil {
				if tick != nil {
					tick(path, info.Size())
				}
				return dest, nil
			}
		}
		if dest, err := l.stageDelete(path); err == nil {
			if tick != nil {
				tick(path, info.Size())
			}
			return dest, nil
		} else {
			xlog.Debugf(path, "stage-delete fallback failed, unlinking directly: %v", err)
		}
	}

	if err := removeChecked(ctx, path, cancel); err != nil {
		return "", err
	}
	if tick != nil {
		tick(path, info.Size())
	}
	return "", nil
}

func (l *Local) stageDelete(path string) (string, error) {
	root := stagingRoot()
	if err := os.MkdirAll(root, 0o700); err != nil {
		return "", err
	}
	dest := filepath.Join(root, uniqueStageName(filepath.Base(path)))
	if err := os.Rename(path, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func uniqueStageName(base string) string {
	return fmt.Sprintf("%d-%s", stageCounter.next(), base)
}

type counter struct{ n int64 }

func (c *counter) next() int64 {
	c.n++
	return c.n
}

var stageCounter = &counter{}

func dirHasEntries(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	names, err := f.Readdirnames(1)
	if err != nil && len(names) == 0 {
		return false, nil
	}
	return len(names) > 0, nil
}

// removeChecked walks path recursively when it's a directory, checking
// cancellation between files, per spec.md §5.
func removeChecked(ctx context.Context, path string, cancel *CancelToken) error {
	info, err := os.Lstat(path)
	if err != nil {
		return errkind.Wrap(errkind.Classify(err), path, err)
	}
	if !info.IsDir() || info.Mode()&os.ModeSymlink != 0 {
		if err := os.Remove(path); err != nil {
			return errkind.Wrap(errkind.Classify(err), path, err)
		}
		return nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return errkind.Wrap(errkind.Classify(err), path, err)
	}
	for _, e := range entries {
		select {
		case <-cancel.Done():
			return errkind.Wrap(errkind.Canceled, path, errkind.ErrCanceled)
		case <-ctx.Done():
			return errkind.Wrap(errkind.Canceled, path, ctx.Err())
		default:
		}
		if err := removeChecked(ctx, filepath.Join(path, e.Name()), cancel); err != nil {
			return err
		}
	}
	if err := os.Remove(path); err != nil {
		return errkind.Wrap(errkind.Classify(err), path, err)
	}
	return nil
}
