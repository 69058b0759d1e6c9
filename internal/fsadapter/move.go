package fsadapter

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-nc/nc/internal/errkind"
)

// MoveEntry moves src to dst. It first tries a same-device os.Rename
// (instant, atomic); if that fails with EXDEV (cross-device) or because
// the destination already exists, it falls back to CopyEntry followed by
// removing the source tree, matching spec.md §4.1's "CrossDevice (for move
// requiring copy+delete)". Any other rename failure is returned.
func (l *Local) MoveEntry(ctx context.Context, src, dst string, opts CopyOptions, tick Tick, cancel *CancelToken) error {
	src = normalizePath(src)
	dst = normalizePath(dst)

	dst, err := resolveConflict(dst, opts.Overwrite)
	if err == ErrSkipped {
		return ErrSkipped
	}
	if err != nil {
		return err
	}

	if renErr := os.Rename(src, dst); renErr == nil {
		if info, statErr := os.Lstat(dst); statErr == nil && tick != nil {
			tick(dst, info.Size())
		}
		return nil
	} else if errkind.Classify(renErr) != errkind.CrossDevice {
		// Overwrite already resolved above; a rename failure that is
		// neither cross-device nor already-exists (e.g. permission) is
		// terminal. Already-exists falls through to copy+delete.
		if !os.IsExist(renErr) {
			return errkind.Wrap(errkind.Classify(renErr), src, renErr)
		}
	}

	// Cross-device: copy then remove the source tree. Per spec.md §4.7/§5,
	// completed portions of a canceled cross-device move are NOT rolled
	// back automatically.
	if err := l.CopyEntry(ctx, src, dst, opts, tick, cancel); err != nil {
		return err
	}
	if err := os.RemoveAll(src); err != nil {
		return errkind.Wrap(errkind.Classify(err), src, err)
	}
	return nil
}

// DestPathFor joins a destination directory with the source's base name,
// the shape the pipeline uses when moving/copying many sources into one
// target directory.
func DestPathFor(destDir, src string) string {
	return filepath.Join(destDir, filepath.Base(src))
}
