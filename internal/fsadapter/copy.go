package fsadapter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-nc/nc/internal/errkind"
)

const defaultChunkSize = 64 * 1024

// CopyEntry copies src to dst, recursing into directories. It checks
// cancellation at every chunk boundary and between files, per spec.md §4.7
// and §5 ("Subtasks must check the token at each chunk and between files").
// On cancellation mid-copy, any partial destination file already created is
// removed.
func (l *Local) CopyEntry(ctx context.Context, src, dst string, opts CopyOptions, tick Tick, cancel *CancelToken) error {
	src = normalizePath(src)
	dst = normalizePath(dst)

	info, err := os.Lstat(src)
	if err != nil {
		return errkind.Wrap(errkind.Classify(err), src, err)
	}

	if info.Mode()&os.ModeSymlink != 0 && !opts.FollowSymlinks {
		return copySymlink(src, dst, opts)
	}

	if info.IsDir() {
		return l.copyDir(ctx, src, dst, opts, tick, cancel)
	}
	return l.copyFile(ctx, src, dst, opts, tick, cancel)
}

func copySymlink(src, dst string, opts CopyOptions) error {
	target, err := os.Readlink(src)
	if err != nil {
		return errkind.Wrap(errkind.Classify(err), src, err)
	}
	dst, err = resolveConflict(dst, opts.Overwrite)
	if err != nil {
		return err
	}
	if err := os.Symlink(target, dst); err != nil {
		return errkind.Wrap(errkind.Classify(err), dst, err)
	}
	return nil
}

func (l *Local) copyDir(ctx context.Context, src, dst string, opts CopyOptions, tick Tick, cancel *CancelToken) error {
	if _, err := os.Stat(dst); err != nil {
		if err := os.MkdirAll(dst, 0o777); err != nil {
			return errkind.Wrap(errkind.Classify(err), dst, err)
		}
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return errkind.Wrap(errkind.Classify(err), src, err)
	}
	for _, e := range entries {
		select {
		case <-cancel.Done():
			return errkind.Wrap(errkind.Canceled, src, errkind.ErrCanceled)
		case <-ctx.Done():
			return errkind.Wrap(errkind.Canceled, src, ctx.Err())
		default:
		}
		childSrc := filepath.Join(src, e.Name())
		childDst := filepath.Join(dst, e.Name())
		if err := l.CopyEntry(ctx, childSrc, childDst, opts, tick, cancel); err != nil {
			if err == ErrSkipped {
				continue
			}
			return err
		}
	}
	if opts.PreserveTimestamps {
		if info, err := os.Stat(src); err == nil {
			_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
		}
	}
	return nil
}

func (l *Local) copyFile(ctx context.Context, src, dst string, opts CopyOptions, tick Tick, cancel *CancelToken) error {
	dst, err := resolveConflict(dst, opts.Overwrite)
	if err == ErrSkipped {
		return ErrSkipped
	}
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return errkind.Wrap(errkind.Classify(err), src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errkind.Wrap(errkind.Classify(err), src, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errkind.Wrap(errkind.Classify(err), dst, err)
	}

	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = defaultChunkSize
	}
	buf := make([]byte, chunk)

	var copyErr error
copyLoop:
	for {
		select {
		case <-cancel.Done():
			copyErr = errkind.Wrap(errkind.Canceled, src, errkind.ErrCanceled)
			break copyLoop
		case <-ctx.Done():
			copyErr = errkind.Wrap(errkind.Canceled, src, ctx.Err())
			break copyLoop
		default:
		}

		n, rerr := in.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				copyErr = errkind.Wrap(errkind.Classify(werr), dst, werr)
				break
			}
			if tick != nil {
				tick(src, int64(n))
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			copyErr = errkind.Wrap(errkind.Classify(rerr), src, rerr)
			break
		}
	}

	closeErr := out.Close()
	if copyErr != nil {
		_ = os.Remove(dst) // partial destination cleanup on cancel/failure
		return copyErr
	}
	if closeErr != nil {
		_ = os.Remove(dst)
		return errkind.Wrap(errkind.Classify(closeErr), dst, closeErr)
	}

	if opts.PreserveTimestamps {
		_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
	}
	return nil
}

// resolveConflict applies the overwrite policy just-in-time (checked right
// before the destination is created, to narrow the TOCTOU window per
// spec.md §4.7) and returns the path to actually write to.
func resolveConflict(dst string, policy OverwritePolicy) (string, error) {
	_, err := os.Lstat(dst)
	exists := err == nil
	if !exists {
		return dst, nil
	}
	switch policy {
	case OverwriteFail:
		return "", errkind.Wrap(errkind.AlreadyExists, dst, fmt.Errorf("destination already exists"))
	case OverwriteReplace:
		return dst, nil
	case OverwriteSkip:
		return "", ErrSkipped
	case OverwriteRenameSuffix:
		return uniqueSuffixedName(dst), nil
	default:
		return "", errkind.Wrap(errkind.AlreadyExists, dst, fmt.Errorf("destination already exists"))
	}
}

// uniqueSuffixedName finds "name (1).ext", "name (2).ext", ... until a
// non-existent path is found.
func uniqueSuffixedName(dst string) string {
	dir := filepath.Dir(dst)
	base := filepath.Base(dst)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, stem+" ("+strconv.Itoa(i)+")"+ext)
		if _, err := os.Lstat(candidate); err != nil {
			return candidate
		}
	}
}
