// Package errkind classifies filesystem errors into the tagged kinds
// spec.md §7 requires, so the pipeline and command layers never need to
// switch on raw *os.PathError / syscall.Errno values themselves.
package errkind

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// Kind is one of the error categories propagated up from the filesystem
// adapter. It is a tagged value, never raised as a panic/exception.
type Kind int

const (
	// Unsupported is also used as the zero value for "no specific kind".
	Unsupported Kind = iota
	NotFound
	AlreadyExists
	PermissionDenied
	NotADirectory
	IsADirectory
	CrossDevice
	InvalidName
	QuotaExceeded
	IOFailed
	Canceled
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case AlreadyExists:
		return "already_exists"
	case PermissionDenied:
		return "permission_denied"
	case NotADirectory:
		return "not_a_directory"
	case IsADirectory:
		return "is_a_directory"
	case CrossDevice:
		return "cross_device"
	case InvalidName:
		return "invalid_name"
	case QuotaExceeded:
		return "quota_exceeded"
	case IOFailed:
		return "io_failed"
	case Canceled:
		return "canceled"
	default:
		return "unsupported"
	}
}

// Error wraps an underlying error with its classified Kind and (for bulk
// operations) the path it occurred on, for display in the report dialog.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap tags err with an explicit kind and path.
func Wrap(kind Kind, path string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Path: path, Err: err}
}

// Classify inspects err and returns the best-matching Kind. It recognises
// errors produced by this package (returned unchanged), the ErrCanceled
// sentinel, io/fs sentinel errors, and platform syscall.Errno values.
// context.Canceled is not mapped and classifies as IOFailed; callers wrap
// ctx.Err() with Canceled explicitly.
func Classify(err error) Kind {
	if err == nil {
		return Unsupported
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return IOFailed
	}
	if isCanceled(err) {
		return Canceled
	}
	if errors.Is(err, fs.ErrNotExist) {
		return NotFound
	}
	if errors.Is(err, fs.ErrExist) {
		return AlreadyExists
	}
	if errors.Is(err, fs.ErrPermission) {
		return PermissionDenied
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOENT:
			return NotFound
		case syscall.EEXIST:
			return AlreadyExists
		case syscall.EACCES, syscall.EPERM:
			return PermissionDenied
		case syscall.ENOTDIR:
			return NotADirectory
		case syscall.EISDIR:
			return IsADirectory
		case syscall.EXDEV:
			return CrossDevice
		case syscall.ENAMETOOLONG, syscall.EINVAL:
			return InvalidName
		case syscall.EDQUOT, syscall.ENOSPC:
			return QuotaExceeded
		}
	}

	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return Classify(linkErr.Err)
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return Classify(pathErr.Err)
	}

	return IOFailed
}

func isCanceled(err error) bool {
	return errors.Is(err, errCanceled)
}

// ErrCanceled is the sentinel returned by cancellation-aware operations
// when their token has been tripped.
var errCanceled = errors.New("operation canceled")

// ErrCanceled is exported for callers that need to compare or wrap it.
var ErrCanceled = errCanceled
