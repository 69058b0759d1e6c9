//go:build !windows

package fsadapter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// trashPath returns a path under the XDG trash directory
// ($XDG_DATA_HOME/Trash/files, falling back to ~/.local/share/Trash/files)
// for path, best-effort: it does not write the companion .trashinfo
// metadata file a fully compliant desktop trash would, so it is treated
// as best-effort per spec.md §4.1 ("into-trash; best-effort; falls back to
// unlink if unavailable").
func trashPath(path string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}
	dir := filepath.Join(dataHome, "Trash", "files")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	name := filepath.Base(path)
	dest := filepath.Join(dir, name)
	if _, err := os.Lstat(dest); err == nil {
		dest = filepath.Join(dir, fmt.Sprintf("%s.%d", name, time.Now().UnixNano()))
	}
	return dest, nil
}
