//go:build windows

package fsadapter

import "fmt"

// trashPath has no cheap, dependency-free Windows implementation (the
// Recycle Bin is reached through the shell API, not a plain filesystem
// path); returning an error here makes DeleteEntry fall back to the
// session-local staging directory, which is still undoable.
func trashPath(path string) (string, error) {
	return "", fmt.Errorf("platform trash unavailable")
}
