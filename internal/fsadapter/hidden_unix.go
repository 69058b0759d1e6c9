//go:build !windows

package fsadapter

import "os"

// platformHidden reports additional platform hidden-attribute flags beyond
// the leading-dot convention. POSIX has no separate hidden attribute bit,
// so this is always false here.
func platformHidden(path string, info os.FileInfo) bool {
	return false
}
