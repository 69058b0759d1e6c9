//go:build windows

package fsadapter

import (
	"os"

	"golang.org/x/sys/windows"
)

// platformHidden consults the FILE_ATTRIBUTE_HIDDEN bit, which on Windows
// is the primary hidden-file signal (the leading-dot convention is a Unix
// import that many Windows tools ignore).
func platformHidden(path string, info os.FileInfo) bool {
	ptr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(ptr)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}
