//go:build windows || plan9

package fsadapter

import "os"

// populatePlatformMetadata leaves Owner/Group/Mode unset on platforms that
// don't cheaply expose POSIX-style ownership/permission bits, per spec.md
// §9's explicit preference for omission over fabricated values.
func populatePlatformMetadata(e *Entry, info os.FileInfo) {
	e.HasMode = false
	e.HasOwner = false
}
