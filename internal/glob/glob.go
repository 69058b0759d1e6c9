// Package glob implements the filename glob semantics spec.md §4.4
// requires for group selection: '*' any run, '?' one character, '[...]'
// character classes with ranges, rooted at the full filename, never
// crossing path separators.
package glob

import (
	"path/filepath"
	"strings"
)

// Match reports whether name matches pattern under the given case policy.
// An invalid pattern (as judged by filepath.Match) matches nothing rather
// than erroring — group-select on a bad pattern is a no-op, not a crash.
func Match(name, pattern string, caseSensitive bool) bool {
	if !caseSensitive {
		name = strings.ToLower(name)
		pattern = strings.ToLower(pattern)
	}
	ok, err := filepath.Match(pattern, name)
	if err != nil {
		return false
	}
	return ok
}

// Contains reports whether name contains substr under the given case
// policy — the primitive quick-search is built on (spec.md §4.4: "cursor
// to first entry whose name contains the buffer").
func Contains(name, substr string, caseSensitive bool) bool {
	if !caseSensitive {
		name = strings.ToLower(name)
		substr = strings.ToLower(substr)
	}
	return strings.Contains(name, substr)
}
