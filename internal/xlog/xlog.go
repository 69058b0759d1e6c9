// Package xlog provides the tagged, leveled logging used across nc.
//
// Call sites follow the "subject first" convention: Infof/Debugf/Errorf
// take an arbitrary subject (a path, an fmt.Stringer, or nil) followed by a
// format string, so each log line carries a subject field (e.g.
// subject=/home/user) rather than a bare message with no context about
// what was being acted on.
package xlog

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Level mirrors the subset of logrus levels nc actually emits.
type Level = logrus.Level

// Level aliases for callers that don't want to import logrus directly.
const (
	LevelError = logrus.ErrorLevel
	LevelWarn  = logrus.WarnLevel
	LevelInfo  = logrus.InfoLevel
	LevelDebug = logrus.DebugLevel
)

// Record is one retained log line, readable in-process via Recent.
type Record struct {
	Level   Level
	Subject string
	Message string
}

const ringSize = 500

var (
	mu     sync.Mutex
	ring   []Record
	ringAt int
	std    = logrus.New()
)

func init() {
	std.SetLevel(logrus.InfoLevel)
	ring = make([]Record, 0, ringSize)
}

// SetLevel adjusts the minimum level emitted to the underlying logger.
func SetLevel(l Level) { std.SetLevel(l) }

// SetOutput redirects the underlying logger, e.g. to a --log-file.
func SetOutput(w interface {
	Write([]byte) (int, error)
}) {
	std.SetOutput(w)
}

func subjectString(subject any) string {
	if subject == nil {
		return ""
	}
	if s, ok := subject.(string); ok {
		return s
	}
	if s, ok := subject.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", subject)
}

func record(level Level, subject any, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	subj := subjectString(subject)

	mu.Lock()
	entry := Record{Level: level, Subject: subj, Message: msg}
	if len(ring) < ringSize {
		ring = append(ring, entry)
	} else {
		ring[ringAt] = entry
		ringAt = (ringAt + 1) % ringSize
	}
	mu.Unlock()

	fields := logrus.Fields{}
	if subj != "" {
		fields["subject"] = subj
	}
	std.WithFields(fields).Log(level, msg)
}

// Infof logs an informational line about subject.
func Infof(subject any, format string, args ...any) { record(LevelInfo, subject, format, args...) }

// Debugf logs a debug line about subject.
func Debugf(subject any, format string, args ...any) { record(LevelDebug, subject, format, args...) }

// Errorf logs an error line about subject.
func Errorf(subject any, format string, args ...any) { record(LevelError, subject, format, args...) }

// Logf logs at an explicit level, for call sites that choose level
// dynamically (e.g. downgrading a once-ubiquitous warning to debug).
func Logf(level Level, subject any, format string, args ...any) {
	record(level, subject, format, args...)
}

// Recent returns up to n most-recently-logged records, oldest first. n <= 0
// returns everything retained (at most the last 500 records).
func Recent(n int) []Record {
	mu.Lock()
	defer mu.Unlock()
	// once the ring has wrapped, the oldest record sits at ringAt.
	out := make([]Record, 0, len(ring))
	out = append(out, ring[ringAt:]...)
	out = append(out, ring[:ringAt]...)
	if n > 0 && n < len(out) {
		return out[len(out)-n:]
	}
	return out
}
