package dialog

import (
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"

	"github.com/go-nc/nc/internal/fsadapter"
)

// Progress tracks a single running pipeline operation and offers a cancel
// button. It never drives the operation itself; the application shell
// feeds it ProgressEvents and owns the CancelToken. Update/Finish are
// called from the pipeline's worker goroutine while Line/HandleKey run on
// the event-loop goroutine, so access is guarded by mu.
type Progress struct {
	Title  string
	Cancel *fsadapter.CancelToken

	mu      sync.Mutex
	latest  fsadapter.ProgressEvent
	done    bool
	summary string
}

// NewProgress builds a Progress dialog bound to an in-flight operation's
// cancellation token.
func NewProgress(title string, cancel *fsadapter.CancelToken) *Progress {
	return &Progress{Title: title, Cancel: cancel}
}

func (p *Progress) Kind() Kind { return KindProgress }

// Update records the latest snapshot, called by the shell each time the
// pipeline's progress sink fires.
func (p *Progress) Update(ev fsadapter.ProgressEvent) {
	p.mu.Lock()
	p.latest = ev
	p.mu.Unlock()
}

// Finish marks the operation complete with a human-readable summary line.
func (p *Progress) Finish(summary string) {
	p.mu.Lock()
	p.done = true
	p.summary = summary
	p.mu.Unlock()
}

// IsDone reports whether the tracked operation has finished.
func (p *Progress) IsDone() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Line renders the current status as one line of text, e.g.
// "copying (3/10 files, 4.2 MB of 12 MB) current/path.txt".
func (p *Progress) Line() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return p.summary
	}
	e := p.latest
	if e.BytesTotal < 0 {
		return fmt.Sprintf("%s (%d/%d files) %s", p.Title, e.FilesCompleted, e.FilesTotal, e.CurrentPath)
	}
	return fmt.Sprintf("%s (%d/%d files, %s of %s) %s", p.Title, e.FilesCompleted, e.FilesTotal,
		humanize.Bytes(uint64(e.BytesCompleted)), humanize.Bytes(uint64(e.BytesTotal)), e.CurrentPath)
}

func (p *Progress) HandleKey(ev *tcell.EventKey) bool {
	if p.IsDone() {
		// any key dismisses the finished dialog
		return true
	}
	if ev.Key() == tcell.KeyEsc || ev.Key() == tcell.KeyCtrlC {
		p.Cancel.Cancel()
		return false // stays open until the operation actually finishes
	}
	return false
}
