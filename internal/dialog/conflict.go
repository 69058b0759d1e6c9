package dialog

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/go-nc/nc/internal/fsadapter"
)

// conflictPolicies is the cycle order offered by the Conflict dialog,
// fail first so an inattentive Enter never silently clobbers a file.
var conflictPolicies = []fsadapter.OverwritePolicy{
	fsadapter.OverwriteFail,
	fsadapter.OverwriteReplace,
	fsadapter.OverwriteSkip,
	fsadapter.OverwriteRenameSuffix,
}

// Conflict is the copy/move confirm prompt, extended with a cyclable
// conflict-resolution policy (spec.md §4.7: "resolved per-entry by a
// strategy supplied by the caller (from a dialog): fail, overwrite, skip,
// or rename-with-suffix"). Left/Right cycle the policy instead of a
// Yes/No focus, since there's no meaningful "No" here — Esc cancels.
type Conflict struct {
	Message  string
	Canceled bool
	Accepted bool // valid only once HandleKey reports submitted

	policyIndex int
}

// NewConflict builds a Conflict dialog defaulting to OverwriteFail, the
// safest policy.
func NewConflict(message string) *Conflict {
	return &Conflict{Message: message}
}

func (c *Conflict) Kind() Kind { return KindConflict }

// Policy returns the currently selected conflict-resolution policy.
func (c *Conflict) Policy() fsadapter.OverwritePolicy {
	return conflictPolicies[c.policyIndex]
}

// PolicyLabel renders the current policy for the status/prompt line, e.g.
// "fail / [overwrite] / skip / rename".
func (c *Conflict) PolicyLabel() string {
	var s string
	for i, p := range conflictPolicies {
		if i > 0 {
			s += " / "
		}
		if i == c.policyIndex {
			s += fmt.Sprintf("[%s]", p)
		} else {
			s += p.String()
		}
	}
	return s
}

func (c *Conflict) HandleKey(ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyLeft:
		c.policyIndex = (c.policyIndex - 1 + len(conflictPolicies)) % len(conflictPolicies)
		return false
	case ev.Key() == tcell.KeyRight, ev.Key() == tcell.KeyTab:
		c.policyIndex = (c.policyIndex + 1) % len(conflictPolicies)
		return false
	case ev.Key() == tcell.KeyEnter:
		c.Accepted = true
		return true
	case ev.Key() == tcell.KeyEsc:
		c.Canceled = true
		c.Accepted = false
		return true
	}
	return false
}
