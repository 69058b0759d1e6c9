package panel

// Side identifies one of the two panes.
type Side int

const (
	Left Side = iota
	Right
)

// Pair owns both panel states and enforces invariant 3 of spec.md §3:
// exactly one of (left, right) has active = true.
type Pair struct {
	Left  *State
	Right *State
}

// NewPair constructs both panels with Left active.
func NewPair(left, right *State) *Pair {
	left.Active = true
	right.Active = false
	return &Pair{Left: left, Right: right}
}

// Active returns the currently active panel.
func (p *Pair) Active() *State {
	if p.Left.Active {
		return p.Left
	}
	return p.Right
}

// Inactive returns the currently inactive panel.
func (p *Pair) Inactive() *State {
	if p.Left.Active {
		return p.Right
	}
	return p.Left
}

// Switch flips which panel is active, preserving invariant 3 atomically.
func (p *Pair) Switch() {
	p.Left.Active = !p.Left.Active
	p.Right.Active = !p.Right.Active
}

// Each calls fn once per panel, in Left-then-Right order.
func (p *Pair) Each(fn func(*State)) {
	fn(p.Left)
	fn(p.Right)
}
