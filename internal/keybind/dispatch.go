package keybind

// Effect is the result of running an Action: a description of what should
// change, never a direct mutation performed by the dispatcher itself.
// Fields may combine (e.g. OpenDialog with Redraw); the zero Effect means
// "handled, nothing further to do".
type Effect struct {
	Redraw      bool
	OpenDialog  string // dialog kind to push, e.g. "confirm", "find"; empty for none
	CloseDialog bool
	Quit        bool
}

// Handler executes one Action against whatever state it closed over and
// returns the Effect to apply. A Handler never panics on invalid input —
// it reports the no-op Effect instead. An Action bound in the registry may
// have no Handler; Dispatch and Invoke then report ok=false.
type Handler func() Effect

// Dispatcher pairs a Registry with the live table of Handlers the
// application shell (C11) builds at startup.
type Dispatcher struct {
	Registry *Registry
	handlers map[Action]Handler
}

// NewDispatcher builds a Dispatcher from a populated Registry. Handlers are
// registered after construction via Handle, since building them requires
// the panel pair, pipeline, and history the registry itself knows nothing
// about.
func NewDispatcher(reg *Registry) *Dispatcher {
	return &Dispatcher{Registry: reg, handlers: map[Action]Handler{}}
}

// Handle installs the Handler invoked whenever action is dispatched.
func (d *Dispatcher) Handle(action Action, h Handler) {
	d.handlers[action] = h
}

// Invoke runs the handler bound to action directly, bypassing chord
// resolution — used when an action is triggered from a menu selection
// rather than a keystroke.
func (d *Dispatcher) Invoke(action Action) (Effect, bool) {
	h, ok := d.handlers[action]
	if !ok {
		return Effect{}, false
	}
	return h(), true
}

// Dispatch resolves chord against activeChain and runs the bound handler,
// if any. Returns ok=false when no binding matched (the event is left
// unhandled, e.g. passed through to a text-input widget).
func (d *Dispatcher) Dispatch(activeChain []Context, chord Chord) (Effect, bool) {
	action, _, matched := d.Registry.Resolve(activeChain, chord)
	if !matched {
		return Effect{}, false
	}
	h, ok := d.handlers[action]
	if !ok {
		return Effect{}, false
	}
	return h(), true
}
