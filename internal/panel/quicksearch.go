package panel

// TypeKey feeds a printable key into the panel, per the state machine of
// spec.md §4.5: Browsing -printable-> QuickSearching, QuickSearching
// -printable-> QuickSearching.
func (s *State) TypeKey(ch rune) {
	switch s.Mode {
	case Browsing, QuickSearching:
		s.Mode = QuickSearching
		s.QuickSearch.Extend(ch)
		s.applyQuickSearch()
	}
}

// Backspace shrinks the quick-search buffer; a no-op outside
// QuickSearching. An empty buffer still leaves the panel in
// QuickSearching — only Esc, navigation, or an action exit the mode
// (spec.md §4.5's transition table has no empty-buffer exception).
func (s *State) Backspace() {
	if s.Mode != QuickSearching {
		return
	}
	s.QuickSearch.Shrink()
	s.applyQuickSearch()
}

// EscapeQuickSearch clears the buffer and exits search mode (Esc).
func (s *State) EscapeQuickSearch() {
	s.QuickSearch.Clear()
	s.Mode = Browsing
}

// ExitQuickSearchPreservingPosition leaves QuickSearching (a navigation
// key or action was pressed) without clearing the buffer, per spec.md
// §4.4: "navigation keys exit search mode but preserve the buffer's last
// position."
func (s *State) ExitQuickSearchPreservingPosition() {
	if s.Mode == QuickSearching {
		s.Mode = Browsing
	}
}

// applyQuickSearch relocates the cursor to the first match, leaving it
// untouched ("no match" signaled via the bool) when nothing matches.
func (s *State) applyQuickSearch() (matched bool) {
	entries := s.Entries()
	idx, ok := s.QuickSearch.Locate(entries)
	if !ok {
		return false
	}
	s.Cursor = idx
	s.clampScroll(defaultPageSize)
	return true
}

// EnterDialog transitions into AwaitingDialog from either Browsing or
// QuickSearching, per spec.md §4.5.
func (s *State) EnterDialog() Mode {
	prev := s.Mode
	s.Mode = AwaitingDialog
	return prev
}

// ResolveDialog returns to the state that was active before the dialog was
// opened.
func (s *State) ResolveDialog(prev Mode) {
	s.Mode = prev
}
