package palette

// Navigator moves the host to a destination path.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(path string)

// Navigate calls f(path).
func (f NavigatorFunc) Navigate(path string) { f(path) }

// State is the per-open search state.
type State struct {
	Query         string
	SelectedIndex int
}

// Session is one palette lifetime: opened by the host, driven by keystrokes,
// and discarded on close. Nothing carries over from one open to the next.
//
// A Session is not safe for concurrent use; it lives on the UI goroutine.
type Session struct {
	catalog []Destination
	nav     Navigator
	onClose func()

	open    bool
	state   State
	results []Destination
}

// NewSession builds a closed session over catalog. nav receives activated
// paths; onClose, when non-nil, runs every time the palette closes.
func NewSession(catalog []Destination, nav Navigator, onClose func()) *Session {
	return &Session{
		catalog: append([]Destination(nil), catalog...),
		nav:     nav,
		onClose: onClose,
	}
}

// Open resets the search state and shows the full catalog.
func (s *Session) Open() {
	s.open = true
	s.state = State{}
	s.results = Filter(s.catalog, "")
}

// IsOpen reports whether the palette is showing.
func (s *Session) IsOpen() bool {
	return s.open
}

// State returns the current query and selection.
func (s *Session) State() State {
	return s.state
}

// Results returns the current result set. It is nil while the palette is
// closed and non-nil (possibly empty) while open.
func (s *Session) Results() []Destination {
	return s.results
}

// SetQuery refilters the catalog. A changed query always moves the selection
// back to the first result.
func (s *Session) SetQuery(query string) {
	if !s.open || query == s.state.Query {
		return
	}
	s.state.Query = query
	s.results = Filter(s.catalog, query)
	s.state.SelectedIndex = 0
}

// MoveDown selects the next result, stopping at the last one.
func (s *Session) MoveDown() {
	if !s.open {
		return
	}
	if s.state.SelectedIndex < len(s.results)-1 {
		s.state.SelectedIndex++
	}
}

// MoveUp selects the previous result, stopping at the first one.
func (s *Session) MoveUp() {
	if !s.open {
		return
	}
	if s.state.SelectedIndex > 0 {
		s.state.SelectedIndex--
	}
}

// Selected returns the highlighted destination, if any.
func (s *Session) Selected() (Destination, bool) {
	if !s.open || len(s.results) == 0 {
		return Destination{}, false
	}
	return s.results[s.state.SelectedIndex], true
}

// Activate navigates to the highlighted destination and closes the palette.
// With no results it does nothing and returns false.
func (s *Session) Activate() bool {
	dest, ok := s.Selected()
	if !ok {
		return false
	}
	if s.nav != nil {
		s.nav.Navigate(dest.Path)
	}
	s.close()
	return true
}

// Cancel closes the palette without navigating.
func (s *Session) Cancel() {
	if !s.open {
		return
	}
	s.close()
}

func (s *Session) close() {
	s.open = false
	s.state = State{}
	s.results = nil
	if s.onClose != nil {
		s.onClose()
	}
}
