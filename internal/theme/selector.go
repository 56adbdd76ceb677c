package theme

import "sync"

// Selector is the two-state machine choosing the current theme.
//
// In auto mode the current theme is ForDate(now), re-evaluated only when
// Refresh is called. In manual mode the theme is pinned until the user
// changes it or switches back to auto.
type Selector struct {
	mu      sync.Mutex
	current Theme
	auto    bool
}

// NewSelector creates a Selector in auto mode.
func NewSelector() *Selector {
	return &Selector{current: ForDate(timeNow()), auto: true}
}

// Current returns the current theme.
func (s *Selector) Current() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.clone()
}

// AutoDetect reports whether the selector follows the calendar.
func (s *Selector) AutoDetect() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auto
}

// Refresh re-evaluates the date in auto mode and reports whether the theme
// changed. It does nothing in manual mode.
func (s *Selector) Refresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.auto {
		return false
	}
	next := ForDate(timeNow())
	changed := next.ID != s.current.ID
	s.current = next
	return changed
}

// SetTheme pins the theme with the given id and switches to manual mode.
// Unknown ids leave both the theme and the mode unchanged.
func (s *Selector) SetTheme(id string) bool {
	t, ok := Lookup(id)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = t
	s.auto = false
	return true
}

// ToggleAutoDetect flips the mode and returns the new AutoDetect value.
// Entering auto re-evaluates the date immediately; leaving it pins whatever
// is currently shown.
func (s *Selector) ToggleAutoDetect() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auto = !s.auto
	if s.auto {
		s.current = ForDate(timeNow())
	}
	return s.auto
}

// ThemeRef is the persisted reference to a theme.
type ThemeRef struct {
	ID string `json:"id"`
}

// State is the persisted form of a Selector. The palette itself is never
// stored.
type State struct {
	CurrentTheme ThemeRef `json:"currentTheme"`
	AutoDetect   bool     `json:"autoDetect"`
}

// State returns the persistable state.
func (s *Selector) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{CurrentTheme: ThemeRef{ID: s.current.ID}, AutoDetect: s.auto}
}

// Restore applies a persisted state. Auto mode ignores the stored id and
// recomputes from the date. A manual state whose id is no longer known
// falls back to auto.
func (s *Selector) Restore(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !st.AutoDetect {
		if t, ok := Lookup(st.CurrentTheme.ID); ok {
			s.current = t
			s.auto = false
			return
		}
	}
	s.auto = true
	s.current = ForDate(timeNow())
}
