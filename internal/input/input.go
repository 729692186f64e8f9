// Package input turns raw button edges into debounced transition requests.
//
// Edge callbacks and the polling loop share only atomics: a callback may set
// a pending flag, the loop reads and clears it with Take. A second accepted
// edge that lands before the loop consumes the first leaves the flag set,
// which is the same observable outcome.
package input

import (
	"sync/atomic"
	"time"
)

// DefaultDebounce is the minimum gap between two accepted edges of one button.
const DefaultDebounce = 250 * time.Millisecond

// EdgeSource debounces a single button.
type EdgeSource struct {
	window time.Duration

	pending      atomic.Bool
	lastAccepted atomic.Pointer[time.Time] // nil until the first accepted edge
	accepted     atomic.Uint64
	rejected     atomic.Uint64
}

// NewEdgeSource creates an EdgeSource with the given debounce window.
func NewEdgeSource(window time.Duration) *EdgeSource {
	return &EdgeSource{window: window}
}

// Trigger records a raw falling edge at now. The edge is accepted, and the
// pending flag set, only if the gap since the last accepted edge exceeds the
// debounce window. Returns whether the edge was accepted.
func (s *EdgeSource) Trigger(now time.Time) bool {
	for {
		last := s.lastAccepted.Load()
		if last != nil && now.Sub(*last) <= s.window {
			s.rejected.Add(1)
			return false
		}
		// HTTP presses can race the GPIO watcher
		if s.lastAccepted.CompareAndSwap(last, &now) {
			break
		}
	}
	s.pending.Store(true)
	s.accepted.Add(1)
	return true
}

// Take reports whether a request is pending and clears it.
func (s *EdgeSource) Take() bool {
	return s.pending.Swap(false)
}

// Pending reports whether a request is pending without clearing it.
func (s *EdgeSource) Pending() bool {
	return s.pending.Load()
}

// LastAccepted returns the time of the last accepted edge, or the zero time.
func (s *EdgeSource) LastAccepted() time.Time {
	if last := s.lastAccepted.Load(); last != nil {
		return *last
	}
	return time.Time{}
}

// Stats returns the number of accepted and rejected edges.
func (s *EdgeSource) Stats() (accepted, rejected uint64) {
	return s.accepted.Load(), s.rejected.Load()
}

// Button identifies one of the two inputs.
type Button string

const (
	ButtonCycle Button = "CYCLE"
	ButtonReset Button = "RESET"
)

// Source pairs the cycle and reset buttons.
type Source struct {
	Cycle *EdgeSource
	Reset *EdgeSource
}

// NewSource creates a Source whose buttons share one debounce window.
func NewSource(window time.Duration) *Source {
	return &Source{
		Cycle: NewEdgeSource(window),
		Reset: NewEdgeSource(window),
	}
}

// Edge returns the EdgeSource for b, or nil if b is unknown.
func (s *Source) Edge(b Button) *EdgeSource {
	switch b {
	case ButtonCycle:
		return s.Cycle
	case ButtonReset:
		return s.Reset
	}
	return nil
}

// Take consumes both pending flags.
func (s *Source) Take() (reset, cycle bool) {
	return s.Reset.Take(), s.Cycle.Take()
}

// Counts is a point-in-time view of edge statistics.
type Counts struct {
	CycleAccepted uint64
	CycleRejected uint64
	ResetAccepted uint64
	ResetRejected uint64
}

// Counts returns edge statistics for both buttons.
func (s *Source) Counts() Counts {
	var c Counts
	c.CycleAccepted, c.CycleRejected = s.Cycle.Stats()
	c.ResetAccepted, c.ResetRejected = s.Reset.Stats()
	return c
}
