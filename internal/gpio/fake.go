package gpio

import (
	"time"

	"github.com/sweeney/mode-display/internal/input"
)

// FakeButtons is a test double that injects edges into an input.Source
// the way the real edge watcher would.
type FakeButtons struct {
	src *input.Source

	// CyclePressed and ResetPressed are returned by Pressed().
	CyclePressed bool
	ResetPressed bool

	// PressedError, if set, will be returned by Pressed()
	PressedError error

	// Closed tracks if Close was called
	Closed bool

	// Edges counts every raw edge delivered, accepted or not.
	Edges int
}

// NewFakeButtons creates FakeButtons feeding src.
func NewFakeButtons(src *input.Source) *FakeButtons {
	return &FakeButtons{src: src}
}

// Press delivers a single falling edge for b at the given time.
// Returns whether the debouncer accepted it.
func (f *FakeButtons) Press(b input.Button, at time.Time) bool {
	if f.Closed {
		return false
	}
	s := f.src.Edge(b)
	if s == nil {
		return false
	}
	f.Edges++
	return s.Trigger(at)
}

// Bounce delivers n edges for b starting at start, spaced by gap, the way a
// noisy contact would. Returns how many were accepted.
func (f *FakeButtons) Bounce(b input.Button, start time.Time, n int, gap time.Duration) int {
	accepted := 0
	for i := 0; i < n; i++ {
		if f.Press(b, start.Add(time.Duration(i)*gap)) {
			accepted++
		}
	}
	return accepted
}

// Pressed returns the scripted button levels.
func (f *FakeButtons) Pressed() (bool, bool, error) {
	if f.PressedError != nil {
		return false, false, f.PressedError
	}
	return f.CyclePressed, f.ResetPressed, nil
}

// Close marks the buttons as closed; further presses are dropped.
func (f *FakeButtons) Close() error {
	f.Closed = true
	return nil
}
