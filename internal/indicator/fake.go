package indicator

import (
	"fmt"

	"github.com/sweeney/mode-display/internal/logic"
)

// Write is one recorded SetChannel call.
type Write struct {
	Channel logic.Channel
	Duty    uint8
}

// FakeDriver records channel writes for test assertions.
type FakeDriver struct {
	// Current holds the last duty written to each channel.
	Current logic.Levels

	// Writes contains every SetChannel call in order.
	Writes []Write

	// SetError, if set, will be returned by SetChannel.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeDriver creates a FakeDriver for testing.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{}
}

// SetChannel records the write.
func (f *FakeDriver) SetChannel(ch logic.Channel, duty uint8) error {
	if f.SetError != nil {
		return f.SetError
	}
	if ch < 0 || ch >= logic.ChannelCount {
		return fmt.Errorf("fake driver: invalid channel %d", ch)
	}
	f.Current[ch] = duty
	f.Writes = append(f.Writes, Write{Channel: ch, Duty: duty})
	return nil
}

// Close marks the driver as closed and turns every channel off.
func (f *FakeDriver) Close() error {
	f.Current = logic.LevelsOff
	f.Closed = true
	return nil
}

// Reset clears recorded writes.
func (f *FakeDriver) Reset() {
	f.Current = logic.LevelsOff
	f.Writes = nil
	f.SetError = nil
	f.Closed = false
}
