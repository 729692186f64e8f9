// Package indicator drives the three brightness-controlled LEDs.
package indicator

import (
	"fmt"

	"github.com/sweeney/mode-display/internal/logic"
)

// Driver sets the duty value of one indicator channel.
type Driver interface {
	// SetChannel sets ch to duty (0 = off, 255 = full).
	SetChannel(ch logic.Channel, duty uint8) error

	// Close turns the indicators off and releases the hardware.
	Close() error
}

// Apply writes every channel of l to d. All channels are attempted even if
// one fails; the first error is returned.
func Apply(d Driver, l logic.Levels) error {
	var first error
	for ch := logic.Channel(0); ch < logic.ChannelCount; ch++ {
		if err := d.SetChannel(ch, l[ch]); err != nil && first == nil {
			first = fmt.Errorf("set channel %s: %w", ch, err)
		}
	}
	return first
}

// Clear turns every channel off.
func Clear(d Driver) error {
	return Apply(d, logic.LevelsOff)
}
