//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/sweeney/mode-display/internal/input"
	"github.com/warthog618/go-gpiocdev"
)

// RealButtons watches two push buttons using the Linux GPIO character device.
type RealButtons struct {
	cycle *gpiocdev.Line
	reset *gpiocdev.Line
}

// NewRealButtons requests both button lines and starts delivering falling
// edges to src. now stamps each edge; pass time.Now outside tests.
func NewRealButtons(chip string, pinCycle, pinReset int, src *input.Source, now func() time.Time) (*RealButtons, error) {
	// Buttons short to ground, so bias the lines high and watch for the
	// falling edge of a press.
	cycle, err := gpiocdev.RequestLine(chip, pinCycle,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(edgeHandler(src.Cycle, now)))
	if err != nil {
		return nil, fmt.Errorf("request cycle pin %d: %w", pinCycle, err)
	}

	reset, err := gpiocdev.RequestLine(chip, pinReset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(edgeHandler(src.Reset, now)))
	if err != nil {
		cycle.Close()
		return nil, fmt.Errorf("request reset pin %d: %w", pinReset, err)
	}

	return &RealButtons{
		cycle: cycle,
		reset: reset,
	}, nil
}

// edgeHandler runs on the gpiocdev watcher goroutine and must only touch
// the edge source's atomics.
func edgeHandler(s *input.EdgeSource, now func() time.Time) func(gpiocdev.LineEvent) {
	return func(evt gpiocdev.LineEvent) {
		if evt.Type != gpiocdev.LineEventFallingEdge {
			return
		}
		s.Trigger(now())
	}
}

// Pressed returns the logical button states.
// Inverts raw GPIO: raw inactive (0) = pressed, raw active (1) = released.
func (b *RealButtons) Pressed() (bool, bool, error) {
	cycleRaw, err := b.cycle.Value()
	if err != nil {
		return false, false, fmt.Errorf("read cycle pin: %w", err)
	}

	resetRaw, err := b.reset.Value()
	if err != nil {
		return false, false, fmt.Errorf("read reset pin: %w", err)
	}

	return cycleRaw == 0, resetRaw == 0, nil
}

// Close stops the edge watchers and releases GPIO resources.
func (b *RealButtons) Close() error {
	var errs []error

	if b.cycle != nil {
		if err := b.cycle.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cycle pin: %w", err))
		}
	}
	if b.reset != nil {
		if err := b.reset.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close reset pin: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
