// Package gpio provides button edge watching with hardware abstraction.
// The real implementation uses Linux GPIO character device edge events.
// The fake implementation allows testing without hardware.
package gpio

// Watcher feeds button edges into an input.Source until closed.
type Watcher interface {
	// Pressed returns the current logical states of the two buttons.
	// The buttons are active-low: raw 0 = logical pressed.
	// Returns (cyclePressed, resetPressed, error).
	Pressed() (bool, bool, error)

	// Close stops edge delivery and releases GPIO resources.
	Close() error
}

// DefaultChip is the GPIO character device the buttons are wired to.
const DefaultChip = "gpiochip0"

// Pin definitions (BCM numbering)
const (
	DefaultPinCycle = 23 // Cycle mode
	DefaultPinReset = 24 // Back to idle
)
