package indicator

import (
	"fmt"
	"log"

	"github.com/sweeney/mode-display/internal/logic"
)

// LogDriver stands in for LED hardware on headless runs. It logs each
// channel change; steady values produce no output.
type LogDriver struct {
	levels logic.Levels
}

// NewLogDriver creates a LogDriver with every channel off.
func NewLogDriver() *LogDriver {
	return &LogDriver{}
}

// SetChannel records duty and logs it when it differs from the last value.
func (d *LogDriver) SetChannel(ch logic.Channel, duty uint8) error {
	if ch < 0 || ch >= logic.ChannelCount {
		return fmt.Errorf("log driver: invalid channel %d", ch)
	}
	if d.levels[ch] == duty {
		return nil
	}
	d.levels[ch] = duty
	log.Printf("indicator: %s=%d", ch, duty)
	return nil
}

// Levels returns the last recorded values.
func (d *LogDriver) Levels() logic.Levels {
	return d.levels
}

// Close resets all channels to off.
func (d *LogDriver) Close() error {
	d.levels = logic.LevelsOff
	return nil
}
