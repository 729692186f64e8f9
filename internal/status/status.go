// Package status provides a thread-safe status tracker for the mode-display daemon.
// It is written by the run loop and read by HTTP handlers and MQTT lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/mode-display/internal/input"
	"github.com/sweeney/mode-display/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs      int64
	RefreshMs   int64
	DebounceMs  int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	Indicator   string
	Display     string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Mode          logic.Mode
	Alternate     bool
	Levels        logic.Levels
	Frame         logic.Frame
	ModeSince     time.Time
	Counts        logic.EventCounts
	Buttons       input.Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// InMode returns how long the current mode has been active.
func (s Snapshot) InMode() time.Duration {
	if s.ModeSince.IsZero() {
		return 0
	}
	return s.Now.Sub(s.ModeSince)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
// The initial frame is the idle frame.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Frame:     logic.Render(logic.ModeIdle, false),
			ModeSince: startTime,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update copies the controller state. Called from runLoop on every tick.
func (t *Tracker) Update(c *logic.Controller) {
	mode, alt, levels := c.Mode(), c.Alternate(), c.Levels()
	since, counts := c.ModeSince(), c.EventCountsSnapshot()
	frame := c.Frame()

	t.mu.Lock()
	t.snap.Mode = mode
	t.snap.Alternate = alt
	t.snap.Levels = levels
	t.snap.Frame = frame
	t.snap.ModeSince = since
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetButtons sets the edge statistics.
func (t *Tracker) SetButtons(c input.Counts) {
	t.mu.Lock()
	t.snap.Buttons = c
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
