package logic

import "time"

// AlternateInterval is how often the Alternating mode flips its pattern.
const AlternateInterval = 400 * time.Millisecond

// Controller holds the current mode and derives indicator levels from it.
type Controller struct {
	mode       Mode
	modeSince  time.Time
	lastToggle time.Time
	alternate  bool
	levels     Levels

	startTime     time.Time
	eventCounts   EventCounts
	lastHeartbeat time.Time
}

// NewController creates a controller in ModeIdle.
// The startTime is used for calculating uptime in heartbeat events.
func NewController(startTime time.Time) *Controller {
	return &Controller{
		mode:          ModeIdle,
		modeSince:     startTime,
		lastToggle:    startTime,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Cycle advances to the next mode and clears the indicators.
func (c *Controller) Cycle(now time.Time) Event {
	from := c.mode
	c.enter(from.Next(), now)
	c.eventCounts.Cycles++
	return Event{Timestamp: now, Type: EventCycle, From: from, To: c.mode}
}

// Reset forces ModeIdle from any mode and clears the indicators.
func (c *Controller) Reset(now time.Time) Event {
	from := c.mode
	c.enter(ModeIdle, now)
	c.eventCounts.Resets++
	return Event{Timestamp: now, Type: EventReset, From: from, To: c.mode}
}

// Apply consumes pending requests in a fixed order: reset first, then cycle.
// It returns the resulting events, which may be empty.
func (c *Controller) Apply(reset, cycle bool, now time.Time) []Event {
	var events []Event
	if reset {
		events = append(events, c.Reset(now))
	}
	if cycle {
		events = append(events, c.Cycle(now))
	}
	return events
}

func (c *Controller) enter(m Mode, now time.Time) {
	c.mode = m
	c.modeSince = now
	c.lastToggle = now
	c.alternate = false
	c.levels = LevelsOff
	c.eventCounts.Entered[m]++
}

// Tick advances the active pattern to now and returns the levels to drive.
// It is meant to be called once per loop iteration.
func (c *Controller) Tick(now time.Time) Levels {
	switch c.mode {
	case ModeIdle:
		c.levels = LevelsOff

	case ModeAlternating:
		if now.Sub(c.lastToggle) >= AlternateInterval {
			c.lastToggle = now
			c.alternate = !c.alternate
			if c.alternate {
				c.levels = LevelsOuter
			} else {
				c.levels = LevelsInner
			}
		}

	case ModeAllOn:
		c.levels = LevelsFull

	case ModeBreathing:
		c.levels = Uniform(BreathingDuty(now.Sub(c.modeSince)))
	}
	return c.levels
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Alternate returns the Alternating mode's pattern flag.
func (c *Controller) Alternate() bool {
	return c.alternate
}

// Levels returns the levels computed by the last Tick or transition.
func (c *Controller) Levels() Levels {
	return c.levels
}

// ModeSince returns when the active mode was entered.
func (c *Controller) ModeSince() time.Time {
	return c.modeSince
}

// Frame renders the display frame for the current state.
func (c *Controller) Frame() Frame {
	return Render(c.mode, c.alternate)
}

// EventCountsSnapshot returns a copy of the transition counters.
func (c *Controller) EventCountsSnapshot() EventCounts {
	return c.eventCounts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed,
// or if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}

	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Mode:      c.mode,
		Counts:    c.eventCounts,
	}
}
