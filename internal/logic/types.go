// Package logic contains the pure mode-display state machine.
// This package has NO external dependencies (no GPIO, I2C, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Mode is the active display mode.
type Mode int

const (
	ModeIdle Mode = iota
	ModeAlternating
	ModeAllOn
	ModeBreathing

	// ModeCount is the number of modes in the cycle.
	ModeCount = 4
)

// String returns the name used in logs and MQTT payloads.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeAlternating:
		return "ALTERNATING"
	case ModeAllOn:
		return "ALL_ON"
	case ModeBreathing:
		return "BREATHING"
	}
	return "UNKNOWN"
}

// Next returns the mode that follows m in the cycle.
func (m Mode) Next() Mode {
	return Mode((int(m) + 1) % ModeCount)
}

// Channel identifies one indicator.
type Channel int

const (
	ChannelRed Channel = iota
	ChannelYellow
	ChannelGreen

	ChannelCount = 3
)

// String returns the short channel name.
func (c Channel) String() string {
	switch c {
	case ChannelRed:
		return "R"
	case ChannelYellow:
		return "Y"
	case ChannelGreen:
		return "G"
	}
	return "?"
}

// Levels holds the 8-bit duty value of each indicator channel.
type Levels [ChannelCount]uint8

// Uniform returns Levels with every channel at duty.
func Uniform(duty uint8) Levels {
	return Levels{duty, duty, duty}
}

var (
	LevelsOff   = Levels{0, 0, 0}
	LevelsFull  = Levels{255, 255, 255}
	LevelsOuter = Levels{255, 0, 255}
	LevelsInner = Levels{0, 255, 0}
)

// EventType represents a mode transition trigger.
type EventType string

const (
	EventCycle EventType = "CYCLE"
	EventReset EventType = "RESET"
)

// Event represents a mode transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	From      Mode
	To        Mode
}

// EventCounts tracks transitions since startup.
type EventCounts struct {
	Cycles  int
	Resets  int
	Entered [ModeCount]int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Mode      Mode
	Counts    EventCounts
}
