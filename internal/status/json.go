package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/mode-display/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string      `json:"event,omitempty"`
	Reason        string      `json:"reason,omitempty"`
	Mode          string      `json:"mode"`
	ModeIndex     int         `json:"mode_index"`
	ModeSeconds   int64       `json:"mode_seconds"`
	Alternate     bool        `json:"alternate"`
	Levels        LevelsJSON  `json:"levels"`
	Frame         FrameJSON   `json:"frame"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	StartTime     string      `json:"start_time"`
	Timestamp     string      `json:"timestamp"`
	MQTT          MQTTStatus  `json:"mqtt"`
	Counts        CountsJSON  `json:"event_counts"`
	Buttons       ButtonsJSON `json:"buttons"`
	Config        ConfigJSON  `json:"config"`
}

// LevelsJSON holds the indicator duty values.
type LevelsJSON struct {
	R uint8 `json:"r"`
	Y uint8 `json:"y"`
	G uint8 `json:"g"`
}

// FrameJSON is the text currently on the display.
type FrameJSON struct {
	Title  string `json:"title"`
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	Footer string `json:"footer"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of transition counts.
type CountsJSON struct {
	Cycles  int            `json:"cycles"`
	Resets  int            `json:"resets"`
	Entered map[string]int `json:"entered"`
}

// ButtonsJSON reports accepted and debounced edges per button.
type ButtonsJSON struct {
	CycleAccepted uint64 `json:"cycle_accepted"`
	CycleRejected uint64 `json:"cycle_rejected"`
	ResetAccepted uint64 `json:"reset_accepted"`
	ResetRejected uint64 `json:"reset_rejected"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs      int64  `json:"tick_ms"`
	RefreshMs   int64  `json:"refresh_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	Indicator   string `json:"indicator"`
	Display     string `json:"display"`
}

func buildInner(snap Snapshot) StatusInner {
	entered := make(map[string]int, logic.ModeCount)
	for m := logic.Mode(0); m < logic.ModeCount; m++ {
		entered[m.String()] = snap.Counts.Entered[m]
	}

	return StatusInner{
		Mode:        snap.Mode.String(),
		ModeIndex:   int(snap.Mode),
		ModeSeconds: int64(snap.InMode().Truncate(time.Second).Seconds()),
		Alternate:   snap.Alternate,
		Levels: LevelsJSON{
			R: snap.Levels[logic.ChannelRed],
			Y: snap.Levels[logic.ChannelYellow],
			G: snap.Levels[logic.ChannelGreen],
		},
		Frame: FrameJSON{
			Title:  snap.Frame.Title,
			Label:  snap.Frame.Label,
			Icon:   snap.Frame.Icon,
			Footer: snap.Frame.Footer,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Cycles:  snap.Counts.Cycles,
			Resets:  snap.Counts.Resets,
			Entered: entered,
		},
		Buttons: ButtonsJSON{
			CycleAccepted: snap.Buttons.CycleAccepted,
			CycleRejected: snap.Buttons.CycleRejected,
			ResetAccepted: snap.Buttons.ResetAccepted,
			ResetRejected: snap.Buttons.ResetRejected,
		},
		Config: ConfigJSON{
			TickMs:      snap.Config.TickMs,
			RefreshMs:   snap.Config.RefreshMs,
			DebounceMs:  snap.Config.DebounceMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			Indicator:   snap.Config.Indicator,
			Display:     snap.Config.Display,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
