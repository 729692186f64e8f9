package logic

import "fmt"

// Title is the static heading drawn on every frame.
const Title = "~ MODE ~"

// Frame is one full screen of text. It is derived, never stored.
type Frame struct {
	Title  string
	Label  string
	Icon   string
	Footer string
}

// Render builds the frame for mode. alternate only affects ModeAlternating,
// whose icon follows the pattern flag.
func Render(mode Mode, alternate bool) Frame {
	f := Frame{
		Title:  Title,
		Footer: fmt.Sprintf("[%d/%d] Press to cycle", int(mode), ModeCount-1),
	}

	switch mode {
	case ModeIdle:
		f.Label, f.Icon = "SLEEP", "Zzz"
	case ModeAlternating:
		f.Label = "BLINK"
		if alternate {
			f.Icon = "(^_^)"
		} else {
			f.Icon = "(-_-)"
		}
	case ModeAllOn:
		f.Label, f.Icon = "PARTY!", "(*_*)"
	case ModeBreathing:
		f.Label, f.Icon = "CHILL", "(^_^)"
	}
	return f
}
