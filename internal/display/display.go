// Package display draws frames onto a write-only text/graphics sink.
package display

import "github.com/sweeney/mode-display/internal/logic"

// Screen dimensions of the 0.96" SSD1306 module.
const (
	Width  = 128
	Height = 64
)

// TextSize selects one of the two fonts.
type TextSize int

const (
	TextSmall TextSize = 1
	TextLarge TextSize = 2
)

// Sink accepts drawing commands. Nothing is shown until Flush.
type Sink interface {
	Clear()
	DrawRect(x, y, w, h int)
	// Print draws text with its top-left corner at (x, y).
	Print(x, y int, size TextSize, text string)
	Flush() error
}

// Layout positions, in pixels from the top-left corner.
const (
	titleX, titleY   = 35, 8
	labelX, labelY   = 15, 24
	iconX, iconY     = 85, 28
	footerX, footerY = 5, 50
)

// Draw redraws the whole frame. There are no partial updates.
func Draw(s Sink, f logic.Frame) error {
	s.Clear()
	s.DrawRect(0, 0, Width, Height)
	s.Print(titleX, titleY, TextSmall, f.Title)
	s.Print(labelX, labelY, TextLarge, f.Label)
	s.Print(iconX, iconY, TextSmall, f.Icon)
	s.Print(footerX, footerY, TextSmall, f.Footer)
	return s.Flush()
}
