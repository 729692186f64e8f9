package display

import (
	"image"
	"image/color"

	"periph.io/x/devices/v3/ssd1306/image1bit"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

var white = color.RGBA{255, 255, 255, 255}

// textStyle pairs a font with the distance from the top of a text line to
// its baseline, since tinyfont positions text by baseline.
type textStyle struct {
	font   tinyfont.Fonter
	ascent int
}

var styles = map[TextSize]textStyle{
	TextSmall: {font: &proggy.TinySZ8pt7b, ascent: 7},
	TextLarge: {font: &freemono.Bold9pt7b, ascent: 12},
}

// Canvas is a 1-bit framebuffer Sink. Flush is a no-op; wrap it to push
// pixels to hardware.
type Canvas struct {
	img *image1bit.VerticalLSB
}

// NewCanvas creates a blank Width x Height canvas.
func NewCanvas() *Canvas {
	return &Canvas{img: image1bit.NewVerticalLSB(image.Rect(0, 0, Width, Height))}
}

// Image returns the framebuffer. It is only valid until the next Clear.
func (c *Canvas) Image() *image1bit.VerticalLSB {
	return c.img
}

// Clear turns every pixel off.
func (c *Canvas) Clear() {
	for i := range c.img.Pix {
		c.img.Pix[i] = 0
	}
}

// DrawRect draws a one pixel outline.
func (c *Canvas) DrawRect(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	for i := x; i < x+w; i++ {
		c.set(i, y)
		c.set(i, y+h-1)
	}
	for j := y; j < y+h; j++ {
		c.set(x, j)
		c.set(x+w-1, j)
	}
}

// Print draws text at (x, y). Unknown sizes fall back to TextSmall.
func (c *Canvas) Print(x, y int, size TextSize, text string) {
	st, ok := styles[size]
	if !ok {
		st = styles[TextSmall]
	}
	tinyfont.WriteLine(pixels{c}, st.font, int16(x), int16(y+st.ascent), text, white)
}

// Flush does nothing for a bare canvas.
func (c *Canvas) Flush() error {
	return nil
}

// Lit reports whether the pixel at (x, y) is on.
func (c *Canvas) Lit(x, y int) bool {
	return bool(c.img.BitAt(x, y))
}

func (c *Canvas) set(x, y int) {
	if !(image.Point{x, y}).In(c.img.Rect) {
		return
	}
	c.img.SetBit(x, y, image1bit.On)
}

// pixels adapts a Canvas to the drivers.Displayer interface tinyfont draws on.
var _ drivers.Displayer = pixels{}

type pixels struct {
	c *Canvas
}

func (p pixels) Size() (int16, int16) {
	return Width, Height
}

func (p pixels) SetPixel(x, y int16, col color.RGBA) {
	if col.R == 0 && col.G == 0 && col.B == 0 {
		return
	}
	p.c.set(int(x), int(y))
}

func (p pixels) Display() error {
	return nil
}
