package display

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
)

// OLED is a Sink backed by an SSD1306 panel on I2C.
type OLED struct {
	*Canvas
	dev *ssd1306.Dev
}

// NewOLED initializes a 128x64 SSD1306 on bus and blanks it.
func NewOLED(bus i2c.Bus) (*OLED, error) {
	opts := ssd1306.DefaultOpts
	opts.W, opts.H = Width, Height

	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return nil, fmt.Errorf("init ssd1306: %w", err)
	}

	o := &OLED{Canvas: NewCanvas(), dev: dev}
	if err := o.Flush(); err != nil {
		return nil, err
	}
	return o, nil
}

// Flush pushes the framebuffer to the panel.
func (o *OLED) Flush() error {
	if err := o.dev.Draw(o.dev.Bounds(), o.Image(), image.Point{}); err != nil {
		return fmt.Errorf("draw ssd1306: %w", err)
	}
	return nil
}

// Close blanks the panel and turns it off.
func (o *OLED) Close() error {
	o.Clear()
	if err := o.Flush(); err != nil {
		return err
	}
	if err := o.dev.Halt(); err != nil {
		return fmt.Errorf("halt ssd1306: %w", err)
	}
	return nil
}
