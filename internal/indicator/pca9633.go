package indicator

import (
	"fmt"

	"github.com/sweeney/mode-display/internal/logic"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/pca9633"
)

// DefaultPCA9633Addr is the all-address-pins-low address of the PCA9633.
const DefaultPCA9633Addr = 0x62

// PCA9633Driver drives the indicators from the first three outputs of an
// NXP PCA9633 I2C LED controller (LED0 = red, LED1 = yellow, LED2 = green).
type PCA9633Driver struct {
	dev    *pca9633.Dev
	levels logic.Levels
	synced bool
}

// NewPCA9633Driver initializes the controller at addr on bus with all
// outputs off.
func NewPCA9633Driver(bus i2c.Bus, addr uint16) (*PCA9633Driver, error) {
	dev, err := pca9633.New(bus, addr, pca9633.STRUCT_TOTEMPOLE)
	if err != nil {
		return nil, fmt.Errorf("init pca9633 at %#x: %w", addr, err)
	}
	return &PCA9633Driver{dev: dev, synced: true}, nil
}

// SetChannel updates one channel. The bus is only written when the value
// changes, since the loop calls this on every tick.
func (d *PCA9633Driver) SetChannel(ch logic.Channel, duty uint8) error {
	if ch < 0 || ch >= logic.ChannelCount {
		return fmt.Errorf("pca9633: invalid channel %d", ch)
	}
	if d.synced && d.levels[ch] == duty {
		return nil
	}
	d.levels[ch] = duty

	err := d.dev.Out(
		display.Intensity(d.levels[logic.ChannelRed]),
		display.Intensity(d.levels[logic.ChannelYellow]),
		display.Intensity(d.levels[logic.ChannelGreen]),
	)
	d.synced = err == nil
	return err
}

// Close turns every output fully off.
func (d *PCA9633Driver) Close() error {
	d.levels = logic.LevelsOff
	if err := d.dev.Halt(); err != nil {
		return fmt.Errorf("halt pca9633: %w", err)
	}
	return nil
}
