// Package config holds daemon settings. Values come from built-in defaults,
// then an optional TOML file, then flags given on the command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sweeney/mode-display/internal/gpio"
	"github.com/sweeney/mode-display/internal/indicator"
	"github.com/sweeney/mode-display/internal/input"
)

// Indicator and display backends.
const (
	IndicatorPCA9633 = "pca9633"
	IndicatorLog     = "log"

	DisplayOLED = "oled"
	DisplayLog  = "log"
)

// Config contains every tunable of the daemon.
type Config struct {
	Tick      time.Duration `toml:"tick"`
	Refresh   time.Duration `toml:"refresh"`
	Debounce  time.Duration `toml:"debounce"`
	Heartbeat time.Duration `toml:"heartbeat"`

	Broker   string `toml:"broker"`
	ClientID string `toml:"client_id"`
	HTTPAddr string `toml:"http"`
	Remote   bool   `toml:"remote"`

	Indicator string `toml:"indicator"`
	Display   string `toml:"display"`
	I2CBus    string `toml:"i2c_bus"`
	LEDAddr   int    `toml:"led_addr"`

	GPIOChip string `toml:"gpio_chip"`
	PinCycle int    `toml:"pin_cycle"`
	PinReset int    `toml:"pin_reset"`
}

// Default is the configuration used when nothing overrides it.
var Default = Config{
	Tick:      10 * time.Millisecond,
	Refresh:   100 * time.Millisecond,
	Debounce:  input.DefaultDebounce,
	Heartbeat: 15 * time.Minute,
	Broker:    "tcp://192.168.1.200:1883",
	ClientID:  "mode-display",
	HTTPAddr:  ":80",
	Remote:    true,
	Indicator: IndicatorPCA9633,
	Display:   DisplayOLED,
	I2CBus:    "",
	LEDAddr:   indicator.DefaultPCA9633Addr,
	GPIOChip:  gpio.DefaultChip,
	PinCycle:  gpio.DefaultPinCycle,
	PinReset:  gpio.DefaultPinReset,
}

// Flags registers one flag per setting on fs, writing into c.
// Current values of c become the flag defaults.
func (c *Config) Flags(fs *flag.FlagSet) {
	fs.DurationVar(&c.Tick, "tick", c.Tick, "Main loop interval")
	fs.DurationVar(&c.Refresh, "refresh", c.Refresh, "Display refresh interval")
	fs.DurationVar(&c.Debounce, "debounce", c.Debounce, "Button debounce window")
	fs.DurationVar(&c.Heartbeat, "heartbeat", c.Heartbeat, "Heartbeat interval (0 to disable)")
	fs.StringVar(&c.Broker, "broker", c.Broker, `MQTT broker address (empty or "off" disables)`)
	fs.StringVar(&c.ClientID, "client-id", c.ClientID, "MQTT client ID")
	fs.StringVar(&c.HTTPAddr, "http", c.HTTPAddr, "HTTP status address (empty to disable)")
	fs.BoolVar(&c.Remote, "remote", c.Remote, "Accept cycle/reset presses over HTTP")
	fs.StringVar(&c.Indicator, "indicator", c.Indicator, "Indicator backend: pca9633 or log")
	fs.StringVar(&c.Display, "display", c.Display, "Display backend: oled or log")
	fs.StringVar(&c.I2CBus, "i2c-bus", c.I2CBus, "I2C bus name (empty for first available)")
	fs.IntVar(&c.LEDAddr, "led-addr", c.LEDAddr, "PCA9633 I2C address")
	fs.StringVar(&c.GPIOChip, "gpio-chip", c.GPIOChip, "GPIO chip for the buttons")
	fs.IntVar(&c.PinCycle, "pin-cycle", c.PinCycle, "Line offset of the cycle button")
	fs.IntVar(&c.PinReset, "pin-reset", c.PinReset, "Line offset of the reset button")
}

// Parse registers the config flags plus -config on fs, parses args and
// returns the merged, validated configuration.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Default
	var path string
	fs.StringVar(&path, "config", "", "Path to TOML config file")
	cfg.Flags(fs)

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, cfg.Validate()
	}

	// Remember what the user typed, load the file underneath it, then
	// replay the explicit flags so they win.
	explicit := map[string]string{}
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})

	cfg = Default
	if err := decodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	for name, v := range explicit {
		if name == "config" {
			continue
		}
		if err := fs.Set(name, v); err != nil {
			return cfg, fmt.Errorf("flag -%s: %w", name, err)
		}
	}
	return cfg, cfg.Validate()
}

// Load reads a TOML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default
	if err := decodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.Tick <= 0 {
		errs = append(errs, fmt.Errorf("tick must be positive, got %v", c.Tick))
	}
	if c.Refresh < c.Tick {
		errs = append(errs, fmt.Errorf("refresh (%v) must not be shorter than tick (%v)", c.Refresh, c.Tick))
	}
	if c.Debounce < 0 {
		errs = append(errs, fmt.Errorf("debounce must not be negative, got %v", c.Debounce))
	}
	if c.Heartbeat < 0 {
		errs = append(errs, fmt.Errorf("heartbeat must not be negative, got %v", c.Heartbeat))
	}
	switch c.Indicator {
	case IndicatorPCA9633, IndicatorLog:
	default:
		errs = append(errs, fmt.Errorf("unknown indicator backend %q", c.Indicator))
	}
	switch c.Display {
	case DisplayOLED, DisplayLog:
	default:
		errs = append(errs, fmt.Errorf("unknown display backend %q", c.Display))
	}
	if c.LEDAddr < 0 || c.LEDAddr > 0x7f {
		errs = append(errs, fmt.Errorf("led-addr %#x is not a 7-bit I2C address", c.LEDAddr))
	}
	return errors.Join(errs...)
}

// MQTTEnabled reports whether a broker is configured.
func (c Config) MQTTEnabled() bool {
	return c.Broker != "" && c.Broker != "off"
}
