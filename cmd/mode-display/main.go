// Command mode-display cycles a set of indicator LEDs through display modes
// driven by two buttons, mirrors the mode on an OLED and publishes
// transitions to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/mode-display/internal/bus"
	"github.com/sweeney/mode-display/internal/config"
	"github.com/sweeney/mode-display/internal/display"
	"github.com/sweeney/mode-display/internal/gpio"
	"github.com/sweeney/mode-display/internal/indicator"
	"github.com/sweeney/mode-display/internal/input"
	"github.com/sweeney/mode-display/internal/logic"
	"github.com/sweeney/mode-display/internal/mqtt"
	"github.com/sweeney/mode-display/internal/status"
	"github.com/sweeney/mode-display/internal/web"
	"periph.io/x/conn/v3/i2c"
)

func main() {
	printState := flag.Bool("print-state", false, "Print current state and exit")

	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config, printState bool) error {
	src := input.NewSource(cfg.Debounce)

	// Initialize GPIO
	buttons, err := gpio.NewRealButtons(cfg.GPIOChip, cfg.PinCycle, cfg.PinReset, src, time.Now)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer buttons.Close()

	// Print state mode
	if printState {
		return printCurrentState(os.Stdout, buttons)
	}

	// The LED controller and the OLED share one I2C bus
	var i2cBus i2c.BusCloser
	if cfg.Indicator == config.IndicatorPCA9633 || cfg.Display == config.DisplayOLED {
		i2cBus, err = bus.Open(cfg.I2CBus)
		if err != nil {
			return err
		}
		defer i2cBus.Close()
	}

	driver, err := openIndicator(cfg, i2cBus)
	if err != nil {
		return err
	}
	defer driver.Close()

	sink, err := openDisplay(cfg, i2cBus)
	if err != nil {
		return err
	}
	if c, ok := sink.(io.Closer); ok {
		defer c.Close()
	}

	// Initialize MQTT
	var publisher mqtt.Publisher = mqtt.Discard{}
	var mqttStatus mqtt.ConnectionStatus = mqtt.Discard{}
	if cfg.MQTTEnabled() {
		p, err := mqtt.NewRealPublisher(cfg.Broker, cfg.ClientID)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		publisher, mqttStatus = p, p
	} else {
		log.Printf("mqtt disabled")
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), statusConfig(cfg))

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.HTTPAddr != "" {
		var remote *input.Source
		if cfg.Remote {
			remote = src
		}
		srv := web.New(cfg.HTTPAddr, tracker, remote, cfg.Refresh)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	log.Printf("started: tick=%v refresh=%v debounce=%v indicator=%s display=%s broker=%s heartbeat=%v",
		cfg.Tick, cfg.Refresh, cfg.Debounce, cfg.Indicator, cfg.Display, cfg.Broker, cfg.Heartbeat)

	ticker := time.NewTicker(cfg.Tick)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(src, driver, sink, publisher, mqttStatus, tracker, cfg.Refresh, cfg.Heartbeat, time.Now, ticker.C, sigCh)
}

func openIndicator(cfg config.Config, b i2c.Bus) (indicator.Driver, error) {
	if cfg.Indicator == config.IndicatorLog {
		return indicator.NewLogDriver(), nil
	}
	d, err := indicator.NewPCA9633Driver(b, uint16(cfg.LEDAddr))
	if err != nil {
		return nil, err
	}
	return d, nil
}

func openDisplay(cfg config.Config, b i2c.Bus) (display.Sink, error) {
	if cfg.Display == config.DisplayLog {
		return display.NewLogSink(), nil
	}
	o, err := display.NewOLED(b)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func statusConfig(cfg config.Config) status.Config {
	return status.Config{
		TickMs:      cfg.Tick.Milliseconds(),
		RefreshMs:   cfg.Refresh.Milliseconds(),
		DebounceMs:  cfg.Debounce.Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		Broker:      cfg.Broker,
		HTTPAddr:    cfg.HTTPAddr,
		Indicator:   cfg.Indicator,
		Display:     cfg.Display,
	}
}

func runLoop(src *input.Source, driver indicator.Driver, sink display.Sink, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, refresh, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	ctrl := logic.NewController(startTime)

	var indicatorErr, displayErr errLatch
	draw := func() {
		displayErr.report("display", display.Draw(sink, ctrl.Frame()))
	}

	// Blank the LEDs and show the idle frame before the first tick
	indicatorErr.report("indicator", indicator.Clear(driver))
	draw()
	lastDraw := startTime

	for {
		select {
		case s := <-sig:
			t := now()
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}

			if err := indicator.Clear(driver); err != nil {
				log.Printf("indicator clear error: %v", err)
			}
			sink.Clear()
			if err := sink.Flush(); err != nil {
				log.Printf("display clear error: %v", err)
			}

			event := mqtt.SystemEvent{
				Timestamp: t,
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				tracker.Update(ctrl)
				tracker.SetButtons(src.Counts())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()

			reset, cycle := src.Take()
			events := ctrl.Apply(reset, cycle, t)
			if len(events) > 0 {
				// Every transition starts from dark indicators
				indicatorErr.report("indicator", indicator.Clear(driver))
			}
			for _, event := range events {
				log.Printf("event: %s (%s -> %s)", event.Type, event.From, event.To)
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			levels := ctrl.Tick(t)
			indicatorErr.report("indicator", indicator.Apply(driver, levels))

			if len(events) > 0 || t.Sub(lastDraw) >= refresh {
				draw()
				lastDraw = t
			}

			// Check for heartbeat
			if hbData := ctrl.CheckHeartbeat(t, heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v mode=%s cycles=%d resets=%d",
					hbData.Uptime, hbData.Mode, hbData.Counts.Cycles, hbData.Counts.Resets)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					tracker.Update(ctrl)
					tracker.SetButtons(src.Counts())
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			// Update status tracker for HTTP consumers
			if tracker != nil {
				tracker.Update(ctrl)
				tracker.SetButtons(src.Counts())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}
		}
	}
}

// errLatch logs an output error when it first appears and again when it
// clears, so a missing device does not flood the log at tick rate.
type errLatch struct {
	failing bool
}

func (l *errLatch) report(what string, err error) {
	switch {
	case err != nil && !l.failing:
		l.failing = true
		log.Printf("%s error: %v", what, err)
	case err == nil && l.failing:
		l.failing = false
		log.Printf("%s recovered", what)
	}
}

func printCurrentState(w io.Writer, buttons gpio.Watcher) error {
	cycle, reset, err := buttons.Pressed()
	if err != nil {
		return fmt.Errorf("read gpio: %w", err)
	}
	fmt.Fprintf(w, "CYCLE: %s, RESET: %s\n", pressedString(cycle), pressedString(reset))

	f := logic.Render(logic.ModeIdle, false)
	fmt.Fprintf(w, "%s\n%s\n%s\n%s\n", f.Title, f.Label, f.Icon, f.Footer)
	return nil
}

func pressedString(down bool) string {
	if down {
		return "PRESSED"
	}
	return "RELEASED"
}
