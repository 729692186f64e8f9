package gpio

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/mode-display/internal/input"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestFakeButtonsPress(t *testing.T) {
	src := input.NewSource(input.DefaultDebounce)
	f := NewFakeButtons(src)

	if !f.Press(input.ButtonCycle, t0) {
		t.Fatal("first press should be accepted")
	}
	reset, cycle := src.Take()
	if reset || !cycle {
		t.Errorf("expected only cycle pending, got reset=%v cycle=%v", reset, cycle)
	}
}

func TestFakeButtonsBounce(t *testing.T) {
	src := input.NewSource(input.DefaultDebounce)
	f := NewFakeButtons(src)

	// 5 edges 20ms apart is one physical press
	if n := f.Bounce(input.ButtonReset, t0, 5, 20*time.Millisecond); n != 1 {
		t.Errorf("expected 1 accepted edge, got %d", n)
	}
	if f.Edges != 5 {
		t.Errorf("expected 5 raw edges, got %d", f.Edges)
	}

	c := src.Counts()
	if c.ResetAccepted != 1 || c.ResetRejected != 4 {
		t.Errorf("unexpected counts %+v", c)
	}
}

func TestFakeButtonsUnknownButton(t *testing.T) {
	f := NewFakeButtons(input.NewSource(input.DefaultDebounce))
	if f.Press("OTHER", t0) {
		t.Error("unknown button should not be accepted")
	}
}

func TestFakeButtonsPressed(t *testing.T) {
	f := NewFakeButtons(input.NewSource(input.DefaultDebounce))
	f.CyclePressed = true

	cycle, reset, err := f.Pressed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cycle || reset {
		t.Errorf("expected (true, false), got (%v, %v)", cycle, reset)
	}

	f.PressedError = errors.New("simulated error")
	if _, _, err := f.Pressed(); err == nil || err.Error() != "simulated error" {
		t.Errorf("expected simulated error, got %v", err)
	}
}

func TestFakeButtonsClose(t *testing.T) {
	src := input.NewSource(input.DefaultDebounce)
	f := NewFakeButtons(src)

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
	if f.Press(input.ButtonCycle, t0) {
		t.Error("press after Close should be dropped")
	}
	if src.Cycle.Pending() {
		t.Error("no request should be pending after Close")
	}
}
