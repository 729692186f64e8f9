package indicator

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/sweeney/mode-display/internal/logic"
)

func TestApplyWritesAllChannels(t *testing.T) {
	f := NewFakeDriver()
	if err := Apply(f, logic.LevelsOuter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Current != logic.LevelsOuter {
		t.Errorf("expected %v, got %v", logic.LevelsOuter, f.Current)
	}

	want := []Write{
		{logic.ChannelRed, 255},
		{logic.ChannelYellow, 0},
		{logic.ChannelGreen, 255},
	}
	if len(f.Writes) != len(want) {
		t.Fatalf("expected %d writes, got %d", len(want), len(f.Writes))
	}
	for i, w := range want {
		if f.Writes[i] != w {
			t.Errorf("write %d: expected %+v, got %+v", i, w, f.Writes[i])
		}
	}
}

func TestApplyError(t *testing.T) {
	f := NewFakeDriver()
	f.SetError = errors.New("bus fault")

	err := Apply(f, logic.LevelsFull)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, f.SetError) {
		t.Errorf("expected wrapped bus fault, got %v", err)
	}
	if !strings.Contains(err.Error(), "set channel R") {
		t.Errorf("expected first failing channel in error, got %v", err)
	}
}

func TestClear(t *testing.T) {
	f := NewFakeDriver()
	Apply(f, logic.LevelsFull)
	if err := Clear(f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Current != logic.LevelsOff {
		t.Errorf("expected off, got %v", f.Current)
	}
}

func TestFakeDriverInvalidChannel(t *testing.T) {
	f := NewFakeDriver()
	if err := f.SetChannel(logic.Channel(7), 10); err == nil {
		t.Error("expected error for invalid channel")
	}
}

func TestFakeDriverClose(t *testing.T) {
	f := NewFakeDriver()
	Apply(f, logic.LevelsFull)
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
	if f.Current != logic.LevelsOff {
		t.Errorf("expected off after Close, got %v", f.Current)
	}
}

func TestLogDriverLogsChangesOnly(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
	})

	d := NewLogDriver()
	Apply(d, logic.Uniform(40))
	Apply(d, logic.Uniform(40))
	Apply(d, logic.Levels{40, 41, 40})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{"indicator: R=40", "indicator: Y=40", "indicator: G=40", "indicator: Y=41"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d log lines, got %d: %q", len(want), len(lines), lines)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d: expected %q, got %q", i, w, lines[i])
		}
	}
	if d.Levels() != (logic.Levels{40, 41, 40}) {
		t.Errorf("unexpected levels %v", d.Levels())
	}
}
