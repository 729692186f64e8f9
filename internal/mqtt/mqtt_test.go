package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/mode-display/internal/logic"
)

var t0 = time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC)

func TestFormatPayload(t *testing.T) {
	event := logic.Event{
		Timestamp: t0,
		Type:      logic.EventCycle,
		From:      logic.ModeIdle,
		To:        logic.ModeAlternating,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Mode.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Mode.Timestamp)
	}
	if parsed.Mode.Event != "CYCLE" {
		t.Errorf("unexpected event: %s", parsed.Mode.Event)
	}
	if parsed.Mode.From != "IDLE" {
		t.Errorf("unexpected from: %s", parsed.Mode.From)
	}
	if parsed.Mode.To != "ALTERNATING" {
		t.Errorf("unexpected to: %s", parsed.Mode.To)
	}
	if parsed.Mode.Index != 1 {
		t.Errorf("unexpected index: %d", parsed.Mode.Index)
	}
}

func TestFormatPayloadExactJSON(t *testing.T) {
	event := logic.Event{
		Timestamp: t0.In(time.FixedZone("CET", 3600)),
		Type:      logic.EventReset,
		From:      logic.ModeAllOn,
		To:        logic.ModeIdle,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"mode":{"timestamp":"2026-02-02T22:18:12Z","event":"RESET","from":"ALL_ON","to":"IDLE","index":0}}`
	if string(payload) != want {
		t.Errorf("payload:\n got %s\nwant %s", payload, want)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{Timestamp: t0, Event: "SHUTDOWN", Reason: "SIGTERM"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"system":{"timestamp":"2026-02-02T22:18:12Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != want {
		t.Errorf("payload:\n got %s\nwant %s", payload, want)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	payload, _ := FormatSystemPayload(SystemEvent{Timestamp: t0, Event: "OFFLINE"})
	want := `{"system":{"timestamp":"2026-02-02T22:18:12Z","event":"OFFLINE"}}`
	if string(payload) != want {
		t.Errorf("payload:\n got %s\nwant %s", payload, want)
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{"mode":"IDLE"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "HEARTBEAT", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload passthrough, got %s", payload)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()
	e := logic.Event{Timestamp: t0, Type: logic.EventCycle, From: logic.ModeAllOn, To: logic.ModeBreathing}

	if err := f.Publish(e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Events) != 1 || len(f.Payloads) != 1 {
		t.Fatalf("expected 1 event and payload, got %d/%d", len(f.Events), len(f.Payloads))
	}

	p, err := f.LastPayload()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Mode.To != "BREATHING" || p.Mode.Index != 3 {
		t.Errorf("unexpected payload %+v", p.Mode)
	}

	if err := f.PublishSystem(SystemEvent{Timestamp: t0, Event: "STARTUP"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.SystemPayloads) != 1 {
		t.Errorf("expected 1 system payload, got %d", len(f.SystemPayloads))
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker down")
	f.PublishSystemError = errors.New("broker down")

	if err := f.Publish(logic.Event{}); err == nil {
		t.Error("expected Publish error")
	}
	if err := f.PublishSystem(SystemEvent{}); err == nil {
		t.Error("expected PublishSystem error")
	}
	if len(f.Events) != 0 || len(f.SystemEvents) != 0 {
		t.Error("failed publishes should not be recorded")
	}
}

func TestFakePublisherOfflineBuffersAndReplays(t *testing.T) {
	f := NewFakePublisher()
	f.Offline = true

	f.Publish(logic.Event{Timestamp: t0, Type: logic.EventCycle, From: logic.ModeIdle, To: logic.ModeAlternating})
	f.PublishSystem(SystemEvent{Timestamp: t0, Event: "HEARTBEAT"})
	f.Publish(logic.Event{Timestamp: t0, Type: logic.EventReset, From: logic.ModeAlternating, To: logic.ModeIdle})

	if len(f.Payloads) != 0 || len(f.SystemPayloads) != 0 {
		t.Fatal("nothing should be delivered while offline")
	}
	if f.Buffered() != 3 {
		t.Fatalf("expected 3 buffered, got %d", f.Buffered())
	}

	f.Reconnect()
	if f.Buffered() != 0 {
		t.Errorf("buffer should be empty after reconnect, got %d", f.Buffered())
	}
	if len(f.Payloads) != 2 || len(f.SystemPayloads) != 1 {
		t.Fatalf("expected 2+1 payloads after reconnect, got %d+%d", len(f.Payloads), len(f.SystemPayloads))
	}
	p, _ := f.LastPayload()
	if p.Mode.Event != "RESET" {
		t.Errorf("replay should preserve order, last event %q", p.Mode.Event)
	}
	if !f.IsConnected() {
		t.Error("expected connected after reconnect")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(logic.Event{})
	f.Offline = true
	f.Publish(logic.Event{})
	f.Close()

	f.Reset()
	if len(f.Events) != 0 || len(f.Payloads) != 0 || f.Closed || f.Offline || f.Buffered() != 0 {
		t.Errorf("Reset did not clear state: %+v", f)
	}
}

func TestDiscard(t *testing.T) {
	var p Publisher = Discard{}
	if err := p.Publish(logic.Event{Timestamp: t0, Type: logic.EventCycle}); err != nil {
		t.Errorf("Publish: %v", err)
	}
	if err := p.PublishSystem(SystemEvent{Timestamp: t0, Event: "STARTUP"}); err != nil {
		t.Errorf("PublishSystem: %v", err)
	}
	if (Discard{}).IsConnected() {
		t.Error("Discard should never report connected")
	}
}
