package input

import (
	"sync"
	"testing"
	"time"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestFirstEdgeAccepted(t *testing.T) {
	s := NewEdgeSource(DefaultDebounce)
	if !s.Trigger(t0) {
		t.Fatal("first edge should be accepted")
	}
	if !s.Pending() {
		t.Error("expected pending after accepted edge")
	}
	if !s.LastAccepted().Equal(t0) {
		t.Errorf("LastAccepted: got %v, want %v", s.LastAccepted(), t0)
	}
}

func TestEdgesWithinWindowRejected(t *testing.T) {
	s := NewEdgeSource(DefaultDebounce)
	s.Trigger(t0)
	s.Take()

	if s.Trigger(t0.Add(100 * time.Millisecond)) {
		t.Error("edge at +100ms should be rejected")
	}
	if s.Trigger(t0.Add(250 * time.Millisecond)) {
		t.Error("edge at exactly +250ms should be rejected (gap must exceed window)")
	}
	if s.Pending() {
		t.Error("rejected edges must not set pending")
	}
	if !s.Trigger(t0.Add(251 * time.Millisecond)) {
		t.Error("edge at +251ms should be accepted")
	}

	accepted, rejected := s.Stats()
	if accepted != 2 || rejected != 2 {
		t.Errorf("Stats: got accepted=%d rejected=%d, want 2/2", accepted, rejected)
	}
}

func TestEpochEdgeStartsWindow(t *testing.T) {
	epoch := time.Unix(0, 0)
	s := NewEdgeSource(DefaultDebounce)
	if !s.LastAccepted().IsZero() {
		t.Fatalf("LastAccepted before any edge: got %v, want zero", s.LastAccepted())
	}
	if !s.Trigger(epoch) {
		t.Fatal("edge at the Unix epoch should be accepted")
	}
	if !s.LastAccepted().Equal(epoch) {
		t.Errorf("LastAccepted: got %v, want %v", s.LastAccepted(), epoch)
	}
	if s.Trigger(epoch.Add(100 * time.Millisecond)) {
		t.Error("edge 100ms after an epoch edge should be rejected")
	}
}

func TestRejectedEdgeDoesNotExtendWindow(t *testing.T) {
	s := NewEdgeSource(DefaultDebounce)
	s.Trigger(t0)
	s.Trigger(t0.Add(200 * time.Millisecond)) // bounce, rejected

	// Window is measured from the last accepted edge, not the bounce
	if !s.Trigger(t0.Add(300 * time.Millisecond)) {
		t.Error("edge 300ms after accepted edge should be accepted")
	}
}

func TestTwoCyclePressesUnderWindowYieldOneRequest(t *testing.T) {
	src := NewSource(DefaultDebounce)
	src.Cycle.Trigger(t0)
	src.Cycle.Trigger(t0.Add(120 * time.Millisecond))

	n := 0
	for i := 0; i < 3; i++ {
		if _, cycle := src.Take(); cycle {
			n++
		}
	}
	if n != 1 {
		t.Errorf("expected exactly 1 accepted cycle request, got %d", n)
	}
}

func TestTakeClears(t *testing.T) {
	s := NewEdgeSource(DefaultDebounce)
	if s.Take() {
		t.Error("Take with nothing pending should be false")
	}
	s.Trigger(t0)
	if !s.Take() {
		t.Error("expected pending request")
	}
	if s.Take() {
		t.Error("second Take should be false")
	}
}

func TestSourceIndependentButtons(t *testing.T) {
	src := NewSource(DefaultDebounce)
	src.Cycle.Trigger(t0)
	if !src.Reset.Trigger(t0.Add(10 * time.Millisecond)) {
		t.Error("reset edge should not be debounced against cycle edge")
	}

	reset, cycle := src.Take()
	if !reset || !cycle {
		t.Errorf("expected both pending, got reset=%v cycle=%v", reset, cycle)
	}

	c := src.Counts()
	if c.CycleAccepted != 1 || c.ResetAccepted != 1 {
		t.Errorf("unexpected counts %+v", c)
	}
}

func TestSourceEdge(t *testing.T) {
	src := NewSource(DefaultDebounce)
	if src.Edge(ButtonCycle) != src.Cycle {
		t.Error("Edge(CYCLE) should return Cycle")
	}
	if src.Edge(ButtonReset) != src.Reset {
		t.Error("Edge(RESET) should return Reset")
	}
	if src.Edge("OTHER") != nil {
		t.Error("Edge(unknown) should be nil")
	}
}

func TestConcurrentTriggerAndTake(t *testing.T) {
	s := NewEdgeSource(0)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.Trigger(t0.Add(time.Duration(i+1) * time.Millisecond))
		}
	}()

	taken := 0
	for i := 0; i < 1000; i++ {
		if s.Take() {
			taken++
		}
	}
	wg.Wait()
	if s.Take() {
		taken++
	}

	if taken == 0 {
		t.Error("expected at least one request to be observed")
	}
	if accepted, _ := s.Stats(); accepted != 1000 {
		t.Errorf("expected 1000 accepted edges, got %d", accepted)
	}
}
