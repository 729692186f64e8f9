package logic

import (
	"testing"
	"time"
)

func TestBreathingDutyPhaseAlignment(t *testing.T) {
	if got := BreathingDuty(0); got != MinDuty {
		t.Errorf("duty(0): expected %d, got %d", MinDuty, got)
	}
	if got := BreathingDuty(1250 * time.Millisecond); got != MaxDuty {
		t.Errorf("duty(1250ms): expected %d, got %d", MaxDuty, got)
	}
	if got := BreathingDuty(BreathingPeriod); got != MinDuty {
		t.Errorf("duty(period): expected %d, got %d", MinDuty, got)
	}
}

func TestBreathingDutyPeriodic(t *testing.T) {
	for ms := 0; ms < 5000; ms += 7 {
		d := time.Duration(ms) * time.Millisecond
		if a, b := BreathingDuty(d), BreathingDuty(d+BreathingPeriod); a != b {
			t.Fatalf("duty(%v)=%d but duty(%v)=%d", d, a, d+BreathingPeriod, b)
		}
	}
}

func TestBreathingDutyRange(t *testing.T) {
	for ms := -3000; ms < 6000; ms++ {
		d := BreathingDuty(time.Duration(ms) * time.Millisecond)
		if d < MinDuty || d > MaxDuty {
			t.Fatalf("duty(%dms)=%d out of [%d, %d]", ms, d, MinDuty, MaxDuty)
		}
	}
}

func TestBreathingDutySingleRiseAndFall(t *testing.T) {
	half := int(BreathingPeriod / time.Millisecond / 2)

	prev := BreathingDuty(0)
	for ms := 1; ms <= half; ms++ {
		d := BreathingDuty(time.Duration(ms) * time.Millisecond)
		if d < prev {
			t.Fatalf("rising half: duty(%dms)=%d dropped below %d", ms, d, prev)
		}
		prev = d
	}
	for ms := half + 1; ms < 2*half; ms++ {
		d := BreathingDuty(time.Duration(ms) * time.Millisecond)
		if d > prev {
			t.Fatalf("falling half: duty(%dms)=%d rose above %d", ms, d, prev)
		}
		prev = d
	}
}

func TestBreathingDutySymmetric(t *testing.T) {
	for ms := 0; ms <= 1250; ms += 25 {
		a := BreathingDuty(time.Duration(ms) * time.Millisecond)
		b := BreathingDuty(time.Duration(2500-ms) * time.Millisecond)
		if diff := int(a) - int(b); diff < -1 || diff > 1 {
			t.Errorf("duty(%dms)=%d vs duty(%dms)=%d: expected mirror image", ms, a, 2500-ms, b)
		}
	}
}

func TestBreathingDutyNegativeElapsed(t *testing.T) {
	if a, b := BreathingDuty(-500*time.Millisecond), BreathingDuty(2000*time.Millisecond); a != b {
		t.Errorf("duty(-500ms)=%d, duty(2000ms)=%d: expected equal", a, b)
	}
}
