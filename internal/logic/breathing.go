package logic

import (
	"math"
	"time"
)

const (
	// BreathingPeriod is the length of one rise-and-fall cycle.
	BreathingPeriod = 2500 * time.Millisecond

	// MinDuty keeps the bottom of the curve just above fully off.
	MinDuty = 3
	MaxDuty = 255

	breathingGamma = 2.2
)

// BreathingDuty returns the duty value at elapsed time t into the breathing
// cycle. The curve is a raised cosine with gamma correction, periodic in
// BreathingPeriod, at MinDuty when t is a multiple of the period and
// MaxDuty at half a period.
func BreathingDuty(t time.Duration) uint8 {
	t %= BreathingPeriod
	if t < 0 {
		t += BreathingPeriod
	}
	phase := float64(t) / float64(BreathingPeriod)

	raw := 0.5 * (1 - math.Cos(2*math.Pi*phase))
	raw = math.Max(0, math.Min(1, raw))
	corrected := math.Pow(raw, breathingGamma)

	return uint8(math.Round(MinDuty + corrected*(MaxDuty-MinDuty)))
}
