package callback

import (
	"math"
	"time"
)

// Policy bounds the probe sequence.
type Policy struct {
	MaxAttempts      int
	BaseDelay        time.Duration
	Growth           float64
	MaxDelay         time.Duration
	InFlightAttempts int
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:      8,
		BaseDelay:        300 * time.Millisecond,
		Growth:           1.5,
		MaxDelay:         5 * time.Second,
		InFlightAttempts: 3,
	}
}

// Delay is the wait between attempt i and attempt i+1:
// min(MaxDelay, BaseDelay*Growth^i), rounded to the millisecond.
func (p Policy) Delay(i int) time.Duration {
	if i < 0 {
		return 0
	}
	ms := float64(p.BaseDelay) / float64(time.Millisecond) * math.Pow(p.Growth, float64(i))
	if p.MaxDelay > 0 && ms >= float64(p.MaxDelay)/float64(time.Millisecond) {
		return p.MaxDelay
	}
	if ms >= float64(math.MaxInt64/int64(time.Millisecond)) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(math.Round(ms)) * time.Millisecond
}

// DelayBefore is the wait before attempt i; attempt 0 starts immediately.
func (p Policy) DelayBefore(i int) time.Duration {
	return p.Delay(i - 1)
}
