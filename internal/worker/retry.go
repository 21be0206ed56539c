package worker

import "time"

// RetryPolicy controls how notification delivery backs off between attempts.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NextDelay returns the wait before retrying a failed attempt (1-based).
// Delays grow by BackoffFactor per attempt and never exceed MaxDelay.
func (p RetryPolicy) NextDelay(attempt int) time.Duration {
	initial := p.InitialDelay
	if initial <= 0 {
		initial = time.Second
	}
	factor := p.BackoffFactor
	if factor <= 0 {
		factor = 2
	}

	d := float64(initial)
	for i := 1; i < attempt; i++ {
		d *= factor
		if p.MaxDelay > 0 && d >= float64(p.MaxDelay) {
			return p.MaxDelay
		}
	}
	if d <= 0 {
		return time.Second
	}
	return time.Duration(d)
}
