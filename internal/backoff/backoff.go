// Package backoff computes retry delays. Delays are monotonic non-decreasing
// in expectation across attempts and always bounded by the configured cap, so
// a retry loop driven by these strategies terminates.
package backoff

import (
	"math/rand"
	"time"
)

// Strategy computes the delay before retry attempt n (0-based).
type Strategy interface {
	Delay(attempt int, initial, cap time.Duration, multiplier, jitter float64) time.Duration
}

// Exponential grows the delay by multiplier each attempt and adds uniform
// jitter on top. This is the default strategy.
type Exponential struct{}

// Delay implements Strategy.
func (Exponential) Delay(attempt int, initial, cap time.Duration, multiplier, jitter float64) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// Cap the exponent to keep the float math from overflowing.
	if attempt > 30 {
		attempt = 30
	}

	delay := time.Duration(float64(initial) * pow(multiplier, attempt))
	if delay < 0 || delay > cap {
		delay = cap
	}

	jitter = clamp(jitter)
	if jitter > 0 {
		extra := time.Duration(float64(delay) * jitter * rand.Float64())
		if delay+extra > cap {
			delay = cap
		} else {
			delay += extra
		}
	}
	return delay
}

// Decorrelated implements AWS-style decorrelated jitter: each delay is drawn
// uniformly between the initial delay and three times the previous upper
// bound. Smoother tail latencies than Exponential under contention.
type Decorrelated struct{}

// Delay implements Strategy. The jitter and multiplier parameters are unused;
// the 3x growth factor is part of the decorrelated scheme.
func (Decorrelated) Delay(attempt int, initial, cap time.Duration, _, _ float64) time.Duration {
	if attempt <= 0 {
		return initial
	}
	if attempt > 10 {
		attempt = 10
	}

	base := float64(initial)
	upper := base * pow(3.0, attempt)
	if upper > float64(cap) || upper < 0 {
		upper = float64(cap)
	}
	if upper < base {
		upper = base
	}

	delay := time.Duration(base + rand.Float64()*(upper-base))
	if delay < 0 || delay > cap {
		delay = cap
	}
	return delay
}

func clamp(jitter float64) float64 {
	if jitter < 0 {
		return 0
	}
	if jitter > 1 {
		return 1
	}
	return jitter
}

// pow is integer exponentiation on float64, enough for backoff growth.
func pow(base float64, exponent int) float64 {
	result := 1.0
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}
