package ratelimit

import (
	"context"
	"time"

	"github.com/CodexForgeBR/agent-pilot/internal/logging"
)

// HourlyLimiter caps total calls per hour across every model. Unlike the
// per-model Limiter it is session-scoped and in-memory only: when it trips,
// the operator decides between waiting out the window and exiting the
// session.
type HourlyLimiter struct {
	cap         int
	calls       int
	windowStart time.Time

	// Now is the clock; replaceable in tests.
	Now func() time.Time
}

// NewHourlyLimiter returns a limiter allowing cap calls per rolling hour.
// A cap of 0 disables the limiter.
func NewHourlyLimiter(cap int) *HourlyLimiter {
	return &HourlyLimiter{cap: cap, Now: time.Now}
}

// roll clears the counter once the hour has elapsed.
func (h *HourlyLimiter) roll() {
	if h.windowStart.IsZero() {
		h.windowStart = h.Now()
		return
	}
	if h.Now().Sub(h.windowStart) >= time.Hour {
		h.calls = 0
		h.windowStart = h.Now()
	}
}

// Record counts one call in the current hour.
func (h *HourlyLimiter) Record() {
	h.roll()
	h.calls++
}

// Tripped reports whether the hourly cap has been reached.
func (h *HourlyLimiter) Tripped() bool {
	if h.cap <= 0 {
		return false
	}
	h.roll()
	return h.calls >= h.cap
}

// TimeUntilReset returns the remaining time in the current hour window.
func (h *HourlyLimiter) TimeUntilReset() time.Duration {
	h.roll()
	if h.windowStart.IsZero() {
		return 0
	}
	remaining := time.Hour - h.Now().Sub(h.windowStart)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Wait blocks until the hour window rolls over, printing an adaptive
// countdown. It returns ctx.Err() if the operator cancels the wait;
// otherwise counters are cleared and the session may resume.
func (h *HourlyLimiter) Wait(ctx context.Context) error {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			remaining := time.Hour - h.Now().Sub(h.windowStart)
			if remaining <= 0 {
				h.calls = 0
				h.windowStart = h.Now()
				return nil
			}

			logging.Infof("Hourly call cap reached, resuming in %s",
				logging.FormatDuration(int(remaining.Seconds())))

			ticker.Reset(countdownInterval(remaining))
		}
	}
}

// countdownInterval spaces countdown lines further apart the longer the
// remaining wait.
func countdownInterval(remaining time.Duration) time.Duration {
	switch {
	case remaining < time.Minute:
		return 5 * time.Second
	case remaining < 5*time.Minute:
		return 30 * time.Second
	default:
		return 60 * time.Second
	}
}
