package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHourlyLimiter_TripsAtCap(t *testing.T) {
	h := NewHourlyLimiter(3)
	for i := 0; i < 2; i++ {
		h.Record()
		assert.False(t, h.Tripped())
	}
	h.Record()
	assert.True(t, h.Tripped())
}

func TestHourlyLimiter_DisabledWhenCapZero(t *testing.T) {
	h := NewHourlyLimiter(0)
	for i := 0; i < 100; i++ {
		h.Record()
	}
	assert.False(t, h.Tripped())
}

func TestHourlyLimiter_WindowRollsOver(t *testing.T) {
	clock := newFakeClock()
	h := NewHourlyLimiter(1)
	h.Now = clock.now

	h.Record()
	require.True(t, h.Tripped())

	clock.advance(time.Hour + time.Second)
	assert.False(t, h.Tripped(), "counter clears after the hour")
}

func TestHourlyLimiter_TimeUntilReset(t *testing.T) {
	clock := newFakeClock()
	h := NewHourlyLimiter(5)
	h.Now = clock.now

	assert.Equal(t, time.Duration(0), h.TimeUntilReset())

	h.Record()
	clock.advance(20 * time.Minute)
	assert.Equal(t, 40*time.Minute, h.TimeUntilReset())
}

func TestHourlyLimiter_WaitReturnsWhenFakeClockRollsOver(t *testing.T) {
	clock := newFakeClock()
	h := NewHourlyLimiter(1)
	h.Now = clock.now
	h.Record()
	require.True(t, h.Tripped())

	clock.advance(time.Hour + time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.Wait(ctx))
	assert.False(t, h.Tripped(), "counters clear once the wait completes")
}

func TestCountdownInterval(t *testing.T) {
	tests := []struct {
		remaining time.Duration
		want      time.Duration
	}{
		{30 * time.Second, 5 * time.Second},
		{3 * time.Minute, 30 * time.Second},
		{45 * time.Minute, 60 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, countdownInterval(tt.remaining))
	}
}

func TestHourlyLimiter_WaitHonorsCancellation(t *testing.T) {
	h := NewHourlyLimiter(1)
	h.Record()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := h.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
