package ratelimit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/agent-pilot/internal/model"
	"github.com/CodexForgeBR/agent-pilot/internal/state"
)

// fakeClock is a settable clock for window tests.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)}
}

func newTestStore(t *testing.T) *state.Store {
	return state.NewStore(filepath.Join(t.TempDir(), ".agent-pilot"))
}

func TestLimiter_ExactLimitBlocks(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(nil, 0)
	l.Now = clock.now
	l.SetLimit(model.GPT5, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.CanCall(model.GPT5), "call %d should be allowed", i)
		l.RecordCall(model.GPT5)
	}
	assert.False(t, l.CanCall(model.GPT5), "blocked after exactly limit calls")
}

func TestLimiter_WindowElapseResets(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(nil, 0)
	l.Now = clock.now
	l.SetLimit(model.GPT5, 1)

	l.RecordCall(model.GPT5)
	require.False(t, l.CanCall(model.GPT5))

	clock.advance(DefaultWindow)
	assert.True(t, l.CanCall(model.GPT5), "usable again once the window elapsed")
	assert.True(t, l.Unavailable()[model.GPT5] == false)
}

func TestLimiter_TimeUntilReset(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(nil, 0)
	l.Now = clock.now

	assert.Equal(t, time.Duration(0), l.TimeUntilReset(model.O3), "never-called model has no pending reset")

	l.RecordCall(model.O3)
	clock.advance(2 * time.Hour)
	assert.Equal(t, 3*time.Hour, l.TimeUntilReset(model.O3))
}

func TestLimiter_Unavailable(t *testing.T) {
	l := NewLimiter(nil, 0)
	l.SetLimit(model.O3, 1)
	l.RecordCall(model.O3)

	unavailable := l.Unavailable()
	assert.True(t, unavailable[model.O3])
	assert.False(t, unavailable[model.ClaudeSonnet])
}

func TestLimiter_PersistenceRoundTrip(t *testing.T) {
	store := newTestStore(t)
	clock := newFakeClock()

	l := NewLimiter(store, 0)
	l.Now = clock.now
	l.SetLimit(model.ClaudeOpus, 2)
	l.RecordCall(model.ClaudeOpus)
	l.RecordCall(model.ClaudeOpus)

	// A new limiter over the same store sees identical counters.
	reloaded := NewLimiter(store, 0)
	reloaded.Now = clock.now
	reloaded.SetLimit(model.ClaudeOpus, 2)
	assert.False(t, reloaded.CanCall(model.ClaudeOpus))
	assert.Equal(t, 2, reloaded.GlobalCalls())
}

func TestLimiter_LoadSweepsStaleWindows(t *testing.T) {
	store := newTestStore(t)
	clock := newFakeClock()

	l := NewLimiter(store, 0)
	l.Now = clock.now
	l.SetLimit(model.ClaudeOpus, 1)
	l.RecordCall(model.ClaudeOpus)

	clock.advance(DefaultWindow + time.Minute)
	reloaded := NewLimiter(store, 0)
	reloaded.Now = clock.now
	reloaded.SetLimit(model.ClaudeOpus, 1)
	assert.True(t, reloaded.CanCall(model.ClaudeOpus), "stale window reset on load")
}

func TestLimiter_CorruptStateStartsFresh(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Init())
	require.NoError(t, store.SaveJSON(state.RateLimitFile, "not an object"))

	l := NewLimiter(store, 0)
	assert.True(t, l.CanCall(model.ClaudeSonnet), "corrupt state must never be fatal")
}

func TestLimiter_AdminReset(t *testing.T) {
	l := NewLimiter(nil, 0)
	l.SetLimit(model.GPT5Fast, 1)
	l.RecordCall(model.GPT5Fast)
	require.False(t, l.CanCall(model.GPT5Fast))

	l.Reset(model.GPT5Fast)
	assert.True(t, l.CanCall(model.GPT5Fast))
}
