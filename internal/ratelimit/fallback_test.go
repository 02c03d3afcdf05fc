package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/agent-pilot/internal/model"
)

func TestFallback_WalksPriorityOrder(t *testing.T) {
	f := NewFallback()

	id, ok := f.NextModel()
	require.True(t, ok)
	assert.Equal(t, model.ClaudeOpus, id, "most capable model first")

	f.MarkExhausted(model.ClaudeOpus)
	id, ok = f.NextModel()
	require.True(t, ok)
	assert.Equal(t, model.ClaudeSonnetThinking, id)
}

func TestFallback_ExhaustsEntireList(t *testing.T) {
	f := NewFallback()
	for _, id := range model.FallbackOrder() {
		f.MarkExhausted(id)
	}
	_, ok := f.NextModel()
	assert.False(t, ok, "empty ladder ends the session")
}

func TestFallback_ClearSingleModel(t *testing.T) {
	f := NewFallback()
	for _, id := range model.FallbackOrder() {
		f.MarkExhausted(id)
	}
	f.Clear(model.GeminiPro)

	id, ok := f.NextModel()
	require.True(t, ok)
	assert.Equal(t, model.GeminiPro, id)
}

func TestFallback_PeriodicFullReset(t *testing.T) {
	clock := newFakeClock()
	f := NewFallback()
	f.Now = clock.now
	f.lastReset = clock.t

	for _, id := range model.FallbackOrder() {
		f.MarkExhausted(id)
	}
	_, ok := f.NextModel()
	require.False(t, ok)

	clock.advance(FullResetInterval + time.Minute)
	id, ok := f.NextModel()
	assert.True(t, ok, "full reset clears the exhausted set")
	assert.Equal(t, model.ClaudeOpus, id)
}

func TestFallback_ExhaustedIsACopy(t *testing.T) {
	f := NewFallback()
	f.MarkExhausted(model.O3)

	snapshot := f.Exhausted()
	snapshot[model.GPT5] = true
	assert.False(t, f.Exhausted()[model.GPT5])
}
