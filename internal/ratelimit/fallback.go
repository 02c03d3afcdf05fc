package ratelimit

import (
	"time"

	"github.com/CodexForgeBR/agent-pilot/internal/model"
)

// FullResetInterval is how often the exhausted set is cleared wholesale,
// matching the rolling rate-limit window.
const FullResetInterval = 5 * time.Hour

// Fallback advances through the fixed priority-ordered model list as models
// get rate limited. Exhausted entries clear individually on a detected
// cooldown or in bulk every FullResetInterval.
type Fallback struct {
	exhausted map[model.ID]bool
	order     []model.ID
	lastReset time.Time

	// Now is the clock; replaceable in tests.
	Now func() time.Time
}

// NewFallback returns a Fallback over the registry's fallback order.
func NewFallback() *Fallback {
	f := &Fallback{
		exhausted: make(map[model.ID]bool),
		order:     model.FallbackOrder(),
		Now:       time.Now,
	}
	f.lastReset = f.Now()
	return f
}

// maybeFullReset clears the whole exhausted set once FullResetInterval has
// elapsed.
func (f *Fallback) maybeFullReset() {
	if f.Now().Sub(f.lastReset) >= FullResetInterval {
		f.ResetAll()
	}
}

// MarkExhausted records that id hit a rate limit.
func (f *Fallback) MarkExhausted(id model.ID) {
	f.maybeFullReset()
	f.exhausted[id] = true
}

// NextModel returns the most capable model not yet exhausted. ok is false
// when the entire list is exhausted, which ends the session.
func (f *Fallback) NextModel() (model.ID, bool) {
	f.maybeFullReset()
	for _, id := range f.order {
		if !f.exhausted[id] {
			return id, true
		}
	}
	return "", false
}

// Exhausted returns a copy of the exhausted set.
func (f *Fallback) Exhausted() map[model.ID]bool {
	out := make(map[model.ID]bool, len(f.exhausted))
	for id := range f.exhausted {
		out[id] = true
	}
	return out
}

// Clear removes one model from the exhausted set, e.g. after an observed
// cooldown.
func (f *Fallback) Clear(id model.ID) {
	delete(f.exhausted, id)
}

// ResetAll empties the exhausted set and restarts the full-reset clock.
func (f *Fallback) ResetAll() {
	f.exhausted = make(map[model.ID]bool)
	f.lastReset = f.Now()
}
