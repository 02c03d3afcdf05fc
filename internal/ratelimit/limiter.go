// Package ratelimit tracks per-model call budgets inside rolling time
// windows, detects rate-limit signals in assistant responses, and walks the
// model fallback ladder when the active model is exhausted.
package ratelimit

import (
	"time"

	"github.com/CodexForgeBR/agent-pilot/internal/logging"
	"github.com/CodexForgeBR/agent-pilot/internal/model"
	"github.com/CodexForgeBR/agent-pilot/internal/state"
)

// DefaultWindow is the rolling window after which a model's counters reset.
const DefaultWindow = 5 * time.Hour

// ModelState is the persisted per-model counter block.
type ModelState struct {
	CallCount int       `json:"callCount"`
	LastReset time.Time `json:"lastReset"`
	IsLimited bool      `json:"isLimited"`
}

// persisted mirrors the on-disk JSON layout.
type persisted struct {
	Models       map[model.ID]*ModelState `json:"models"`
	GlobalCalls  int                      `json:"globalCalls"`
	SessionStart time.Time                `json:"sessionStart"`
}

// Limiter answers "is model X usable now" against per-model rolling
// windows. State is written through to the store after every mutation so a
// crash loses at most the in-flight call. Storage failures are logged and
// treated as "start fresh".
type Limiter struct {
	store  *state.Store
	window time.Duration
	limits map[model.ID]int

	st     persisted
	loaded bool

	// Now is the clock; replaceable in tests.
	Now func() time.Time
}

// NewLimiter creates a Limiter backed by store. A nil store keeps all state
// in memory. A zero window uses DefaultWindow. Per-model limits default to
// the model registry's call budgets.
func NewLimiter(store *state.Store, window time.Duration) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	limits := make(map[model.ID]int)
	for _, m := range model.All() {
		limits[m.ID] = m.DefaultCallLimit
	}
	return &Limiter{
		store:  store,
		window: window,
		limits: limits,
		Now:    time.Now,
	}
}

// SetLimit overrides the per-window call budget for one model.
func (l *Limiter) SetLimit(id model.ID, limit int) {
	l.limits[id] = limit
}

// ensureLoaded lazily reads persisted state, applying one reset sweep so
// stale windows do not survive a restart.
func (l *Limiter) ensureLoaded() {
	if l.loaded {
		return
	}
	l.loaded = true
	l.st = persisted{Models: make(map[model.ID]*ModelState), SessionStart: l.Now()}
	if l.store == nil {
		return
	}
	var disk persisted
	if err := l.store.LoadJSON(state.RateLimitFile, &disk); err != nil {
		logging.Debugf("rate-limit state not loaded, starting fresh: %v", err)
		return
	}
	if disk.Models != nil {
		l.st = disk
	}
	l.sweep()
}

// sweep zeroes every model whose window has elapsed. Returns true when any
// counter changed.
func (l *Limiter) sweep() bool {
	now := l.Now()
	changed := false
	for _, ms := range l.st.Models {
		if now.Sub(ms.LastReset) >= l.window {
			if ms.CallCount != 0 || ms.IsLimited {
				changed = true
			}
			ms.CallCount = 0
			ms.IsLimited = false
			ms.LastReset = now
		}
	}
	return changed
}

// save writes state through to the store. Failures are logged only.
func (l *Limiter) save() {
	if l.store == nil {
		return
	}
	if err := l.store.SaveJSON(state.RateLimitFile, &l.st); err != nil {
		logging.Warnf("Failed to save rate-limit state: %v", err)
	}
}

func (l *Limiter) modelState(id model.ID) *ModelState {
	ms, ok := l.st.Models[id]
	if !ok {
		ms = &ModelState{LastReset: l.Now()}
		l.st.Models[id] = ms
	}
	return ms
}

// CanCall reports whether id is under budget in the current window.
func (l *Limiter) CanCall(id model.ID) bool {
	l.ensureLoaded()
	if l.sweep() {
		l.save()
	}
	ms := l.modelState(id)
	limit, ok := l.limits[id]
	if !ok {
		return true
	}
	return ms.CallCount < limit
}

// RecordCall increments id's counter, marking the model limited once the
// budget is reached.
func (l *Limiter) RecordCall(id model.ID) {
	l.ensureLoaded()
	l.sweep()
	ms := l.modelState(id)
	ms.CallCount++
	l.st.GlobalCalls++
	if limit, ok := l.limits[id]; ok && ms.CallCount >= limit {
		ms.IsLimited = true
	}
	l.save()
}

// Unavailable returns the set of models currently at or over budget.
func (l *Limiter) Unavailable() map[model.ID]bool {
	l.ensureLoaded()
	if l.sweep() {
		l.save()
	}
	out := make(map[model.ID]bool)
	for id := range l.limits {
		if !l.CanCall(id) {
			out[id] = true
		}
	}
	return out
}

// TimeUntilReset returns how long until id's window rolls over. Zero when
// the model has never been called or the window already elapsed.
func (l *Limiter) TimeUntilReset(id model.ID) time.Duration {
	l.ensureLoaded()
	ms, ok := l.st.Models[id]
	if !ok {
		return 0
	}
	remaining := l.window - l.Now().Sub(ms.LastReset)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset clears one model's counters immediately (admin reset).
func (l *Limiter) Reset(id model.ID) {
	l.ensureLoaded()
	ms := l.modelState(id)
	ms.CallCount = 0
	ms.IsLimited = false
	ms.LastReset = l.Now()
	l.save()
}

// GlobalCalls returns the lifetime call total across all models.
func (l *Limiter) GlobalCalls() int {
	l.ensureLoaded()
	return l.st.GlobalCalls
}
