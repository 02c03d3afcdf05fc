// Package breaker halts runaway loops that burn quota without making
// progress.
//
// The breaker is a three-state machine: CLOSED (normal), HALF_OPEN
// (monitoring after sustained no-progress), OPEN (halted). OPEN is sticky
// for the remainder of the session; only an explicit Reset clears it.
package breaker

import (
	"fmt"

	"github.com/CodexForgeBR/agent-pilot/internal/logging"
)

// State is the breaker's position.
type State string

const (
	Closed   State = "CLOSED"
	HalfOpen State = "HALF_OPEN"
	Open     State = "OPEN"
)

// Default thresholds.
const (
	// DefaultHalfOpenAfter is the consecutive no-progress count that moves
	// CLOSED to HALF_OPEN.
	DefaultHalfOpenAfter = 2
	// DefaultNoProgressLimit is the consecutive no-progress count that opens
	// the breaker.
	DefaultNoProgressLimit = 3
	// DefaultSameSignalLimit is the consecutive duplicate-response/error
	// count that opens the breaker.
	DefaultSameSignalLimit = 5
)

// hashMemory is how many recent response hashes are kept for duplicate
// detection.
const hashMemory = 5

// Result is one loop's outcome as seen by the breaker.
type Result struct {
	LoopNumber     int
	FilesChanged   int
	HasErrors      bool
	ResponseLength int
	ResponseHash   string
}

// Breaker tracks consecutive no-progress loops and consecutive
// duplicate/error loops. All state is in-memory and reset per session.
type Breaker struct {
	state State

	consecutiveNoProgress int
	consecutiveSameSignal int
	lastProgressLoop      int
	totalOpens            int
	reason                string

	halfOpenAfter   int
	noProgressLimit int
	sameSignalLimit int

	recentHashes []string
}

// New returns a CLOSED breaker with the default thresholds.
func New() *Breaker {
	return &Breaker{
		state:           Closed,
		halfOpenAfter:   DefaultHalfOpenAfter,
		noProgressLimit: DefaultNoProgressLimit,
		sameSignalLimit: DefaultSameSignalLimit,
	}
}

// NewWithThresholds returns a breaker with custom limits. Non-positive
// values keep the defaults.
func NewWithThresholds(halfOpenAfter, noProgressLimit, sameSignalLimit int) *Breaker {
	b := New()
	if halfOpenAfter > 0 {
		b.halfOpenAfter = halfOpenAfter
	}
	if noProgressLimit > 0 {
		b.noProgressLimit = noProgressLimit
	}
	if sameSignalLimit > 0 {
		b.sameSignalLimit = sameSignalLimit
	}
	return b
}

// State returns the current breaker state.
func (b *Breaker) State() State { return b.state }

// Reason returns the string recorded at the last transition.
func (b *Breaker) Reason() string { return b.reason }

// TotalOpens counts how many times the breaker has opened.
func (b *Breaker) TotalOpens() int { return b.totalOpens }

// CanExecute reports whether the loop may run another iteration.
func (b *Breaker) CanExecute() bool { return b.state != Open }

// seenRecently reports whether hash matches any of the retained recent
// hashes, then records it.
func (b *Breaker) seenRecently(hash string) bool {
	if hash == "" {
		return false
	}
	seen := false
	for _, h := range b.recentHashes {
		if h == hash {
			seen = true
			break
		}
	}
	b.recentHashes = append(b.recentHashes, hash)
	if len(b.recentHashes) > hashMemory {
		b.recentHashes = b.recentHashes[len(b.recentHashes)-hashMemory:]
	}
	return seen
}

// RecordResult folds one loop outcome into the breaker and returns whether
// execution may continue. Progress means FilesChanged > 0. The duplicate
// and error signals deliberately share one counter; the recorded reason
// names which of the two fired.
func (b *Breaker) RecordResult(r Result) bool {
	duplicate := b.seenRecently(r.ResponseHash)

	if r.FilesChanged > 0 {
		b.consecutiveNoProgress = 0
		b.lastProgressLoop = r.LoopNumber
		if b.state == HalfOpen {
			b.transition(Closed, fmt.Sprintf("progress at loop %d", r.LoopNumber))
		}
	} else {
		b.consecutiveNoProgress++
	}

	switch {
	case duplicate:
		b.consecutiveSameSignal++
		if b.consecutiveSameSignal >= b.sameSignalLimit {
			b.trip(fmt.Sprintf("same response repeated %d times (duplicate-response signal, loop %d)",
				b.consecutiveSameSignal, r.LoopNumber))
			return false
		}
	case r.HasErrors:
		b.consecutiveSameSignal++
		if b.consecutiveSameSignal >= b.sameSignalLimit {
			b.trip(fmt.Sprintf("%d consecutive error responses (error signal, loop %d)",
				b.consecutiveSameSignal, r.LoopNumber))
			return false
		}
	}

	if b.consecutiveNoProgress >= b.noProgressLimit {
		b.trip(fmt.Sprintf("no file changes for %d consecutive loops (last progress at loop %d)",
			b.consecutiveNoProgress, b.lastProgressLoop))
		return false
	}

	if b.state == Closed && b.consecutiveNoProgress >= b.halfOpenAfter {
		b.transition(HalfOpen, fmt.Sprintf("%d consecutive no-progress loops", b.consecutiveNoProgress))
	}

	return b.state != Open
}

// trip moves the breaker to OPEN.
func (b *Breaker) trip(reason string) {
	if b.state != Open {
		b.totalOpens++
	}
	b.transition(Open, reason)
}

// transition logs and records a state change.
func (b *Breaker) transition(to State, reason string) {
	if b.state == to {
		return
	}
	logging.Warnf("Circuit breaker %s -> %s: %s", b.state, to, reason)
	b.state = to
	b.reason = reason
}

// Reset closes the breaker and zeroes its counters. Called at session start
// or when the recovery ladder perturbs a stuck loop.
func (b *Breaker) Reset(reason string) {
	logging.Infof("Circuit breaker reset (%s)", reason)
	b.state = Closed
	b.consecutiveNoProgress = 0
	b.consecutiveSameSignal = 0
	b.reason = ""
	b.recentHashes = nil
}

// Snapshot is a read-only view of breaker internals for status display.
type Snapshot struct {
	State                 State  `json:"state"`
	ConsecutiveNoProgress int    `json:"consecutiveNoProgress"`
	ConsecutiveSameSignal int    `json:"consecutiveSameSignal"`
	LastProgressLoop      int    `json:"lastProgressLoop"`
	TotalOpens            int    `json:"totalOpens"`
	Reason                string `json:"reason"`
}

// Snapshot returns the current internals.
func (b *Breaker) Snapshot() Snapshot {
	return Snapshot{
		State:                 b.state,
		ConsecutiveNoProgress: b.consecutiveNoProgress,
		ConsecutiveSameSignal: b.consecutiveSameSignal,
		LastProgressLoop:      b.lastProgressLoop,
		TotalOpens:            b.totalOpens,
		Reason:                b.reason,
	}
}
