// Package exitdetect classifies assistant responses against completion,
// stagnation and failure signals and decides when a session should end.
//
// Signal history (test-only loops, done signals, completion indicators,
// the consecutive-failure counter) is persisted per workspace so that a
// process restart does not forget accumulated evidence. Everything else is
// recomputed per response.
package exitdetect

import (
	"fmt"
	"strings"

	"github.com/CodexForgeBR/agent-pilot/internal/logging"
	"github.com/CodexForgeBR/agent-pilot/internal/state"
	"github.com/CodexForgeBR/agent-pilot/internal/tasklist"
)

// Tunables.
const (
	// DefaultFailureThreshold is the consecutive-failure count that forces
	// an exit. Independent from the circuit breaker's own thresholds.
	DefaultFailureThreshold = 3

	// recentResponses is how many normalized responses are retained for
	// stagnation detection.
	recentResponses = 5

	// duplicatesForStagnation is how many retained entries the current
	// response must duplicate to count as stagnation.
	duplicatesForStagnation = 2

	// ringCapacity bounds each persisted loop-number ring.
	ringCapacity = 10

	// normalizeLimit truncates normalized responses.
	normalizeLimit = 500

	// prefixCompare is the prefix length used for near-duplicate matching
	// of long responses.
	prefixCompare = 100
)

// Decision is the detector's verdict for one check.
type Decision struct {
	ShouldExit bool
	Reason     string
	Confidence float64
}

// keep returns a no-exit decision.
func keep() Decision { return Decision{} }

// history mirrors the persisted exit-signal JSON.
type history struct {
	TestOnlyLoops        []int `json:"testOnlyLoops"`
	DoneSignals          []int `json:"doneSignals"`
	CompletionIndicators []int `json:"completionIndicators"`
	ConsecutiveFailures  int   `json:"consecutiveFailures"`
}

// Detector accumulates exit signals across loops.
type Detector struct {
	store            *state.Store
	failureThreshold int

	recent []string
	hist   history
	loaded bool
}

// New returns a Detector backed by store. A nil store keeps history in
// memory only. A non-positive threshold uses DefaultFailureThreshold.
func New(store *state.Store, failureThreshold int) *Detector {
	if failureThreshold <= 0 {
		failureThreshold = DefaultFailureThreshold
	}
	return &Detector{store: store, failureThreshold: failureThreshold}
}

func (d *Detector) ensureLoaded() {
	if d.loaded {
		return
	}
	d.loaded = true
	if d.store == nil {
		return
	}
	var disk history
	if err := d.store.LoadJSON(state.ExitSignalFile, &disk); err != nil {
		logging.Debugf("exit-signal history not loaded, starting fresh: %v", err)
		return
	}
	d.hist = disk
}

func (d *Detector) save() {
	if d.store == nil {
		return
	}
	if err := d.store.SaveJSON(state.ExitSignalFile, &d.hist); err != nil {
		logging.Warnf("Failed to save exit-signal history: %v", err)
	}
}

// normalize lower-cases, collapses whitespace and truncates a response for
// stagnation comparison.
func normalize(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	s := strings.Join(fields, " ")
	if len(s) > normalizeLimit {
		s = s[:normalizeLimit]
	}
	return s
}

// sameResponse compares two normalized responses: exact match, or matching
// first 100 characters when both exceed 100.
func sameResponse(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) > prefixCompare && len(b) > prefixCompare {
		return a[:prefixCompare] == b[:prefixCompare]
	}
	return false
}

// CheckResponse classifies one response. Detection order: completion
// phrases (exit, confidence 0.9), then stagnation by repetition (exit,
// confidence 0.7). Empty or whitespace-only input never exits.
func (d *Detector) CheckResponse(text string) Decision {
	d.ensureLoaded()

	norm := normalize(text)
	if norm == "" {
		return keep()
	}

	if r, ok := firstMatch(norm, categoryCompletion); ok {
		return Decision{
			ShouldExit: true,
			Reason:     fmt.Sprintf("completion signal: %q", r.pattern),
			Confidence: r.weight,
		}
	}

	duplicates := 0
	for _, prev := range d.recent {
		if sameResponse(norm, prev) {
			duplicates++
		}
	}
	d.recent = append(d.recent, norm)
	if len(d.recent) > recentResponses {
		d.recent = d.recent[len(d.recent)-recentResponses:]
	}
	if duplicates >= duplicatesForStagnation {
		return Decision{
			ShouldExit: true,
			Reason:     fmt.Sprintf("stagnation: response repeated %d times in the last %d loops", duplicates+1, recentResponses),
			Confidence: 0.7,
		}
	}

	return keep()
}

// ReportFailure counts one failed loop and exits at the configured
// threshold with full confidence.
func (d *Detector) ReportFailure() Decision {
	d.ensureLoaded()
	d.hist.ConsecutiveFailures++
	d.save()
	if d.hist.ConsecutiveFailures >= d.failureThreshold {
		return Decision{
			ShouldExit: true,
			Reason:     fmt.Sprintf("%d consecutive failures", d.hist.ConsecutiveFailures),
			Confidence: 1.0,
		}
	}
	return keep()
}

// ReportSuccess resets the consecutive-failure counter.
func (d *Detector) ReportSuccess() {
	d.ensureLoaded()
	if d.hist.ConsecutiveFailures != 0 {
		d.hist.ConsecutiveFailures = 0
		d.save()
	}
}

// pushRing appends loop to ring, keeping at most ringCapacity entries.
func pushRing(ring []int, loop int) []int {
	ring = append(ring, loop)
	if len(ring) > ringCapacity {
		ring = ring[len(ring)-ringCapacity:]
	}
	return ring
}

// RecordLoop files the response's signal families under the given loop
// number and persists the history.
func (d *Detector) RecordLoop(loop int, text string) {
	d.ensureLoaded()
	lower := strings.ToLower(text)

	changed := false
	if IsTestOnly(text) {
		d.hist.TestOnlyLoops = pushRing(d.hist.TestOnlyLoops, loop)
		changed = true
	}
	if matchesCategory(lower, categoryDone) {
		d.hist.DoneSignals = pushRing(d.hist.DoneSignals, loop)
		changed = true
	}
	if matchesCategory(lower, categoryCompletion) {
		d.hist.CompletionIndicators = pushRing(d.hist.CompletionIndicators, loop)
		changed = true
	}
	if changed {
		d.save()
	}
}

// TestOnlySaturated reports whether the last `consecutive` loops ending at
// currentLoop were all classified test-only.
func (d *Detector) TestOnlySaturated(consecutive, currentLoop int) bool {
	d.ensureLoaded()
	if consecutive <= 0 {
		return false
	}
	have := make(map[int]bool, len(d.hist.TestOnlyLoops))
	for _, l := range d.hist.TestOnlyLoops {
		have[l] = true
	}
	for i := 0; i < consecutive; i++ {
		if !have[currentLoop-i] {
			return false
		}
	}
	return true
}

// CheckTaskListComplete reports whether the external checklist document at
// path exists, has at least one checklist line, and every line is done.
func (d *Detector) CheckTaskListComplete(path string) bool {
	done, err := tasklist.AllComplete(path)
	if err != nil {
		return false
	}
	return done
}

// ConsecutiveFailures exposes the current failure count for status display.
func (d *Detector) ConsecutiveFailures() int {
	d.ensureLoaded()
	return d.hist.ConsecutiveFailures
}

// Reset clears the persisted history and the in-memory response window.
func (d *Detector) Reset() {
	d.ensureLoaded()
	d.hist = history{}
	d.recent = nil
	d.save()
}
