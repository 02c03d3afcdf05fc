package exitdetect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/agent-pilot/internal/state"
)

func newTestStore(t *testing.T) *state.Store {
	return state.NewStore(filepath.Join(t.TempDir(), ".agent-pilot"))
}

func TestCheckResponse_CompletionPhrases(t *testing.T) {
	tests := []string{
		"All tasks completed. Nothing more for me to do.",
		"The IMPLEMENTATION COMPLETE milestone is reached",
		"There is nothing left to do here.",
	}
	for _, text := range tests {
		dec := New(nil, 0).CheckResponse(text)
		assert.True(t, dec.ShouldExit, "should exit on: %s", text)
		assert.Equal(t, 0.9, dec.Confidence)
		assert.Contains(t, dec.Reason, "completion signal")
	}
}

func TestCheckResponse_EmptyInputNeverExits(t *testing.T) {
	d := New(nil, 0)
	for _, text := range []string{"", "   ", "\t\n  \n"} {
		dec := d.CheckResponse(text)
		assert.False(t, dec.ShouldExit)
		assert.Equal(t, 0.0, dec.Confidence)
	}
}

func TestCheckResponse_StagnationByRepetition(t *testing.T) {
	d := New(nil, 0)
	text := "I could not find anything else to change in this file."

	assert.False(t, d.CheckResponse(text).ShouldExit, "first occurrence")
	assert.False(t, d.CheckResponse(text).ShouldExit, "second occurrence duplicates one entry")

	dec := d.CheckResponse(text)
	assert.True(t, dec.ShouldExit, "third occurrence duplicates two retained entries")
	assert.Equal(t, 0.7, dec.Confidence)
	assert.Contains(t, dec.Reason, "stagnation")
}

func TestCheckResponse_LongResponsePrefixMatch(t *testing.T) {
	d := New(nil, 0)
	prefix := strings.Repeat("same opening words ", 10) // > 100 chars
	a := prefix + "tail one"
	b := prefix + "completely different tail"

	d.CheckResponse(a)
	d.CheckResponse(a)
	dec := d.CheckResponse(b)
	assert.True(t, dec.ShouldExit, "100-char prefix match counts as a duplicate")
}

func TestCheckResponse_DistinctResponsesKeepGoing(t *testing.T) {
	d := New(nil, 0)
	for _, text := range []string{
		"Renamed the helper and adjusted imports.",
		"Extracted the retry logic into its own function.",
		"Tightened the error message wording.",
	} {
		assert.False(t, d.CheckResponse(text).ShouldExit)
	}
}

func TestReportFailure_ThresholdAndReset(t *testing.T) {
	d := New(nil, 3)
	assert.False(t, d.ReportFailure().ShouldExit)
	assert.False(t, d.ReportFailure().ShouldExit)

	dec := d.ReportFailure()
	assert.True(t, dec.ShouldExit)
	assert.Equal(t, 1.0, dec.Confidence)

	d.ReportSuccess()
	assert.Equal(t, 0, d.ConsecutiveFailures())
	assert.False(t, d.ReportFailure().ShouldExit, "counter restarted")
}

func TestFailureCountSurvivesRestart(t *testing.T) {
	store := newTestStore(t)

	d := New(store, 3)
	d.ReportFailure()
	d.ReportFailure()

	reloaded := New(store, 3)
	assert.Equal(t, 2, reloaded.ConsecutiveFailures())
	assert.True(t, reloaded.ReportFailure().ShouldExit)
}

func TestRecordLoop_AndTestOnlySaturation(t *testing.T) {
	d := New(nil, 0)

	d.RecordLoop(1, "Running tests to confirm the previous change")
	d.RecordLoop(2, "npm test output: 12 passing")
	assert.False(t, d.TestOnlySaturated(3, 2))

	d.RecordLoop(3, "Re-ran the tests, everything green")
	assert.True(t, d.TestOnlySaturated(3, 3))

	// A feature-change loop breaks the run.
	d.RecordLoop(4, "Implemented the new endpoint and added a handler")
	assert.False(t, d.TestOnlySaturated(3, 4))
}

func TestRecordLoop_SignalFamiliesLandInTheirRings(t *testing.T) {
	store := newTestStore(t)
	d := New(store, 0)

	d.RecordLoop(3, "Ready for review, the branch is pushed.")
	d.RecordLoop(7, "All tasks completed, closing out.")

	var disk struct {
		DoneSignals          []int `json:"doneSignals"`
		CompletionIndicators []int `json:"completionIndicators"`
	}
	require.NoError(t, store.LoadJSON(state.ExitSignalFile, &disk))
	assert.Equal(t, []int{3}, disk.DoneSignals, "done-indicator phrases file under doneSignals")
	assert.Equal(t, []int{7}, disk.CompletionIndicators, "completion phrases file under completionIndicators")
}

func TestIsTestOnly(t *testing.T) {
	assert.True(t, IsTestOnly("running tests now"))
	assert.False(t, IsTestOnly("running tests after I implemented the cache"))
	assert.False(t, IsTestOnly("refactored the session type"))
}

func TestRingBuffersAreBounded(t *testing.T) {
	store := newTestStore(t)
	d := New(store, 0)
	for i := 1; i <= 25; i++ {
		d.RecordLoop(i, "running tests again")
	}

	var disk struct {
		TestOnlyLoops []int `json:"testOnlyLoops"`
	}
	require.NoError(t, store.LoadJSON(state.ExitSignalFile, &disk))
	assert.Len(t, disk.TestOnlyLoops, 10)
	assert.Equal(t, 25, disk.TestOnlyLoops[9], "newest entries retained")
}

func TestCheckTaskListComplete(t *testing.T) {
	d := New(nil, 0)
	dir := t.TempDir()

	path := filepath.Join(dir, "tasks.md")
	require.NoError(t, os.WriteFile(path, []byte("- [x] a\n- [ ] b\n"), 0644))
	assert.False(t, d.CheckTaskListComplete(path))

	require.NoError(t, os.WriteFile(path, []byte("- [x] a\n- [x] b\n"), 0644))
	assert.True(t, d.CheckTaskListComplete(path))

	assert.False(t, d.CheckTaskListComplete(filepath.Join(dir, "missing.md")))
}

func TestReset(t *testing.T) {
	store := newTestStore(t)
	d := New(store, 3)
	d.ReportFailure()
	d.RecordLoop(1, "running tests")

	d.Reset()
	assert.Equal(t, 0, d.ConsecutiveFailures())
	assert.False(t, d.TestOnlySaturated(1, 1))
}
