package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFirst_WithGoal(t *testing.T) {
	p := BuildFirst("ship the importer", "parse the header row")
	assert.Contains(t, p, "Overall goal: ship the importer")
	assert.Contains(t, p, "Start with this task: parse the header row")
	assert.Contains(t, p, "one task at a time")
}

func TestBuildFirst_WithoutGoal(t *testing.T) {
	p := BuildFirst("", "parse the header row")
	assert.NotContains(t, p, "Overall goal")
	assert.Contains(t, p, "parse the header row")
}

func TestBuildContinue(t *testing.T) {
	p := BuildContinue("wire the CLI", 7)
	assert.Contains(t, p, "Current task: wire the CLI")
	assert.Contains(t, p, "iteration 7")
}

func TestBuildNudge(t *testing.T) {
	p := BuildNudge("Break the problem down.", "fix the tests")
	assert.Contains(t, p, "Break the problem down.")
	assert.Contains(t, p, "The task is still: fix the tests")

	bare := BuildNudge("Break the problem down.", "")
	assert.NotContains(t, bare, "The task is still")
}
