package recovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/agent-pilot/internal/model"
)

func TestNextAction_PriorityOrder(t *testing.T) {
	m := NewManager(10)

	a, ok := m.NextAction()
	require.True(t, ok)
	assert.Equal(t, StrategyThinkingModel, a.Strategy)
	assert.Equal(t, model.Thinking, a.SwitchTo)
	assert.Empty(t, a.InjectPrompt)

	a, ok = m.NextAction()
	require.True(t, ok)
	assert.Equal(t, StrategyWebSearch, a.Strategy)
	assert.Empty(t, a.SwitchTo)
	assert.NotEmpty(t, a.InjectPrompt)
}

func TestNextAction_EachStrategyAtMostOnce(t *testing.T) {
	m := NewManager(100)
	seen := make(map[StrategyID]bool)
	for {
		a, ok := m.NextAction()
		if !ok {
			break
		}
		assert.False(t, seen[a.Strategy], "strategy %s handed out twice", a.Strategy)
		seen[a.Strategy] = true
	}
	assert.Len(t, seen, 6)
}

func TestNextAction_AttemptCap(t *testing.T) {
	m := NewManager(0) // default cap of 3
	for i := 0; i < 3; i++ {
		_, ok := m.NextAction()
		require.True(t, ok)
	}
	// Past exhaustion, every further call returns false.
	for i := 0; i < 10; i++ {
		_, ok := m.NextAction()
		assert.False(t, ok)
	}
	assert.Equal(t, 3, m.Attempts())
}

func TestReset_RestoresFullLadder(t *testing.T) {
	m := NewManager(0)
	for i := 0; i < 3; i++ {
		m.NextAction()
	}
	m.Reset()

	a, ok := m.NextAction()
	require.True(t, ok)
	assert.Equal(t, StrategyThinkingModel, a.Strategy)
	assert.Equal(t, 1, m.Attempts())
}

func TestActionsCarryExactlyOneDirective(t *testing.T) {
	m := NewManager(100)
	for {
		a, ok := m.NextAction()
		if !ok {
			break
		}
		hasSwitch := a.SwitchTo != ""
		hasPrompt := a.InjectPrompt != ""
		assert.True(t, hasSwitch != hasPrompt, "strategy %s must carry exactly one directive", a.Strategy)
	}
}
