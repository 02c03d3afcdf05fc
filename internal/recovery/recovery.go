// Package recovery offers an ordered ladder of one-shot mitigation actions
// tried before the circuit breaker is allowed to end a session.
//
// Each strategy either switches to a different model or injects a nudge
// prompt to perturb the stuck conversation, never both. The manager is a
// bridge, not a stop authority: once the ladder or the attempt cap is
// exhausted it simply returns nothing and the breaker's verdict stands.
package recovery

import "github.com/CodexForgeBR/agent-pilot/internal/model"

// DefaultMaxAttempts caps total recovery attempts per session.
const DefaultMaxAttempts = 3

// StrategyID names one rung of the ladder.
type StrategyID string

const (
	StrategyThinkingModel  StrategyID = "thinking-model"
	StrategyWebSearch      StrategyID = "web-search"
	StrategyDecompose      StrategyID = "decompose"
	StrategyAlternateModel StrategyID = "alternate-model"
	StrategySimplify       StrategyID = "simplify"
	StrategyClarify        StrategyID = "clarify"
)

// Action is one mitigation: exactly one of SwitchTo or InjectPrompt is set.
type Action struct {
	Strategy     StrategyID
	SwitchTo     model.ID
	InjectPrompt string
}

// ladder is the fixed priority order of strategies.
var ladder = []Action{
	{Strategy: StrategyThinkingModel, SwitchTo: model.Thinking},
	{Strategy: StrategyWebSearch, InjectPrompt: "You seem stuck. Use web search to look up current documentation or known solutions for this problem, then apply what you find."},
	{Strategy: StrategyDecompose, InjectPrompt: "Break the current problem down into the smallest possible steps, list them, and complete only the first step."},
	{Strategy: StrategyAlternateModel, SwitchTo: model.GPT5},
	{Strategy: StrategySimplify, InjectPrompt: "Simplify the scope: ignore edge cases for now and make the basic case work end to end."},
	{Strategy: StrategyClarify, InjectPrompt: "State what is blocking you in one sentence, then ask one concrete question whose answer would unblock you, and proceed with your best assumption."},
}

// Manager hands out strategies at most once each, bounded by a total
// attempt cap. State is transient and resets when progress resumes.
type Manager struct {
	attempted   map[StrategyID]bool
	count       int
	maxAttempts int
}

// NewManager returns a Manager with the default attempt cap. A non-positive
// cap uses DefaultMaxAttempts.
func NewManager(maxAttempts int) *Manager {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Manager{
		attempted:   make(map[StrategyID]bool),
		maxAttempts: maxAttempts,
	}
}

// NextAction returns the highest-priority strategy not yet attempted,
// marking it attempted. ok is false once the ladder or the attempt cap is
// exhausted.
func (m *Manager) NextAction() (Action, bool) {
	if m.count >= m.maxAttempts {
		return Action{}, false
	}
	for _, a := range ladder {
		if m.attempted[a.Strategy] {
			continue
		}
		m.attempted[a.Strategy] = true
		m.count++
		return a, true
	}
	return Action{}, false
}

// Attempts returns how many strategies have been handed out.
func (m *Manager) Attempts() int { return m.count }

// Reset clears the attempted set and the counter; called whenever the loop
// observes progress again.
func (m *Manager) Reset() {
	m.attempted = make(map[StrategyID]bool)
	m.count = 0
}
