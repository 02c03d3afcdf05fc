package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CodexForgeBR/agent-pilot/internal/model"
)

func TestClassify_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.Category
	}{
		{"debugging task", "Debug the login race condition", model.CategoryReasoning},
		{"frontend task", "Add a new CSS animation to the modal", model.CategoryFrontend},
		{"quick task", "fix typo in readme", model.CategoryQuick},
		{"bulk task", "migrate all files to the new import style via batch edit", model.CategoryBulk},
		{"general keywords", "implement the feature", model.CategoryGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassify_NoMatchesDefaultsToGeneral(t *testing.T) {
	assert.Equal(t, model.CategoryGeneral, Classify("zzzzzz"))
	assert.Equal(t, model.CategoryGeneral, Classify(""))
	assert.Equal(t, model.CategoryGeneral, Classify("   \t\n"))
}

func TestClassify_TieDefaultsToGeneral(t *testing.T) {
	// One reasoning keyword and one frontend keyword, no clear winner.
	assert.Equal(t, model.CategoryGeneral, Classify("debug the css"))
}

func TestClassify_CaseInsensitive(t *testing.T) {
	assert.Equal(t, model.CategoryQuick, Classify("FIX TYPO IN README"))
}

func TestPickPreferred(t *testing.T) {
	prefs := Preferences{
		Reasoning: model.ClaudeOpus,
		Frontend:  model.ClaudeSonnet,
		Quick:     model.GPT5Fast,
	}
	assert.Equal(t, model.ClaudeOpus, PickPreferred(model.CategoryReasoning, prefs))
	assert.Equal(t, model.ClaudeSonnet, PickPreferred(model.CategoryFrontend, prefs))
	assert.Equal(t, model.GPT5Fast, PickPreferred(model.CategoryQuick, prefs))
	// General and bulk fall back to the reasoning preference.
	assert.Equal(t, model.ClaudeOpus, PickPreferred(model.CategoryGeneral, prefs))
	assert.Equal(t, model.ClaudeOpus, PickPreferred(model.CategoryBulk, prefs))
}

func TestPickByCapability_HighestPriorityWins(t *testing.T) {
	id, ok := PickByCapability(model.CategoryReasoning, nil)
	assert.True(t, ok)
	assert.Equal(t, model.ClaudeOpus, id)
}

func TestPickByCapability_SkipsExcluded(t *testing.T) {
	excluded := map[model.ID]bool{model.ClaudeOpus: true}
	id, ok := PickByCapability(model.CategoryReasoning, excluded)
	assert.True(t, ok)
	assert.Equal(t, model.ClaudeSonnetThinking, id)
}

func TestPickByCapability_AllExcluded(t *testing.T) {
	excluded := make(map[model.ID]bool)
	for _, m := range model.All() {
		excluded[m.ID] = true
	}
	_, ok := PickByCapability(model.CategoryQuick, excluded)
	assert.False(t, ok)
}
