// Package selector maps free-text task descriptions to task categories and
// task categories to models.
//
// Classification is a pure keyword-scoring function over a static table;
// model choice either honors the operator's per-category preferences or
// filters the model registry by declared capability.
package selector

import (
	"strings"

	"github.com/CodexForgeBR/agent-pilot/internal/model"
)

// keywordTable maps each category to the case-insensitive substrings that
// vote for it. Keywords are kept long enough not to fire inside unrelated
// words.
var keywordTable = map[model.Category][]string{
	model.CategoryReasoning: {
		"debug", "race", "deadlock", "algorithm", "optimize",
		"architecture", "concurrency", "memory leak", "investigate",
		"root cause", "refactor", "performance",
	},
	model.CategoryFrontend: {
		"css", "layout", "style", "animation", "component", "modal",
		"responsive", "frontend", "theme", "button", "page",
	},
	model.CategoryQuick: {
		"typo", "readme", "rename", "comment", "one-line", "docs",
		"whitespace", "changelog",
	},
	model.CategoryGeneral: {
		"implement", "feature", "integrate", "endpoint", "support",
	},
	model.CategoryBulk: {
		"migrate", "migration", "bulk", "batch", "boilerplate",
		"generate", "across the codebase", "all files",
	},
}

// Classify derives the task category for text by counting keyword matches
// per category. The strictly highest count wins; ties and zero matches both
// resolve to CategoryGeneral.
func Classify(text string) model.Category {
	lower := strings.ToLower(text)

	best := model.CategoryGeneral
	bestCount := 0
	tied := false

	for _, c := range []model.Category{
		model.CategoryReasoning,
		model.CategoryFrontend,
		model.CategoryQuick,
		model.CategoryGeneral,
		model.CategoryBulk,
	} {
		count := 0
		for _, kw := range keywordTable[c] {
			if strings.Contains(lower, kw) {
				count++
			}
		}
		switch {
		case count > bestCount:
			best = c
			bestCount = count
			tied = false
		case count == bestCount && count > 0 && c != best:
			tied = true
		}
	}

	if bestCount == 0 || tied {
		return model.CategoryGeneral
	}
	return best
}

// Preferences holds the operator's per-category model choices.
type Preferences struct {
	Reasoning model.ID
	Frontend  model.ID
	Quick     model.ID
}

// PickPreferred returns the configured model for the category. General and
// bulk tasks fall back to the reasoning preference.
func PickPreferred(c model.Category, prefs Preferences) model.ID {
	switch c {
	case model.CategoryFrontend:
		return prefs.Frontend
	case model.CategoryQuick:
		return prefs.Quick
	default:
		return prefs.Reasoning
	}
}

// PickByCapability filters the model registry to models that declare the
// category and are not excluded, returning the most capable survivor.
// ok is false when every candidate is excluded.
func PickByCapability(c model.Category, excluded map[model.ID]bool) (model.ID, bool) {
	for _, m := range model.All() {
		if excluded[m.ID] {
			continue
		}
		if model.HasCapability(m.ID, c) {
			return m.ID, true
		}
	}
	return "", false
}
