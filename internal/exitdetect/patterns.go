package exitdetect

import "strings"

// Pattern categories. Detection rules are data, not code: each detector
// walks one ordered table and takes the first matching family.
const (
	categoryCompletion = "completion"
	categoryDone       = "done-indicator"
	categoryTestOnly   = "test-only"
	categoryFeature    = "feature-change"
)

// rule is one case-insensitive substring pattern with the confidence it
// carries when it decides an exit.
type rule struct {
	category string
	pattern  string
	weight   float64
}

// ruleTable is the single ordered pattern table for response
// classification. Completion phrases decide an exit outright; the rest feed
// the signal history.
var ruleTable = []rule{
	{categoryCompletion, "all tasks completed", 0.9},
	{categoryCompletion, "all tasks are complete", 0.9},
	{categoryCompletion, "nothing left to do", 0.9},
	{categoryCompletion, "implementation complete", 0.9},
	{categoryCompletion, "everything is done", 0.9},
	{categoryCompletion, "no remaining tasks", 0.9},
	{categoryCompletion, "all items are checked", 0.9},
	{categoryCompletion, "the work is complete", 0.9},

	{categoryDone, "ready for review", 0.5},
	{categoryDone, "all tests passed", 0.5},
	{categoryDone, "task is done", 0.5},

	{categoryTestOnly, "running tests", 0},
	{categoryTestOnly, "running the test suite", 0},
	{categoryTestOnly, "npm test", 0},
	{categoryTestOnly, "go test", 0},
	{categoryTestOnly, "pytest", 0},
	{categoryTestOnly, "re-ran the tests", 0},
	{categoryTestOnly, "tests pass", 0},

	{categoryFeature, "implemented", 0},
	{categoryFeature, "created", 0},
	{categoryFeature, "modified", 0},
	{categoryFeature, "updated", 0},
	{categoryFeature, "added", 0},
	{categoryFeature, "refactored", 0},
	{categoryFeature, "fixed", 0},
	{categoryFeature, "wrote", 0},
}

// firstMatch returns the first rule of the wanted category that matches
// text (already lower-cased).
func firstMatch(lower, category string) (rule, bool) {
	for _, r := range ruleTable {
		if r.category != category {
			continue
		}
		if strings.Contains(lower, r.pattern) {
			return r, true
		}
	}
	return rule{}, false
}

// matchesCategory reports whether any pattern of the category matches.
func matchesCategory(lower, category string) bool {
	_, ok := firstMatch(lower, category)
	return ok
}

// IsTestOnly classifies a response as test-only: it talks about running
// tests without any feature-change language.
func IsTestOnly(text string) bool {
	lower := strings.ToLower(text)
	return matchesCategory(lower, categoryTestOnly) && !matchesCategory(lower, categoryFeature)
}
