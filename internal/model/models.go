// Package model defines the closed set of assistant models the loop can
// drive, together with the task categories used to pick between them.
//
// Everything in this package is immutable reference data: labels, fallback
// priorities, capability lists and default call limits. Session state never
// lives here.
package model

// ID identifies one of the assistant models selectable in the target editor.
type ID string

// The seven known model identifiers.
const (
	ClaudeSonnet         ID = "claude-4-sonnet"
	ClaudeSonnetThinking ID = "claude-4-sonnet-thinking"
	ClaudeOpus           ID = "claude-4-opus"
	GPT5                 ID = "gpt-5"
	GPT5Fast             ID = "gpt-5-fast"
	O3                   ID = "o3"
	GeminiPro            ID = "gemini-2.5-pro"
)

// Category classifies a task description. Derived by keyword scoring,
// never stored.
type Category string

const (
	CategoryReasoning Category = "reasoning"
	CategoryFrontend  Category = "frontend"
	CategoryQuick     Category = "quick"
	CategoryGeneral   Category = "general"
	CategoryBulk      Category = "bulk"
)

// Info describes one model's static attributes.
type Info struct {
	ID    ID
	Label string

	// Priority ranks models most-capable-first; lower is more capable.
	Priority int

	// Capabilities lists the task categories this model is suited for.
	Capabilities []Category

	// DefaultCallLimit is the per-window call budget used by the rate
	// limiter when no override is configured.
	DefaultCallLimit int
}

// table holds the static model registry, ordered by Priority.
var table = []Info{
	{ClaudeOpus, "Claude 4 Opus", 1, []Category{CategoryReasoning, CategoryGeneral}, 25},
	{ClaudeSonnetThinking, "Claude 4 Sonnet (Thinking)", 2, []Category{CategoryReasoning, CategoryGeneral}, 50},
	{ClaudeSonnet, "Claude 4 Sonnet", 3, []Category{CategoryGeneral, CategoryFrontend, CategoryBulk}, 100},
	{GPT5, "GPT-5", 4, []Category{CategoryReasoning, CategoryGeneral, CategoryFrontend}, 50},
	{O3, "o3", 5, []Category{CategoryReasoning}, 25},
	{GeminiPro, "Gemini 2.5 Pro", 6, []Category{CategoryGeneral, CategoryBulk}, 100},
	{GPT5Fast, "GPT-5 Fast", 7, []Category{CategoryQuick, CategoryBulk}, 200},
}

// All returns every known model, most capable first.
func All() []Info {
	out := make([]Info, len(table))
	copy(out, table)
	return out
}

// Lookup returns the Info for id. ok is false for unknown identifiers.
func Lookup(id ID) (Info, bool) {
	for _, m := range table {
		if m.ID == id {
			return m, true
		}
	}
	return Info{}, false
}

// IsKnown reports whether id belongs to the closed model set.
func IsKnown(id ID) bool {
	_, ok := Lookup(id)
	return ok
}

// Label returns the human-readable label for id, or the raw identifier when
// it is not in the registry.
func Label(id ID) string {
	if m, ok := Lookup(id); ok {
		return m.Label
	}
	return string(id)
}

// FallbackOrder returns the fixed priority-ordered fallback list,
// most capable first.
func FallbackOrder() []ID {
	out := make([]ID, 0, len(table))
	for _, m := range table {
		out = append(out, m.ID)
	}
	return out
}

// Default is the model a fresh session starts on.
const Default = ClaudeSonnet

// Thinking is the more-deliberate model the recovery ladder escalates to.
const Thinking = ClaudeSonnetThinking

// HasCapability reports whether the model declares the given category.
func HasCapability(id ID, c Category) bool {
	m, ok := Lookup(id)
	if !ok {
		return false
	}
	for _, cap := range m.Capabilities {
		if cap == c {
			return true
		}
	}
	return false
}
