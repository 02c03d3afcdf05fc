// Package prompt builds the instructions injected into the assistant each
// loop iteration.
package prompt

import (
	"fmt"
	"strings"
)

// standingRules are appended to every injected prompt so the assistant
// keeps editing files instead of chatting.
const standingRules = `Rules:
- Work on exactly one task at a time.
- Make the actual code changes; do not just describe them.
- When a task is finished, tick its checkbox in the task list.
- If every task is finished, reply with "all tasks completed".`

// BuildFirst builds the loop-1 prompt from the operator's goal and the
// first task.
func BuildFirst(goal, task string) string {
	var b strings.Builder
	if goal != "" {
		fmt.Fprintf(&b, "Overall goal: %s\n\n", goal)
	}
	fmt.Fprintf(&b, "Start with this task: %s\n\n", task)
	b.WriteString(standingRules)
	return b.String()
}

// BuildContinue builds the prompt for every subsequent loop.
func BuildContinue(task string, loop int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Continue working. Current task: %s\n", task)
	fmt.Fprintf(&b, "This is iteration %d of an automated session; stay focused on the task.\n\n", loop)
	b.WriteString(standingRules)
	return b.String()
}

// BuildNudge wraps a recovery nudge with the current task so the assistant
// keeps its footing after the perturbation.
func BuildNudge(nudge, task string) string {
	var b strings.Builder
	b.WriteString(nudge)
	if task != "" {
		fmt.Fprintf(&b, "\n\nThe task is still: %s", task)
	}
	return b.String()
}
