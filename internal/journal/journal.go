// Package journal keeps an append-only markdown record of loop outcomes
// under the workspace state directory, so a human can reconstruct what the
// session did after the fact.
package journal

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// summaryLimit truncates recorded responses to keep entries readable.
const summaryLimit = 400

// Init creates the journal file with a header if it does not exist.
func Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	header := fmt.Sprintf("# Session journal\n\nStarted %s\n", time.Now().Format(time.RFC3339))
	return os.WriteFile(path, []byte(header), 0644)
}

// Append records one loop outcome.
func Append(path string, loop int, task, outcome, response string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	summary := strings.Join(strings.Fields(response), " ")
	if len(summary) > summaryLimit {
		summary = summary[:summaryLimit] + "…"
	}

	entry := fmt.Sprintf("\n## Loop %d — %s\n\n- Task: %s\n- Outcome: %s\n- Response: %s\n",
		loop, time.Now().Format("15:04:05"), task, outcome, summary)
	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("append journal: %w", err)
	}
	return nil
}
