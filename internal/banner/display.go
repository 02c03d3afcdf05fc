// Package banner provides colored banner display functions for the
// agent-pilot CLI.
//
// All banner functions write formatted output to stdout with color-coded
// headers and separators. These are used to display session start, completion,
// circuit breaker trips, rate limit waits, and other state transitions during
// a pilot session.
package banner

import (
	"fmt"
	"strings"

	"github.com/CodexForgeBR/agent-pilot/internal/logging"
	"github.com/fatih/color"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// PrintStartupBanner displays the startup banner with session info.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  agent-pilot - Autonomous Assistant Driver
//	═══════════════════════════════════════════════════
//	  Workspace:  myproject
//	  Model:      claude-4-sonnet
//	  Tasks:      tasks.md
//	  Debug URL:  http://127.0.0.1:9222
//	  Max loops:  50
//	═══════════════════════════════════════════════════
func PrintStartupBanner(workspace string, model string, tasksFile string, debugURL string, maxLoops int) {
	sep := headerColor("═══════════════════════════════════════════════════")
	fmt.Println(sep)
	fmt.Println(headerColor("  agent-pilot - Autonomous Assistant Driver"))
	fmt.Println(sep)
	fmt.Printf("  Workspace:  %s\n", workspace)
	fmt.Printf("  Model:      %s\n", model)
	if tasksFile != "" {
		fmt.Printf("  Tasks:      %s\n", tasksFile)
	}
	fmt.Printf("  Debug URL:  %s\n", debugURL)
	fmt.Printf("  Max loops:  %d\n", maxLoops)
	fmt.Println(sep)
}

// PrintCompletionBanner displays the completion banner with stats.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✓ Session completed successfully!
//	  Loops:      5
//	  Duration:   1h 23m 45s (5025s)
//	═══════════════════════════════════════════════════
func PrintCompletionBanner(loops int, durationSecs int) {
	sep := successColor("═══════════════════════════════════════════════════")
	fmt.Println(sep)
	fmt.Println(successColor("  ✓ Session completed successfully!"))
	fmt.Printf("  Loops:      %d\n", loops)
	fmt.Printf("  Duration:   %s (%ds)\n", logging.FormatDuration(durationSecs), durationSecs)
	fmt.Println(sep)
}

// PrintStoppedBanner displays the banner shown when the session stops
// before completing its goal.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ⚠ Session stopped
//	═══════════════════════════════════════════════════
//	  Loop:   12
//	  Reason: stagnation detected
//	═══════════════════════════════════════════════════
func PrintStoppedBanner(loop int, reason string) {
	sep := warnColor("═══════════════════════════════════════════════════")
	fmt.Println(sep)
	fmt.Println(warnColor("  ⚠ Session stopped"))
	fmt.Println(sep)
	fmt.Printf("  Loop:   %d\n", loop)
	fmt.Printf("  Reason: %s\n", reason)
	fmt.Println(sep)
}

// PrintBreakerBanner displays the banner shown when the circuit breaker opens.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✗ CIRCUIT BREAKER OPEN
//	═══════════════════════════════════════════════════
//	  Reason:
//	  5 consecutive duplicate-response signals
//	═══════════════════════════════════════════════════
func PrintBreakerBanner(reason string) {
	sep := errorColor("═══════════════════════════════════════════════════")
	fmt.Println(sep)
	fmt.Println(errorColor("  ✗ CIRCUIT BREAKER OPEN"))
	fmt.Println(sep)
	fmt.Println("  Reason:")
	fmt.Printf("  %s\n", reason)
	fmt.Println(sep)
}

// PrintMaxLoopsBanner displays when the loop limit is reached.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ⚠ Max loops reached (50/50)
//	═══════════════════════════════════════════════════
func PrintMaxLoopsBanner(loops int, maxLoops int) {
	sep := warnColor("═══════════════════════════════════════════════════")
	fmt.Println(sep)
	fmt.Printf(warnColor("  ⚠ Max loops reached (%d/%d)\n"), loops, maxLoops)
	fmt.Println(sep)
}

// PrintRateLimitBanner displays when every model is rate limited and the
// session is waiting for a window reset.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ⏳ All models rate limited
//	  Next reset: 42m 10s
//	═══════════════════════════════════════════════════
func PrintRateLimitBanner(waitSecs int) {
	sep := warnColor("═══════════════════════════════════════════════════")
	fmt.Println(sep)
	fmt.Println(warnColor("  ⏳ All models rate limited"))
	fmt.Printf("  Next reset: %s\n", logging.FormatDuration(waitSecs))
	fmt.Println(sep)
}

// PrintInterruptedBanner displays when the session is interrupted.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ⚠ Session interrupted
//	  Loop:  3
//	  Task:  Implement config loader
//	═══════════════════════════════════════════════════
func PrintInterruptedBanner(loop int, task string) {
	sep := warnColor("═══════════════════════════════════════════════════")
	fmt.Println(sep)
	fmt.Println(warnColor("  ⚠ Session interrupted"))
	fmt.Printf("  Loop:  %d\n", loop)
	if task != "" {
		fmt.Printf("  Task:  %s\n", task)
	}
	fmt.Println(sep)
}

// PrintStatusBanner displays the current session status.
//
// Example output:
//
//	──────────────────────────────────────────────────
//	  Status:  running
//	  Loop:    3
//	  Model:   claude-4-sonnet
//	  Task:    Implement config loader
//	  Breaker: CLOSED
//	──────────────────────────────────────────────────
func PrintStatusBanner(status string, loop int, model string, task string, breaker string) {
	sep := strings.Repeat("─", 50)
	fmt.Println(sep)
	fmt.Printf("  Status:  %s\n", status)
	fmt.Printf("  Loop:    %d\n", loop)
	fmt.Printf("  Model:   %s\n", model)
	fmt.Printf("  Task:    %s\n", task)
	fmt.Printf("  Breaker: %s\n", breaker)
	fmt.Println(sep)
}
