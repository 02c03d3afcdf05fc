// Package cli provides flag binding and validation for the agent-pilot CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/agent-pilot/internal/config"
	"github.com/CodexForgeBR/agent-pilot/internal/model"
)

// BindFlags registers all CLI flags on the given cobra command.
// The flags directly modify fields in the provided config pointer.
// Call ValidateFlags after parsing to check flag combinations.
func BindFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	// Loop pacing and limits
	flags.IntVar(&cfg.LoopInterval, "loop-interval", cfg.LoopInterval, "Seconds to sleep between loop iterations")
	flags.IntVar(&cfg.MaxLoops, "max-loops", cfg.MaxLoops, "Maximum loop iterations")
	flags.IntVar(&cfg.HourlyCap, "hourly-call-cap", cfg.HourlyCap, "Total assistant calls per hour, all models combined (0 disables)")
	flags.IntVar(&cfg.ExecTimeout, "exec-timeout", cfg.ExecTimeout, "Seconds to wait for an assistant response")

	// Exit detection
	flags.IntVar(&cfg.TestLoopThreshold, "test-loop-threshold", cfg.TestLoopThreshold, "Consecutive test-only loops before exit")
	flags.IntVar(&cfg.FailureThreshold, "failure-threshold", cfg.FailureThreshold, "Consecutive failed loops before exit")

	// Model selection
	flags.StringVar((*string)(&cfg.ReasoningModel), "reasoning-model", string(cfg.ReasoningModel), "Preferred model for reasoning tasks")
	flags.StringVar((*string)(&cfg.FrontendModel), "frontend-model", string(cfg.FrontendModel), "Preferred model for frontend tasks")
	flags.StringVar((*string)(&cfg.QuickModel), "quick-model", string(cfg.QuickModel), "Preferred model for quick tasks")

	var noAutoSwitch bool
	flags.BoolVar(&noAutoSwitch, "no-auto-switch", false, "Disable per-task model switching")

	// Inputs
	flags.StringVar(&cfg.TasksFile, "tasks-file", "", "Path to the task checklist file")
	flags.StringVar(&cfg.Goal, "goal", "", "Goal text injected on loop 1 when no checklist is given")
	flags.StringVar(&cfg.ConfigFile, "config", "", "Path to additional config file")

	// Side effects
	flags.IntVar(&cfg.CommitEvery, "commit-every", cfg.CommitEvery, "Commit progress every N loops (0 disables)")
	flags.IntVar(&cfg.RateWindowHours, "rate-window-hours", cfg.RateWindowHours, "Rolling rate-limit window in hours")

	// Actuator
	flags.StringVar(&cfg.DebugURL, "debug-url", cfg.DebugURL, "Remote debugging endpoint of the target editor")

	// Notifications
	flags.StringVar(&cfg.NotifyWebhook, "notify-webhook", cfg.NotifyWebhook, "Webhook URL for session-terminal notifications")
	flags.StringVar(&cfg.NotifyChannel, "notify-channel", cfg.NotifyChannel, "Notification channel")
	flags.StringVar(&cfg.NotifyChatID, "notify-chat-id", "", "Recipient chat ID (required to enable notifications)")

	// Runtime
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable debug output")

	// Session management
	flags.BoolVar(&cfg.Status, "status", false, "Show session status and exit")
	flags.BoolVar(&cfg.Clean, "clean", false, "Delete state directory and start fresh")
}

// ValidateFlags checks for invalid flag combinations after parsing.
// Must be called after cmd.Execute() or cmd.ParseFlags().
func ValidateFlags(cmd *cobra.Command, cfg *config.Config) error {
	// --config must exist if provided
	if cfg.ConfigFile != "" {
		if _, err := os.Stat(cfg.ConfigFile); err != nil {
			return fmt.Errorf("--config: %w", err)
		}
	}

	// --tasks-file must exist if provided
	if cfg.TasksFile != "" {
		if _, err := os.Stat(cfg.TasksFile); err != nil {
			return fmt.Errorf("--tasks-file: %w", err)
		}
	}

	// Handle negation flag via Changed detection; --no-auto-switch=false
	// explicitly re-enables switching.
	if cmd.Flags().Changed("no-auto-switch") {
		if v, err := cmd.Flags().GetBool("no-auto-switch"); err == nil {
			cfg.AutoSwitch = !v
		}
	}

	// Preferred models must come from the known registry
	for flag, id := range map[string]model.ID{
		"reasoning-model": cfg.ReasoningModel,
		"frontend-model":  cfg.FrontendModel,
		"quick-model":     cfg.QuickModel,
	} {
		if !model.IsKnown(id) {
			return fmt.Errorf("--%s: unknown model %q", flag, id)
		}
	}

	if cfg.MaxLoops <= 0 {
		return fmt.Errorf("--max-loops must be positive, got %d", cfg.MaxLoops)
	}
	if cfg.ExecTimeout <= 0 {
		return fmt.Errorf("--exec-timeout must be positive, got %d", cfg.ExecTimeout)
	}

	return nil
}

// RequireWorkSource checks that the session has something to work on.
// Called after config files are merged, since either source may come
// from a config file rather than a flag. Status and clean invocations
// are exempt.
func RequireWorkSource(cfg *config.Config) error {
	if cfg.TasksFile == "" && cfg.Goal == "" && !cfg.Status && !cfg.Clean {
		return fmt.Errorf("either --tasks-file or --goal is required")
	}
	return nil
}
