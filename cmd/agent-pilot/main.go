package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/agent-pilot/internal/actuator"
	"github.com/CodexForgeBR/agent-pilot/internal/banner"
	"github.com/CodexForgeBR/agent-pilot/internal/cli"
	"github.com/CodexForgeBR/agent-pilot/internal/config"
	"github.com/CodexForgeBR/agent-pilot/internal/exitcode"
	"github.com/CodexForgeBR/agent-pilot/internal/logging"
	"github.com/CodexForgeBR/agent-pilot/internal/orchestrator"
	sighandler "github.com/CodexForgeBR/agent-pilot/internal/signal"
	"github.com/CodexForgeBR/agent-pilot/internal/state"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// projectConfigFile is the per-workspace config file name.
const projectConfigFile = ".agent-pilot.conf"

func main() {
	cfg := config.NewDefaultConfig()

	rootCmd := &cobra.Command{
		Use:     "agent-pilot",
		Short:   "Autonomous driver for a chat-based coding assistant",
		Long:    "agent-pilot drives a chat-based AI coding assistant through its editor's remote debugging endpoint until the work is done.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.ValidateFlags(cmd, cfg); err != nil {
				return err
			}
			return runSession(cmd, cfg)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.BindFlags(rootCmd, cfg)
	cli.SetCustomHelp(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitcode.Error)
	}
}

// buildCLIOverrides creates a map of CLI flag overrides from the config.
// Uses cmd.Flags().Changed() to only include flags explicitly set by the user,
// ensuring config file values are not accidentally overridden by default values.
func buildCLIOverrides(cmd *cobra.Command, cfg *config.Config) map[string]string {
	overrides := make(map[string]string)

	stringFlags := map[string]struct {
		key string
		val string
	}{
		"reasoning-model": {"REASONING_MODEL", string(cfg.ReasoningModel)},
		"frontend-model":  {"FRONTEND_MODEL", string(cfg.FrontendModel)},
		"quick-model":     {"QUICK_MODEL", string(cfg.QuickModel)},
		"tasks-file":      {"TASKS_FILE", cfg.TasksFile},
		"goal":            {"GOAL", cfg.Goal},
		"debug-url":       {"DEBUG_URL", cfg.DebugURL},
		"notify-webhook":  {"NOTIFY_WEBHOOK", cfg.NotifyWebhook},
		"notify-channel":  {"NOTIFY_CHANNEL", cfg.NotifyChannel},
		"notify-chat-id":  {"NOTIFY_CHAT_ID", cfg.NotifyChatID},
	}
	for flag, mapping := range stringFlags {
		if cmd.Flags().Changed(flag) {
			overrides[mapping.key] = mapping.val
		}
	}

	intFlags := map[string]struct {
		key string
		val int
	}{
		"loop-interval":       {"LOOP_INTERVAL", cfg.LoopInterval},
		"max-loops":           {"MAX_LOOPS", cfg.MaxLoops},
		"hourly-call-cap":     {"HOURLY_CALL_CAP", cfg.HourlyCap},
		"exec-timeout":        {"EXEC_TIMEOUT", cfg.ExecTimeout},
		"test-loop-threshold": {"TEST_LOOP_THRESHOLD", cfg.TestLoopThreshold},
		"failure-threshold":   {"FAILURE_THRESHOLD", cfg.FailureThreshold},
		"commit-every":        {"COMMIT_EVERY", cfg.CommitEvery},
		"rate-window-hours":   {"RATE_WINDOW_HOURS", cfg.RateWindowHours},
	}
	for flag, mapping := range intFlags {
		if cmd.Flags().Changed(flag) {
			overrides[mapping.key] = fmt.Sprintf("%d", mapping.val)
		}
	}

	if cmd.Flags().Changed("verbose") {
		if cfg.Verbose {
			overrides["VERBOSE"] = "true"
		} else {
			overrides["VERBOSE"] = "false"
		}
	}
	if cmd.Flags().Changed("no-auto-switch") {
		if v, err := cmd.Flags().GetBool("no-auto-switch"); err == nil {
			if v {
				overrides["AUTO_SWITCH"] = "false"
			} else {
				overrides["AUTO_SWITCH"] = "true"
			}
		}
	}

	return overrides
}

// globalConfigPath returns the user-level config file path, or empty when
// the home directory cannot be resolved.
func globalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "agent-pilot", "config")
}

func runSession(cmd *cobra.Command, cfg *config.Config) error {
	cliOverrides := buildCLIOverrides(cmd, cfg)

	finalCfg, err := config.LoadWithPrecedence(globalConfigPath(), projectConfigFile, cfg.ConfigFile, cliOverrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Merge CLI-only flags (not in config files)
	finalCfg.ConfigFile = cfg.ConfigFile
	finalCfg.Status = cfg.Status
	finalCfg.Clean = cfg.Clean
	cfg = finalCfg

	if err := cli.RequireWorkSource(cfg); err != nil {
		return err
	}

	logging.SetVerbose(cfg.Verbose)

	store := state.NewStore(state.DefaultDir)

	// --status: show the persisted snapshot and exit.
	if cfg.Status {
		var snap orchestrator.Status
		if err := store.LoadJSON(state.StatusFile, &snap); err != nil {
			logging.Info("No session state found.")
			os.Exit(exitcode.Completed)
		}
		status := "stopped"
		if snap.Running {
			status = "running"
		}
		banner.PrintStatusBanner(status, snap.LoopCount, string(snap.CurrentModel), snap.CurrentTask, snap.CircuitState)
		os.Exit(exitcode.Completed)
	}

	// --clean: wipe persisted state, then proceed with a fresh session.
	if cfg.Clean {
		logging.Info("Cleaning state directory...")
		if err := store.Clean(); err != nil {
			logging.Warnf("Failed to clean state directory: %v", err)
		}
		if cfg.TasksFile == "" && cfg.Goal == "" {
			os.Exit(exitcode.Completed)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := orchestrator.New(cfg, store, actuator.NewCDPClient(cfg.DebugURL))

	sighandler.SetupSignalHandler(ctx, cancel, func() {
		logging.Warn("Interrupted — stopping session...")
	})

	os.Exit(sess.Run(ctx))
	return nil // unreachable
}
