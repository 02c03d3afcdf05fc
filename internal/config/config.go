// Package config defines the agent-pilot configuration model and default
// values.
//
// Configuration is assembled from multiple sources with a strict precedence
// chain: built-in defaults < global config file < project config file <
// explicit config file < CLI flag overrides.
package config

import "github.com/CodexForgeBR/agent-pilot/internal/model"

// WhitelistedVars lists every configuration variable name that may appear in
// config files. Variables not in this list are silently ignored during
// loading.
var WhitelistedVars = [19]string{
	"LOOP_INTERVAL",
	"MAX_LOOPS",
	"HOURLY_CALL_CAP",
	"EXEC_TIMEOUT",
	"TEST_LOOP_THRESHOLD",
	"FAILURE_THRESHOLD",
	"REASONING_MODEL",
	"FRONTEND_MODEL",
	"QUICK_MODEL",
	"AUTO_SWITCH",
	"TASKS_FILE",
	"GOAL",
	"COMMIT_EVERY",
	"RATE_WINDOW_HOURS",
	"DEBUG_URL",
	"NOTIFY_WEBHOOK",
	"NOTIFY_CHANNEL",
	"NOTIFY_CHAT_ID",
	"VERBOSE",
}

// Config holds every configuration field for the agent-pilot CLI.
type Config struct {
	// Loop pacing and limits.
	LoopInterval int // seconds between iterations
	MaxLoops     int
	HourlyCap    int // total calls per hour, all models combined
	ExecTimeout  int // seconds to wait for an assistant response

	// Exit detection thresholds.
	TestLoopThreshold int // consecutive test-only loops before exit
	FailureThreshold  int // consecutive failed loops before exit

	// Per-category preferred models.
	ReasoningModel model.ID
	FrontendModel  model.ID
	QuickModel     model.ID
	AutoSwitch     bool

	// Inputs.
	TasksFile string
	Goal      string

	// Periodic commit cadence; 0 disables progress commits.
	CommitEvery int

	// Rolling rate-limit window, in hours.
	RateWindowHours int

	// Actuator transport endpoint (remote debugging HTTP endpoint).
	DebugURL string

	// Notification settings.
	NotifyWebhook string
	NotifyChannel string
	NotifyChatID  string

	// Runtime flags.
	Verbose bool

	// CLI-only flags (not loaded from config files).
	ConfigFile string
	Status     bool
	Clean      bool
}

// NewDefaultConfig returns a Config populated with all built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		LoopInterval:      5,
		MaxLoops:          50,
		HourlyCap:         30,
		ExecTimeout:       900,
		TestLoopThreshold: 3,
		FailureThreshold:  3,
		ReasoningModel:    model.ClaudeSonnetThinking,
		FrontendModel:     model.ClaudeSonnet,
		QuickModel:        model.GPT5Fast,
		AutoSwitch:        true,
		CommitEvery:       10,
		RateWindowHours:   5,
		DebugURL:          "http://127.0.0.1:9222",
		NotifyChannel:     "telegram",
	}
}
