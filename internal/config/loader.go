package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/CodexForgeBR/agent-pilot/internal/model"
)

// whitelistSet is a precomputed lookup table for fast whitelist membership
// checks.
var whitelistSet map[string]bool

func init() {
	whitelistSet = make(map[string]bool, len(WhitelistedVars))
	for _, v := range WhitelistedVars {
		whitelistSet[v] = true
	}
}

// LoadFile parses a KEY=VALUE config file at the given path.
//
// Lines are processed according to these rules:
//   - Empty lines and lines starting with # are skipped.
//   - Lines without an = sign are skipped.
//   - Leading and trailing whitespace is trimmed from both key and value.
//   - Keys not present in WhitelistedVars are silently ignored.
//
// Returns a map of whitelisted key-value pairs, or an error if the file
// cannot be opened.
func LoadFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	result := make(map[string]string)
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Split on first '=' only.
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}

		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])

		if !whitelistSet[key] {
			continue
		}

		result[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return result, nil
}

// LoadWithPrecedence assembles a Config by merging sources in order of
// increasing priority:
//
//  1. Built-in defaults
//  2. Global config file (globalPath)
//  3. Project config file (projectPath)
//  4. Explicit config file (explicitPath)
//  5. CLI overrides (cliOverrides map)
//
// Any path that is empty is silently skipped. A missing global or project
// file is not an error; a missing explicit file is.
func LoadWithPrecedence(globalPath, projectPath, explicitPath string, cliOverrides map[string]string) (*Config, error) {
	cfg := NewDefaultConfig()

	if globalPath != "" {
		m, err := LoadFile(globalPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("global config: %w", err)
			}
		} else {
			ApplyMapToConfig(cfg, m)
		}
	}

	if projectPath != "" {
		m, err := LoadFile(projectPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("project config: %w", err)
			}
		} else {
			ApplyMapToConfig(cfg, m)
		}
	}

	if explicitPath != "" {
		m, err := LoadFile(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("explicit config: %w", err)
		}
		ApplyMapToConfig(cfg, m)
	}

	if len(cliOverrides) > 0 {
		ApplyMapToConfig(cfg, cliOverrides)
	}

	return cfg, nil
}

// ApplyMapToConfig sets fields on cfg from the key-value pairs in m.
// Keys must use the WhitelistedVars naming convention (e.g., "MAX_LOOPS").
// Unknown keys are silently ignored. Integer fields that fail to parse are
// silently ignored (the previous value is preserved).
func ApplyMapToConfig(cfg *Config, m map[string]string) {
	for key, value := range m {
		switch key {
		case "LOOP_INTERVAL":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.LoopInterval = v
			}
		case "MAX_LOOPS":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.MaxLoops = v
			}
		case "HOURLY_CALL_CAP":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.HourlyCap = v
			}
		case "EXEC_TIMEOUT":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.ExecTimeout = v
			}
		case "TEST_LOOP_THRESHOLD":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.TestLoopThreshold = v
			}
		case "FAILURE_THRESHOLD":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.FailureThreshold = v
			}
		case "REASONING_MODEL":
			cfg.ReasoningModel = model.ID(value)
		case "FRONTEND_MODEL":
			cfg.FrontendModel = model.ID(value)
		case "QUICK_MODEL":
			cfg.QuickModel = model.ID(value)
		case "AUTO_SWITCH":
			cfg.AutoSwitch = parseBool(value)
		case "TASKS_FILE":
			cfg.TasksFile = value
		case "GOAL":
			cfg.Goal = value
		case "COMMIT_EVERY":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.CommitEvery = v
			}
		case "RATE_WINDOW_HOURS":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.RateWindowHours = v
			}
		case "DEBUG_URL":
			cfg.DebugURL = value
		case "NOTIFY_WEBHOOK":
			cfg.NotifyWebhook = value
		case "NOTIFY_CHANNEL":
			cfg.NotifyChannel = value
		case "NOTIFY_CHAT_ID":
			cfg.NotifyChatID = value
		case "VERBOSE":
			cfg.Verbose = parseBool(value)
		}
	}
}

// parseBool interprets common boolean representations.
// "true", "1", "yes" (case-insensitive) return true; everything else returns
// false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
