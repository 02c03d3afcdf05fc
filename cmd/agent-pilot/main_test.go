package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/agent-pilot/internal/cli"
	"github.com/CodexForgeBR/agent-pilot/internal/config"
)

func parseOverrides(t *testing.T, args []string) map[string]string {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cmd := &cobra.Command{Use: "agent-pilot"}
	cli.BindFlags(cmd, cfg)
	require.NoError(t, cmd.ParseFlags(args))
	return buildCLIOverrides(cmd, cfg)
}

func TestBuildCLIOverrides_OnlyChangedFlags(t *testing.T) {
	overrides := parseOverrides(t, []string{"--max-loops", "7", "--goal", "ship it"})

	assert.Equal(t, map[string]string{
		"MAX_LOOPS": "7",
		"GOAL":      "ship it",
	}, overrides)
}

func TestBuildCLIOverrides_NoAutoSwitchCarriesValue(t *testing.T) {
	overrides := parseOverrides(t, []string{"--no-auto-switch"})
	assert.Equal(t, "false", overrides["AUTO_SWITCH"])

	overrides = parseOverrides(t, []string{"--no-auto-switch=false"})
	assert.Equal(t, "true", overrides["AUTO_SWITCH"], "explicit false keeps switching enabled")

	overrides = parseOverrides(t, []string{})
	_, present := overrides["AUTO_SWITCH"]
	assert.False(t, present, "untouched flag emits no override")
}
