// Package cli provides help text and usage formatting for the agent-pilot CLI.
package cli

import (
	"github.com/spf13/cobra"
)

const helpTemplate = `agent-pilot - Autonomous driver for a chat-based coding assistant

USAGE
  agent-pilot [flags]

FLAGS
  Loop Pacing & Limits:
    --loop-interval <int>          Seconds to sleep between iterations (default: 5)
    --max-loops <int>              Maximum loop iterations (default: 50)
    --hourly-call-cap <int>        Total calls per hour, all models (default: 30, 0 disables)
    --exec-timeout <int>           Seconds to wait for a response (default: 900)

  Exit Detection:
    --test-loop-threshold <int>    Consecutive test-only loops before exit (default: 3)
    --failure-threshold <int>      Consecutive failed loops before exit (default: 3)

  Model Selection:
    --reasoning-model <model>      Preferred model for reasoning tasks (default: claude-4-sonnet-thinking)
    --frontend-model <model>       Preferred model for frontend tasks (default: claude-4-sonnet)
    --quick-model <model>          Preferred model for quick tasks (default: gpt-5-fast)
    --no-auto-switch               Disable per-task model switching

  Inputs:
    --tasks-file <path>            Path to the task checklist file
    --goal <text>                  Goal injected on loop 1 when no checklist is given
    --config <path>                Path to additional config file

  Side Effects:
    --commit-every <int>           Commit progress every N loops (default: 10, 0 disables)
    --rate-window-hours <int>      Rolling rate-limit window in hours (default: 5)

  Actuator:
    --debug-url <url>              Remote debugging endpoint (default: http://127.0.0.1:9222)

  Notifications:
    --notify-webhook <url>         Webhook URL for session-terminal notifications
    --notify-channel <channel>     Notification channel (default: telegram)
    --notify-chat-id <id>          Recipient chat ID (required to enable notifications)

  Session Management:
    --status                       Show session status and exit
    --clean                        Delete state directory and start fresh

  Runtime:
    -v, --verbose                  Enable debug output
    -h, --help                     Show this help text
    --version                      Show version, commit, build date

EXIT CODES
  0   Completed            Task list exhausted or completion signal detected
  1   Error                Invalid arguments, file not found, misconfiguration
  2   MaxLoops             Loop limit reached without completion
  3   BreakerOpen          Circuit breaker opened with no recovery left
  4   ModelsExhausted      Every model in the fallback list is rate limited
  5   Stopped              Stopped on an operator request or stagnation
  130 Interrupted          SIGINT or SIGTERM received

EXAMPLES
  # Work through a checklist with default settings
  agent-pilot --tasks-file tasks.md

  # Drive a single goal without a checklist
  agent-pilot --goal "Fix the failing integration tests"

  # Pin the reasoning model and slow the loop down
  agent-pilot --tasks-file tasks.md --reasoning-model claude-4-opus --loop-interval 30

  # Check session status
  agent-pilot --status

  # Start fresh after clearing state
  agent-pilot --clean --tasks-file tasks.md

For more information, see: https://github.com/CodexForgeBR/agent-pilot
`

// SetCustomHelp configures the cobra command to use our custom help template.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}
