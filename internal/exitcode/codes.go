// Package exitcode defines named exit codes for the agent-pilot CLI.
//
// Each code maps a specific termination condition to a numeric value
// recognized by shell scripts and CI pipelines.
package exitcode

// Exit code constants for every session termination condition.
const (
	Completed       = 0   // Task list exhausted, session completed
	Error           = 1   // Invalid args, file not found, misconfiguration
	MaxLoops        = 2   // Loop limit reached
	BreakerOpen     = 3   // Circuit breaker opened with no recovery left
	ModelsExhausted = 4   // Every model in the fallback list is rate limited
	Stopped         = 5   // Operator requested stop (hourly-limit exit choice included)
	Interrupted     = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Completed:
		return "Completed"
	case Error:
		return "Error"
	case MaxLoops:
		return "MaxLoops"
	case BreakerOpen:
		return "BreakerOpen"
	case ModelsExhausted:
		return "ModelsExhausted"
	case Stopped:
		return "Stopped"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}
