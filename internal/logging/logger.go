// Package logging provides colored, leveled log output for the agent-pilot CLI.
//
// All output functions write a prefixed, color-coded line. Debug output is
// suppressed unless verbose mode is enabled via SetVerbose(true).
package logging

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// verbose controls whether Debug() produces output.
var verbose bool

// Color printers for each log level.
var (
	infoPrefix    = color.New(color.FgBlue).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
	loopPrefix    = color.New(color.FgCyan).SprintFunc()
	debugPrefix   = color.New(color.FgMagenta).SprintFunc()
)

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	verbose = v
}

// Info prints an informational message to stdout in blue.
func Info(msg string) {
	fmt.Println(infoPrefix("[INFO]") + " " + msg)
}

// Infof is Info with Printf-style formatting.
func Infof(format string, args ...any) {
	Info(fmt.Sprintf(format, args...))
}

// Success prints a success message to stdout in green.
func Success(msg string) {
	fmt.Println(successPrefix("[OK]") + " " + msg)
}

// Successf is Success with Printf-style formatting.
func Successf(format string, args ...any) {
	Success(fmt.Sprintf(format, args...))
}

// Warn prints a warning message to stdout in yellow.
func Warn(msg string) {
	fmt.Println(warnPrefix("[WARN]") + " " + msg)
}

// Warnf is Warn with Printf-style formatting.
func Warnf(format string, args ...any) {
	Warn(fmt.Sprintf(format, args...))
}

// Error prints an error message to stderr in red.
func Error(msg string) {
	fmt.Fprintln(os.Stderr, errorPrefix("[ERROR]")+" "+msg)
}

// Errorf is Error with Printf-style formatting.
func Errorf(format string, args ...any) {
	Error(fmt.Sprintf(format, args...))
}

// Loop prints a loop-iteration header to stdout in cyan, surrounded by
// separator lines.
func Loop(number, max int) {
	sep := loopPrefix("──────────────────────────────────────────────────")
	fmt.Println(sep)
	fmt.Println(loopPrefix(fmt.Sprintf("[LOOP %d/%d]", number, max)))
	fmt.Println(sep)
}

// Debug prints a debug message to stdout in magenta, only when verbose mode
// is enabled.
func Debug(msg string) {
	if !verbose {
		return
	}
	fmt.Println(debugPrefix("[DEBUG]") + " " + msg)
}

// Debugf is Debug with Printf-style formatting.
func Debugf(format string, args ...any) {
	if !verbose {
		return
	}
	Debug(fmt.Sprintf(format, args...))
}

// FormatDuration converts a duration in seconds to a human-readable string.
//
// Examples:
//
//	FormatDuration(45)   => "45s"
//	FormatDuration(90)   => "1m 30s"
//	FormatDuration(3661) => "1h 1m 1s"
func FormatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%dh %dm %ds", seconds/3600, (seconds%3600)/60, seconds%60)
}
