package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    string
	}{
		{"zero", 0, "0s"},
		{"seconds only", 45, "45s"},
		{"exactly one minute", 60, "1m 0s"},
		{"minutes and seconds", 90, "1m 30s"},
		{"exactly one hour", 3600, "1h 0m 0s"},
		{"hours minutes seconds", 3661, "1h 1m 1s"},
		{"two hours", 7200, "2h 0m 0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.seconds))
		})
	}
}

func TestSetVerbose(t *testing.T) {
	// Debug must be a no-op without verbose mode; this only exercises the
	// guard, output itself goes to stdout.
	SetVerbose(false)
	Debug("suppressed")
	Debugf("suppressed %d", 1)
	SetVerbose(true)
	defer SetVerbose(false)
	Debug("visible")
}
