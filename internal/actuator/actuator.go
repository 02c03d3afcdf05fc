// Package actuator abstracts the mechanism that drives the target editor's
// chat assistant: injecting prompts, reading responses, switching models
// and clicking pending acceptance buttons.
//
// The core never assumes how an Actuator is implemented. The default
// implementation in this package speaks the Chrome DevTools Protocol over
// the editor's remote debugging socket; tests substitute fakes.
package actuator

import (
	"context"
	"time"

	"github.com/CodexForgeBR/agent-pilot/internal/model"
)

// Actuator is the opaque external collaborator the loop drives.
type Actuator interface {
	// Connect establishes the transport. Safe to call repeatedly.
	Connect(ctx context.Context) error

	// IsConnected reports whether the transport is currently usable.
	IsConnected() bool

	// Inject submits a prompt to the assistant's chat input.
	Inject(ctx context.Context, prompt string) error

	// WaitForResponse blocks until the assistant finishes its reply or the
	// timeout elapses, returning the response text.
	WaitForResponse(ctx context.Context, timeout time.Duration) (string, error)

	// SwitchModel selects a different assistant model in the UI.
	SwitchModel(ctx context.Context, id model.ID) error

	// ClickPendingAcceptance accepts any pending apply/accept buttons and
	// returns how many were clicked.
	ClickPendingAcceptance(ctx context.Context) (int, error)
}
