// Package notification posts fire-and-forget webhook messages on
// session-terminal events. Sends never block the loop and failures are
// silent.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Event types for session-terminal notifications.
const (
	EventCompleted       = "completed"
	EventMaxLoops        = "max_loops"
	EventBreakerOpen     = "breaker_open"
	EventModelsExhausted = "models_exhausted"
	EventStopped         = "stopped"
	EventInterrupted     = "interrupted"
)

// sendTimeout bounds the webhook POST.
const sendTimeout = 10 * time.Second

// payload is the webhook body.
type payload struct {
	Channel string `json:"channel"`
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
}

// FormatEvent creates the human-readable message for an event.
func FormatEvent(event, workspace string, loop int, reason string) string {
	switch event {
	case EventCompleted:
		return fmt.Sprintf("✅ %s: session completed after %d loops", workspace, loop)
	case EventMaxLoops:
		return fmt.Sprintf("⚠️ %s: reached the loop limit (%d)", workspace, loop)
	case EventBreakerOpen:
		return fmt.Sprintf("🚨 %s: circuit breaker opened at loop %d — %s", workspace, loop, reason)
	case EventModelsExhausted:
		return fmt.Sprintf("⏳ %s: every model rate limited at loop %d", workspace, loop)
	case EventStopped:
		return fmt.Sprintf("⏹️ %s: stopped at loop %d — %s", workspace, loop, reason)
	case EventInterrupted:
		return fmt.Sprintf("⏸️ %s: interrupted at loop %d", workspace, loop)
	default:
		return fmt.Sprintf("ℹ️ %s: %s at loop %d — %s", workspace, event, loop, reason)
	}
}

// Send posts message to the webhook. No-op when webhook or chatID is empty.
// Errors are swallowed; this is display plumbing, not control flow.
func Send(webhook, channel, chatID, message string) {
	if webhook == "" || chatID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	body, err := json.Marshal(payload{Channel: channel, ChatID: chatID, Message: message})
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
