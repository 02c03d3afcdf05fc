package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatEvent(t *testing.T) {
	tests := []struct {
		event string
		want  string
	}{
		{EventCompleted, "session completed after 5 loops"},
		{EventMaxLoops, "reached the loop limit"},
		{EventBreakerOpen, "circuit breaker opened"},
		{EventModelsExhausted, "every model rate limited"},
		{EventStopped, "stopped at loop 5"},
		{EventInterrupted, "interrupted at loop 5"},
		{"mystery", "mystery at loop 5"},
	}
	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			msg := FormatEvent(tt.event, "myproject", 5, "because")
			assert.Contains(t, msg, "myproject")
			assert.Contains(t, msg, tt.want)
		})
	}
}

func TestSend_PostsPayload(t *testing.T) {
	received := make(chan payload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		received <- p
	}))
	defer srv.Close()

	Send(srv.URL, "telegram", "chat-1", "hello")

	p := <-received
	assert.Equal(t, "telegram", p.Channel)
	assert.Equal(t, "chat-1", p.ChatID)
	assert.Equal(t, "hello", p.Message)
}

func TestSend_NoopWithoutTarget(t *testing.T) {
	// Must not panic or block without a webhook or chat id.
	Send("", "telegram", "chat-1", "hello")
	Send("http://127.0.0.1:1", "telegram", "", "hello")
}
