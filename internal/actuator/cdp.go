package actuator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/CodexForgeBR/agent-pilot/internal/logging"
	"github.com/CodexForgeBR/agent-pilot/internal/model"
)

// pollInterval is how often WaitForResponse samples the transcript.
const pollInterval = 2 * time.Second

// stableSamples is how many unchanged consecutive samples mean the
// assistant has finished streaming its reply.
const stableSamples = 2

// CDPClient drives the editor's chat webview over the Chrome DevTools
// Protocol remote debugging socket. All calls are synchronous; the client
// is used from a single goroutine (the loop).
type CDPClient struct {
	// DebugURL is the remote debugging HTTP endpoint,
	// e.g. http://127.0.0.1:9222.
	DebugURL string

	conn   *websocket.Conn
	nextID int64
}

// NewCDPClient returns a client for the given remote debugging endpoint.
func NewCDPClient(debugURL string) *CDPClient {
	return &CDPClient{DebugURL: debugURL}
}

// target is one entry from the /json/list target listing.
type target struct {
	Type                 string `json:"type"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// cdpRequest is a DevTools protocol command frame.
type cdpRequest struct {
	ID     int64          `json:"id"`
	Method string         `json:"method"`
	Params map[string]any `json:"params,omitempty"`
}

// cdpResponse is a DevTools protocol response frame. Event frames have no
// ID and are skipped.
type cdpResponse struct {
	ID     int64 `json:"id"`
	Result struct {
		Result struct {
			Type  string          `json:"type"`
			Value json.RawMessage `json:"value"`
		} `json:"result"`
		ExceptionDetails *struct {
			Text string `json:"text"`
		} `json:"exceptionDetails"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Connect finds the workbench target on the debugging endpoint and dials
// its websocket. An already-connected client reconnects from scratch.
func (c *CDPClient) Connect(ctx context.Context) error {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DebugURL+"/json/list", nil)
	if err != nil {
		return fmt.Errorf("build target listing request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("list debug targets: %w", err)
	}
	defer resp.Body.Close()

	var targets []target
	if err := json.NewDecoder(resp.Body).Decode(&targets); err != nil {
		return fmt.Errorf("decode target listing: %w", err)
	}

	wsURL := ""
	for _, t := range targets {
		if t.Type != "page" {
			continue
		}
		if strings.Contains(t.URL, "workbench") || strings.Contains(strings.ToLower(t.Title), "workbench") {
			wsURL = t.WebSocketDebuggerURL
			break
		}
	}
	// Fall back to the first page target when no workbench is identifiable.
	if wsURL == "" {
		for _, t := range targets {
			if t.Type == "page" && t.WebSocketDebuggerURL != "" {
				wsURL = t.WebSocketDebuggerURL
				break
			}
		}
	}
	if wsURL == "" {
		return fmt.Errorf("no debuggable page target at %s", c.DebugURL)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial debugger socket: %w", err)
	}
	c.conn = conn
	logging.Debugf("connected to debug target %s", wsURL)
	return nil
}

// IsConnected reports whether the websocket is open.
func (c *CDPClient) IsConnected() bool {
	return c.conn != nil
}

// eval runs a JavaScript expression in the page and decodes its value into
// out (pass nil to discard the result).
func (c *CDPClient) eval(ctx context.Context, expression string, out any) error {
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}

	c.nextID++
	id := c.nextID
	frame := cdpRequest{
		ID:     id,
		Method: "Runtime.evaluate",
		Params: map[string]any{
			"expression":    expression,
			"returnByValue": true,
		},
	}

	deadline := time.Now().Add(30 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteJSON(frame); err != nil {
		c.drop()
		return fmt.Errorf("write evaluate command: %w", err)
	}

	// Read until our response frame arrives; event frames carry no ID.
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_ = c.conn.SetReadDeadline(deadline)
		var resp cdpResponse
		if err := c.conn.ReadJSON(&resp); err != nil {
			c.drop()
			return fmt.Errorf("read evaluate response: %w", err)
		}
		if resp.ID != id {
			continue
		}
		if resp.Error != nil {
			return fmt.Errorf("evaluate failed: %s", resp.Error.Message)
		}
		if resp.Result.ExceptionDetails != nil {
			return fmt.Errorf("page exception: %s", resp.Result.ExceptionDetails.Text)
		}
		if out != nil && resp.Result.Result.Value != nil {
			if err := json.Unmarshal(resp.Result.Result.Value, out); err != nil {
				return fmt.Errorf("decode evaluate value: %w", err)
			}
		}
		return nil
	}
}

// drop closes a broken connection so the next iteration reconnects.
func (c *CDPClient) drop() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// Inject types the prompt into the chat input and submits it.
func (c *CDPClient) Inject(ctx context.Context, prompt string) error {
	quoted, err := json.Marshal(prompt)
	if err != nil {
		return fmt.Errorf("encode prompt: %w", err)
	}
	expression := fmt.Sprintf(`(() => {
		const input = document.querySelector('.chat-input textarea, [data-testid="chat-input"], .aislash-editor-input');
		if (!input) return false;
		input.focus();
		input.value = %s;
		input.dispatchEvent(new Event('input', { bubbles: true }));
		input.dispatchEvent(new KeyboardEvent('keydown', { key: 'Enter', bubbles: true }));
		return true;
	})()`, quoted)

	var submitted bool
	if err := c.eval(ctx, expression, &submitted); err != nil {
		return err
	}
	if !submitted {
		return fmt.Errorf("chat input not found")
	}
	return nil
}

// transcriptSample is one poll of the conversation state.
type transcriptSample struct {
	Text       string `json:"text"`
	Generating bool   `json:"generating"`
}

// sampleExpression reads the newest assistant message and whether the UI
// still shows a streaming indicator.
const sampleExpression = `(() => {
	const messages = document.querySelectorAll('.chat-message.assistant, [data-message-role="assistant"]');
	const last = messages[messages.length - 1];
	const generating = !!document.querySelector('.generating, .loading-indicator, [data-generating="true"]');
	return { text: last ? last.innerText : '', generating };
})()`

// WaitForResponse polls the transcript until the reply stops growing and
// the streaming indicator clears, or the timeout elapses.
func (c *CDPClient) WaitForResponse(ctx context.Context, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	last := ""
	stable := 0
	for {
		select {
		case <-ctx.Done():
			if last != "" {
				// A timeout with a partial reply still yields the text; the
				// caller decides whether that counts as a failure.
				return last, ctx.Err()
			}
			return "", ctx.Err()
		case <-ticker.C:
			var sample transcriptSample
			if err := c.eval(ctx, sampleExpression, &sample); err != nil {
				return "", err
			}
			if sample.Generating || sample.Text == "" {
				stable = 0
				last = sample.Text
				continue
			}
			if sample.Text == last {
				stable++
				if stable >= stableSamples {
					return sample.Text, nil
				}
			} else {
				stable = 0
				last = sample.Text
			}
		}
	}
}

// SwitchModel opens the model picker and selects the entry labelled for id.
func (c *CDPClient) SwitchModel(ctx context.Context, id model.ID) error {
	quoted, err := json.Marshal(string(id))
	if err != nil {
		return fmt.Errorf("encode model id: %w", err)
	}
	expression := fmt.Sprintf(`(() => {
		const picker = document.querySelector('.model-picker, [data-testid="model-selector"]');
		if (!picker) return false;
		picker.click();
		const option = Array.from(document.querySelectorAll('.model-option, [role="option"]'))
			.find(el => el.getAttribute('data-model-id') === %s || el.textContent.includes(%s));
		if (!option) return false;
		option.click();
		return true;
	})()`, quoted, quoted)

	var switched bool
	if err := c.eval(ctx, expression, &switched); err != nil {
		return err
	}
	if !switched {
		return fmt.Errorf("model %s not selectable", id)
	}
	return nil
}

// ClickPendingAcceptance clicks every visible accept/apply button and
// returns the count.
func (c *CDPClient) ClickPendingAcceptance(ctx context.Context) (int, error) {
	const expression = `(() => {
		const buttons = Array.from(document.querySelectorAll('button'))
			.filter(b => /^(accept|apply|accept all|keep)$/i.test(b.textContent.trim()));
		buttons.forEach(b => b.click());
		return buttons.length;
	})()`

	var clicked int
	if err := c.eval(ctx, expression, &clicked); err != nil {
		return 0, err
	}
	return clicked, nil
}

// Close shuts the websocket down.
func (c *CDPClient) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
