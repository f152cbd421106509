package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gopherairtime/gopherairtime/internal/pkg/env"
)

// ChatNotifier posts low-balance warnings into a chat room.
type ChatNotifier struct {
	httpClient *http.Client
	roomURL    string
	from       string
}

// NewChatNotifierFromEnv builds a notifier from CHAT_* environment settings.
func NewChatNotifierFromEnv(httpClient *http.Client) *ChatNotifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &ChatNotifier{
		httpClient: httpClient,
		roomURL:    env.GetEnv("CHAT_ROOM_URL", ""),
		from:       env.GetEnv("CHAT_FROM", "GopherAirtime"),
	}
}

// NewChatNotifier builds a notifier with an explicit room URL, used by tests.
func NewChatNotifier(httpClient *http.Client, roomURL string) *ChatNotifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &ChatNotifier{httpClient: httpClient, roomURL: roomURL, from: "GopherAirtime"}
}

// WarnLowBalance posts the current balance into the room.
func (n *ChatNotifier) WarnLowBalance(ctx context.Context, balance int64) error {
	if n.roomURL == "" {
		return fmt.Errorf("chat room URL not configured")
	}

	payload := map[string]any{
		"from":     n.from,
		"color":    "red",
		"renderer": "markdown",
		"text":     fmt.Sprintf("Balance is currently: %d", balance),
	}

	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.roomURL, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("chat notify failed: status=%d body=%s", resp.StatusCode, body)
	}
	return nil
}
