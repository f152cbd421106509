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

// PushNotifier sends low-balance warnings to the operator's devices.
type PushNotifier struct {
	httpClient *http.Client
	messageURL string
	appToken   string
	userKey    string
}

// NewPushNotifierFromEnv builds a notifier from PUSHOVER_* environment settings.
func NewPushNotifierFromEnv(httpClient *http.Client) *PushNotifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &PushNotifier{
		httpClient: httpClient,
		messageURL: env.GetEnv("PUSHOVER_MESSAGE_URL", "https://api.pushover.net/1/messages.json"),
		appToken:   env.GetEnv("PUSHOVER_APP", ""),
		userKey:    env.GetEnv("PUSHOVER_USER", ""),
	}
}

// NewPushNotifier builds a notifier with explicit settings, used by tests.
func NewPushNotifier(httpClient *http.Client, messageURL, appToken, userKey string) *PushNotifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &PushNotifier{httpClient: httpClient, messageURL: messageURL, appToken: appToken, userKey: userKey}
}

// WarnLowBalance pushes the current balance to the configured user.
func (n *PushNotifier) WarnLowBalance(ctx context.Context, balance int64) error {
	if n.appToken == "" || n.userKey == "" {
		return fmt.Errorf("push notifier not configured")
	}

	payload := map[string]any{
		"token":   n.appToken,
		"user":    n.userKey,
		"message": fmt.Sprintf("Balance is currently: %d", balance),
	}

	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.messageURL, buf)
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
		return fmt.Errorf("push notify failed: status=%d body=%s", resp.StatusCode, body)
	}
	return nil
}
