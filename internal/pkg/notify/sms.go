package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SMSSender delivers recipient notifications through the Vumi Go HTTP
// gateway. Each project carries its own account, conversation and token,
// so senders are constructed per project, not per process.
type SMSSender struct {
	httpClient        *http.Client
	apiURL            string
	accountID         string
	conversationID    string
	conversationToken string
}

// NewSMSSender builds a sender for one project's conversation.
func NewSMSSender(httpClient *http.Client, apiURL, accountID, conversationID, conversationToken string) *SMSSender {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &SMSSender{
		httpClient:        httpClient,
		apiURL:            strings.TrimSuffix(apiURL, "/"),
		accountID:         accountID,
		conversationID:    conversationID,
		conversationToken: conversationToken,
	}
}

// Send delivers one message to an MSISDN.
func (s *SMSSender) Send(ctx context.Context, msisdn, message string) error {
	payload := map[string]any{
		"to_addr": msisdn,
		"content": message,
	}

	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages.json", s.apiURL, s.conversationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.accountID, s.conversationToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sms send failed: status=%d body=%s", resp.StatusCode, body)
	}
	return nil
}
