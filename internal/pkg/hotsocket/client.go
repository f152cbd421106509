package hotsocket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gopherairtime/gopherairtime/internal/pkg/env"
)

// APIError surfaces non-2xx HTTP responses from Hotsocket. Status-level
// failures inside a 200 reply are classified separately via Codes.Classify.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hotsocket api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Client talks to the Hotsocket recharge API. All operations are POSTs
// with an as_json body and a {"response": {...}} envelope reply.
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
	resources  map[string]string
}

// NewClientFromEnv constructs a client from HOTSOCKET_* environment variables.
func NewClientFromEnv(httpClient *http.Client) (*Client, error) {
	username := strings.TrimSpace(env.GetEnv("HOTSOCKET_USERNAME", ""))
	password := strings.TrimSpace(env.GetEnv("HOTSOCKET_PASSWORD", ""))
	if username == "" || password == "" {
		return nil, fmt.Errorf("HOTSOCKET_USERNAME and HOTSOCKET_PASSWORD must be set")
	}

	baseURL := strings.TrimSuffix(env.GetEnv("HOTSOCKET_BASE", "http://api.hotsocket.co.za:8080/test"), "/")

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		username:   username,
		password:   password,
		resources: map[string]string{
			"login":    env.GetEnv("HOTSOCKET_RESOURCE_LOGIN", "/login"),
			"balance":  env.GetEnv("HOTSOCKET_RESOURCE_BALANCE", "/balance"),
			"recharge": env.GetEnv("HOTSOCKET_RESOURCE_RECHARGE", "/recharge"),
			"status":   env.GetEnv("HOTSOCKET_RESOURCE_STATUS", "/statusV2"),
		},
	}, nil
}

// NewClient constructs a client with explicit settings, used by tests.
func NewClient(httpClient *http.Client, baseURL, username, password string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		username:   username,
		password:   password,
		resources: map[string]string{
			"login":    "/login",
			"balance":  "/balance",
			"recharge": "/recharge",
			"status":   "/statusV2",
		},
	}
}

// Login exchanges the configured credentials for a token.
func (c *Client) Login(ctx context.Context) (*LoginResult, error) {
	payload := map[string]any{
		"username": c.username,
		"password": c.password,
		"as_json":  true,
	}

	rsp, err := c.post(ctx, c.resources["login"], payload)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Status:  rsp.Response.Status.String(),
		Message: rsp.Response.Message,
		Token:   rsp.Response.Token,
	}, nil
}

// Balance queries the running account balance.
func (c *Client) Balance(ctx context.Context, token string) (*BalanceResult, error) {
	payload := map[string]any{
		"username": c.username,
		"token":    token,
		"as_json":  true,
	}

	rsp, err := c.post(ctx, c.resources["balance"], payload)
	if err != nil {
		return nil, err
	}

	return &BalanceResult{
		Status:         rsp.Response.Status.String(),
		Message:        rsp.Response.Message,
		RunningBalance: numberToInt64(rsp.Response.RunningBalance),
	}, nil
}

// Submit sends one recharge request.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	payload := map[string]any{
		"username":         c.username,
		"token":            req.Token,
		"recipient_msisdn": req.MSISDN,
		"product_code":     req.ProductCode,
		"denomination":     req.Denomination,
		"network_code":     req.NetworkCode,
		"reference":        req.Reference,
		"as_json":          true,
	}

	rsp, err := c.post(ctx, c.resources["recharge"], payload)
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		Status:       rsp.Response.Status.String(),
		Message:      rsp.Response.Message,
		HotsocketRef: rsp.Response.HotsocketRef.String(),
	}, nil
}

// Status queries the settlement state of a previously submitted recharge.
func (c *Client) Status(ctx context.Context, token, reference string) (*StatusResult, error) {
	payload := map[string]any{
		"username":  c.username,
		"token":     token,
		"reference": reference,
		"as_json":   true,
	}

	rsp, err := c.post(ctx, c.resources["status"], payload)
	if err != nil {
		return nil, err
	}

	code := 0
	if s := rsp.Response.RechargeStatusCd.String(); s != "" {
		if v, perr := strconv.Atoi(s); perr == nil {
			code = v
		}
	}

	return &StatusResult{
		Status:         rsp.Response.Status.String(),
		Message:        rsp.Response.Message,
		SettlementCode: code,
		RechargeStatus: rsp.Response.RechargeStatus,
		RunningBalance: numberToInt64(rsp.Response.RunningBalance),
	}, nil
}

func (c *Client) post(ctx context.Context, path string, payload map[string]any) (*envelope, error) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s%s", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var rsp envelope
	if err := json.Unmarshal(data, &rsp); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}

	return &rsp, nil
}
