package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SendMessageParams represents the parameters for sending one message.
type SendMessageParams struct {
	SendTo string `json:"send_to"` // Phone number of the recipient
	Body   string `json:"body"`    // Rendered message text
}

// Validate checks that the parameters are complete enough to attempt a send.
func (p SendMessageParams) Validate() error {
	if strings.TrimSpace(p.SendTo) == "" {
		return fmt.Errorf("%w: SendTo is required", ErrInvalidParams)
	}
	if strings.TrimSpace(p.Body) == "" {
		return fmt.Errorf("%w: Body is required", ErrInvalidParams)
	}
	return nil
}

// Client sends messages through the third-party HTTP messaging gateway.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewClient creates a messaging gateway client.
// Both the base URL and the API token are required - this enforces explicit
// configuration rather than silent failures in production.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: BaseURL is required", ErrInvalidConfig)
	}
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("%w: APIToken is required", ErrInvalidConfig)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 25 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiToken:   cfg.APIToken,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// MustNewClient creates a messaging client that panics on invalid config.
func MustNewClient(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

type sendMessageRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type sendMessageResponse struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error,omitempty"`
}

// SendMessage delivers one message to one phone number.
// Gateway responses are wrapped with sentinel errors so callers can
// distinguish credential problems, rejected recipients, and throttling
// from transient gateway faults.
func (c *Client) SendMessage(ctx context.Context, params SendMessageParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(sendMessageRequest{To: params.SendTo, Body: params.Body})
	if err != nil {
		return errors.Join(ErrFailedToSendMessage, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return errors.Join(ErrFailedToSendMessage, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport-level failure: connection refused, reset, timeout.
		return errors.Join(ErrFailedToSendMessage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	gwErr := fmt.Errorf("gateway responded %d: %s", resp.StatusCode, gatewayMessage(body))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.Join(ErrInvalidCredentials, gwErr)
	case resp.StatusCode == http.StatusTooManyRequests:
		return errors.Join(ErrRateLimited, gwErr)
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode >= 500:
		return errors.Join(ErrProviderUnavailable, gwErr)
	case resp.StatusCode >= 400:
		// Bad number, rejected content, unknown endpoint resource.
		return errors.Join(ErrRecipientRejected, gwErr)
	default:
		return errors.Join(ErrFailedToSendMessage, gwErr)
	}
}

// gatewayMessage extracts the error field from a gateway response body,
// falling back to the raw body when it is not JSON.
func gatewayMessage(body []byte) string {
	var parsed sendMessageResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	return string(body)
}
