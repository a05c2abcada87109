package messaging

import (
	"context"
	"errors"

	"github.com/sitepass/notifier/pkg/dispatch"
)

// transport adapts the gateway client to the dispatch engine's Transport
// interface, translating gateway failures into retry classifications.
type transport struct {
	client *Client
}

// NewTransport wraps a Client as a dispatch.Transport for ChannelMessaging.
func NewTransport(client *Client) dispatch.Transport {
	return &transport{client: client}
}

// SendOne delivers the task's body text to the recipient's phone number.
//
// Classification:
//   - credential failures          → config: the whole job fails
//   - invalid params, bad numbers  → permanent: no retry
//   - gateway rate limiting        → throttled transient: longer backoff
//   - gateway 5xx, network faults  → transient
func (t *transport) SendOne(ctx context.Context, task dispatch.RecipientTask) error {
	err := t.client.SendMessage(ctx, SendMessageParams{
		SendTo: task.Address,
		Body:   task.Payload.Body,
	})
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return dispatch.ConfigError(err)
	case errors.Is(err, ErrInvalidParams), errors.Is(err, ErrRecipientRejected):
		return dispatch.Permanent(err)
	case errors.Is(err, ErrRateLimited):
		return dispatch.Throttled(err)
	default:
		return dispatch.Transient(err)
	}
}
