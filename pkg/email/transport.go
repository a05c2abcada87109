package email

import (
	"context"
	"errors"

	"github.com/sitepass/notifier/pkg/dispatch"
)

// transport adapts a Sender to the dispatch engine's Transport interface,
// translating sender failures into retry classifications.
type transport struct {
	sender Sender
}

// NewTransport wraps a Sender as a dispatch.Transport for ChannelEmail.
func NewTransport(sender Sender) dispatch.Transport {
	return &transport{sender: sender}
}

// SendOne delivers the task as an email.
//
// Classification:
//   - credential failures       → config: the whole job fails, nothing can succeed
//   - invalid params, rejected  → permanent: retrying cannot fix the address/content
//   - provider rate limiting    → throttled transient: retried with longer backoff
//   - anything else (network)   → transient
func (t *transport) SendOne(ctx context.Context, task dispatch.RecipientTask) error {
	err := t.sender.SendEmail(ctx, SendEmailParams{
		SendTo:         task.Address,
		Subject:        task.Payload.Subject,
		BodyHTML:       task.Payload.Body,
		Tag:            task.Label,
		Attachment:     task.Payload.Attachment,
		AttachmentName: task.Payload.AttachmentName,
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
