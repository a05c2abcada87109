package email

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

type postmarkClient struct {
	client *postmark.Client
	config Config
}

// NewPostmarkClient creates a Postmark-backed email sender.
// Both tokens are required for runtime operation - this enforces
// explicit configuration rather than silent failures in production.
func NewPostmarkClient(cfg Config) (Sender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%w: SenderEmail is required", ErrInvalidConfig)
	}
	if !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}
	if cfg.SupportEmail == "" {
		return nil, fmt.Errorf("%w: SupportEmail is required", ErrInvalidConfig)
	}
	if !emailRegex.MatchString(cfg.SupportEmail) {
		return nil, fmt.Errorf("%w: SupportEmail must be a valid email address", ErrInvalidConfig)
	}

	return &postmarkClient{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		config: cfg,
	}, nil
}

// MustNewPostmarkClient creates a Postmark client that panics on invalid config.
func MustNewPostmarkClient(cfg Config) Sender {
	client, err := NewPostmarkClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// Postmark API error codes relevant to retry classification.
// https://postmarkapp.com/developer/api/overview#error-codes
const (
	postmarkErrBadToken          = 10
	postmarkErrNotAllowedToSend  = 405
	postmarkErrInvalidEmail      = 300
	postmarkErrInactiveRecipient = 406
	postmarkErrRateLimitExceeded = 429
)

// SendEmail implements Sender using Postmark's transactional API.
// API-level failures are wrapped with sentinel errors so callers can
// distinguish credential problems, rejected recipients, and throttling
// from transient network faults.
func (c *postmarkClient) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	msg := postmark.Email{
		From:       c.config.SenderEmail,
		ReplyTo:    c.config.SupportEmail,
		To:         params.SendTo,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	}

	if len(params.Attachment) > 0 {
		msg.Attachments = []postmark.Attachment{{
			Name:        params.AttachmentName,
			Content:     base64Encode(params.Attachment),
			ContentType: "image/png",
		}}
	}

	resp, err := c.client.SendEmail(ctx, msg)
	if err != nil {
		// Transport-level failure: connection reset, timeout, DNS.
		return errors.Join(ErrFailedToSendEmail, err)
	}

	if resp.ErrorCode > 0 {
		apiErr := fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message)
		switch resp.ErrorCode {
		case postmarkErrBadToken, postmarkErrNotAllowedToSend:
			return errors.Join(ErrInvalidCredentials, apiErr)
		case postmarkErrInvalidEmail, postmarkErrInactiveRecipient:
			return errors.Join(ErrRecipientRejected, apiErr)
		case postmarkErrRateLimitExceeded:
			return errors.Join(ErrRateLimited, apiErr)
		default:
			return errors.Join(ErrFailedToSendEmail, apiErr)
		}
	}

	return nil
}

func base64Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
