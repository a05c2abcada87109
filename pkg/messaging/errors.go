package messaging

import "errors"

var (
	ErrFailedToSendMessage = errors.New("messaging.errors.failed_to_send_message")
	ErrInvalidConfig       = errors.New("messaging.errors.invalid_config")
	ErrInvalidParams       = errors.New("messaging.errors.invalid_params")
	ErrInvalidCredentials  = errors.New("messaging.errors.invalid_credentials")
	ErrRecipientRejected   = errors.New("messaging.errors.recipient_rejected")
	ErrRateLimited         = errors.New("messaging.errors.rate_limited")
	ErrProviderUnavailable = errors.New("messaging.errors.provider_unavailable")
)
