package email

import "errors"

var (
	ErrFailedToSendEmail  = errors.New("email.errors.failed_to_send_email")
	ErrInvalidConfig      = errors.New("email.errors.invalid_config")
	ErrInvalidParams      = errors.New("email.errors.invalid_params")
	ErrInvalidCredentials = errors.New("email.errors.invalid_credentials")
	ErrRecipientRejected  = errors.New("email.errors.recipient_rejected")
	ErrRateLimited        = errors.New("email.errors.rate_limited")
)
