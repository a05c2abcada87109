package api

import "github.com/sitepass/notifier/pkg/dispatch"

// SubmitRecipient is one addressee in a bulk dispatch request.
// Subject and Body arrive fully rendered; the engine never touches
// templates. When AccessCode is set, a QR access pass is generated and
// attached to the payload.
type SubmitRecipient struct {
	Address    string `json:"address"`
	Label      string `json:"label"`
	Subject    string `json:"subject,omitempty"`
	Body       string `json:"body"`
	SiteID     string `json:"site_id,omitempty"`
	AccessCode string `json:"access_code,omitempty"`
}

// SubmitRequest is the payload of POST /jobs.
type SubmitRequest struct {
	Channel    dispatch.Channel  `json:"channel"`
	Recipients []SubmitRecipient `json:"recipients"`
	BatchSize  int               `json:"batch_size,omitempty"`
}

// SubmitResponse returns the identifier of the accepted job.
type SubmitResponse struct {
	JobID string `json:"job_id"`
}

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error string `json:"error"`
}
