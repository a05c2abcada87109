package dispatch

import (
	"time"

	"github.com/google/uuid"
)

// Channel identifies the transport a job is delivered over.
type Channel string

const (
	// ChannelEmail delivers through the transactional email provider.
	ChannelEmail Channel = "email"
	// ChannelMessaging delivers through the third-party messaging API.
	ChannelMessaging Channel = "messaging"
)

// JobStatus represents the lifecycle state of a dispatch job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Terminal reports whether the status is final. Terminal jobs never change
// again and become eligible for eviction after the retention window.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// Payload carries the render-ready content for a single recipient.
// Rendering happens before Submit; the engine never touches templates.
type Payload struct {
	Subject        string `json:"subject,omitempty"`
	Body           string `json:"body"`
	Attachment     []byte `json:"attachment,omitempty"`
	AttachmentName string `json:"attachment_name,omitempty"`
}

// RecipientTask is one unit of work within a job: a destination address,
// its prepared payload, and an opaque label used in error reporting.
// Tasks are immutable once the job is created.
type RecipientTask struct {
	Address string  `json:"address"`
	Label   string  `json:"label"`
	Payload Payload `json:"payload"`
}

// RecipientError records one permanently failed recipient.
type RecipientError struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

// ProgressSnapshot is a read-only view of a job at one instant.
// Two snapshots taken with no intervening state change are identical.
type ProgressSnapshot struct {
	JobID        uuid.UUID        `json:"job_id"`
	Channel      Channel          `json:"channel"`
	Status       JobStatus        `json:"status"`
	Progress     int              `json:"progress"`
	Total        int              `json:"total"`
	SuccessCount int              `json:"success_count"`
	FailedCount  int              `json:"failed_count"`
	Errors       []RecipientError `json:"errors,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`

	// EstimatedSecondsRemaining extrapolates from elapsed processing time.
	// Nil until the first recipient completes and for terminal jobs.
	EstimatedSecondsRemaining *int64 `json:"estimated_seconds_remaining,omitempty"`
}
