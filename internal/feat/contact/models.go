package contact

import (
	"time"
)

// Message represents a message submitted via the contact form.
// Messages are never updated in place; they are appended, listed, and deleted.
type Message struct {
	// ID is derived from the submission clock reading and is unique within
	// the stored collection.
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// BodyPreview returns a truncated preview of the message body.
func (m *Message) BodyPreview() string {
	if len(m.Body) <= 80 {
		return m.Body
	}
	return m.Body[:80] + "..."
}

// State is the phase of the submission flow.
type State string

const (
	StateIdle      State = "idle"
	StateSending   State = "sending"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)
