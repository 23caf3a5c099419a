package entity

import (
	"time"
)

// FeedbackRecord links a terminal dispatch request to a user correctness
// judgment. The ledger is append only: no update, no delete.
type FeedbackRecord struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id"`
	IsCorrect  bool      `json:"is_correct"`
	SampleRef  string    `json:"sample_ref,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}
