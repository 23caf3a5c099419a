package entity

import (
	"time"
)

type DispatchSource string

const (
	SourceVoice  DispatchSource = "voice"
	SourceManual DispatchSource = "manual"
)

func (s DispatchSource) IsValid() bool {
	return s == SourceVoice || s == SourceManual
}

type DispatchStatus string

const (
	DispatchPending      DispatchStatus = "pending"
	DispatchAcknowledged DispatchStatus = "acknowledged"
	DispatchRejected     DispatchStatus = "rejected"
	DispatchTimedOut     DispatchStatus = "timed_out"
)

// Terminal statuses are absorbing: once a request leaves pending it never
// transitions again.
func (s DispatchStatus) Terminal() bool {
	switch s {
	case DispatchAcknowledged, DispatchRejected, DispatchTimedOut:
		return true
	default:
		return false
	}
}

type DispatchRequest struct {
	ID            string         `json:"id"`
	CommandID     int            `json:"command_id"`
	Source        DispatchSource `json:"source"`
	Status        DispatchStatus `json:"status"`
	Reason        string         `json:"reason,omitempty"`
	RecognitionID string         `json:"recognition_id,omitempty"`
	SubmittedAt   time.Time      `json:"submitted_at"`
	ResolvedAt    *time.Time     `json:"resolved_at,omitempty"`
}
