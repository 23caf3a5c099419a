package entity

import (
	"time"
)

type CaptureState string

const (
	CaptureIdle       CaptureState = "idle"
	CaptureRecording  CaptureState = "recording"
	CaptureFinalizing CaptureState = "finalizing"
	CaptureCompleted  CaptureState = "completed"
	CaptureFailed     CaptureState = "failed"
)

// Terminal reports whether the session is finished. A terminal session can
// never record again; a new session must be created.
func (s CaptureState) Terminal() bool {
	return s == CaptureCompleted || s == CaptureFailed
}

type CaptureSession struct {
	ID        string       `json:"id"`
	ClientID  string       `json:"client_id"`
	Language  Language     `json:"language"`
	State     CaptureState `json:"state"`
	StartedAt time.Time    `json:"started_at"`
	SampleRef string       `json:"sample_ref,omitempty"`
}

type RecognitionResult struct {
	ID               string    `json:"id"`
	SessionID        string    `json:"session_id,omitempty"`
	RecognizedText   string    `json:"recognized_text"`
	MatchedCommandID *int      `json:"matched_command_id"`
	LanguageGuess    string    `json:"language_guess,omitempty"`
	Confidence       *float64  `json:"confidence,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
