package capture

import (
	"MahoutGolang/internal/api/dispatch"
	"MahoutGolang/internal/entity"
)

type BeginRequest struct {
	ClientID string `json:"client_id" validate:"required,min=1,max=128"`
	Language string `json:"language" validate:"required,oneof=ml hi gu"`
}

type SessionResponse struct {
	ID        string              `json:"id"`
	ClientID  string              `json:"client_id"`
	Language  entity.Language     `json:"language"`
	State     entity.CaptureState `json:"state"`
	StartedAt string              `json:"started_at"`
	SampleRef string              `json:"sample_ref,omitempty"`
}

func MakeSessionResponse(session entity.CaptureSession) SessionResponse {
	return SessionResponse{
		ID:        session.ID,
		ClientID:  session.ClientID,
		Language:  session.Language,
		State:     session.State,
		StartedAt: session.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		SampleRef: session.SampleRef,
	}
}

// StopResponse is what one finished capture produces: the terminal session,
// the recognition verdict, and the dispatch request when the match
// auto-dispatched. DispatchError carries a non-fatal admission failure (for
// example a busy slot); the capture itself still completed.
type StopResponse struct {
	Session       SessionResponse            `json:"session"`
	Recognition   entity.RecognitionResult   `json:"recognition"`
	Dispatch      *dispatch.DispatchResponse `json:"dispatch,omitempty"`
	DispatchError string                     `json:"dispatch_error,omitempty"`
}
