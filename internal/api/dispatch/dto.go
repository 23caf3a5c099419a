package dispatch

import (
	"time"

	"MahoutGolang/internal/entity"
)

type SubmitRequest struct {
	CommandID int    `json:"command_id" validate:"required,min=1"`
	Source    string `json:"source" validate:"required,oneof=voice manual"`
}

type DispatchResponse struct {
	ID          string                `json:"id"`
	CommandID   int                   `json:"command_id"`
	Action      string                `json:"action,omitempty"`
	Source      entity.DispatchSource `json:"source"`
	Status      entity.DispatchStatus `json:"status"`
	Reason      string                `json:"reason,omitempty"`
	SubmittedAt time.Time             `json:"submitted_at"`
	ResolvedAt  *time.Time            `json:"resolved_at,omitempty"`
}

func MakeDispatchResponse(req entity.DispatchRequest, action string) DispatchResponse {
	return DispatchResponse{
		ID:          req.ID,
		CommandID:   req.CommandID,
		Action:      action,
		Source:      req.Source,
		Status:      req.Status,
		Reason:      req.Reason,
		SubmittedAt: req.SubmittedAt,
		ResolvedAt:  req.ResolvedAt,
	}
}

type HistoryResponse struct {
	History []DispatchResponse `json:"history"`
	Total   int                `json:"total"`
	Page    int                `json:"page"`
	Limit   int                `json:"limit"`
}
