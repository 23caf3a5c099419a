package feedback

import (
	"MahoutGolang/internal/entity"
)

type RecordRequest struct {
	RequestID string `json:"request_id" validate:"required,min=1"`
	IsCorrect bool   `json:"is_correct"`
}

type RecordResponse struct {
	Record entity.FeedbackRecord `json:"record"`
}

// ExportResponse is one page of the retraining export. NextAfter restarts
// the pull exactly where this page ended.
type ExportResponse struct {
	Records   []entity.FeedbackRecord `json:"records"`
	NextAfter string                  `json:"next_after,omitempty"`
	HasMore   bool                    `json:"has_more"`
}
