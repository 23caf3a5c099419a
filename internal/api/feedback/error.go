package feedback

import "MahoutGolang/pkg/response"

var (
	ErrRequestNotTerminal = response.NewError(409, "dispatch request is still pending")
	ErrDuplicateFeedback  = response.NewError(409, "feedback already recorded for this request")
	ErrRequestNotFound    = response.NewError(404, "dispatch request not found")
	ErrInvalidAudioFile   = response.NewError(400, "invalid audio file")
)
