package dispatch

import "MahoutGolang/pkg/response"

var (
	ErrUnknownCommand     = response.NewError(400, "unknown command")
	ErrBusy               = response.NewError(409, "another command is still pending")
	ErrRequestNotFound    = response.NewError(404, "dispatch request not found")
	ErrChannelUnavailable = response.NewError(503, "device channel unavailable")
)
