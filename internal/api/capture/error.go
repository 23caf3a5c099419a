package capture

import "MahoutGolang/pkg/response"

var (
	ErrAlreadyRecording   = response.NewError(409, "a recording session is already active for this client")
	ErrNothingToStop      = response.NewError(400, "session is not recording")
	ErrSessionNotFound    = response.NewError(404, "capture session not found")
	ErrInvalidAudioFile   = response.NewError(400, "invalid audio file")
	ErrMalformedSample    = response.NewError(422, "audio sample rejected by recognition service")
	ErrServiceUnavailable = response.NewError(503, "recognition service unavailable")
)
