package registry

import "MahoutGolang/pkg/response"

var (
	ErrCommandNotFound     = response.NewError(404, "command not found")
	ErrUnsupportedLanguage = response.NewError(400, "unsupported language")
)
