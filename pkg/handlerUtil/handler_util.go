package handlerUtil

import (
	"errors"

	"MahoutGolang/internal/api/capture"
	"MahoutGolang/internal/api/dispatch"
	"MahoutGolang/internal/api/feedback"
	"MahoutGolang/internal/api/registry"
	"MahoutGolang/pkg/log"
	"MahoutGolang/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	// Registry domain errors
	if errors.Is(err, registry.ErrCommandNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Command not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Command not found",
			"code":  "COMMAND_NOT_FOUND",
		})
	}

	if errors.Is(err, registry.ErrUnsupportedLanguage) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Unsupported language")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported language",
			"code":  "UNSUPPORTED_LANGUAGE",
		})
	}

	// Capture domain errors
	if errors.Is(err, capture.ErrAlreadyRecording) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Capture already in progress for client")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A capture session is already recording for this client",
			"code":  "ALREADY_RECORDING",
		})
	}

	if errors.Is(err, capture.ErrNothingToStop) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Stop requested with no active recording")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No active recording to stop",
			"code":  "NOTHING_TO_STOP",
		})
	}

	if errors.Is(err, capture.ErrSessionNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Capture session not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Capture session not found",
			"code":  "SESSION_NOT_FOUND",
		})
	}

	if errors.Is(err, capture.ErrInvalidAudioFile) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Invalid audio file")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid audio file type",
			"code":  "INVALID_AUDIO_FILE",
		})
	}

	if errors.Is(err, capture.ErrMalformedSample) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Recognizer rejected the audio sample")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Audio sample could not be decoded",
			"code":  "MALFORMED_SAMPLE",
		})
	}

	if errors.Is(err, capture.ErrServiceUnavailable) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Recognition service unavailable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Recognition service unavailable",
			"code":  "RECOGNITION_UNAVAILABLE",
		})
	}

	// Dispatch domain errors
	if errors.Is(err, dispatch.ErrUnknownCommand) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Unknown command id")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown command id",
			"code":  "UNKNOWN_COMMAND",
		})
	}

	if errors.Is(err, dispatch.ErrBusy) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Dispatch slot occupied")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Another command is awaiting acknowledgement",
			"code":  "DISPATCH_BUSY",
		})
	}

	if errors.Is(err, dispatch.ErrRequestNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Dispatch request not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Dispatch request not found",
			"code":  "REQUEST_NOT_FOUND",
		})
	}

	if errors.Is(err, dispatch.ErrChannelUnavailable) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Device channel unavailable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Device channel unavailable",
			"code":  "CHANNEL_UNAVAILABLE",
		})
	}

	// Feedback domain errors
	if errors.Is(err, feedback.ErrRequestNotTerminal) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Feedback attempted on pending dispatch request")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Dispatch request has not reached a terminal status",
			"code":  "REQUEST_NOT_TERMINAL",
		})
	}

	if errors.Is(err, feedback.ErrDuplicateFeedback) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Duplicate feedback record")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Feedback already recorded for this request",
			"code":  "DUPLICATE_FEEDBACK",
		})
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"code":       respErr.Code,
			"path":       path,
			"operation":  operation,
		}).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(fiber.Map{"error": err.Error()})
	}

	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}).Error("Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "An unexpected error occurred",
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
