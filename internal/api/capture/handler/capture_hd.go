package captureHandler

import (
	"errors"
	"time"

	"MahoutGolang/internal/api/capture"
	"MahoutGolang/internal/api/dispatch"
	"MahoutGolang/internal/entity"
	contextPkg "MahoutGolang/pkg/context"
	"MahoutGolang/pkg/handlerUtil"
	"MahoutGolang/pkg/log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *CaptureHandler) BeginCapture(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing begin capture request")

	var req capture.BeginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	session, err := h.captureService.Begin(c, req.ClientID, entity.Language(req.Language))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "begin_capture")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, capture.MakeSessionResponse(session))
	}
}

// StopCapture carries the finished audio sample. The long timeout covers one
// recognition round trip plus a single retry.
func (h *CaptureHandler) StopCapture(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing stop capture request")

	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("session_id is required"), ctx.Path())
	}

	audioFile, err := ctx.FormFile("audio")
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("audio file is required"), ctx.Path())
	}

	outcome, err := h.captureService.Stop(c, sessionID, audioFile)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "stop_capture")
	}

	resp := capture.StopResponse{
		Session:       capture.MakeSessionResponse(outcome.Session),
		Recognition:   outcome.Recognition,
		DispatchError: outcome.DispatchError,
	}
	if outcome.Dispatch != nil {
		cmd, _ := h.registryService.LookupByID(outcome.Dispatch.CommandID)
		dispatchResp := dispatch.MakeDispatchResponse(*outcome.Dispatch, cmd.Action)
		resp.Dispatch = &dispatchResp
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}

func (h *CaptureHandler) DiscardCapture(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("session_id is required"), ctx.Path())
	}

	if err := h.captureService.Discard(c, sessionID); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "discard_capture")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Capture session discarded",
		})
	}
}
