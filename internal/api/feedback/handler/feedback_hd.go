package feedbackHandler

import (
	"mime/multipart"
	"strconv"
	"time"

	"MahoutGolang/internal/api/feedback"
	contextPkg "MahoutGolang/pkg/context"
	"MahoutGolang/pkg/handlerUtil"
	"MahoutGolang/pkg/log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

// RecordFeedback takes multipart form data so the original audio sample can
// ride along with the correctness judgment. The sample is optional.
func (h *FeedbackHandler) RecordFeedback(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing record feedback request")

	req := feedback.RecordRequest{
		RequestID: ctx.FormValue("request_id"),
	}

	isCorrect, err := strconv.ParseBool(ctx.FormValue("is_correct", "false"))
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	req.IsCorrect = isCorrect

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	var sample *multipart.FileHeader
	if file, err := ctx.FormFile("audio"); err == nil {
		sample = file
	}

	record, err := h.feedbackService.Record(c, req.RequestID, req.IsCorrect, sample)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "record_feedback")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, feedback.RecordResponse{Record: record})
	}
}

func (h *FeedbackHandler) ExportFeedback(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing feedback export request")

	afterID := ctx.Query("after")

	limit, err := strconv.Atoi(ctx.Query("limit", "100"))
	if err != nil || limit < 1 {
		limit = 100
	}

	records, nextAfter, hasMore, err := h.feedbackService.Export(c, afterID, limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "export_feedback")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, feedback.ExportResponse{
			Records:   records,
			NextAfter: nextAfter,
			HasMore:   hasMore,
		})
	}
}
