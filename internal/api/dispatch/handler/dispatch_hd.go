package dispatchHandler

import (
	"errors"
	"strconv"
	"time"

	"MahoutGolang/internal/api/dispatch"
	"MahoutGolang/internal/entity"
	contextPkg "MahoutGolang/pkg/context"
	"MahoutGolang/pkg/handlerUtil"
	"MahoutGolang/pkg/log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

// SubmitCommand is the manual entry point: a command id picked from the
// dashboard, routed straight into the dispatch coordinator.
func (h *DispatchHandler) SubmitCommand(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing submit command request")

	var req dispatch.SubmitRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	request, err := h.dispatchService.Submit(c, req.CommandID, entity.DispatchSource(req.Source), "")
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "submit_command")
	}

	cmd, _ := h.registryService.LookupByID(request.CommandID)

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusAccepted, dispatch.MakeDispatchResponse(request, cmd.Action))
	}
}

func (h *DispatchHandler) GetRequest(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("dispatch request id is required"), ctx.Path())
	}

	request, err := h.dispatchService.GetRequest(c, id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_dispatch_request")
	}

	cmd, _ := h.registryService.LookupByID(request.CommandID)

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, dispatch.MakeDispatchResponse(request, cmd.Action))
	}
}

func (h *DispatchHandler) GetHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing dispatch history request")

	page, err := strconv.Atoi(ctx.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(ctx.Query("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	history, total, err := h.dispatchService.GetHistory(c, page, limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_dispatch_history")
	}

	resp := dispatch.HistoryResponse{
		History: make([]dispatch.DispatchResponse, 0, len(history)),
		Total:   total,
		Page:    page,
		Limit:   limit,
	}
	for _, request := range history {
		cmd, _ := h.registryService.LookupByID(request.CommandID)
		resp.History = append(resp.History, dispatch.MakeDispatchResponse(request, cmd.Action))
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}
