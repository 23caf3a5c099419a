package registryHandler

import (
	"MahoutGolang/internal/api/registry"
	"MahoutGolang/internal/entity"
	"MahoutGolang/pkg/handlerUtil"
	"MahoutGolang/pkg/log"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func (h *RegistryHandler) ListCommands(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing list commands request")

	commands := h.registryService.All()

	lang := entity.Language(ctx.Query("lang"))
	if lang != "" && !lang.IsSupported() {
		return errHandler.Handle(ctx, requestID, registry.ErrUnsupportedLanguage, ctx.Path(), "list_commands")
	}

	resp := registry.CommandListResponse{
		Commands: make([]registry.CommandResponse, 0, len(commands)),
		Total:    len(commands),
	}
	for _, cmd := range commands {
		item := registry.MakeCommandResponse(cmd)
		if lang != "" {
			item.Labels = map[entity.Language]string{lang: cmd.Labels[lang]}
		}
		resp.Commands = append(resp.Commands, item)
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func (h *RegistryHandler) GetCommand(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("command id must be an integer"), ctx.Path())
	}

	cmd, err := h.registryService.LookupByID(id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_command")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, registry.MakeCommandResponse(cmd))
}
