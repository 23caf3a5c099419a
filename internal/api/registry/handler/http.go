package registryHandler

import (
	registryService "MahoutGolang/internal/api/registry/service"
	"MahoutGolang/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type RegistryHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	registryService registryService.IRegistryService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	rs registryService.IRegistryService,
) *RegistryHandler {
	return &RegistryHandler{
		log:             log,
		validator:       validate,
		middleware:      middleware,
		registryService: rs,
	}
}

func (h *RegistryHandler) Start(srv fiber.Router) {
	commands := srv.Group("/commands")

	commands.Get("/", h.ListCommands)
	commands.Get("/:id", h.GetCommand)
}
