package dispatchHandler

import (
	dispatchService "MahoutGolang/internal/api/dispatch/service"
	registryService "MahoutGolang/internal/api/registry/service"
	"MahoutGolang/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type DispatchHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	dispatchService dispatchService.IDispatchService
	registryService registryService.IRegistryService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ds dispatchService.IDispatchService,
	rs registryService.IRegistryService,
) *DispatchHandler {
	return &DispatchHandler{
		log:             log,
		validator:       validate,
		middleware:      middleware,
		dispatchService: ds,
		registryService: rs,
	}
}

func (h *DispatchHandler) Start(srv fiber.Router) {
	dispatch := srv.Group("/dispatch")

	dispatch.Use(h.middleware.NewRateLimiter)

	dispatch.Post("/", h.SubmitCommand)
	dispatch.Get("/history", h.GetHistory)
	dispatch.Get("/:id", h.GetRequest)
}
