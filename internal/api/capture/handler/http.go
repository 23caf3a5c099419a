package captureHandler

import (
	captureService "MahoutGolang/internal/api/capture/service"
	registryService "MahoutGolang/internal/api/registry/service"
	"MahoutGolang/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type CaptureHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	captureService  captureService.ICaptureService
	registryService registryService.IRegistryService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs captureService.ICaptureService,
	rs registryService.IRegistryService,
) *CaptureHandler {
	return &CaptureHandler{
		log:             log,
		validator:       validate,
		middleware:      middleware,
		captureService:  cs,
		registryService: rs,
	}
}

func (h *CaptureHandler) Start(srv fiber.Router) {
	capture := srv.Group("/capture")

	capture.Use(h.middleware.NewRateLimiter)

	capture.Post("/begin", h.BeginCapture)
	capture.Post("/:session_id/stop", h.StopCapture)
	capture.Post("/:session_id/discard", h.DiscardCapture)
}
