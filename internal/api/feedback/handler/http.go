package feedbackHandler

import (
	feedbackService "MahoutGolang/internal/api/feedback/service"
	"MahoutGolang/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type FeedbackHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	feedbackService feedbackService.IFeedbackService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	fs feedbackService.IFeedbackService,
) *FeedbackHandler {
	return &FeedbackHandler{
		log:             log,
		validator:       validate,
		middleware:      middleware,
		feedbackService: fs,
	}
}

func (h *FeedbackHandler) Start(srv fiber.Router) {
	feedback := srv.Group("/feedback")

	feedback.Post("/", h.RecordFeedback)
	feedback.Get("/export", h.ExportFeedback)
}
