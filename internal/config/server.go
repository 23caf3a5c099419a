package config

import (
	"fmt"
	"os"

	"MahoutGolang/database/postgres"
	captureHandler "MahoutGolang/internal/api/capture/handler"
	captureService "MahoutGolang/internal/api/capture/service"
	dispatchHandler "MahoutGolang/internal/api/dispatch/handler"
	dispatchRepository "MahoutGolang/internal/api/dispatch/repository"
	dispatchService "MahoutGolang/internal/api/dispatch/service"
	feedbackHandler "MahoutGolang/internal/api/feedback/handler"
	feedbackRepository "MahoutGolang/internal/api/feedback/repository"
	feedbackService "MahoutGolang/internal/api/feedback/service"
	registryHandler "MahoutGolang/internal/api/registry/handler"
	registryService "MahoutGolang/internal/api/registry/service"
	"MahoutGolang/internal/middleware"
	"MahoutGolang/pkg/devicechannel"
	"MahoutGolang/pkg/recognizer"
	"MahoutGolang/pkg/redis"
	"MahoutGolang/pkg/s3"
	"MahoutGolang/pkg/transcribe"
	"MahoutGolang/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine        *fiber.App
	db            *sqlx.DB
	log           *logrus.Logger
	middleware    middleware.Middleware
	validator     *validator.Validate
	utils         utils.IUtils
	handlers      []handler
	redisServer   redis.IRedis
	s3Client      s3.ItfS3
	recognizer    recognizer.IRecognizer
	deviceChannel devicechannel.IDeviceChannel
	transcriber   transcribe.ITranscriber
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithRecognizer(rec recognizer.IRecognizer) ServerOption {
	return func(s *Server) error {
		s.recognizer = rec
		return nil
	}
}

func WithDeviceChannel(channel devicechannel.IDeviceChannel) ServerOption {
	return func(s *Server) error {
		s.deviceChannel = channel
		return nil
	}
}

func WithTranscriber(transcriber transcribe.ITranscriber) ServerOption {
	return func(s *Server) error {
		s.transcriber = transcriber
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() error {
	// Command Registry
	registryServices, err := registryService.New(s.log)
	if err != nil {
		return fmt.Errorf("failed to build command registry: %w", err)
	}
	registryHandlers := registryHandler.New(s.log, s.validator, s.middleware, registryServices)

	// Dispatch Domain
	dispatchRepo := dispatchRepository.New(s.db, s.log)
	dispatchServices := dispatchService.NewDispatchService(s.log, dispatchRepo, registryServices, s.deviceChannel, s.utils)
	dispatchHandlers := dispatchHandler.New(s.log, s.validator, s.middleware, dispatchServices, registryServices)

	// The dispatch coordinator owns the inbound side of the device link.
	s.deviceChannel.SetHandler(dispatchServices)

	// Capture Domain
	captureServices := captureService.NewCaptureService(s.log, s.redisServer, s.s3Client, s.recognizer, s.transcriber, registryServices, dispatchServices, s.utils)
	captureHandlers := captureHandler.New(s.log, s.validator, s.middleware, captureServices, registryServices)

	// Feedback Domain
	feedbackRepo := feedbackRepository.New(s.db, s.log)
	feedbackServices := feedbackService.NewFeedbackService(s.log, feedbackRepo, dispatchRepo, s.s3Client, s.utils)
	feedbackHandlers := feedbackHandler.New(s.log, s.validator, s.middleware, feedbackServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, registryHandlers, dispatchHandlers, captureHandlers, feedbackHandlers)

	return nil
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		if s.deviceChannel != nil {
			s.deviceChannel.Close()
		}
		return err
	}

	return nil
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
