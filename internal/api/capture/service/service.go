package captureService

import (
	"context"
	"mime/multipart"
	"os"
	"strconv"
	"sync"
	"time"

	dispatchService "MahoutGolang/internal/api/dispatch/service"
	registryService "MahoutGolang/internal/api/registry/service"
	"MahoutGolang/internal/entity"
	"MahoutGolang/pkg/recognizer"
	"MahoutGolang/pkg/redis"
	"MahoutGolang/pkg/s3"
	"MahoutGolang/pkg/transcribe"
	"MahoutGolang/pkg/utils"

	"github.com/sirupsen/logrus"
)

const (
	defaultLeaseTTL    = 120 * time.Second
	terminalRetention  = time.Hour
	captureLeasePrefix = "capture:lease:"
)

type ICaptureService interface {
	Begin(ctx context.Context, clientID string, language entity.Language) (entity.CaptureSession, error)
	Stop(ctx context.Context, sessionID string, file *multipart.FileHeader) (*StopOutcome, error)
	Discard(ctx context.Context, sessionID string) error
}

// StopOutcome mirrors capture.StopResult at the service boundary.
type StopOutcome struct {
	Session       entity.CaptureSession
	Recognition   entity.RecognitionResult
	Dispatch      *entity.DispatchRequest
	DispatchError string
}

type captureService struct {
	log             *logrus.Logger
	redisServer     redis.IRedis
	s3Client        s3.ItfS3
	recognizer      recognizer.IRecognizer
	transcriber     transcribe.ITranscriber
	registry        registryService.IRegistryService
	dispatchService dispatchService.IDispatchService
	utils           utils.IUtils

	leaseTTL      time.Duration
	minConfidence float64
	useFallback   bool

	mu       sync.Mutex
	sessions map[string]*entity.CaptureSession
}

func NewCaptureService(
	log *logrus.Logger,
	redisServer redis.IRedis,
	s3Client s3.ItfS3,
	rec recognizer.IRecognizer,
	transcriber transcribe.ITranscriber,
	registry registryService.IRegistryService,
	ds dispatchService.IDispatchService,
	utils utils.IUtils,
) ICaptureService {
	return &captureService{
		log:             log,
		redisServer:     redisServer,
		s3Client:        s3Client,
		recognizer:      rec,
		transcriber:     transcriber,
		registry:        registry,
		dispatchService: ds,
		utils:           utils,
		leaseTTL:        leaseTTLFromEnv(),
		minConfidence:   minConfidenceFromEnv(),
		useFallback:     os.Getenv("RECOGNITION_FALLBACK") == "whisper",
		sessions:        make(map[string]*entity.CaptureSession),
	}
}

func leaseTTLFromEnv() time.Duration {
	raw := os.Getenv("CAPTURE_LEASE_TTL")
	if raw == "" {
		return defaultLeaseTTL
	}

	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl <= 0 {
		return defaultLeaseTTL
	}
	return ttl
}

func minConfidenceFromEnv() float64 {
	raw := os.Getenv("DISPATCH_MIN_CONFIDENCE")
	if raw == "" {
		return 0
	}

	min, err := strconv.ParseFloat(raw, 64)
	if err != nil || min < 0 || min > 1 {
		return 0
	}
	return min
}
