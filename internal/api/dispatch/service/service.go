package dispatchService

import (
	"context"
	"os"
	"sync"
	"time"

	dispatchRepository "MahoutGolang/internal/api/dispatch/repository"
	registryService "MahoutGolang/internal/api/registry/service"
	"MahoutGolang/internal/entity"
	"MahoutGolang/pkg/devicechannel"
	"MahoutGolang/pkg/utils"

	"github.com/sirupsen/logrus"
)

const defaultAckTimeout = 5 * time.Second

// IDispatchService serializes command traffic toward the actuator: one
// pending request at a time, terminal statuses absorbing. It also implements
// devicechannel.EventHandler for the inbound side of the link.
type IDispatchService interface {
	Submit(ctx context.Context, commandID int, source entity.DispatchSource, recognitionID string) (entity.DispatchRequest, error)
	GetRequest(ctx context.Context, id string) (entity.DispatchRequest, error)
	GetHistory(ctx context.Context, page, limit int) ([]entity.DispatchRequest, int, error)
	SaveRecognitionResult(ctx context.Context, result entity.RecognitionResult) error

	HandleAck(requestID string)
	HandleReject(requestID string, reason string)
	HandleDisconnect()
}

type pendingSlot struct {
	id    string
	timer *time.Timer
}

type dispatchService struct {
	log          *logrus.Logger
	dispatchRepo dispatchRepository.Repository
	registry     registryService.IRegistryService
	channel      devicechannel.IDeviceChannel
	utils        utils.IUtils
	ackTimeout   time.Duration

	mu      sync.Mutex
	pending *pendingSlot
}

func NewDispatchService(
	log *logrus.Logger,
	dispatchRepo dispatchRepository.Repository,
	registry registryService.IRegistryService,
	channel devicechannel.IDeviceChannel,
	utils utils.IUtils,
) IDispatchService {
	return &dispatchService{
		log:          log,
		dispatchRepo: dispatchRepo,
		registry:     registry,
		channel:      channel,
		utils:        utils,
		ackTimeout:   ackTimeoutFromEnv(),
	}
}

func ackTimeoutFromEnv() time.Duration {
	raw := os.Getenv("DISPATCH_ACK_TIMEOUT")
	if raw == "" {
		return defaultAckTimeout
	}

	timeout, err := time.ParseDuration(raw)
	if err != nil || timeout <= 0 {
		return defaultAckTimeout
	}
	return timeout
}
