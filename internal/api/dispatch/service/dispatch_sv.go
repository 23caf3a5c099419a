package dispatchService

import (
	"context"
	"errors"
	"time"

	"MahoutGolang/internal/api/dispatch"
	"MahoutGolang/internal/entity"
	contextPkg "MahoutGolang/pkg/context"
	"MahoutGolang/pkg/log"
)

// Submit admits one command onto the device channel. Voice and manual
// submissions share the single pending slot: first submitted wins, a
// concurrent second submission gets ErrBusy regardless of source.
func (s *dispatchService) Submit(ctx context.Context, commandID int, source entity.DispatchSource, recognitionID string) (entity.DispatchRequest, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if _, err := s.registry.LookupByID(commandID); err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"command_id": commandID,
		}).Warn("Submit rejected: command not in registry")
		return entity.DispatchRequest{}, dispatch.ErrUnknownCommand
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return entity.DispatchRequest{}, err
	}

	s.mu.Lock()
	if s.pending != nil {
		s.mu.Unlock()
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"command_id": commandID,
			"source":     source,
		}).Warn("Submit rejected: another request is pending")
		return entity.DispatchRequest{}, dispatch.ErrBusy
	}
	slot := &pendingSlot{id: id}
	s.pending = slot
	s.mu.Unlock()

	req := entity.DispatchRequest{
		ID:            id,
		CommandID:     commandID,
		Source:        source,
		Status:        entity.DispatchPending,
		RecognitionID: recognitionID,
		SubmittedAt:   time.Now(),
	}

	repo, err := s.dispatchRepo.NewClient(false)
	if err != nil {
		s.clearSlot(id)
		return entity.DispatchRequest{}, err
	}

	if err := repo.Requests.CreateDispatchRequest(ctx, req); err != nil {
		s.clearSlot(id)
		return entity.DispatchRequest{}, err
	}

	if err := s.channel.SendCommand(id, commandID); err != nil {
		// The frame never left the process, so this is a definite failure,
		// not an uncertain one.
		s.resolve(id, entity.DispatchRejected, "device channel unavailable")
		s.log.WithFields(log.Fields{
			"request_id":  requestID,
			"dispatch_id": id,
			"error":       err.Error(),
		}).Error("Failed to send command on device channel")
		return entity.DispatchRequest{}, dispatch.ErrChannelUnavailable
	}

	s.mu.Lock()
	if s.pending == slot {
		slot.timer = time.AfterFunc(s.ackTimeout, func() {
			s.expire(id)
		})
	}
	s.mu.Unlock()

	s.log.WithFields(log.Fields{
		"request_id":  requestID,
		"dispatch_id": id,
		"command_id":  commandID,
		"source":      source,
	}).Info("Dispatch request pending")

	return req, nil
}

func (s *dispatchService) GetRequest(ctx context.Context, id string) (entity.DispatchRequest, error) {
	repo, err := s.dispatchRepo.NewClient(false)
	if err != nil {
		return entity.DispatchRequest{}, err
	}

	return repo.Requests.GetDispatchRequestByID(ctx, id)
}

func (s *dispatchService) GetHistory(ctx context.Context, page, limit int) ([]entity.DispatchRequest, int, error) {
	repo, err := s.dispatchRepo.NewClient(false)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	return repo.Requests.GetDispatchHistory(ctx, limit, offset)
}

func (s *dispatchService) SaveRecognitionResult(ctx context.Context, result entity.RecognitionResult) error {
	repo, err := s.dispatchRepo.NewClient(false)
	if err != nil {
		return err
	}

	return repo.Recognitions.CreateRecognitionResult(ctx, result)
}

// HandleAck is called from the device channel read loop.
func (s *dispatchService) HandleAck(requestID string) {
	s.resolve(requestID, entity.DispatchAcknowledged, "")
}

func (s *dispatchService) HandleReject(requestID string, reason string) {
	s.resolve(requestID, entity.DispatchRejected, reason)
}

// HandleDisconnect expires the pending request before traffic resumes on a
// new connection. TimedOut, not Rejected: the device may have executed the
// command before the link dropped.
func (s *dispatchService) HandleDisconnect() {
	s.mu.Lock()
	var id string
	if s.pending != nil {
		id = s.pending.id
	}
	s.mu.Unlock()

	if id == "" {
		return
	}

	s.log.WithFields(log.Fields{
		"dispatch_id": id,
	}).Warn("Device channel reconnected with a request pending, forcing timeout")
	s.resolve(id, entity.DispatchTimedOut, "device channel reconnected")
}

func (s *dispatchService) expire(id string) {
	s.log.WithFields(log.Fields{
		"dispatch_id": id,
	}).Warn("Dispatch request not acknowledged within budget")
	s.resolve(id, entity.DispatchTimedOut, "no acknowledgement within budget")
}

// resolve moves the pending request to a terminal status and frees the slot.
// Events for requests that are no longer pending are logged and dropped.
func (s *dispatchService) resolve(id string, status entity.DispatchStatus, reason string) {
	s.mu.Lock()
	if s.pending == nil || s.pending.id != id {
		s.mu.Unlock()
		s.log.WithFields(log.Fields{
			"dispatch_id": id,
			"status":      status,
		}).Debug("Ignoring event for request that is not pending")
		return
	}
	slot := s.pending
	s.pending = nil
	s.mu.Unlock()

	if slot.timer != nil {
		slot.timer.Stop()
	}

	repo, err := s.dispatchRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(log.Fields{
			"dispatch_id": id,
			"error":       err.Error(),
		}).Error("Failed to open repository client for resolution")
		return
	}

	updated, err := repo.Requests.ResolveDispatchRequest(context.Background(), id, status, reason, time.Now())
	if err != nil && !errors.Is(err, context.Canceled) {
		s.log.WithFields(log.Fields{
			"dispatch_id": id,
			"status":      status,
			"error":       err.Error(),
		}).Error("Failed to persist dispatch resolution")
		return
	}

	if !updated {
		s.log.WithFields(log.Fields{
			"dispatch_id": id,
			"status":      status,
		}).Debug("Dispatch request already terminal, resolution dropped")
		return
	}

	s.log.WithFields(log.Fields{
		"dispatch_id": id,
		"status":      status,
		"reason":      reason,
	}).Info("Dispatch request resolved")
}

func (s *dispatchService) clearSlot(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil && s.pending.id == id {
		if s.pending.timer != nil {
			s.pending.timer.Stop()
		}
		s.pending = nil
	}
}
