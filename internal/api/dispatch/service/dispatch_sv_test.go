package dispatchService

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"MahoutGolang/internal/api/dispatch"
	dispatchRepository "MahoutGolang/internal/api/dispatch/repository"
	registryService "MahoutGolang/internal/api/registry/service"
	"MahoutGolang/internal/entity"
	"MahoutGolang/pkg/devicechannel"
	"MahoutGolang/pkg/utils"

	"github.com/sirupsen/logrus"
)

type fakeRepo struct {
	mu       sync.Mutex
	requests map[string]entity.DispatchRequest
	results  map[string]entity.RecognitionResult
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		requests: make(map[string]entity.DispatchRequest),
		results:  make(map[string]entity.RecognitionResult),
	}
}

func (f *fakeRepo) NewClient(tx bool) (dispatchRepository.Client, error) {
	return dispatchRepository.Client{
		Requests:     f,
		Recognitions: f,
		Commit:       func() error { return nil },
		Rollback:     func() error { return nil },
	}, nil
}

func (f *fakeRepo) CreateDispatchRequest(ctx context.Context, req entity.DispatchRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[req.ID] = req
	return nil
}

func (f *fakeRepo) ResolveDispatchRequest(ctx context.Context, id string, status entity.DispatchStatus, reason string, resolvedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.requests[id]
	if !ok || req.Status != entity.DispatchPending {
		return false, nil
	}

	req.Status = status
	req.Reason = reason
	req.ResolvedAt = &resolvedAt
	f.requests[id] = req
	return true, nil
}

func (f *fakeRepo) GetDispatchRequestByID(ctx context.Context, id string) (entity.DispatchRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.requests[id]
	if !ok {
		return entity.DispatchRequest{}, dispatch.ErrRequestNotFound
	}
	return req, nil
}

func (f *fakeRepo) GetDispatchHistory(ctx context.Context, limit, offset int) ([]entity.DispatchRequest, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]entity.DispatchRequest, 0, len(f.requests))
	for _, req := range f.requests {
		out = append(out, req)
	}
	return out, len(out), nil
}

func (f *fakeRepo) CreateRecognitionResult(ctx context.Context, result entity.RecognitionResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[result.ID] = result
	return nil
}

func (f *fakeRepo) GetRecognitionResultByID(ctx context.Context, id string) (entity.RecognitionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results[id], nil
}

func (f *fakeRepo) status(t *testing.T, id string) entity.DispatchStatus {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.requests[id]
	if !ok {
		t.Fatalf("request %s not persisted", id)
	}
	return req.Status
}

func (f *fakeRepo) waitForStatus(t *testing.T, id string, want entity.DispatchStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f.status(t, id) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("request %s never reached status %s, last seen %s", id, want, f.status(t, id))
}

type fakeChannel struct {
	mu      sync.Mutex
	sendErr error
	sent    []devicechannel.CommandFrame
}

func (f *fakeChannel) SendCommand(requestID string, commandID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, devicechannel.CommandFrame{RequestID: requestID, CommandID: commandID})
	return nil
}

func (f *fakeChannel) SetHandler(handler devicechannel.EventHandler) {}

func (f *fakeChannel) Telemetry() <-chan json.RawMessage { return nil }

func (f *fakeChannel) IsConnected() bool { return true }

func (f *fakeChannel) Reconnect() error { return nil }

func (f *fakeChannel) Close() {}

func newTestService(t *testing.T, repo *fakeRepo, channel *fakeChannel) IDispatchService {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	registry, err := registryService.New(logger)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	return NewDispatchService(logger, repo, registry, channel, utils.New())
}

func TestSubmitUnknownCommand(t *testing.T) {
	svc := newTestService(t, newFakeRepo(), &fakeChannel{})

	_, err := svc.Submit(context.Background(), 999, entity.SourceManual, "")
	if !errors.Is(err, dispatch.ErrUnknownCommand) {
		t.Fatalf("Submit = %v, want ErrUnknownCommand", err)
	}
}

func TestSubmitAndAck(t *testing.T) {
	repo := newFakeRepo()
	channel := &fakeChannel{}
	svc := newTestService(t, repo, channel)

	req, err := svc.Submit(context.Background(), 1, entity.SourceVoice, "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if req.Status != entity.DispatchPending {
		t.Fatalf("submitted status = %s, want pending", req.Status)
	}

	channel.mu.Lock()
	if len(channel.sent) != 1 || channel.sent[0].RequestID != req.ID {
		t.Fatalf("command frame not sent for %s", req.ID)
	}
	channel.mu.Unlock()

	svc.HandleAck(req.ID)
	repo.waitForStatus(t, req.ID, entity.DispatchAcknowledged)

	// Slot freed: a new submission must be admitted.
	if _, err := svc.Submit(context.Background(), 2, entity.SourceManual, ""); err != nil {
		t.Fatalf("Submit after ack: %v", err)
	}
}

func TestSubmitBusy(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeChannel{})

	if _, err := svc.Submit(context.Background(), 1, entity.SourceVoice, ""); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	_, err := svc.Submit(context.Background(), 2, entity.SourceManual, "")
	if !errors.Is(err, dispatch.ErrBusy) {
		t.Fatalf("second Submit = %v, want ErrBusy", err)
	}
}

func TestSubmitChannelUnavailable(t *testing.T) {
	repo := newFakeRepo()
	channel := &fakeChannel{sendErr: devicechannel.ErrNotConnected}
	svc := newTestService(t, repo, channel)

	_, err := svc.Submit(context.Background(), 1, entity.SourceManual, "")
	if !errors.Is(err, dispatch.ErrChannelUnavailable) {
		t.Fatalf("Submit = %v, want ErrChannelUnavailable", err)
	}

	// The persisted request must land terminal, and the slot must free up.
	history, _, err := svc.GetHistory(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(history) != 1 || history[0].Status != entity.DispatchRejected {
		t.Fatalf("request not rejected after send failure: %+v", history)
	}

	channel.mu.Lock()
	channel.sendErr = nil
	channel.mu.Unlock()

	if _, err := svc.Submit(context.Background(), 2, entity.SourceManual, ""); err != nil {
		t.Fatalf("Submit after channel failure: %v", err)
	}
}

func TestAckTimeout(t *testing.T) {
	t.Setenv("DISPATCH_ACK_TIMEOUT", "30ms")

	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeChannel{})

	req, err := svc.Submit(context.Background(), 1, entity.SourceVoice, "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	repo.waitForStatus(t, req.ID, entity.DispatchTimedOut)

	// A late acknowledgement must not overwrite the terminal status.
	svc.HandleAck(req.ID)
	time.Sleep(50 * time.Millisecond)
	if got := repo.status(t, req.ID); got != entity.DispatchTimedOut {
		t.Fatalf("late ack overwrote terminal status: %s", got)
	}
}

func TestHandleDisconnectExpiresPending(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeChannel{})

	req, err := svc.Submit(context.Background(), 1, entity.SourceVoice, "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	svc.HandleDisconnect()
	repo.waitForStatus(t, req.ID, entity.DispatchTimedOut)

	if _, err := svc.Submit(context.Background(), 2, entity.SourceManual, ""); err != nil {
		t.Fatalf("Submit after disconnect: %v", err)
	}
}

func TestLateEventForUnknownRequest(t *testing.T) {
	svc := newTestService(t, newFakeRepo(), &fakeChannel{})

	// Must be a no-op, not a panic.
	svc.HandleAck("01J0000000000000000000000")
	svc.HandleReject("01J0000000000000000000000", "nope")
	svc.HandleDisconnect()
}
