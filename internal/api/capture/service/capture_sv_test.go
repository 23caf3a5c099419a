package captureService

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"MahoutGolang/internal/api/capture"
	"MahoutGolang/internal/api/dispatch"
	registryService "MahoutGolang/internal/api/registry/service"
	"MahoutGolang/internal/entity"
	"MahoutGolang/pkg/recognizer"
	"MahoutGolang/pkg/utils"

	"github.com/sirupsen/logrus"
)

type fakeRedis struct {
	mu     sync.Mutex
	leases map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{leases: make(map[string]string)}
}

func (f *fakeRedis) AcquireLease(ctx context.Context, key string, owner string, expiration time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, held := f.leases[key]; held {
		return false, nil
	}
	f.leases[key] = owner
	return true, nil
}

func (f *fakeRedis) ReleaseLease(ctx context.Context, key string, owner string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.leases[key] == owner {
		delete(f.leases, key)
	}
	return nil
}

func (f *fakeRedis) GetLeaseOwner(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.leases[key], nil
}

func (f *fakeRedis) held(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.leases[key]
	return ok
}

type fakeS3 struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeS3) UploadSample(file *multipart.FileHeader) (string, error) {
	return "samples/2026-01-01/" + file.Filename, nil
}

func (f *fakeS3) UploadSampleBytes(data []byte, filename string, contentType string) (string, error) {
	return "samples/2026-01-01/" + filename, nil
}

func (f *fakeS3) PresignSampleURL(key string) (string, error) {
	return "https://example.invalid/" + key, nil
}

func (f *fakeS3) DeleteSample(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

type recognizeCall struct {
	result *recognizer.Result
	err    error
}

type fakeRecognizer struct {
	mu    sync.Mutex
	calls []recognizeCall
	seen  int
}

func (f *fakeRecognizer) Recognize(ctx context.Context, sample []byte, contentType string, language string) (*recognizer.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen >= len(f.calls) {
		return nil, recognizer.ErrUnavailable
	}
	call := f.calls[f.seen]
	f.seen++
	return call.result, call.err
}

func (f *fakeRecognizer) IsConnected() bool { return true }

func (f *fakeRecognizer) Reconnect() error { return nil }

func (f *fakeRecognizer) Close() {}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) TranscribeSample(ctx context.Context, sample []byte, filename string, language string) (string, error) {
	return f.text, f.err
}

type fakeDispatch struct {
	mu        sync.Mutex
	submitErr error
	submitted []entity.DispatchRequest
	results   []entity.RecognitionResult
}

func (f *fakeDispatch) Submit(ctx context.Context, commandID int, source entity.DispatchSource, recognitionID string) (entity.DispatchRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitErr != nil {
		return entity.DispatchRequest{}, f.submitErr
	}

	req := entity.DispatchRequest{
		ID:            "dispatch-" + recognitionID,
		CommandID:     commandID,
		Source:        source,
		Status:        entity.DispatchPending,
		RecognitionID: recognitionID,
	}
	f.submitted = append(f.submitted, req)
	return req, nil
}

func (f *fakeDispatch) GetRequest(ctx context.Context, id string) (entity.DispatchRequest, error) {
	return entity.DispatchRequest{}, dispatch.ErrRequestNotFound
}

func (f *fakeDispatch) GetHistory(ctx context.Context, page, limit int) ([]entity.DispatchRequest, int, error) {
	return nil, 0, nil
}

func (f *fakeDispatch) SaveRecognitionResult(ctx context.Context, result entity.RecognitionResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, result)
	return nil
}

func (f *fakeDispatch) HandleAck(requestID string) {}

func (f *fakeDispatch) HandleReject(requestID string, reason string) {}

func (f *fakeDispatch) HandleDisconnect() {}

type captureFixture struct {
	svc      ICaptureService
	redis    *fakeRedis
	s3       *fakeS3
	dispatch *fakeDispatch
}

func newFixture(t *testing.T, rec *fakeRecognizer, transcriber *fakeTranscriber) *captureFixture {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	registry, err := registryService.New(logger)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	f := &captureFixture{
		redis:    newFakeRedis(),
		s3:       &fakeS3{},
		dispatch: &fakeDispatch{},
	}
	f.svc = NewCaptureService(logger, f.redis, f.s3, rec, transcriber, registry, f.dispatch, utils.New())
	return f
}

func audioFileHeader(t *testing.T, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="audio"; filename="sample.webm"`)
	header.Set("Content-Type", "audio/webm")

	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(int64(len(data)) + 4096)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["audio"][0]
}

func matchResult(id int, confidence float64) *recognizer.Result {
	return &recognizer.Result{
		RecognizedText:   "ഇടത്താനെ",
		MatchedCommandID: &id,
		LanguageGuess:    "ml",
		Confidence:       &confidence,
	}
}

func TestBeginHoldsLease(t *testing.T) {
	f := newFixture(t, &fakeRecognizer{}, nil)

	session, err := f.svc.Begin(context.Background(), "client-a", entity.LanguageMalayalam)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if session.State != entity.CaptureRecording {
		t.Fatalf("state = %s, want recording", session.State)
	}

	if _, err := f.svc.Begin(context.Background(), "client-a", entity.LanguageHindi); !errors.Is(err, capture.ErrAlreadyRecording) {
		t.Fatalf("second Begin = %v, want ErrAlreadyRecording", err)
	}

	// A different client is unaffected.
	if _, err := f.svc.Begin(context.Background(), "client-b", entity.LanguageHindi); err != nil {
		t.Fatalf("Begin for other client: %v", err)
	}
}

func TestStopUnknownSession(t *testing.T) {
	f := newFixture(t, &fakeRecognizer{}, nil)

	_, err := f.svc.Stop(context.Background(), "no-such-session", audioFileHeader(t, []byte("xx")))
	if !errors.Is(err, capture.ErrSessionNotFound) {
		t.Fatalf("Stop = %v, want ErrSessionNotFound", err)
	}
}

func TestStopCompletesAndDispatches(t *testing.T) {
	rec := &fakeRecognizer{calls: []recognizeCall{{result: matchResult(1, 0.92)}}}
	f := newFixture(t, rec, nil)

	session, err := f.svc.Begin(context.Background(), "client-a", entity.LanguageMalayalam)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	outcome, err := f.svc.Stop(context.Background(), session.ID, audioFileHeader(t, []byte("audio-bytes")))
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if outcome.Session.State != entity.CaptureCompleted {
		t.Errorf("session state = %s, want completed", outcome.Session.State)
	}
	if outcome.Session.SampleRef == "" {
		t.Error("sample ref not set on completed session")
	}
	if outcome.Recognition.MatchedCommandID == nil || *outcome.Recognition.MatchedCommandID != 1 {
		t.Errorf("matched command = %v, want 1", outcome.Recognition.MatchedCommandID)
	}
	if outcome.Dispatch == nil {
		t.Fatal("expected auto dispatch for matched command")
	}
	if outcome.Dispatch.Source != entity.SourceVoice {
		t.Errorf("dispatch source = %s, want voice", outcome.Dispatch.Source)
	}
	if len(f.dispatch.results) != 1 {
		t.Errorf("recognition result not persisted")
	}
	if f.redis.held("capture:lease:client-a") {
		t.Error("lease still held after stop")
	}

	// The session is spent: stopping again must not restart it.
	if _, err := f.svc.Stop(context.Background(), session.ID, audioFileHeader(t, []byte("xx"))); !errors.Is(err, capture.ErrNothingToStop) {
		t.Fatalf("second Stop = %v, want ErrNothingToStop", err)
	}
}

func TestStopNoMatchSkipsDispatch(t *testing.T) {
	rec := &fakeRecognizer{calls: []recognizeCall{{result: &recognizer.Result{
		RecognizedText: "എന്തോ ഒന്ന്",
		LanguageGuess:  "ml",
	}}}}
	f := newFixture(t, rec, nil)

	session, _ := f.svc.Begin(context.Background(), "client-a", entity.LanguageMalayalam)
	outcome, err := f.svc.Stop(context.Background(), session.ID, audioFileHeader(t, []byte("audio")))
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if outcome.Recognition.MatchedCommandID != nil {
		t.Errorf("expected no match, got %d", *outcome.Recognition.MatchedCommandID)
	}
	if outcome.Dispatch != nil {
		t.Error("no-match result must not dispatch")
	}
	if outcome.Session.State != entity.CaptureCompleted {
		t.Errorf("no-match session state = %s, want completed", outcome.Session.State)
	}
}

func TestStopDowngradesUnknownMatch(t *testing.T) {
	rec := &fakeRecognizer{calls: []recognizeCall{{result: matchResult(999, 0.9)}}}
	f := newFixture(t, rec, nil)

	session, _ := f.svc.Begin(context.Background(), "client-a", entity.LanguageMalayalam)
	outcome, err := f.svc.Stop(context.Background(), session.ID, audioFileHeader(t, []byte("audio")))
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if outcome.Recognition.MatchedCommandID != nil {
		t.Errorf("unknown command id must be downgraded to no match, got %d", *outcome.Recognition.MatchedCommandID)
	}
	if outcome.Dispatch != nil {
		t.Error("downgraded match must not dispatch")
	}
}

func TestStopRetriesOnceOnUnavailable(t *testing.T) {
	rec := &fakeRecognizer{calls: []recognizeCall{
		{err: recognizer.ErrUnavailable},
		{result: matchResult(3, 0.8)},
	}}
	f := newFixture(t, rec, nil)

	session, _ := f.svc.Begin(context.Background(), "client-a", entity.LanguageMalayalam)
	outcome, err := f.svc.Stop(context.Background(), session.ID, audioFileHeader(t, []byte("audio")))
	if err != nil {
		t.Fatalf("Stop after retry: %v", err)
	}
	if outcome.Recognition.MatchedCommandID == nil || *outcome.Recognition.MatchedCommandID != 3 {
		t.Errorf("retry result lost: %v", outcome.Recognition.MatchedCommandID)
	}
	if rec.seen != 2 {
		t.Errorf("recognizer called %d times, want 2", rec.seen)
	}
}

func TestStopFailsAfterSecondUnavailable(t *testing.T) {
	rec := &fakeRecognizer{calls: []recognizeCall{
		{err: recognizer.ErrUnavailable},
		{err: recognizer.ErrUnavailable},
	}}
	f := newFixture(t, rec, nil)

	session, _ := f.svc.Begin(context.Background(), "client-a", entity.LanguageMalayalam)
	_, err := f.svc.Stop(context.Background(), session.ID, audioFileHeader(t, []byte("audio")))
	if !errors.Is(err, capture.ErrServiceUnavailable) {
		t.Fatalf("Stop = %v, want ErrServiceUnavailable", err)
	}

	// Failure releases the lease so the client can record again.
	if f.redis.held("capture:lease:client-a") {
		t.Error("lease still held after failed stop")
	}
	if _, err := f.svc.Begin(context.Background(), "client-a", entity.LanguageMalayalam); err != nil {
		t.Fatalf("Begin after failure: %v", err)
	}
}

func TestStopMalformedSample(t *testing.T) {
	rec := &fakeRecognizer{calls: []recognizeCall{{err: recognizer.ErrMalformedSample}}}
	f := newFixture(t, rec, nil)

	session, _ := f.svc.Begin(context.Background(), "client-a", entity.LanguageMalayalam)
	_, err := f.svc.Stop(context.Background(), session.ID, audioFileHeader(t, []byte("audio")))
	if !errors.Is(err, capture.ErrMalformedSample) {
		t.Fatalf("Stop = %v, want ErrMalformedSample", err)
	}
	if rec.seen != 1 {
		t.Errorf("malformed sample retried: %d calls", rec.seen)
	}
}

func TestStopWhisperFallback(t *testing.T) {
	t.Setenv("RECOGNITION_FALLBACK", "whisper")

	rec := &fakeRecognizer{calls: []recognizeCall{
		{err: recognizer.ErrUnavailable},
		{err: recognizer.ErrUnavailable},
	}}
	f := newFixture(t, rec, &fakeTranscriber{text: "ഇടത്താനെ"})

	session, _ := f.svc.Begin(context.Background(), "client-a", entity.LanguageMalayalam)
	outcome, err := f.svc.Stop(context.Background(), session.ID, audioFileHeader(t, []byte("audio")))
	if err != nil {
		t.Fatalf("Stop with fallback: %v", err)
	}

	if outcome.Recognition.RecognizedText != "ഇടത്താനെ" {
		t.Errorf("fallback transcript = %q", outcome.Recognition.RecognizedText)
	}
	if outcome.Recognition.MatchedCommandID != nil {
		t.Error("fallback result must never carry a command match")
	}
	if outcome.Dispatch != nil {
		t.Error("fallback result must not dispatch")
	}
}

func TestStopBusyDispatchSurfacesAsOutcome(t *testing.T) {
	rec := &fakeRecognizer{calls: []recognizeCall{{result: matchResult(1, 0.95)}}}
	f := newFixture(t, rec, nil)
	f.dispatch.submitErr = dispatch.ErrBusy

	session, _ := f.svc.Begin(context.Background(), "client-a", entity.LanguageMalayalam)
	outcome, err := f.svc.Stop(context.Background(), session.ID, audioFileHeader(t, []byte("audio")))
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if outcome.Dispatch != nil {
		t.Error("busy coordinator must not yield a dispatch request")
	}
	if outcome.DispatchError == "" {
		t.Error("busy coordinator must surface a dispatch error")
	}
	if outcome.Session.State != entity.CaptureCompleted {
		t.Errorf("capture must still complete, state = %s", outcome.Session.State)
	}
}

func TestConfidenceFloorHoldsDispatch(t *testing.T) {
	t.Setenv("DISPATCH_MIN_CONFIDENCE", "0.7")

	rec := &fakeRecognizer{calls: []recognizeCall{{result: matchResult(1, 0.4)}}}
	f := newFixture(t, rec, nil)

	session, _ := f.svc.Begin(context.Background(), "client-a", entity.LanguageMalayalam)
	outcome, err := f.svc.Stop(context.Background(), session.ID, audioFileHeader(t, []byte("audio")))
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if outcome.Dispatch != nil {
		t.Error("match below confidence floor must not dispatch")
	}
	if outcome.Recognition.MatchedCommandID == nil {
		t.Error("low confidence match must still be reported")
	}
}

func TestDiscardIsIdempotent(t *testing.T) {
	f := newFixture(t, &fakeRecognizer{}, nil)

	session, err := f.svc.Begin(context.Background(), "client-a", entity.LanguageMalayalam)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	if err := f.svc.Discard(context.Background(), session.ID); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if f.redis.held("capture:lease:client-a") {
		t.Error("lease still held after discard")
	}

	// Repeat discards and discards of unknown sessions are no-ops.
	if err := f.svc.Discard(context.Background(), session.ID); err != nil {
		t.Fatalf("second Discard: %v", err)
	}
	if err := f.svc.Discard(context.Background(), "never-existed"); err != nil {
		t.Fatalf("Discard unknown: %v", err)
	}
}
