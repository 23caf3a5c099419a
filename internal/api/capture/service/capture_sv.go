package captureService

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"time"

	"MahoutGolang/internal/api/capture"
	"MahoutGolang/internal/entity"
	contextPkg "MahoutGolang/pkg/context"
	"MahoutGolang/pkg/log"
	"MahoutGolang/pkg/recognizer"
)

// Begin opens a new capture session for a client. The Redis lease is the
// microphone guard: at most one Recording session per client, across every
// server replica, with the TTL bounding leakage if the client vanishes.
func (s *captureService) Begin(ctx context.Context, clientID string, language entity.Language) (entity.CaptureSession, error) {
	requestID := contextPkg.GetRequestID(ctx)

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return entity.CaptureSession{}, err
	}

	acquired, err := s.redisServer.AcquireLease(ctx, captureLeasePrefix+clientID, id, s.leaseTTL)
	if err != nil {
		return entity.CaptureSession{}, err
	}
	if !acquired {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"client_id":  clientID,
		}).Warn("Begin rejected: capture lease already held")
		return entity.CaptureSession{}, capture.ErrAlreadyRecording
	}

	session := &entity.CaptureSession{
		ID:        id,
		ClientID:  clientID,
		Language:  language,
		State:     entity.CaptureRecording,
		StartedAt: time.Now(),
	}

	s.mu.Lock()
	s.pruneTerminalLocked()
	s.sessions[id] = session
	s.mu.Unlock()

	s.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": id,
		"client_id":  clientID,
		"language":   language,
	}).Info("Capture session recording")

	return *session, nil
}

// Stop finalizes a recording session with the uploaded sample and runs
// recognition on it. The session ends terminal either way: Completed when a
// recognition result came back, Failed otherwise. Dead sessions are never
// reused; a fresh capture needs a fresh Begin.
func (s *captureService) Stop(ctx context.Context, sessionID string, file *multipart.FileHeader) (*StopOutcome, error) {
	requestID := contextPkg.GetRequestID(ctx)

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, capture.ErrSessionNotFound
	}
	if session.State != entity.CaptureRecording {
		state := session.State
		s.mu.Unlock()
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"state":      state,
		}).Warn("Stop rejected: session is not recording")
		return nil, capture.ErrNothingToStop
	}
	session.State = entity.CaptureFinalizing
	s.mu.Unlock()

	if err := s.utils.ValidateAudioFile(file); err != nil {
		s.failSession(ctx, session)
		return nil, capture.ErrInvalidAudioFile
	}

	sample, err := readSample(file)
	if err != nil {
		s.failSession(ctx, session)
		return nil, capture.ErrInvalidAudioFile
	}

	sampleRef, err := s.s3Client.UploadSample(file)
	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to store audio sample")
		s.failSession(ctx, session)
		return nil, err
	}

	s.mu.Lock()
	session.SampleRef = sampleRef
	s.mu.Unlock()

	result, err := s.recognize(ctx, session, sample, file)
	if err != nil {
		s.failSession(ctx, session)
		return nil, err
	}

	s.completeSession(ctx, session)

	if err := s.dispatchService.SaveRecognitionResult(ctx, *result); err != nil {
		s.log.WithFields(log.Fields{
			"request_id":     requestID,
			"recognition_id": result.ID,
			"error":          err.Error(),
		}).Error("Failed to persist recognition result")
	}

	outcome := &StopOutcome{
		Session:     *session,
		Recognition: *result,
	}

	s.autoDispatch(ctx, result, outcome)

	return outcome, nil
}

// Discard releases everything a session holds, whatever its state. Safe to
// call repeatedly and for sessions that already ended.
func (s *captureService) Discard(ctx context.Context, sessionID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return nil
	}

	if err := s.redisServer.ReleaseLease(ctx, captureLeasePrefix+session.ClientID, session.ID); err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to release capture lease on discard")
	}

	if session.SampleRef != "" {
		if err := s.s3Client.DeleteSample(session.SampleRef); err != nil {
			s.log.WithFields(log.Fields{
				"request_id": requestID,
				"session_id": sessionID,
				"sample_ref": session.SampleRef,
				"error":      err.Error(),
			}).Warn("Failed to delete discarded sample")
		}
	}

	s.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
	}).Info("Capture session discarded")

	return nil
}

// recognize runs the backend with one retry on transient failure (audio is
// perishable, more retries only delay the inevitable), then re-validates the
// match against the registry so an unknown command id can never reach the
// dispatch coordinator.
func (s *captureService) recognize(ctx context.Context, session *entity.CaptureSession, sample []byte, file *multipart.FileHeader) (*entity.RecognitionResult, error) {
	requestID := contextPkg.GetRequestID(ctx)
	contentType := file.Header.Get("Content-Type")

	raw, err := s.recognizer.Recognize(ctx, sample, contentType, string(session.Language))
	if err != nil && errors.Is(err, recognizer.ErrUnavailable) {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"error":      err.Error(),
		}).Warn("Recognition unavailable, retrying once")
		raw, err = s.recognizer.Recognize(ctx, sample, contentType, string(session.Language))
	}

	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case errors.Is(err, recognizer.ErrMalformedSample):
			return nil, capture.ErrMalformedSample
		case errors.Is(err, recognizer.ErrUnavailable):
			if s.useFallback && s.transcriber != nil {
				return s.fallbackTranscript(ctx, session, sample, file.Filename)
			}
			return nil, capture.ErrServiceUnavailable
		default:
			return nil, err
		}
	}

	return s.makeResult(ctx, session, raw.RecognizedText, raw.MatchedCommandID, raw.LanguageGuess, raw.Confidence)
}

// fallbackTranscript produces a transcript-only result. Mapping stays with
// the recognition backend, so a fallback result never matches a command.
func (s *captureService) fallbackTranscript(ctx context.Context, session *entity.CaptureSession, sample []byte, filename string) (*entity.RecognitionResult, error) {
	requestID := contextPkg.GetRequestID(ctx)

	text, err := s.transcriber.TranscribeSample(ctx, sample, filename, string(session.Language))
	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Fallback transcription failed")
		return nil, capture.ErrServiceUnavailable
	}

	s.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": session.ID,
	}).Info("Recognition fell back to transcript-only result")

	return s.makeResult(ctx, session, text, nil, string(session.Language), nil)
}

func (s *captureService) makeResult(ctx context.Context, session *entity.CaptureSession, text string, matchedID *int, languageGuess string, confidence *float64) (*entity.RecognitionResult, error) {
	requestID := contextPkg.GetRequestID(ctx)

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return nil, err
	}

	if matchedID != nil {
		if _, err := s.registry.LookupByID(*matchedID); err != nil {
			s.log.WithFields(log.Fields{
				"request_id": requestID,
				"session_id": session.ID,
				"matched_id": *matchedID,
			}).Warn("Recognition returned unknown command id, downgrading to no match")
			matchedID = nil
		}
	}

	return &entity.RecognitionResult{
		ID:               id,
		SessionID:        session.ID,
		RecognizedText:   text,
		MatchedCommandID: matchedID,
		LanguageGuess:    languageGuess,
		Confidence:       confidence,
		CreatedAt:        time.Now(),
	}, nil
}

// autoDispatch applies the confidence policy: a non-null match at or above
// the configured floor is submitted as a voice command. A missing confidence
// counts as above the floor. Admission failures are surfaced, not fatal.
func (s *captureService) autoDispatch(ctx context.Context, result *entity.RecognitionResult, outcome *StopOutcome) {
	requestID := contextPkg.GetRequestID(ctx)

	if result.MatchedCommandID == nil {
		return
	}

	if result.Confidence != nil && *result.Confidence < s.minConfidence {
		s.log.WithFields(log.Fields{
			"request_id":     requestID,
			"recognition_id": result.ID,
			"confidence":     *result.Confidence,
		}).Info("Match below confidence floor, leaving dispatch to the caller")
		return
	}

	request, err := s.dispatchService.Submit(ctx, *result.MatchedCommandID, entity.SourceVoice, result.ID)
	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id":     requestID,
			"recognition_id": result.ID,
			"error":          err.Error(),
		}).Warn("Voice dispatch not admitted")
		outcome.DispatchError = err.Error()
		return
	}

	outcome.Dispatch = &request
}

func (s *captureService) completeSession(ctx context.Context, session *entity.CaptureSession) {
	s.mu.Lock()
	session.State = entity.CaptureCompleted
	s.mu.Unlock()
	s.releaseLease(ctx, session)
}

func (s *captureService) failSession(ctx context.Context, session *entity.CaptureSession) {
	s.mu.Lock()
	session.State = entity.CaptureFailed
	s.mu.Unlock()
	s.releaseLease(ctx, session)
}

func (s *captureService) releaseLease(ctx context.Context, session *entity.CaptureSession) {
	// Release must survive caller cancellation or the client stays locked
	// out until the lease TTL expires.
	releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.redisServer.ReleaseLease(releaseCtx, captureLeasePrefix+session.ClientID, session.ID); err != nil {
		s.log.WithFields(log.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Failed to release capture lease")
	}
}

func (s *captureService) pruneTerminalLocked() {
	cutoff := time.Now().Add(-terminalRetention)
	for id, session := range s.sessions {
		if session.State.Terminal() && session.StartedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

func readSample(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(src)
}
