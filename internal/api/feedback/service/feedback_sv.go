package feedbackService

import (
	"mime/multipart"
	"time"

	"MahoutGolang/internal/api/feedback"
	"MahoutGolang/internal/entity"
	"MahoutGolang/pkg/log"

	"golang.org/x/net/context"
)

func (s *feedbackService) Record(ctx context.Context, requestID string, isCorrect bool, sample *multipart.FileHeader) (entity.FeedbackRecord, error) {
	dispatchClient, err := s.dispatchRepo.NewClient(false)
	if err != nil {
		s.log.Error("Failed to create dispatch repository client: ", err)
		return entity.FeedbackRecord{}, err
	}

	request, err := dispatchClient.Requests.GetDispatchRequestByID(ctx, requestID)
	if err != nil {
		return entity.FeedbackRecord{}, err
	}

	if !request.Status.Terminal() {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"status":     request.Status,
		}).Warn("Feedback rejected for non terminal dispatch request")
		return entity.FeedbackRecord{}, feedback.ErrRequestNotTerminal
	}

	sampleRef := ""
	if sample != nil {
		if err := s.utils.ValidateAudioFile(sample); err != nil {
			return entity.FeedbackRecord{}, feedback.ErrInvalidAudioFile
		}

		sampleRef, err = s.s3.UploadSample(sample)
		if err != nil {
			s.log.Error("Failed to upload feedback sample: ", err)
			return entity.FeedbackRecord{}, err
		}
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return entity.FeedbackRecord{}, err
	}

	record := entity.FeedbackRecord{
		ID:         id,
		RequestID:  requestID,
		IsCorrect:  isCorrect,
		SampleRef:  sampleRef,
		RecordedAt: time.Now(),
	}

	feedbackClient, err := s.feedbackRepo.NewClient(false)
	if err != nil {
		s.log.Error("Failed to create feedback repository client: ", err)
		return entity.FeedbackRecord{}, err
	}

	if err := feedbackClient.Records.CreateFeedbackRecord(ctx, record); err != nil {
		return entity.FeedbackRecord{}, err
	}

	s.log.WithFields(log.Fields{
		"record_id":  record.ID,
		"request_id": requestID,
		"is_correct": isCorrect,
	}).Info("Feedback recorded")

	return record, nil
}

// Export pages the ledger in insertion order. The returned cursor is the
// last record id of the page, so a consumer can stop and resume without
// rereading anything.
func (s *feedbackService) Export(ctx context.Context, afterID string, limit int) ([]entity.FeedbackRecord, string, bool, error) {
	if limit <= 0 {
		limit = defaultExportLimit
	}
	if limit > maxExportLimit {
		limit = maxExportLimit
	}

	client, err := s.feedbackRepo.NewClient(false)
	if err != nil {
		s.log.Error("Failed to create feedback repository client: ", err)
		return nil, "", false, err
	}

	records, err := client.Records.ListFeedbackAfter(ctx, afterID, limit+1)
	if err != nil {
		return nil, "", false, err
	}

	hasMore := len(records) > limit
	if hasMore {
		records = records[:limit]
	}

	nextAfter := ""
	if len(records) > 0 {
		nextAfter = records[len(records)-1].ID
	}

	return records, nextAfter, hasMore, nil
}
