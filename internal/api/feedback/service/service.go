package feedbackService

import (
	"mime/multipart"

	dispatchRepository "MahoutGolang/internal/api/dispatch/repository"
	feedbackRepository "MahoutGolang/internal/api/feedback/repository"
	"MahoutGolang/internal/entity"
	"MahoutGolang/pkg/s3"
	"MahoutGolang/pkg/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	defaultExportLimit = 100
	maxExportLimit     = 500
)

// IFeedbackService maintains the append-only correctness ledger. A record
// can only attach to a dispatch request that already reached a terminal
// status, and each request takes at most one record.
type IFeedbackService interface {
	Record(ctx context.Context, requestID string, isCorrect bool, sample *multipart.FileHeader) (entity.FeedbackRecord, error)
	Export(ctx context.Context, afterID string, limit int) ([]entity.FeedbackRecord, string, bool, error)
}

type feedbackService struct {
	log          *logrus.Logger
	feedbackRepo feedbackRepository.Repository
	dispatchRepo dispatchRepository.Repository
	s3           s3.ItfS3
	utils        utils.IUtils
}

func NewFeedbackService(
	log *logrus.Logger,
	feedbackRepo feedbackRepository.Repository,
	dispatchRepo dispatchRepository.Repository,
	s3Client s3.ItfS3,
	utils utils.IUtils,
) IFeedbackService {
	return &feedbackService{
		log:          log,
		feedbackRepo: feedbackRepo,
		dispatchRepo: dispatchRepo,
		s3:           s3Client,
		utils:        utils,
	}
}
