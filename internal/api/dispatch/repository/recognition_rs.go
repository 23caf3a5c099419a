package dispatchRepository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"MahoutGolang/internal/api/dispatch"
	"MahoutGolang/internal/entity"
	contextPkg "MahoutGolang/pkg/context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type RecognitionResultDB struct {
	ID               string          `db:"id"`
	SessionID        sql.NullString  `db:"session_id"`
	RecognizedText   string          `db:"recognized_text"`
	MatchedCommandID sql.NullInt64   `db:"matched_command_id"`
	LanguageGuess    sql.NullString  `db:"language_guess"`
	Confidence       sql.NullFloat64 `db:"confidence"`
	CreatedAt        time.Time       `db:"created_at"`
}

func (r *recognitionRepository) CreateRecognitionResult(ctx context.Context, result entity.RecognitionResult) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":                 result.ID,
		"session_id":         result.SessionID,
		"recognized_text":    result.RecognizedText,
		"matched_command_id": result.MatchedCommandID,
		"language_guess":     result.LanguageGuess,
		"confidence":         result.Confidence,
		"created_at":         result.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateRecognitionResult, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateRecognitionResult named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating recognition result")
		return err
	}

	return nil
}

func (r *recognitionRepository) GetRecognitionResultByID(ctx context.Context, id string) (entity.RecognitionResult, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var resultDB RecognitionResultDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetRecognitionResultByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecognitionResultByID named query preparation err")
		return entity.RecognitionResult{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&resultDB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.RecognitionResult{}, dispatch.ErrRequestNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecognitionResultByID execution err")
		return entity.RecognitionResult{}, err
	}

	result := entity.RecognitionResult{
		ID:             resultDB.ID,
		SessionID:      resultDB.SessionID.String,
		RecognizedText: resultDB.RecognizedText,
		LanguageGuess:  resultDB.LanguageGuess.String,
		CreatedAt:      resultDB.CreatedAt,
	}
	if resultDB.MatchedCommandID.Valid {
		matched := int(resultDB.MatchedCommandID.Int64)
		result.MatchedCommandID = &matched
	}
	if resultDB.Confidence.Valid {
		confidence := resultDB.Confidence.Float64
		result.Confidence = &confidence
	}

	return result, nil
}
