package feedbackRepository

import (
	"database/sql"
	"errors"

	"MahoutGolang/internal/api/feedback"
	"MahoutGolang/internal/entity"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/net/context"
)

const pqUniqueViolation = "23505"

type FeedbackRecordDB struct {
	ID         string         `db:"id"`
	RequestID  string         `db:"request_id"`
	IsCorrect  bool           `db:"is_correct"`
	SampleRef  sql.NullString `db:"sample_ref"`
	RecordedAt sql.NullTime   `db:"recorded_at"`
}

func (r *feedbackRepository) CreateFeedbackRecord(ctx context.Context, record entity.FeedbackRecord) error {
	argsKV := map[string]interface{}{
		"id":          record.ID,
		"request_id":  record.RequestID,
		"is_correct":  record.IsCorrect,
		"sample_ref":  record.SampleRef,
		"recorded_at": record.RecordedAt,
	}

	query, args, err := sqlx.Named(queryCreateFeedbackRecord, argsKV)
	if err != nil {
		r.log.Error("Failed to bind named query for feedback record: ", err)
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return feedback.ErrDuplicateFeedback
		}
		r.log.Error("Failed to insert feedback record: ", err)
		return err
	}

	return nil
}

func (r *feedbackRepository) GetFeedbackByRequestID(ctx context.Context, requestID string) (entity.FeedbackRecord, error) {
	argsKV := map[string]interface{}{
		"request_id": requestID,
	}

	query, args, err := sqlx.Named(queryGetFeedbackByRequestID, argsKV)
	if err != nil {
		r.log.Error("Failed to bind named query for feedback lookup: ", err)
		return entity.FeedbackRecord{}, err
	}
	query = r.q.Rebind(query)

	var record FeedbackRecordDB
	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.FeedbackRecord{}, sql.ErrNoRows
		}
		r.log.Error("Failed to get feedback record: ", err)
		return entity.FeedbackRecord{}, err
	}

	return makeFeedbackRecord(record), nil
}

func (r *feedbackRepository) ListFeedbackAfter(ctx context.Context, afterID string, limit int) ([]entity.FeedbackRecord, error) {
	argsKV := map[string]interface{}{
		"after_id": afterID,
		"limit":    limit,
	}

	query, args, err := sqlx.Named(queryListFeedbackAfter, argsKV)
	if err != nil {
		r.log.Error("Failed to bind named query for feedback export: ", err)
		return nil, err
	}
	query = r.q.Rebind(query)

	var rows []FeedbackRecordDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.Error("Failed to list feedback records: ", err)
		return nil, err
	}

	records := make([]entity.FeedbackRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, makeFeedbackRecord(row))
	}

	return records, nil
}

func makeFeedbackRecord(row FeedbackRecordDB) entity.FeedbackRecord {
	record := entity.FeedbackRecord{
		ID:        row.ID,
		RequestID: row.RequestID,
		IsCorrect: row.IsCorrect,
	}
	if row.SampleRef.Valid {
		record.SampleRef = row.SampleRef.String
	}
	if row.RecordedAt.Valid {
		record.RecordedAt = row.RecordedAt.Time
	}

	return record
}
