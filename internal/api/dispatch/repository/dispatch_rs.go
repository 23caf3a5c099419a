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

type DispatchRequestDB struct {
	ID            string         `db:"id"`
	CommandID     int            `db:"command_id"`
	Source        string         `db:"source"`
	Status        string         `db:"status"`
	Reason        sql.NullString `db:"reason"`
	RecognitionID sql.NullString `db:"recognition_id"`
	SubmittedAt   time.Time      `db:"submitted_at"`
	ResolvedAt    sql.NullTime   `db:"resolved_at"`
}

func (r *dispatchRepository) CreateDispatchRequest(ctx context.Context, req entity.DispatchRequest) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":             req.ID,
		"command_id":     req.CommandID,
		"source":         string(req.Source),
		"status":         string(req.Status),
		"reason":         req.Reason,
		"recognition_id": req.RecognitionID,
		"submitted_at":   req.SubmittedAt,
		"resolved_at":    req.ResolvedAt,
	}

	query, args, err := sqlx.Named(queryCreateDispatchRequest, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateDispatchRequest named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating dispatch request")
		return err
	}

	return nil
}

// ResolveDispatchRequest moves a pending request to a terminal status. The
// pending guard in the query makes terminal statuses absorbing even when an
// ack and the timeout race: the second writer affects zero rows.
func (r *dispatchRepository) ResolveDispatchRequest(ctx context.Context, id string, status entity.DispatchStatus, reason string, resolvedAt time.Time) (bool, error) {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":          id,
		"status":      string(status),
		"reason":      reason,
		"resolved_at": resolvedAt,
	}

	query, args, err := sqlx.Named(queryResolveDispatchRequest, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ResolveDispatchRequest named query preparation err")
		return false, err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ResolveDispatchRequest execution err")
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (r *dispatchRepository) GetDispatchRequestByID(ctx context.Context, id string) (entity.DispatchRequest, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var reqDB DispatchRequestDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetDispatchRequestByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDispatchRequestByID named query preparation err")
		return entity.DispatchRequest{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&reqDB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.DispatchRequest{}, dispatch.ErrRequestNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDispatchRequestByID execution err")
		return entity.DispatchRequest{}, err
	}

	return r.makeDispatchRequest(reqDB), nil
}

func (r *dispatchRepository) GetDispatchHistory(ctx context.Context, limit, offset int) ([]entity.DispatchRequest, int, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []DispatchRequestDB

	argsKV := map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	}

	query, args, err := sqlx.Named(queryGetDispatchHistory, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDispatchHistory named query preparation err")
		return nil, 0, err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDispatchHistory execution err")
		return nil, 0, err
	}

	var total int
	if err := r.q.QueryRowxContext(ctx, queryCountDispatchRequests).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDispatchHistory count err")
		return nil, 0, err
	}

	requests := make([]entity.DispatchRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, r.makeDispatchRequest(row))
	}

	return requests, total, nil
}

func (r *dispatchRepository) makeDispatchRequest(reqDB DispatchRequestDB) entity.DispatchRequest {
	req := entity.DispatchRequest{
		ID:            reqDB.ID,
		CommandID:     reqDB.CommandID,
		Source:        entity.DispatchSource(reqDB.Source),
		Status:        entity.DispatchStatus(reqDB.Status),
		Reason:        reqDB.Reason.String,
		RecognitionID: reqDB.RecognitionID.String,
		SubmittedAt:   reqDB.SubmittedAt,
	}

	if reqDB.ResolvedAt.Valid {
		resolvedAt := reqDB.ResolvedAt.Time
		req.ResolvedAt = &resolvedAt
	}

	return req
}
