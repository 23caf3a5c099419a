package dispatchRepository

import (
	"time"

	"MahoutGolang/internal/entity"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Requests:     &dispatchRepository{q: sqlExecutor, log: r.log},
		Recognitions: &recognitionRepository{q: sqlExecutor, log: r.log},
		Commit:       commitFunc,
		Rollback:     rollbackFunc,
	}, nil
}

type Client struct {
	Requests interface {
		CreateDispatchRequest(ctx context.Context, req entity.DispatchRequest) error
		ResolveDispatchRequest(ctx context.Context, id string, status entity.DispatchStatus, reason string, resolvedAt time.Time) (bool, error)
		GetDispatchRequestByID(ctx context.Context, id string) (entity.DispatchRequest, error)
		GetDispatchHistory(ctx context.Context, limit, offset int) ([]entity.DispatchRequest, int, error)
	}

	Recognitions interface {
		CreateRecognitionResult(ctx context.Context, result entity.RecognitionResult) error
		GetRecognitionResultByID(ctx context.Context, id string) (entity.RecognitionResult, error)
	}

	Commit   func() error
	Rollback func() error
}

type dispatchRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type recognitionRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
