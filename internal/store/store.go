// Package store defines the datastore abstraction for product-scout.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables mock-based testing without a running
// database.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/hltran/product-scout/pkg/types"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// EvaluationQuery defines optional filters for evaluation queries.
type EvaluationQuery struct {
	SessionID *string
	UserID    *string
	Limit     int // default 50
	Offset    int
}

// Store defines all data access operations for product-scout.
type Store interface {
	// Evaluations
	SaveEvaluation(ctx context.Context, e *domain.Evaluation) error
	GetEvaluation(ctx context.Context, id string) (*domain.Evaluation, error)
	ListEvaluations(ctx context.Context, opts *EvaluationQuery) ([]domain.Evaluation, int, error)
	DeleteEvaluationsBefore(ctx context.Context, cutoff time.Time) (int, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
