// Package mocks provides a testify mock of the Store interface for
// handler and engine tests.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/hltran/product-scout/internal/store"
	domain "github.com/hltran/product-scout/pkg/types"
)

// MockStore is a testify mock implementing store.Store.
type MockStore struct {
	mock.Mock
}

var _ store.Store = (*MockStore)(nil)

func (m *MockStore) SaveEvaluation(ctx context.Context, e *domain.Evaluation) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockStore) GetEvaluation(ctx context.Context, id string) (*domain.Evaluation, error) {
	args := m.Called(ctx, id)
	if e, ok := args.Get(0).(*domain.Evaluation); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) ListEvaluations(
	ctx context.Context,
	opts *store.EvaluationQuery,
) ([]domain.Evaluation, int, error) {
	args := m.Called(ctx, opts)
	evals, _ := args.Get(0).([]domain.Evaluation)
	return evals, args.Int(1), args.Error(2)
}

func (m *MockStore) DeleteEvaluationsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
