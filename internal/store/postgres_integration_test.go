//go:build integration

package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/hltran/product-scout/internal/store"
	domain "github.com/hltran/product-scout/pkg/types"
)

func setupPostgres(t *testing.T) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("pscout_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

func testEvaluation(session string) *domain.Evaluation {
	return &domain.Evaluation{
		SessionID:     session,
		UserID:        "u1",
		TotalProducts: 3,
		Qualified:     2,
		Criteria:      json.RawMessage(`{"weights":{"profitWeight":0.6}}`),
		ScoredProducts: []domain.ScoredProduct{
			{
				ProductID:       "p1",
				ProductName:     "Wireless Earbuds",
				CostPrice:       300,
				SellingPrice:    420,
				NetProfit:       107.52,
				ProfitMargin:    25.6,
				Scores:          domain.Scores{Profit: 0.28, Review: 1, Final: 0.568},
				MeetsThresholds: true,
				Rating:          4.8,
				ReviewCount:     500,
			},
			{
				ProductID:       "p2",
				ProductName:     "Phone Stand",
				CostPrice:       250,
				SellingPrice:    350,
				MeetsThresholds: true,
			},
		},
		Ranking: &domain.Ranking{
			Products: []domain.RankedProduct{
				{ProductID: "p2", Rank: 1, Comment: "strong demand signal"},
				{ProductID: "p1", Rank: 2},
			},
			Summary: "Both viable; p2 has a better niche.",
			Model:   "gemini-2.5-flash-lite",
			Usage:   domain.TokenUsage{PromptTokens: 900, CompletionTokens: 200, TotalTokens: 1100},
		},
	}
}

func TestPostgresStore_SaveAndGetEvaluation(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	e := testEvaluation("s1")
	require.NoError(t, s.SaveEvaluation(ctx, e))
	require.NotEmpty(t, e.ID)

	got, err := s.GetEvaluation(ctx, e.ID)
	require.NoError(t, err)

	assert.Equal(t, e.SessionID, got.SessionID)
	assert.Equal(t, e.TotalProducts, got.TotalProducts)
	assert.Equal(t, e.Qualified, got.Qualified)
	require.Len(t, got.ScoredProducts, 2)
	assert.Equal(t, "p1", got.ScoredProducts[0].ProductID)
	assert.InDelta(t, 25.6, got.ScoredProducts[0].ProfitMargin, 1e-9)
	require.NotNil(t, got.Ranking)
	assert.Equal(t, 1, got.Ranking.Products[0].Rank)
	assert.Equal(t, 1100, got.Ranking.Usage.TotalTokens)
	assert.JSONEq(t, string(e.Criteria), string(got.Criteria))
}

func TestPostgresStore_GetEvaluation_NotFound(t *testing.T) {
	s := setupPostgres(t)

	_, err := s.GetEvaluation(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresStore_ListEvaluations(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		e := testEvaluation("s1")
		e.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.SaveEvaluation(ctx, e))
	}
	other := testEvaluation("s2")
	require.NoError(t, s.SaveEvaluation(ctx, other))

	all, total, err := s.ListEvaluations(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i-1].CreatedAt.Before(all[i].CreatedAt),
			"results must be newest first")
	}

	session := "s1"
	filtered, total, err := s.ListEvaluations(ctx, &store.EvaluationQuery{SessionID: &session})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, filtered, 3)

	paged, total, err := s.ListEvaluations(ctx, &store.EvaluationQuery{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, paged, 2)
}

func TestPostgresStore_DeleteEvaluationsBefore(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	old := testEvaluation("s1")
	old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, s.SaveEvaluation(ctx, old))

	fresh := testEvaluation("s1")
	require.NoError(t, s.SaveEvaluation(ctx, fresh))

	deleted, err := s.DeleteEvaluationsBefore(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = s.GetEvaluation(ctx, old.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetEvaluation(ctx, fresh.ID)
	assert.NoError(t, err)
}
