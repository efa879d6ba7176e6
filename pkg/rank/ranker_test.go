package rank_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hltran/product-scout/pkg/rank"
	domain "github.com/hltran/product-scout/pkg/types"
)

// stubBackend returns a canned response and records the last request.
type stubBackend struct {
	resp    rank.GenerateResponse
	err     error
	lastReq rank.GenerateRequest
}

func (s *stubBackend) Generate(
	_ context.Context,
	req rank.GenerateRequest,
) (rank.GenerateResponse, error) {
	s.lastReq = req
	return s.resp, s.err
}

func (*stubBackend) Name() string { return "stub" }

func rankInput() []domain.ScoredProduct {
	return []domain.ScoredProduct{
		{ProductID: "p1", ProductName: "Widget", Scores: domain.Scores{Final: 0.9}},
		{ProductID: "p2", ProductName: "Gadget", Scores: domain.Scores{Final: 0.7}},
		{ProductID: "p3", ProductName: "Gizmo", Scores: domain.Scores{Final: 0.5}},
	}
}

func TestRanker_Rank(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		resp: rank.GenerateResponse{
			Content: `{
				"products": [
					{"product_id": "p2", "rank": 1, "comment": "strong margin"},
					{"product_id": "p1", "rank": 2},
					{"product_id": "p3", "rank": 3}
				],
				"summary": "p2 leads on demand"
			}`,
			Model: "stub-model",
			Usage: rank.TokenUsage{PromptTokens: 100, CompletionTokens: 40, TotalTokens: 140},
		},
	}

	r := rank.NewRanker(backend, rank.WithTemperature(0.2), rank.WithMaxTokens(2048))
	ranking, err := r.Rank(context.Background(), rankInput())
	require.NoError(t, err)

	require.Len(t, ranking.Products, 3)
	assert.Equal(t, "p2", ranking.Products[0].ProductID)
	assert.Equal(t, 1, ranking.Products[0].Rank)
	assert.Equal(t, "strong margin", ranking.Products[0].Comment)
	assert.Equal(t, "p1", ranking.Products[1].ProductID)
	assert.Equal(t, "p2 leads on demand", ranking.Summary)
	assert.Equal(t, "stub-model", ranking.Model)
	assert.Equal(t, 140, ranking.Usage.TotalTokens)

	assert.Equal(t, rank.FormatJSON, backend.lastReq.Format)
	assert.Equal(t, 0.2, backend.lastReq.Temperature)
	assert.Equal(t, 2048, backend.lastReq.MaxTokens)
	assert.Contains(t, backend.lastReq.Prompt, "p1")
	assert.Contains(t, backend.lastReq.Prompt, `"Widget"`)
}

func TestRanker_Rank_FencedJSON(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		resp: rank.GenerateResponse{
			Content: "```json\n{\"products\":[{\"product_id\":\"p1\",\"rank\":1}],\"summary\":\"ok\"}\n```",
		},
	}

	r := rank.NewRanker(backend)
	ranking, err := r.Rank(context.Background(), rankInput())
	require.NoError(t, err)
	assert.Equal(t, "p1", ranking.Products[0].ProductID)
	assert.Equal(t, "ok", ranking.Summary)
}

func TestRanker_Rank_HallucinatedAndMissingIDs(t *testing.T) {
	t.Parallel()

	// The verdict invents "p99", ranks p3 first, and skips p1 and p2.
	backend := &stubBackend{
		resp: rank.GenerateResponse{
			Content: `{"products":[
				{"product_id": "p99", "rank": 1},
				{"product_id": "p3", "rank": 2}
			]}`,
		},
	}

	r := rank.NewRanker(backend)
	ranking, err := r.Rank(context.Background(), rankInput())
	require.NoError(t, err)

	require.Len(t, ranking.Products, 3)
	assert.Equal(t, "p3", ranking.Products[0].ProductID)
	assert.Equal(t, "p1", ranking.Products[1].ProductID)
	assert.Equal(t, "p2", ranking.Products[2].ProductID)
	for i, rp := range ranking.Products {
		assert.Equal(t, i+1, rp.Rank)
	}
}

func TestRanker_Rank_DuplicateIDs(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		resp: rank.GenerateResponse{
			Content: `{"products":[
				{"product_id": "p1", "rank": 1, "comment": "first"},
				{"product_id": "p1", "rank": 2, "comment": "again"},
				{"product_id": "p2", "rank": 3},
				{"product_id": "p3", "rank": 4}
			]}`,
		},
	}

	r := rank.NewRanker(backend)
	ranking, err := r.Rank(context.Background(), rankInput())
	require.NoError(t, err)

	require.Len(t, ranking.Products, 3)
	assert.Equal(t, "first", ranking.Products[0].Comment)
}

func TestRanker_Rank_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		products   []domain.ScoredProduct
		backend    *stubBackend
		wantErrMsg string
	}{
		{
			name:       "empty input",
			products:   nil,
			backend:    &stubBackend{},
			wantErrMsg: "no products",
		},
		{
			name:       "backend failure",
			products:   rankInput(),
			backend:    &stubBackend{err: fmt.Errorf("boom")},
			wantErrMsg: "boom",
		},
		{
			name:       "malformed JSON",
			products:   rankInput(),
			backend:    &stubBackend{resp: rank.GenerateResponse{Content: "not json"}},
			wantErrMsg: "parsing LLM JSON response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := rank.NewRanker(tt.backend)
			_, err := r.Rank(context.Background(), tt.products)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErrMsg)
		})
	}
}
