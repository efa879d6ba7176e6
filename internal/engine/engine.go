// Package engine orchestrates scoring, AI re-ranking, and persistence
// of evaluation runs.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hltran/product-scout/internal/metrics"
	"github.com/hltran/product-scout/internal/store"
	"github.com/hltran/product-scout/pkg/rank"
	score "github.com/hltran/product-scout/pkg/scorer"
	domain "github.com/hltran/product-scout/pkg/types"
)

const defaultTopN = 20

// Engine runs the evaluation pipeline: score, filter, rank, store.
type Engine struct {
	scorer *score.Scorer
	ranker *rank.Ranker
	store  store.Store
	log    *slog.Logger
	topN   int
}

// Option configures the Engine.
type Option func(*Engine)

// WithRanker enables AI re-ranking of the top qualified products.
// Without it, evaluations carry the mathematical scores only.
func WithRanker(r *rank.Ranker) Option {
	return func(e *Engine) {
		e.ranker = r
	}
}

// WithStore enables persistence of evaluation runs.
func WithStore(s store.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithTopN sets how many qualified products are sent to AI ranking.
func WithTopN(n int) Option {
	return func(e *Engine) {
		e.topN = n
	}
}

// New creates an Engine around a scorer. Ranker and store are optional.
func New(scorer *score.Scorer, opts ...Option) *Engine {
	e := &Engine{
		scorer: scorer,
		log:    slog.Default(),
		topN:   defaultTopN,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateRequest is one evaluation run over a product batch.
type EvaluateRequest struct {
	Products     []domain.RawProduct
	Criteria     *score.CriteriaPatch
	SessionID    string
	UserID       string
	StoreResults bool
}

// Evaluate scores the batch, keeps the qualified products, asks the AI
// ranker to order the top candidates, and optionally persists the run.
// A ranker failure downgrades the evaluation to scores-only rather than
// failing it; a store failure is fatal when persistence was requested.
func (e *Engine) Evaluate(
	ctx context.Context,
	req EvaluateRequest,
) (*domain.Evaluation, error) {
	qualified := e.scorer.ScoreProducts(req.Products, req.Criteria)

	metrics.ScoredProductsTotal.Add(float64(len(req.Products)))
	metrics.QualifiedProductsTotal.Add(float64(len(qualified)))
	for i := range qualified {
		metrics.FinalScoreDistribution.Observe(qualified[i].Scores.Final)
	}

	criteriaJSON, err := json.Marshal(e.scorer.Defaults().Apply(req.Criteria))
	if err != nil {
		return nil, fmt.Errorf("marshaling criteria: %w", err)
	}

	eval := &domain.Evaluation{
		SessionID:      req.SessionID,
		UserID:         req.UserID,
		TotalProducts:  len(req.Products),
		Qualified:      len(qualified),
		Criteria:       criteriaJSON,
		ScoredProducts: qualified,
		CreatedAt:      time.Now().UTC(),
	}

	if len(qualified) > 0 && e.ranker != nil {
		eval.Ranking = e.rankTop(ctx, qualified)
	}

	if req.StoreResults && e.store != nil {
		if err := e.store.SaveEvaluation(ctx, eval); err != nil {
			return nil, fmt.Errorf("saving evaluation: %w", err)
		}
		metrics.EvaluationsStoredTotal.Inc()
	}

	e.log.Info("evaluation complete",
		"session_id", req.SessionID,
		"total", eval.TotalProducts,
		"qualified", eval.Qualified,
		"ranked", eval.Ranking != nil,
		"stored", req.StoreResults && e.store != nil,
	)

	return eval, nil
}

func (e *Engine) rankTop(
	ctx context.Context,
	qualified []domain.ScoredProduct,
) *domain.Ranking {
	top := qualified
	if len(top) > e.topN {
		top = top[:e.topN]
	}

	start := time.Now()
	ranking, err := e.ranker.Rank(ctx, top)
	metrics.RankDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.RankFailuresTotal.Inc()
		e.log.Warn("AI ranking failed, returning scores only", "error", err)
		return nil
	}

	metrics.RankTokensTotal.Add(float64(ranking.Usage.TotalTokens))
	return ranking
}

// PurgeOldEvaluations deletes stored evaluations older than maxAge.
func (e *Engine) PurgeOldEvaluations(
	ctx context.Context,
	maxAge time.Duration,
) (int, error) {
	if e.store == nil {
		return 0, nil
	}

	cutoff := time.Now().UTC().Add(-maxAge)
	deleted, err := e.store.DeleteEvaluationsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging evaluations: %w", err)
	}

	metrics.EvaluationsPurgedTotal.Add(float64(deleted))
	if deleted > 0 {
		e.log.Info("purged old evaluations", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}
