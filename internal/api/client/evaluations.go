package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	score "github.com/hltran/product-scout/pkg/scorer"
	domain "github.com/hltran/product-scout/pkg/types"
)

// EvaluateParams defines the body for an evaluate call. Products carry
// their raw marketplace field names.
type EvaluateParams struct {
	Source       string               `json:"source,omitempty"`
	Products     []map[string]any     `json:"products"`
	Criteria     *score.CriteriaPatch `json:"criteria,omitempty"`
	SessionID    string               `json:"session_id,omitempty"`
	UserID       string               `json:"user_id,omitempty"`
	StoreResults bool                 `json:"store_results,omitempty"`
}

// Evaluate scores, ranks, and optionally stores a product batch.
func (c *Client) Evaluate(
	ctx context.Context,
	params *EvaluateParams,
) (*domain.Evaluation, error) {
	var eval domain.Evaluation
	if err := c.post(ctx, "/api/v1/evaluate", params, &eval); err != nil {
		return nil, err
	}
	return &eval, nil
}

// ScoreParams defines the body for a score-only call.
type ScoreParams struct {
	Source          string               `json:"source,omitempty"`
	Products        []map[string]any     `json:"products"`
	Criteria        *score.CriteriaPatch `json:"criteria,omitempty"`
	IncludeRejected bool                 `json:"include_rejected,omitempty"`
}

// ScoreResponse wraps a score-only response.
type ScoreResponse struct {
	TotalProducts int                    `json:"total_products"`
	Qualified     int                    `json:"qualified"`
	Products      []domain.ScoredProduct `json:"products"`
	Rejected      []domain.ScoredProduct `json:"rejected,omitempty"`
}

// Score scores a product batch without AI ranking or persistence.
func (c *Client) Score(ctx context.Context, params *ScoreParams) (*ScoreResponse, error) {
	var resp ScoreResponse
	if err := c.post(ctx, "/api/v1/score", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EvaluationsResponse wraps a paginated evaluations response.
type EvaluationsResponse struct {
	Evaluations []domain.Evaluation `json:"evaluations"`
	Total       int                 `json:"total"`
}

// ListEvaluationsParams defines query parameters for evaluation queries.
type ListEvaluationsParams struct {
	SessionID string
	UserID    string
	Limit     int
	Offset    int
}

// ListEvaluations returns stored evaluations matching the given parameters.
func (c *Client) ListEvaluations(
	ctx context.Context,
	params *ListEvaluationsParams,
) (*EvaluationsResponse, error) {
	q := url.Values{}
	if params.SessionID != "" {
		q.Set("session_id", params.SessionID)
	}
	if params.UserID != "" {
		q.Set("user_id", params.UserID)
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}

	path := "/api/v1/evaluations"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp EvaluationsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetEvaluation returns a single stored evaluation by ID.
func (c *Client) GetEvaluation(ctx context.Context, id string) (*domain.Evaluation, error) {
	var eval domain.Evaluation
	if err := c.get(ctx, fmt.Sprintf("/api/v1/evaluations/%s", id), &eval); err != nil {
		return nil, err
	}
	return &eval, nil
}

// Healthz reports whether the server is up.
func (c *Client) Healthz(ctx context.Context) error {
	return c.get(ctx, "/healthz", nil)
}
