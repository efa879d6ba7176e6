package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hltran/product-scout/internal/store"
	domain "github.com/hltran/product-scout/pkg/types"
)

// EvaluationsHandler handles stored evaluation query endpoints.
type EvaluationsHandler struct {
	store store.Store
}

// NewEvaluationsHandler creates a new EvaluationsHandler.
func NewEvaluationsHandler(s store.Store) *EvaluationsHandler {
	return &EvaluationsHandler{store: s}
}

// defaultListLimit applies when the caller omits the limit parameter,
// so the pagination metadata reflects the limit actually used.
const defaultListLimit = 50

// --- Input/Output types ---

// ListEvaluationsInput is the input for listing stored evaluations.
type ListEvaluationsInput struct {
	SessionID string `query:"session_id" doc:"Filter by session ID"`
	UserID    string `query:"user_id"    doc:"Filter by user ID"`
	Limit     int    `query:"limit"      doc:"Number of results (default 50)" minimum:"1" maximum:"1000"`
	Offset    int    `query:"offset"     doc:"Pagination offset"              minimum:"0"`
}

// ListEvaluationsOutput is the response for listing stored evaluations.
type ListEvaluationsOutput struct {
	Body struct {
		Evaluations []domain.Evaluation `json:"evaluations"`
		Total       int                 `json:"total"`
		Limit       int                 `json:"limit"`
		Offset      int                 `json:"offset"`
	}
}

// GetEvaluationInput is the input for getting a single evaluation.
type GetEvaluationInput struct {
	ID string `path:"id" doc:"Evaluation UUID"`
}

// GetEvaluationOutput is the response for getting a single evaluation.
type GetEvaluationOutput struct {
	Body domain.Evaluation
}

// --- Handlers ---

// ListEvaluations returns stored evaluations with optional session and
// user filters, newest first.
func (h *EvaluationsHandler) ListEvaluations(
	ctx context.Context,
	input *ListEvaluationsInput,
) (*ListEvaluationsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	q := &store.EvaluationQuery{
		Limit:  limit,
		Offset: input.Offset,
	}

	if input.SessionID != "" {
		q.SessionID = &input.SessionID
	}

	if input.UserID != "" {
		q.UserID = &input.UserID
	}

	evals, total, err := h.store.ListEvaluations(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("evaluation query failed: " + err.Error())
	}

	resp := &ListEvaluationsOutput{}
	resp.Body.Evaluations = evals
	resp.Body.Total = total
	resp.Body.Limit = q.Limit
	resp.Body.Offset = q.Offset

	return resp, nil
}

// GetEvaluation returns a single evaluation by ID.
func (h *EvaluationsHandler) GetEvaluation(
	ctx context.Context,
	input *GetEvaluationInput,
) (*GetEvaluationOutput, error) {
	eval, err := h.store.GetEvaluation(ctx, input.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("evaluation not found")
		}
		return nil, huma.Error500InternalServerError("evaluation query failed: " + err.Error())
	}

	return &GetEvaluationOutput{Body: *eval}, nil
}

// RegisterEvaluationRoutes registers evaluation endpoints with the Huma API.
func RegisterEvaluationRoutes(api huma.API, h *EvaluationsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-evaluations",
		Method:      http.MethodGet,
		Path:        "/api/v1/evaluations",
		Summary:     "List evaluations",
		Description: "Returns stored evaluations with optional session and user filters, newest first.",
		Tags:        []string{"evaluations"},
	}, h.ListEvaluations)

	huma.Register(api, huma.Operation{
		OperationID: "get-evaluation",
		Method:      http.MethodGet,
		Path:        "/api/v1/evaluations/{id}",
		Summary:     "Get an evaluation by ID",
		Description: "Returns a single stored evaluation by its UUID.",
		Tags:        []string{"evaluations"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetEvaluation)
}
