package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hltran/product-scout/internal/engine"
	"github.com/hltran/product-scout/internal/sources"
	score "github.com/hltran/product-scout/pkg/scorer"
	domain "github.com/hltran/product-scout/pkg/types"
)

// EvaluateHandler handles full evaluation requests: score, rank, store.
type EvaluateHandler struct {
	engine *engine.Engine
}

// NewEvaluateHandler creates a new EvaluateHandler.
func NewEvaluateHandler(eng *engine.Engine) *EvaluateHandler {
	return &EvaluateHandler{engine: eng}
}

// EvaluateRequestBody is the request body for POST /api/v1/evaluate.
// Products carry their raw marketplace field names; Source selects the
// normalization mapping and may be empty for pre-normalized payloads.
type EvaluateRequestBody struct {
	Source       string               `json:"source,omitempty"`
	Products     []sources.Record     `json:"products"`
	Criteria     *score.CriteriaPatch `json:"criteria,omitempty"`
	SessionID    string               `json:"session_id,omitempty"`
	UserID       string               `json:"user_id,omitempty"`
	StoreResults bool                 `json:"store_results,omitempty"`
}

// Evaluate handles POST /api/v1/evaluate.
//
// @Summary Evaluate a product batch
// @Description Scores the batch, keeps qualified products, AI-ranks the top candidates, and optionally stores the run.
// @Tags evaluations
// @Accept json
// @Produce json
// @Success 200 {object} domain.Evaluation
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/evaluate [post]
func (h *EvaluateHandler) Evaluate(c echo.Context) error {
	var body EvaluateRequestBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}

	if len(body.Products) == 0 {
		return badRequest(c, "products must not be empty")
	}

	eval, err := h.engine.Evaluate(c.Request().Context(), engine.EvaluateRequest{
		Products:     sources.Normalize(domain.Source(body.Source), body.Products),
		Criteria:     body.Criteria,
		SessionID:    body.SessionID,
		UserID:       body.UserID,
		StoreResults: body.StoreResults,
	})
	if err != nil {
		return serverError(c, http.StatusInternalServerError, "evaluation failed: "+err.Error())
	}

	return c.JSON(http.StatusOK, eval)
}
