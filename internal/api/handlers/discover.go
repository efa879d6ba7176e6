package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hltran/product-scout/internal/engine"
	"github.com/hltran/product-scout/internal/tiki"
	score "github.com/hltran/product-scout/pkg/scorer"
)

// DiscoverHandler fetches candidates from the Tiki catalog and runs the
// evaluation pipeline over them.
type DiscoverHandler struct {
	paginator *tiki.Paginator
	engine    *engine.Engine
}

// NewDiscoverHandler creates a new DiscoverHandler.
func NewDiscoverHandler(p *tiki.Paginator, eng *engine.Engine) *DiscoverHandler {
	return &DiscoverHandler{paginator: p, engine: eng}
}

// DiscoverRequestBody is the request body for POST /api/v1/discover.
type DiscoverRequestBody struct {
	Query        string               `json:"query"`
	Category     string               `json:"category,omitempty"`
	Sort         string               `json:"sort,omitempty"`
	Criteria     *score.CriteriaPatch `json:"criteria,omitempty"`
	SessionID    string               `json:"session_id,omitempty"`
	UserID       string               `json:"user_id,omitempty"`
	StoreResults bool                 `json:"store_results,omitempty"`
}

// Discover handles POST /api/v1/discover.
//
// @Summary Discover and evaluate catalog products
// @Description Fetches products from the Tiki catalog for a search query and runs the evaluation pipeline over them.
// @Tags evaluations
// @Accept json
// @Produce json
// @Success 200 {object} domain.Evaluation
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/discover [post]
func (h *DiscoverHandler) Discover(c echo.Context) error {
	var body DiscoverRequestBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}

	if body.Query == "" && body.Category == "" {
		return badRequest(c, "query or category is required")
	}

	result, err := h.paginator.Paginate(c.Request().Context(), tiki.SearchRequest{
		Query:    body.Query,
		Category: body.Category,
		Sort:     body.Sort,
	})
	if err != nil {
		return serverError(c, http.StatusBadGateway, "catalog fetch failed: "+err.Error())
	}

	eval, err := h.engine.Evaluate(c.Request().Context(), engine.EvaluateRequest{
		Products:     result.Products,
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
