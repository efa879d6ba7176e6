package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hltran/product-scout/internal/sources"
	score "github.com/hltran/product-scout/pkg/scorer"
	domain "github.com/hltran/product-scout/pkg/types"
)

// ScoreHandler handles score-only requests. No AI ranking, no storage.
type ScoreHandler struct {
	scorer *score.Scorer
}

// NewScoreHandler creates a new ScoreHandler.
func NewScoreHandler(s *score.Scorer) *ScoreHandler {
	return &ScoreHandler{scorer: s}
}

// ScoreRequestBody is the request body for POST /api/v1/score.
type ScoreRequestBody struct {
	Source          string               `json:"source,omitempty"`
	Products        []sources.Record     `json:"products"`
	Criteria        *score.CriteriaPatch `json:"criteria,omitempty"`
	IncludeRejected bool                 `json:"include_rejected,omitempty"`
}

// ScoreResponseBody is the response body for POST /api/v1/score.
// Products holds the qualified products sorted by final score; Rejected
// is only populated when the request asks for it.
type ScoreResponseBody struct {
	TotalProducts int                    `json:"total_products"`
	Qualified     int                    `json:"qualified"`
	Products      []domain.ScoredProduct `json:"products"`
	Rejected      []domain.ScoredProduct `json:"rejected,omitempty"`
}

// Score handles POST /api/v1/score.
//
// @Summary Score a product batch
// @Description Scores the batch against the qualification criteria without AI ranking or persistence.
// @Tags scoring
// @Accept json
// @Produce json
// @Success 200 {object} ScoreResponseBody
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/score [post]
func (h *ScoreHandler) Score(c echo.Context) error {
	var body ScoreRequestBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}

	if len(body.Products) == 0 {
		return badRequest(c, "products must not be empty")
	}

	products := sources.Normalize(domain.Source(body.Source), body.Products)
	qualified, rejected := h.scorer.ScoreBatch(products, body.Criteria)

	resp := ScoreResponseBody{
		TotalProducts: len(products),
		Qualified:     len(qualified),
		Products:      qualified,
	}

	if body.IncludeRejected {
		resp.Rejected = rejected
	}

	return c.JSON(http.StatusOK, resp)
}
