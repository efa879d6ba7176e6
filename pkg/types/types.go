// Package domain defines the core business types for product-scout.
package domain

import (
	"encoding/json"
	"slices"
	"time"
)

// Source identifies the marketplace a product record came from.
type Source string

// Source constants.
const (
	SourceTiki   Source = "tiki"
	SourceEbay   Source = "ebay"
	SourceChotot Source = "chotot"
)

// Badge constants recognized by the trend score.
const (
	BadgeBestSeller = "best_seller"
	BadgeNewArrival = "new_arrival"
)

// RawProduct is the canonical product shape handed to the scoring engine.
// Source adapters normalize marketplace-specific field names into this
// struct; every field except Price is optional and defaults to its zero
// value when the upstream record lacks it.
type RawProduct struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name,omitempty"`
	Title        string   `json:"title,omitempty"`
	URL          string   `json:"url,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	Source       Source   `json:"source,omitempty"`
	Price        float64  `json:"price"`
	Rating       float64  `json:"rating,omitempty"`
	ReviewCount  int      `json:"review_count,omitempty"`
	DiscountRate float64  `json:"discount_rate,omitempty"`
	UnitsSold    int      `json:"units_sold,omitempty"`
	Badges       []string `json:"badges,omitempty"`
}

// DisplayName returns the product name, falling back to the title and
// finally to a fixed placeholder. Never empty.
func (p *RawProduct) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Title != "" {
		return p.Title
	}
	return "Unknown Product"
}

// HasBadge reports whether the product carries the given badge tag.
func (p *RawProduct) HasBadge(badge string) bool {
	return slices.Contains(p.Badges, badge)
}

// Scores holds the normalized sub-scores and the weighted final score.
// Each sub-score is in [0,1]; the final score is a weighted sum and is
// only guaranteed to stay in [0,1] when the weights sum to 1.
type Scores struct {
	Profit float64 `json:"profit_score"`
	Review float64 `json:"review_score"`
	Trend  float64 `json:"trend_score"`
	Final  float64 `json:"final_score"`
}

// ScoredProduct is the engine output for a single product. It is created
// fresh per scoring call and never mutated afterwards.
type ScoredProduct struct {
	ProductID       string  `json:"product_id"`
	ProductName     string  `json:"product_name"`
	CostPrice       float64 `json:"cost_price"`
	SellingPrice    float64 `json:"selling_price"`
	NetProfit       float64 `json:"net_profit"`
	ProfitMargin    float64 `json:"profit_margin"`
	Scores          Scores  `json:"scores"`
	MeetsThresholds bool    `json:"meets_thresholds"`
	Rating          float64 `json:"rating"`
	ReviewCount     int     `json:"review_count"`
}

// TokenUsage tracks LLM token consumption for a ranking call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// RankedProduct is one entry of an AI ranking verdict.
type RankedProduct struct {
	ProductID string `json:"product_id"`
	Rank      int    `json:"rank"`
	Comment   string `json:"comment,omitempty"`
}

// Ranking is the AI re-ranking result for the top qualified products.
type Ranking struct {
	Products []RankedProduct `json:"products"`
	Summary  string          `json:"summary,omitempty"`
	Model    string          `json:"model,omitempty"`
	Usage    TokenUsage      `json:"usage"`
}

// Evaluation is a stored evaluation run: the scored products that passed
// the threshold gate plus the optional AI ranking of the top candidates.
type Evaluation struct {
	ID             string          `json:"id"                db:"id"`
	SessionID      string          `json:"session_id"        db:"session_id"`
	UserID         string          `json:"user_id"           db:"user_id"`
	TotalProducts  int             `json:"total_products"    db:"total_products"`
	Qualified      int             `json:"qualified"         db:"qualified"`
	Criteria       json.RawMessage `json:"criteria,omitempty" db:"criteria"`
	ScoredProducts []ScoredProduct `json:"scored_products"   db:"scored_products"`
	Ranking        *Ranking        `json:"ranking,omitempty" db:"ranking"`
	CreatedAt      time.Time       `json:"created_at"        db:"created_at"`
}
