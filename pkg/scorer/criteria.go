package score

// Weights defines the relative importance of each scoring factor.
// The engine does not renormalize: callers who want the final score to
// stay in [0,1] are responsible for weights that sum to 1.
type Weights struct {
	Profit float64 `json:"profitWeight" yaml:"profit"`
	Review float64 `json:"reviewWeight" yaml:"review"`
	Trend  float64 `json:"trendWeight"  yaml:"trend"`
}

// DefaultWeights returns the default scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Profit: 0.60,
		Review: 0.40,
		Trend:  0.00,
	}
}

// Thresholds defines the qualification cut-offs applied by the gate.
// MinProfitMargin and MinFinalScore are fractions in [0,1].
type Thresholds struct {
	MinReviewScore  float64 `json:"minReviewScore"  yaml:"min_review_score"`
	MinReviewCount  int     `json:"minReviewCount"  yaml:"min_review_count"`
	MinProfitMargin float64 `json:"minProfitMargin" yaml:"min_profit_margin"`
	MinFinalScore   float64 `json:"minFinalScore"   yaml:"min_final_score"`
}

// DefaultThresholds returns the default qualification thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinReviewScore:  2.0,
		MinReviewCount:  10,
		MinProfitMargin: 0.20,
		MinFinalScore:   0.50,
	}
}

// Criteria bundles the weights and thresholds for one scoring run.
type Criteria struct {
	Weights    Weights    `json:"weights"    yaml:"weights"`
	Thresholds Thresholds `json:"thresholds" yaml:"thresholds"`
}

// DefaultCriteria returns the default weights and thresholds.
func DefaultCriteria() Criteria {
	return Criteria{
		Weights:    DefaultWeights(),
		Thresholds: DefaultThresholds(),
	}
}

// WeightsPatch is a per-field weights override. Nil fields keep the default.
type WeightsPatch struct {
	Profit *float64 `json:"profitWeight,omitempty"`
	Review *float64 `json:"reviewWeight,omitempty"`
	Trend  *float64 `json:"trendWeight,omitempty"`
}

// ThresholdsPatch is a per-field thresholds override. Nil fields keep the default.
type ThresholdsPatch struct {
	MinReviewScore  *float64 `json:"minReviewScore,omitempty"`
	MinReviewCount  *int     `json:"minReviewCount,omitempty"`
	MinProfitMargin *float64 `json:"minProfitMargin,omitempty"`
	MinFinalScore   *float64 `json:"minFinalScore,omitempty"`
}

// CriteriaPatch is a per-request criteria override, typically decoded from
// an API request body. Only non-nil fields take effect.
type CriteriaPatch struct {
	Weights    *WeightsPatch    `json:"weights,omitempty"`
	Thresholds *ThresholdsPatch `json:"thresholds,omitempty"`
}

// Apply returns a copy of c with every non-nil patch field substituted.
// Precedence is strictly field-by-field: a patch that sets only the profit
// weight leaves the other weights and all thresholds untouched. The patch
// is not validated; the engine computes mechanically with whatever policy
// the caller configured.
func (c Criteria) Apply(p *CriteriaPatch) Criteria {
	if p == nil {
		return c
	}

	if w := p.Weights; w != nil {
		if w.Profit != nil {
			c.Weights.Profit = *w.Profit
		}
		if w.Review != nil {
			c.Weights.Review = *w.Review
		}
		if w.Trend != nil {
			c.Weights.Trend = *w.Trend
		}
	}

	if t := p.Thresholds; t != nil {
		if t.MinReviewScore != nil {
			c.Thresholds.MinReviewScore = *t.MinReviewScore
		}
		if t.MinReviewCount != nil {
			c.Thresholds.MinReviewCount = *t.MinReviewCount
		}
		if t.MinProfitMargin != nil {
			c.Thresholds.MinProfitMargin = *t.MinProfitMargin
		}
		if t.MinFinalScore != nil {
			c.Thresholds.MinFinalScore = *t.MinFinalScore
		}
	}

	return c
}
