// Package score implements the product scoring and threshold-qualification
// engine: pricing with tiered markups, normalized profit/review/trend
// sub-scores, a weighted final score, and a pass/fail gate. The engine is
// pure and allocation-only; it is safe to call concurrently for disjoint
// batches.
package score

import (
	"math"
	"sort"

	domain "github.com/hltran/product-scout/pkg/types"
)

// idealProfitMargin is the margin percentage that earns a full profit
// score, independent of the configured minimum.
const idealProfitMargin = 40.0

// thinReviewRatingFloor is the fixed rating floor applied by the gate to
// products whose review count is positive but below the configured
// minimum. Stricter than the configured MinReviewScore on purpose:
// thin-data items need a better signal to qualify.
const thinReviewRatingFloor = 3.0

// Scorer scores products against a markup table, a fee model, and default
// criteria. All configuration is fixed at construction; a Scorer holds no
// mutable state.
type Scorer struct {
	tiers       []PriceTier
	fees        FeeModel
	shippingFee float64
	defaults    Criteria
	ids         IDSource
}

// Option configures the Scorer.
type Option func(*Scorer)

// WithPriceTiers overrides the markup table.
func WithPriceTiers(tiers []PriceTier) Option {
	return func(s *Scorer) {
		s.tiers = tiers
	}
}

// WithFeeModel overrides the storefront fee model.
func WithFeeModel(fees FeeModel) Option {
	return func(s *Scorer) {
		s.fees = fees
	}
}

// WithShippingFee sets a flat shipping fee included in the total cost.
func WithShippingFee(fee float64) Option {
	return func(s *Scorer) {
		s.shippingFee = fee
	}
}

// WithDefaultCriteria overrides the default weights and thresholds.
func WithDefaultCriteria(c Criteria) Option {
	return func(s *Scorer) {
		s.defaults = c
	}
}

// WithIDSource overrides the fallback identifier generator, e.g. with a
// deterministic source in tests.
func WithIDSource(ids IDSource) Option {
	return func(s *Scorer) {
		s.ids = ids
	}
}

// New creates a Scorer with the default markup table, fee model, and
// criteria unless overridden by options.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		tiers:    DefaultPriceTiers(),
		fees:     DefaultFeeModel(),
		defaults: DefaultCriteria(),
		ids:      NewClockIDSource(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the Scorer's default criteria.
func (s *Scorer) Defaults() Criteria {
	return s.defaults
}

// ScoreProduct scores a single product against the default criteria
// adjusted by the optional patch.
func (s *Scorer) ScoreProduct(p *domain.RawProduct, patch *CriteriaPatch) domain.ScoredProduct {
	return s.score(p, s.defaults.Apply(patch))
}

// ScoreBatch scores every product exactly once and partitions the
// results on the threshold gate. Qualified products come back sorted by
// final score descending; those with equal final scores keep their
// input order. Rejected products stay in input order. The input slice
// is not mutated.
func (s *Scorer) ScoreBatch(
	products []domain.RawProduct,
	patch *CriteriaPatch,
) (qualified, rejected []domain.ScoredProduct) {
	crit := s.defaults.Apply(patch)

	qualified = make([]domain.ScoredProduct, 0, len(products))
	for i := range products {
		sp := s.score(&products[i], crit)
		if sp.MeetsThresholds {
			qualified = append(qualified, sp)
		} else {
			rejected = append(rejected, sp)
		}
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].Scores.Final > qualified[j].Scores.Final
	})

	return qualified, rejected
}

// ScoreProducts scores every product, drops those that fail the threshold
// gate, and returns the survivors sorted by final score descending.
// Products with equal final scores keep their input order. The input
// slice is not mutated.
func (s *Scorer) ScoreProducts(products []domain.RawProduct, patch *CriteriaPatch) []domain.ScoredProduct {
	qualified, _ := s.ScoreBatch(products, patch)
	return qualified
}

func (s *Scorer) score(p *domain.RawProduct, crit Criteria) domain.ScoredProduct {
	costPrice := p.Price
	sellingPrice := SellingPrice(costPrice, s.tiers)
	profit := ComputeProfit(costPrice, sellingPrice, s.shippingFee, s.fees)

	scores := domain.Scores{
		Profit: ProfitScore(profit.ProfitMargin, crit.Thresholds),
		Review: ReviewScore(p.Rating, p.ReviewCount, crit.Thresholds),
		Trend:  TrendScore(p),
	}
	scores.Final = scores.Profit*crit.Weights.Profit +
		scores.Review*crit.Weights.Review +
		scores.Trend*crit.Weights.Trend

	return domain.ScoredProduct{
		ProductID:       s.productID(p),
		ProductName:     p.DisplayName(),
		CostPrice:       costPrice,
		SellingPrice:    profit.SellingPrice,
		NetProfit:       profit.NetProfit,
		ProfitMargin:    profit.ProfitMargin,
		Scores:          scores,
		MeetsThresholds: meetsThresholds(p, profit.ProfitMargin, scores.Final, crit.Thresholds),
		Rating:          p.Rating,
		ReviewCount:     p.ReviewCount,
	}
}

// ProfitScore maps a profit margin percentage to [0,1] on a linear ramp
// between the configured minimum and the fixed 40% ideal. Margins below
// the minimum score 0; margins at or above the ideal score 1.
func ProfitScore(profitMargin float64, th Thresholds) float64 {
	minMargin := th.MinProfitMargin * 100

	if profitMargin < minMargin {
		return 0
	}
	if profitMargin >= idealProfitMargin {
		return 1
	}
	return (profitMargin - minMargin) / (idealProfitMargin - minMargin)
}

// ReviewScore maps a rating and review count to [0,1]. Marketplaces vary
// wildly in review density, so the policy is tiered: no reviews earns a
// fixed 0.3 (unproven but not disqualifying), thin review counts earn
// scaled partial credit, and counts at or above the minimum earn the
// rating fraction plus a capped logarithmic popularity bonus.
func ReviewScore(rating float64, reviewCount int, th Thresholds) float64 {
	if reviewCount == 0 {
		return 0.3
	}

	if rating < th.MinReviewScore {
		return 0
	}

	if reviewCount < th.MinReviewCount {
		// Partial credit: at most 0.6 of the rating fraction, scaled up
		// as the count approaches the minimum. A high-rated, low-volume
		// item never scores as high as a proven bestseller.
		ratingScore := rating / 5 * 0.6
		reviewRatio := float64(reviewCount) / float64(th.MinReviewCount)
		return ratingScore * (0.5 + 0.5*reviewRatio)
	}

	bonus := math.Min(math.Log10(float64(reviewCount))/2, 0.2)
	return math.Min(rating/5+bonus, 1)
}

// TrendScore maps demand signals to [0,1]: the highest matching discount
// tier plus the highest matching sales-volume tier plus badge bonuses,
// clamped at 1.
func TrendScore(p *domain.RawProduct) float64 {
	var score float64

	switch {
	case p.DiscountRate >= 30:
		score += 0.3
	case p.DiscountRate >= 20:
		score += 0.2
	case p.DiscountRate >= 10:
		score += 0.1
	}

	switch {
	case p.UnitsSold >= 1000:
		score += 0.4
	case p.UnitsSold >= 500:
		score += 0.3
	case p.UnitsSold >= 100:
		score += 0.2
	}

	if p.HasBadge(domain.BadgeBestSeller) {
		score += 0.2
	}
	if p.HasBadge(domain.BadgeNewArrival) {
		score += 0.1
	}

	return math.Min(score, 1)
}

// meetsThresholds applies the qualification gate. The review condition
// mirrors ReviewScore's leniency: no reviews auto-passes, thin review
// counts require the fixed 3.0 floor, full counts require the configured
// minimum rating. Profit margin and final score must always clear their
// thresholds.
func meetsThresholds(p *domain.RawProduct, profitMargin, finalScore float64, th Thresholds) bool {
	var reviewOK bool
	switch {
	case p.ReviewCount == 0:
		reviewOK = true
	case p.ReviewCount < th.MinReviewCount:
		reviewOK = p.Rating >= thinReviewRatingFloor
	default:
		reviewOK = p.Rating >= th.MinReviewScore
	}

	return reviewOK &&
		profitMargin >= th.MinProfitMargin*100 &&
		finalScore >= th.MinFinalScore
}
