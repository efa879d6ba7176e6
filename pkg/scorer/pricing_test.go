package score

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectMarkup_TierBoundaries(t *testing.T) {
	t.Parallel()

	tiers := DefaultPriceTiers()

	tests := []struct {
		name       string
		costPrice  float64
		wantMarkup float64
	}{
		{name: "bottom of tier 1", costPrice: 1, wantMarkup: 0.20},
		{name: "top of tier 1", costPrice: 50, wantMarkup: 0.20},
		{name: "bottom of tier 2", costPrice: 51, wantMarkup: 0.30},
		{name: "top of tier 2", costPrice: 200, wantMarkup: 0.30},
		{name: "bottom of open tier", costPrice: 201, wantMarkup: 0.40},
		{name: "deep into open tier", costPrice: 100000, wantMarkup: 0.40},
		{name: "zero falls back to default", costPrice: 0, wantMarkup: 0.20},
		{name: "negative falls back to default", costPrice: -5, wantMarkup: 0.20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.wantMarkup, SelectMarkup(tt.costPrice, tiers), 1e-9)
		})
	}
}

func TestSellingPrice(t *testing.T) {
	t.Parallel()

	tiers := DefaultPriceTiers()

	assert.InDelta(t, 60.0, SellingPrice(50, tiers), 1e-9)
	assert.InDelta(t, 66.3, SellingPrice(51, tiers), 1e-9)
	assert.InDelta(t, 281.4, SellingPrice(201, tiers), 1e-9)
}

func TestTransactionFee(t *testing.T) {
	t.Parallel()

	fees := DefaultFeeModel()
	assert.InDelta(t, 3.20, TransactionFee(100, fees), 1e-9)
}

func TestComputeProfit(t *testing.T) {
	t.Parallel()

	fees := DefaultFeeModel()

	p := ComputeProfit(100, 130, 0, fees)
	assert.InDelta(t, 4.07, p.TransactionFee, 1e-9)
	assert.InDelta(t, 104.07, p.TotalCost, 1e-9)
	assert.InDelta(t, 25.93, p.NetProfit, 1e-9)
	assert.InDelta(t, 25.93/130*100, p.ProfitMargin, 1e-9)
}

func TestComputeProfit_IncludesShipping(t *testing.T) {
	t.Parallel()

	p := ComputeProfit(100, 130, 10, DefaultFeeModel())
	assert.InDelta(t, 114.07, p.TotalCost, 1e-9)
	assert.InDelta(t, 15.93, p.NetProfit, 1e-9)
}

func TestComputeProfit_ZeroSellingPrice(t *testing.T) {
	t.Parallel()

	// Cost 0 with markup 0 gives selling price 0; the margin must be a
	// defined 0, never NaN or Inf.
	p := ComputeProfit(0, 0, 0, FeeModel{})
	assert.Zero(t, p.ProfitMargin)
	assert.False(t, math.IsNaN(p.ProfitMargin))
	assert.False(t, math.IsInf(p.ProfitMargin, 0))
}

func TestComputeProfit_NegativeMargin(t *testing.T) {
	t.Parallel()

	// Selling below cost: margin goes negative, not clamped.
	p := ComputeProfit(100, 90, 0, DefaultFeeModel())
	assert.Negative(t, p.NetProfit)
	assert.Negative(t, p.ProfitMargin)
}
