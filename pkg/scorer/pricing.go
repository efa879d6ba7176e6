package score

// defaultMarkup applies when the cost price falls outside every tier,
// e.g. a zero or negative price with tiers starting above zero.
const defaultMarkup = 0.20

// PriceTier is one markup band over cost price. Bands are inclusive on
// both ends; a Max of 0 marks the open-ended top band.
type PriceTier struct {
	Min    float64 `json:"min"    yaml:"min"`
	Max    float64 `json:"max"    yaml:"max"`
	Markup float64 `json:"markup" yaml:"markup"`
}

// contains reports whether cost falls inside the band.
func (t PriceTier) contains(cost float64) bool {
	if cost < t.Min {
		return false
	}
	return t.Max <= 0 || cost <= t.Max
}

// DefaultPriceTiers returns the default markup table:
// up to 50 -> 20%, 51-200 -> 30%, 201 and above -> 40%.
func DefaultPriceTiers() []PriceTier {
	return []PriceTier{
		{Min: 1, Max: 50, Markup: 0.20},
		{Min: 51, Max: 200, Markup: 0.30},
		{Min: 201, Max: 0, Markup: 0.40},
	}
}

// FeeModel describes the storefront transaction fees deducted from the
// selling price: a rate plus a fixed per-transaction amount.
type FeeModel struct {
	TransactionFeeRate float64 `json:"transaction_fee_rate" yaml:"transaction_fee_rate"`
	FixedFee           float64 `json:"fixed_fee"            yaml:"fixed_fee"`
}

// DefaultFeeModel returns the default Shopify fee model: 2.9% + 0.30.
func DefaultFeeModel() FeeModel {
	return FeeModel{
		TransactionFeeRate: 0.029,
		FixedFee:           0.30,
	}
}

// SelectMarkup returns the markup fraction for a cost price. Bands are
// checked in order and the first hit wins; a price matching no band gets
// the default markup.
func SelectMarkup(costPrice float64, tiers []PriceTier) float64 {
	for _, t := range tiers {
		if t.contains(costPrice) {
			return t.Markup
		}
	}
	return defaultMarkup
}

// SellingPrice derives the suggested selling price from a cost price
// using the tiered markup table.
func SellingPrice(costPrice float64, tiers []PriceTier) float64 {
	return costPrice * (1 + SelectMarkup(costPrice, tiers))
}

// TransactionFee computes the storefront fee on a selling price.
func TransactionFee(sellingPrice float64, fees FeeModel) float64 {
	return sellingPrice*fees.TransactionFeeRate + fees.FixedFee
}

// Profit is the fee-adjusted profit breakdown for one product.
type Profit struct {
	SellingPrice   float64 `json:"selling_price"`
	TransactionFee float64 `json:"transaction_fee"`
	ShippingFee    float64 `json:"shipping_fee"`
	TotalCost      float64 `json:"total_cost"`
	NetProfit      float64 `json:"net_profit"`
	ProfitMargin   float64 `json:"profit_margin"` // percentage, can be negative
}

// ComputeProfit derives the net profit and margin for a cost/selling
// price pair. A selling price of zero would divide by zero in the margin;
// that degenerate case reports a margin of 0 so downstream ranking never
// sees NaN.
func ComputeProfit(costPrice, sellingPrice, shippingFee float64, fees FeeModel) Profit {
	fee := TransactionFee(sellingPrice, fees)
	totalCost := costPrice + fee + shippingFee
	netProfit := sellingPrice - totalCost

	var margin float64
	if sellingPrice > 0 {
		margin = netProfit / sellingPrice * 100
	}

	return Profit{
		SellingPrice:   sellingPrice,
		TransactionFee: fee,
		ShippingFee:    shippingFee,
		TotalCost:      totalCost,
		NetProfit:      netProfit,
		ProfitMargin:   margin,
	}
}
