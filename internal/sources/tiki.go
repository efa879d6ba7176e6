package sources

import (
	domain "github.com/hltran/product-scout/pkg/types"
)

// FromTiki maps a Tiki catalog API item. Tiki uses rating_average and
// review_count, reports the discount as a percentage, and nests the
// recent sales counter under quantity_sold.value with an all-time total
// as a fallback.
func FromTiki(rec Record) domain.RawProduct {
	p := domain.RawProduct{
		ID:           idString(rec["id"]),
		Name:         str(rec, "name"),
		URL:          str(rec, "url_path", "url"),
		ImageURL:     str(rec, "thumbnail_url"),
		Source:       domain.SourceTiki,
		Price:        num(rec, "price"),
		Rating:       num(rec, "rating_average"),
		ReviewCount:  count(rec, "review_count"),
		DiscountRate: num(rec, "discount_rate"),
		Badges:       badges(rec, "badges_new"),
	}

	// quantity_sold is the nested recent counter; all_time_quantity_sold
	// is a plain number on older payloads.
	p.UnitsSold = count(rec, "quantity_sold", "all_time_quantity_sold")

	if p.Badges == nil {
		p.Badges = badges(rec, "badges")
	}

	return p
}
