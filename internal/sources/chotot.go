package sources

import (
	domain "github.com/hltran/product-scout/pkg/types"
)

// FromChotot maps a Chotot classified ad. Ads identify themselves by
// ad_id or list_id, name the product in subject, and price in VND. Ads
// have no rating or review data.
func FromChotot(rec Record) domain.RawProduct {
	id := str(rec, "ad_id")
	if id == "" {
		id = idString(rec["list_id"])
	}

	return domain.RawProduct{
		ID:       id,
		Name:     str(rec, "subject", "name", "title"),
		URL:      str(rec, "url", "link"),
		ImageURL: str(rec, "image", "thumbnail_url"),
		Source:   domain.SourceChotot,
		Price:    num(rec, "price", "cost_price"),
	}
}
