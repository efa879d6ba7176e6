package sources

import (
	domain "github.com/hltran/product-scout/pkg/types"
)

// FromEbay maps a scraped eBay search card. eBay records carry a title
// instead of a name, a textual price like "$12.99", and camelCase
// reviewCount; most cards have no rating at all.
func FromEbay(rec Record) domain.RawProduct {
	return domain.RawProduct{
		ID:          str(rec, "id", "item_id"),
		Title:       str(rec, "title"),
		URL:         str(rec, "link", "url"),
		ImageURL:    str(rec, "image", "imageUrl"),
		Source:      domain.SourceEbay,
		Price:       num(rec, "price"),
		Rating:      num(rec, "rating"),
		ReviewCount: count(rec, "reviewCount", "review_count"),
		UnitsSold:   count(rec, "sold", "quantity_sold"),
	}
}
