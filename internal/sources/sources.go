// Package sources normalizes marketplace-specific product records into the
// canonical RawProduct shape. Each marketplace gets one explicit mapping
// function; the scoring engine never sees source-specific field names.
//
// Parsing is permissive by design: upstream schemas are heterogeneous and
// frequently malformed, so missing fields default to zero values and
// unparsable numbers coerce to 0. Normalization never returns an error
// for a malformed-but-present field.
package sources

import (
	"fmt"
	"strconv"
	"strings"

	domain "github.com/hltran/product-scout/pkg/types"
)

// Record is one raw marketplace record as decoded from JSON.
type Record = map[string]any

// Normalize converts a batch of records from the given source into
// canonical RawProducts. Unknown sources fall back to the generic alias
// mapping.
func Normalize(src domain.Source, records []Record) []domain.RawProduct {
	out := make([]domain.RawProduct, 0, len(records))
	for _, rec := range records {
		switch src {
		case domain.SourceTiki:
			out = append(out, FromTiki(rec))
		case domain.SourceEbay:
			out = append(out, FromEbay(rec))
		case domain.SourceChotot:
			out = append(out, FromChotot(rec))
		default:
			out = append(out, FromGeneric(rec))
		}
	}
	return out
}

// FromGeneric maps a record using every known field alias. Used when the
// caller does not declare a source, e.g. hand-assembled API payloads.
func FromGeneric(rec Record) domain.RawProduct {
	return domain.RawProduct{
		ID:           str(rec, "id", "product_id", "productId"),
		Name:         str(rec, "name"),
		Title:        str(rec, "title"),
		URL:          str(rec, "url", "link"),
		ImageURL:     str(rec, "image_url", "imageUrl", "thumbnail_url", "image"),
		Price:        num(rec, "price", "cost_price", "costPrice"),
		Rating:       num(rec, "rating", "rating_average"),
		ReviewCount:  count(rec, "review_count", "reviewCount"),
		DiscountRate: num(rec, "discount_rate", "discountRate"),
		UnitsSold:    count(rec, "units_sold", "all_time_quantity_sold", "sold"),
		Badges:       badges(rec, "badges"),
	}
}

// --- coercion helpers ---

// str returns the first present alias coerced to a string.
func str(rec Record, keys ...string) string {
	for _, k := range keys {
		switch v := rec[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			// JSON numbers decode as float64; IDs are often numeric.
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// num returns the first present alias coerced to a float64. Strings are
// parsed leniently: currency symbols, thousands separators, and trailing
// text are stripped. Unparsable values coerce to 0.
func num(rec Record, keys ...string) float64 {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		if f, ok := toFloat(v); ok {
			return f
		}
	}
	return 0
}

// count is num for non-negative integer fields.
func count(rec Record, keys ...string) int {
	n := num(rec, keys...)
	if n < 0 {
		return 0
	}
	return int(n)
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		return parseNumber(val)
	case map[string]any:
		// Nested counters like Tiki's quantity_sold: {"value": 1234}.
		if inner, ok := val["value"]; ok {
			return toFloat(inner)
		}
	}
	return 0, false
}

// parseNumber extracts a number from scraped text such as "$12.99",
// "1,234", "1.234.567 ₫" or "219 sold".
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Keep only the leading numeric run (digits, separators, sign).
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		case r == '$', r == '₫', r == '€', r == ' ':
			if b.Len() > 0 {
				goto done
			}
		default:
			if b.Len() > 0 {
				goto done
			}
		}
	}
done:
	cleaned := strings.ReplaceAll(b.String(), ",", "")
	if cleaned == "" || cleaned == "-" {
		return 0, false
	}

	if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return f, true
	}

	// Multiple dots: Vietnamese thousands separators ("1.234.567").
	if f, err := strconv.ParseFloat(strings.ReplaceAll(cleaned, ".", ""), 64); err == nil {
		return f, true
	}

	return 0, false
}

// badges coerces a badge field to a string slice. Tiki emits both plain
// strings and objects with a "code" key.
func badges(rec Record, key string) []string {
	raw, ok := rec[key].([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, b := range raw {
		switch v := b.(type) {
		case string:
			out = append(out, v)
		case map[string]any:
			if code, ok := v["code"].(string); ok {
				out = append(out, code)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func idString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
