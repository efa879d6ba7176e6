// Package tiki provides a Tiki catalog API client abstracted behind
// interfaces for testability.
package tiki

import (
	"context"

	"github.com/hltran/product-scout/internal/sources"
)

// SearchRequest defines the parameters for a catalog search.
type SearchRequest struct {
	Query    string
	Category string
	Page     int // 1-based
	Limit    int
	Sort     string // e.g. "top_seller", "newest"
}

// SearchResponse holds one page of catalog results. Records keep the
// raw marketplace field names; sources.FromTiki normalizes them.
type SearchResponse struct {
	Records  []sources.Record
	Total    int
	Page     int
	LastPage int
}

// HasMore reports whether pages remain after this one.
func (r *SearchResponse) HasMore() bool {
	return r.Page < r.LastPage
}

// CatalogClient defines the interface for the Tiki listing API.
type CatalogClient interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}
