package tiki

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hltran/product-scout/internal/sources"
	domain "github.com/hltran/product-scout/pkg/types"
)

const defaultMaxPages = 3

// Paginator walks catalog search pages and collects normalized products.
type Paginator struct {
	client   CatalogClient
	logger   *slog.Logger
	maxPages int
}

// PaginatorOption configures the Paginator.
type PaginatorOption func(*Paginator)

// WithMaxPages overrides the default max pages.
func WithMaxPages(n int) PaginatorOption {
	return func(p *Paginator) {
		p.maxPages = n
	}
}

// WithPaginatorLogger sets the logger.
func WithPaginatorLogger(l *slog.Logger) PaginatorOption {
	return func(p *Paginator) {
		p.logger = l
	}
}

// NewPaginator creates a new Paginator.
func NewPaginator(client CatalogClient, opts ...PaginatorOption) *Paginator {
	p := &Paginator{
		client:   client,
		maxPages: defaultMaxPages,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PaginateResult holds the result of a paginated catalog fetch.
type PaginateResult struct {
	Products  []domain.RawProduct
	TotalSeen int
	PagesUsed int
	StoppedAt string // "max_pages", "no_more_results"
}

// Paginate fetches catalog pages for a search query, stopping when max
// pages is reached or the API reports no further pages. Records that
// fail normalization are skipped, not fatal.
func (p *Paginator) Paginate(
	ctx context.Context,
	req SearchRequest,
) (*PaginateResult, error) {
	result := &PaginateResult{}

	for page := 1; page <= p.maxPages; page++ {
		req.Page = page

		resp, err := p.client.Search(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("searching page %d: %w", page, err)
		}

		result.PagesUsed++
		result.TotalSeen += len(resp.Records)

		if len(resp.Records) == 0 {
			result.StoppedAt = "no_more_results"
			return result, nil
		}

		products := sources.Normalize(domain.SourceTiki, resp.Records)
		for i := range products {
			if products[i].Price <= 0 {
				if p.logger != nil {
					p.logger.Warn("skipping record without price",
						"id", products[i].ID, "page", page)
				}
				continue
			}
			result.Products = append(result.Products, products[i])
		}

		if !resp.HasMore() {
			result.StoppedAt = "no_more_results"
			return result, nil
		}
	}

	result.StoppedAt = "max_pages"
	return result, nil
}
