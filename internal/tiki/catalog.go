package tiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/hltran/product-scout/internal/metrics"
	"github.com/hltran/product-scout/internal/sources"
)

const (
	defaultBaseURL  = "https://tiki.vn/api/v2"
	defaultPageSize = 40
)

// HTTPCatalogClient implements CatalogClient against the Tiki listing API.
type HTTPCatalogClient struct {
	baseURL  string
	pageSize int
	client   *http.Client
	limiter  *rate.Limiter
}

// CatalogOption configures the HTTPCatalogClient.
type CatalogOption func(*HTTPCatalogClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) CatalogOption {
	return func(c *HTTPCatalogClient) {
		c.baseURL = u
	}
}

// WithPageSize overrides the default page size.
func WithPageSize(n int) CatalogOption {
	return func(c *HTTPCatalogClient) {
		c.pageSize = n
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) CatalogOption {
	return func(c *HTTPCatalogClient) {
		c.client = hc
	}
}

// WithRateLimiter injects a token-bucket limiter. When set, every
// Search() call goes through Wait() first. Tiki throttles aggressively,
// so production configs should keep this well under one call per second.
func WithRateLimiter(l *rate.Limiter) CatalogOption {
	return func(c *HTTPCatalogClient) {
		c.limiter = l
	}
}

// NewCatalogClient creates a new Tiki catalog API client.
func NewCatalogClient(opts ...CatalogOption) *HTTPCatalogClient {
	c := &HTTPCatalogClient{
		baseURL:  defaultBaseURL,
		pageSize: defaultPageSize,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type catalogAPIResponse struct {
	Data   []sources.Record `json:"data"`
	Paging struct {
		Total       int `json:"total"`
		CurrentPage int `json:"current_page"`
		LastPage    int `json:"last_page"`
	} `json:"paging"`
}

// Search implements CatalogClient.Search by querying the listing API.
func (c *HTTPCatalogClient) Search(
	ctx context.Context,
	req SearchRequest,
) (*SearchResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	metrics.TikiAPICallsTotal.Inc()

	u := c.buildSearchURL(req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		metrics.TikiAPIErrorsTotal.Inc()
		return nil, fmt.Errorf("executing search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.TikiAPIErrorsTotal.Inc()
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.TikiAPIErrorsTotal.Inc()
		return nil, fmt.Errorf(
			"tiki API error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	var apiResp catalogAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		metrics.TikiAPIErrorsTotal.Inc()
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	page := apiResp.Paging.CurrentPage
	if page == 0 {
		page = req.Page
	}

	return &SearchResponse{
		Records:  apiResp.Data,
		Total:    apiResp.Paging.Total,
		Page:     page,
		LastPage: apiResp.Paging.LastPage,
	}, nil
}

func (c *HTTPCatalogClient) buildSearchURL(req SearchRequest) string {
	params := url.Values{}
	if req.Query != "" {
		params.Set("q", req.Query)
	}
	if req.Category != "" {
		params.Set("category", req.Category)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = c.pageSize
	}
	params.Set("limit", strconv.Itoa(limit))

	page := req.Page
	if page <= 0 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))

	if req.Sort != "" {
		params.Set("sort", req.Sort)
	}

	return c.baseURL + "/products?" + params.Encode()
}
