package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hltran/product-scout/internal/api/handlers"
	"github.com/hltran/product-scout/internal/engine"
	"github.com/hltran/product-scout/internal/tiki"
	score "github.com/hltran/product-scout/pkg/scorer"
	domain "github.com/hltran/product-scout/pkg/types"
)

func catalogServer(t *testing.T, body string) *tiki.Paginator {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return tiki.NewPaginator(tiki.NewCatalogClient(tiki.WithBaseURL(srv.URL)))
}

func TestDiscoverHandler(t *testing.T) {
	t.Parallel()

	p := catalogServer(t, `{
		"data": [
			{"id": 1001, "name": "Speaker", "price": 300, "rating_average": 4.8, "review_count": 500},
			{"id": 1002, "name": "Cable", "price": 100, "rating_average": 4.8, "review_count": 500}
		],
		"paging": {"total": 2, "current_page": 1, "last_page": 1}
	}`)

	h := handlers.NewDiscoverHandler(p, engine.New(score.New()))
	e := echo.New()

	rec, c := postJSON(e, "/api/v1/discover", `{"query": "speaker", "session_id": "s1"}`)
	require.NoError(t, h.Discover(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var eval domain.Evaluation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eval))
	assert.Equal(t, 2, eval.TotalProducts)
	assert.Equal(t, 1, eval.Qualified)
	assert.Equal(t, "s1", eval.SessionID)
}

func TestDiscoverHandler_BadRequest(t *testing.T) {
	t.Parallel()

	h := handlers.NewDiscoverHandler(nil, engine.New(score.New()))
	e := echo.New()

	rec, c := postJSON(e, "/api/v1/discover", `{}`)
	require.NoError(t, h.Discover(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "query or category")
}

func TestDiscoverHandler_CatalogError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)
	p := tiki.NewPaginator(tiki.NewCatalogClient(tiki.WithBaseURL(srv.URL)))

	h := handlers.NewDiscoverHandler(p, engine.New(score.New()))
	e := echo.New()

	rec, c := postJSON(e, "/api/v1/discover", `{"query": "speaker"}`)
	require.NoError(t, h.Discover(c))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "catalog fetch failed")
}
