package rank_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hltran/product-scout/pkg/rank"
)

func TestGeminiBackend_Name(t *testing.T) {
	t.Parallel()
	b := rank.NewGeminiBackend(rank.WithGeminiAPIKey("test-key"))
	assert.Equal(t, "gemini", b.Name())
}

func TestGeminiBackend_Generate(t *testing.T) {
	t.Parallel()

	successResponse := `{
		"candidates": [{"content": {"parts": [{"text": "hello"}]}}],
		"modelVersion": "gemini-2.5-flash-lite",
		"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 3, "totalTokenCount": 15}
	}`

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		req        rank.GenerateRequest
		wantErr    bool
		wantErrMsg string
		wantResp   string
		wantTotal  int
	}{
		{
			name: "successful generation",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
				assert.Contains(t, r.URL.Path, ":generateContent")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(successResponse))
			},
			req: rank.GenerateRequest{
				Prompt:      "rank these",
				Temperature: 0.7,
				MaxTokens:   1024,
			},
			wantResp:  "hello",
			wantTotal: 15,
		},
		{
			name: "system instruction sent",
			handler: func(w http.ResponseWriter, r *http.Request) {
				var body map[string]any
				_ = json.NewDecoder(r.Body).Decode(&body)
				si := body["systemInstruction"].(map[string]any)
				parts := si["parts"].([]any)
				first := parts[0].(map[string]any)
				assert.Equal(t, "be terse", first["text"])
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(successResponse))
			},
			req: rank.GenerateRequest{
				Prompt:    "rank these",
				SystemMsg: "be terse",
			},
			wantResp: "hello",
		},
		{
			name: "json format sets response mime type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				var body map[string]any
				_ = json.NewDecoder(r.Body).Decode(&body)
				gc := body["generationConfig"].(map[string]any)
				assert.Equal(t, "application/json", gc["responseMimeType"])
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(successResponse))
			},
			req: rank.GenerateRequest{
				Prompt: "rank these",
				Format: rank.FormatJSON,
			},
			wantResp: "hello",
		},
		{
			name: "API error envelope",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"code":429,"status":"RESOURCE_EXHAUSTED","message":"quota exceeded"}}`))
			},
			req:        rank.GenerateRequest{Prompt: "rank these"},
			wantErr:    true,
			wantErrMsg: "RESOURCE_EXHAUSTED",
		},
		{
			name: "no candidates",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"candidates":[],"usageMetadata":{}}`))
			},
			req:        rank.GenerateRequest{Prompt: "rank these"},
			wantErr:    true,
			wantErrMsg: "no candidates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			b := rank.NewGeminiBackend(
				rank.WithGeminiAPIKey("test-key"),
				rank.WithGeminiEndpoint(srv.URL),
			)

			resp, err := b.Generate(context.Background(), tt.req)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantResp, resp.Content)
			if tt.wantTotal > 0 {
				assert.Equal(t, tt.wantTotal, resp.Usage.TotalTokens)
			}
		})
	}
}

func TestGeminiBackend_MissingAPIKey(t *testing.T) {
	b := rank.NewGeminiBackend(rank.WithGeminiAPIKey(""))
	_, err := b.Generate(context.Background(), rank.GenerateRequest{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}
