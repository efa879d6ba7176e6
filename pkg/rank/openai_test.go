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

func TestOpenAIBackend_Name(t *testing.T) {
	t.Parallel()
	b := rank.NewOpenAIBackend()
	assert.Equal(t, "openai_compat", b.Name())
}

func TestOpenAIBackend_Generate(t *testing.T) {
	t.Parallel()

	successResponse := `{
		"choices": [{"message": {"role": "assistant", "content": "ok"}}],
		"model": "gpt-4o-mini",
		"usage": {"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12}
	}`

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		req        rank.GenerateRequest
		apiKey     string
		wantErr    bool
		wantErrMsg string
		wantResp   string
		wantTotal  int
	}{
		{
			name: "successful generation",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Contains(t, r.URL.Path, "/chat/completions")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(successResponse))
			},
			req: rank.GenerateRequest{
				Prompt:      "rank these",
				Temperature: 0.7,
				MaxTokens:   1024,
			},
			wantResp:  "ok",
			wantTotal: 12,
		},
		{
			name: "system message prepended",
			handler: func(w http.ResponseWriter, r *http.Request) {
				var body map[string]any
				_ = json.NewDecoder(r.Body).Decode(&body)
				msgs := body["messages"].([]any)
				assert.Len(t, msgs, 2)
				first := msgs[0].(map[string]any)
				assert.Equal(t, "system", first["role"])
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(successResponse))
			},
			req: rank.GenerateRequest{
				Prompt:    "rank these",
				SystemMsg: "be terse",
			},
			wantResp: "ok",
		},
		{
			name: "json format sets response_format",
			handler: func(w http.ResponseWriter, r *http.Request) {
				var body map[string]any
				_ = json.NewDecoder(r.Body).Decode(&body)
				rf := body["response_format"].(map[string]any)
				assert.Equal(t, "json_object", rf["type"])
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(successResponse))
			},
			req: rank.GenerateRequest{
				Prompt: "rank these",
				Format: rank.FormatJSON,
			},
			wantResp: "ok",
		},
		{
			name:   "auth header sent when key provided",
			apiKey: "sk-test-key",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer sk-test-key", r.Header.Get("Authorization"))
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(successResponse))
			},
			req:      rank.GenerateRequest{Prompt: "rank these"},
			wantResp: "ok",
		},
		{
			name:   "no auth header without key",
			apiKey: "",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Empty(t, r.Header.Get("Authorization"))
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(successResponse))
			},
			req:      rank.GenerateRequest{Prompt: "rank these"},
			wantResp: "ok",
		},
		{
			name: "API error envelope",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"bad key"}}`))
			},
			req:        rank.GenerateRequest{Prompt: "rank these"},
			wantErr:    true,
			wantErrMsg: "bad key",
		},
		{
			name: "empty choices",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"choices":[],"model":"test","usage":{}}`))
			},
			req:        rank.GenerateRequest{Prompt: "rank these"},
			wantErr:    true,
			wantErrMsg: "no choices",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			b := rank.NewOpenAIBackend(
				rank.WithOpenAIEndpoint(srv.URL),
				rank.WithOpenAIAPIKey(tt.apiKey),
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
