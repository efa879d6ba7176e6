package rank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIBackend implements LLMBackend against any OpenAI-compatible
// chat completions endpoint (OpenAI itself, vLLM, Ollama, LM Studio).
type OpenAIBackend struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// OpenAIOption configures the OpenAIBackend.
type OpenAIOption func(*OpenAIBackend)

// WithOpenAIEndpoint sets the base URL of the chat completions API,
// e.g. "https://api.openai.com/v1" or "http://localhost:11434/v1".
func WithOpenAIEndpoint(url string) OpenAIOption {
	return func(b *OpenAIBackend) {
		b.endpoint = url
	}
}

// WithOpenAIModel overrides the default model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(b *OpenAIBackend) {
		b.model = model
	}
}

// WithOpenAIAPIKey overrides the API key (instead of reading from env).
func WithOpenAIAPIKey(key string) OpenAIOption {
	return func(b *OpenAIBackend) {
		b.apiKey = key
	}
}

// WithOpenAIHTTPClient overrides the default HTTP client.
func WithOpenAIHTTPClient(c *http.Client) OpenAIOption {
	return func(b *OpenAIBackend) {
		b.client = c
	}
}

// NewOpenAIBackend creates a backend for an OpenAI-compatible API. The
// API key is read from OPENAI_API_KEY if not provided via options; local
// servers that ignore authentication work with an empty key.
func NewOpenAIBackend(opts ...OpenAIOption) *OpenAIBackend {
	b := &OpenAIBackend{
		apiKey:   os.Getenv("OPENAI_API_KEY"),
		model:    defaultOpenAIModel,
		endpoint: "https://api.openai.com/v1",
		client:   &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the backend name.
func (*OpenAIBackend) Name() string {
	return "openai_compat"
}

type openAIRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	Temperature    *float64              `json:"temperature,omitempty"`
	MaxTokens      int                   `json:"max_tokens,omitempty"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type openAIError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate calls the chat completions API.
func (b *OpenAIBackend) Generate(
	ctx context.Context,
	req GenerateRequest,
) (GenerateResponse, error) {
	oaReq := openAIRequest{
		Model:     b.model,
		MaxTokens: req.MaxTokens,
	}

	if req.SystemMsg != "" {
		oaReq.Messages = append(oaReq.Messages, openAIMessage{
			Role:    "system",
			Content: req.SystemMsg,
		})
	}
	oaReq.Messages = append(oaReq.Messages, openAIMessage{
		Role:    "user",
		Content: req.Prompt,
	})

	if req.Temperature > 0 {
		oaReq.Temperature = &req.Temperature
	}
	if req.Format == FormatJSON {
		oaReq.ResponseFormat = &openAIResponseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(oaReq)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := b.endpoint + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		url,
		bytes.NewReader(body),
	)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("calling chat completions API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr openAIError
		if jsonErr := json.Unmarshal(respBody, &apiErr); jsonErr == nil &&
			apiErr.Error.Message != "" {
			return GenerateResponse{}, fmt.Errorf(
				"chat completions API error (status %d): %s: %s",
				resp.StatusCode,
				apiErr.Error.Type,
				apiErr.Error.Message,
			)
		}
		return GenerateResponse{}, fmt.Errorf(
			"chat completions API error (status %d): %s",
			resp.StatusCode,
			string(respBody),
		)
	}

	var oaResp openAIResponse
	if err := json.Unmarshal(respBody, &oaResp); err != nil {
		return GenerateResponse{}, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(oaResp.Choices) == 0 {
		return GenerateResponse{}, fmt.Errorf("chat completions API returned no choices")
	}

	model := oaResp.Model
	if model == "" {
		model = b.model
	}

	return GenerateResponse{
		Content: oaResp.Choices[0].Message.Content,
		Model:   model,
		Usage: TokenUsage{
			PromptTokens:     oaResp.Usage.PromptTokens,
			CompletionTokens: oaResp.Usage.CompletionTokens,
			TotalTokens:      oaResp.Usage.TotalTokens,
		},
	}, nil
}
