package rank

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	domain "github.com/hltran/product-scout/pkg/types"
)

// Ranker orders qualified products through an LLM backend.
type Ranker struct {
	backend     LLMBackend
	temperature float64
	maxTokens   int
}

// RankerOption configures the Ranker.
type RankerOption func(*Ranker)

// WithTemperature sets the LLM temperature for ranking.
func WithTemperature(t float64) RankerOption {
	return func(r *Ranker) {
		r.temperature = t
	}
}

// WithMaxTokens sets the max tokens for LLM responses.
func WithMaxTokens(n int) RankerOption {
	return func(r *Ranker) {
		r.maxTokens = n
	}
}

// NewRanker creates a new Ranker.
func NewRanker(backend LLMBackend, opts ...RankerOption) *Ranker {
	r := &Ranker{
		backend:     backend,
		temperature: 0.7,
		maxTokens:   16384,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Backend returns the underlying LLM backend.
func (r *Ranker) Backend() LLMBackend {
	return r.backend
}

// verdict is the JSON shape the prompt asks the model to produce.
type verdict struct {
	Products []domain.RankedProduct `json:"products"`
	Summary  string                 `json:"summary"`
}

// Rank asks the backend to order the given products. The verdict only
// references product IDs present in the input; hallucinated IDs are
// dropped and products the model skipped are appended after the ranked
// ones in score order, so the result always covers the full input.
func (r *Ranker) Rank(
	ctx context.Context,
	products []domain.ScoredProduct,
) (*domain.Ranking, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("no products to rank")
	}

	prompt, err := RenderRankPrompt(products)
	if err != nil {
		return nil, fmt.Errorf("rendering rank prompt: %w", err)
	}

	resp, err := r.backend.Generate(ctx, GenerateRequest{
		Prompt:      prompt,
		SystemMsg:   systemMsg,
		Format:      FormatJSON,
		Temperature: r.temperature,
		MaxTokens:   r.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("calling LLM for ranking: %w", err)
	}

	var v verdict
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &v); err != nil {
		return nil, fmt.Errorf("parsing LLM JSON response: %w", err)
	}

	known := make(map[string]bool, len(products))
	for _, p := range products {
		known[p.ProductID] = true
	}

	seen := make(map[string]bool, len(products))
	ranked := make([]domain.RankedProduct, 0, len(products))
	for _, rp := range v.Products {
		if !known[rp.ProductID] || seen[rp.ProductID] {
			continue
		}
		seen[rp.ProductID] = true
		ranked = append(ranked, rp)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rank < ranked[j].Rank
	})

	// Products the verdict skipped keep their score order at the tail.
	for _, p := range products {
		if !seen[p.ProductID] {
			ranked = append(ranked, domain.RankedProduct{
				ProductID: p.ProductID,
				Rank:      len(ranked) + 1,
			})
		}
	}

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return &domain.Ranking{
		Products: ranked,
		Summary:  v.Summary,
		Model:    resp.Model,
		Usage: domain.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// stripFences removes a markdown code fence wrapper, which some models
// emit even in JSON mode.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
