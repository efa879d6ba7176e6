package rank

import (
	"bytes"
	"fmt"
	"text/template"

	domain "github.com/hltran/product-scout/pkg/types"
)

// systemMsg frames the model as a dropshipping analyst.
const systemMsg = `You are a product research analyst for dropshipping stores.
You rank candidate products by their resale potential, considering profit
margin, social proof, and demand signals. Respond only with JSON.`

// rankTmpl is the ranking prompt template.
const rankTmpl = `Rank the following scored products from best to worst
dropshipping candidate. Every product already passed the qualification
thresholds; your job is to order them and explain the ordering briefly.

Products:
{{range .Products}}- id={{.ProductID}} name={{printf "%q" .ProductName}} cost={{printf "%.2f" .CostPrice}} selling={{printf "%.2f" .SellingPrice}} margin={{printf "%.1f" .ProfitMargin}}% rating={{printf "%.1f" .Rating}} reviews={{.ReviewCount}} final_score={{printf "%.3f" .Scores.Final}}
{{end}}
Respond ONLY with a JSON object matching this schema:
{
  "products": [
    {"product_id": string, "rank": integer (1 = best), "comment": string}
  ],
  "summary": string
}

Include every product exactly once. Use only the product_id values given.`

// PromptData holds the template variables for the ranking prompt.
type PromptData struct {
	Products []domain.ScoredProduct
}

var rankTemplate = template.Must(template.New("rank").Parse(rankTmpl))

// RenderRankPrompt renders the ranking prompt for the given products.
func RenderRankPrompt(products []domain.ScoredProduct) (string, error) {
	var buf bytes.Buffer
	if err := rankTemplate.Execute(&buf, PromptData{Products: products}); err != nil {
		return "", fmt.Errorf("rendering rank prompt: %w", err)
	}
	return buf.String(), nil
}
