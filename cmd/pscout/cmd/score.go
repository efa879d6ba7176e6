package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apiclient "github.com/hltran/product-scout/internal/api/client"
)

// readProducts loads a JSON array of raw product records from a file,
// or from stdin when path is "-".
func readProducts(path string) ([]map[string]any, error) {
	var data []byte
	var err error

	if path == "-" {
		data, err = os.ReadFile("/dev/stdin")
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // path from CLI arg
	}
	if err != nil {
		return nil, fmt.Errorf("reading products file: %w", err)
	}

	var products []map[string]any
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parsing products JSON: %w", err)
	}
	return products, nil
}

func scoreCmd() *cobra.Command {
	var (
		source          string
		includeRejected bool
	)

	cmd := &cobra.Command{
		Use:   "score <products.json>",
		Short: "Score a JSON file of products",
		Long: "Score a JSON array of raw product records against the server's\n" +
			"qualification criteria. No AI ranking, no persistence.",
		Example: `  # Score scraped Tiki records
  pscout score --source tiki products.json

  # Include the products that failed the gate
  pscout score --include-rejected products.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			products, err := readProducts(args[0])
			if err != nil {
				return err
			}

			c := newClient()
			resp, err := c.Score(context.Background(), &apiclient.ScoreParams{
				Source:          source,
				Products:        products,
				IncludeRejected: includeRejected,
			})
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(resp)
			}

			fmt.Printf("%d of %d products qualified\n\n", resp.Qualified, resp.TotalProducts)
			if err := printScoredTable(resp.Products); err != nil {
				return err
			}

			if len(resp.Rejected) > 0 {
				fmt.Printf("\nRejected (%d):\n", len(resp.Rejected))
				return printScoredTable(resp.Rejected)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "record source (tiki, ebay, chotot)")
	cmd.Flags().BoolVar(&includeRejected, "include-rejected", false, "also show products that failed the gate")

	return cmd
}
