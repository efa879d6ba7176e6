package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/hltran/product-scout/internal/api/client"
)

func evaluateCmd() *cobra.Command {
	var (
		source    string
		sessionID string
		userID    string
		storeRun  bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate <products.json>",
		Short: "Run the full evaluation pipeline on a JSON file of products",
		Long: "Score a JSON array of raw product records, AI-rank the top\n" +
			"qualified candidates, and optionally store the run server-side.",
		Example: `  # Evaluate scraped Tiki records and store the run
  pscout evaluate --source tiki --store --session nightly products.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			products, err := readProducts(args[0])
			if err != nil {
				return err
			}

			c := newClient()
			eval, err := c.Evaluate(context.Background(), &apiclient.EvaluateParams{
				Source:       source,
				Products:     products,
				SessionID:    sessionID,
				UserID:       userID,
				StoreResults: storeRun,
			})
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(eval)
			}

			if storeRun {
				fmt.Println("Stored evaluation", eval.ID)
				fmt.Println()
			}
			return printEvaluationDetail(eval)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "record source (tiki, ebay, chotot)")
	cmd.Flags().StringVar(&sessionID, "session", "", "session ID to tag the run with")
	cmd.Flags().StringVar(&userID, "user", "", "user ID to tag the run with")
	cmd.Flags().BoolVar(&storeRun, "store", false, "persist the evaluation server-side")

	return cmd
}
