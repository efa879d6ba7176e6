package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/hltran/product-scout/internal/api/client"
)

func evaluationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluations",
		Short: "Inspect stored evaluation runs",
	}

	cmd.AddCommand(evaluationsListCmd())
	cmd.AddCommand(evaluationsGetCmd())

	return cmd
}

func evaluationsListCmd() *cobra.Command {
	var (
		sessionID string
		userID    string
		limit     int
		offset    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored evaluations",
		Example: `  # Most recent evaluations for a session
  pscout evaluations list --session nightly --limit 10`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			resp, err := c.ListEvaluations(context.Background(), &apiclient.ListEvaluationsParams{
				SessionID: sessionID,
				UserID:    userID,
				Limit:     limit,
				Offset:    offset,
			})
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(resp)
			}

			if len(resp.Evaluations) == 0 {
				fmt.Println("No evaluations found")
				return nil
			}

			if err := printEvaluationsTable(resp.Evaluations); err != nil {
				return err
			}
			fmt.Printf("\nShowing %d of %d\n", len(resp.Evaluations), resp.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "filter by session ID")
	cmd.Flags().StringVar(&userID, "user", "", "filter by user ID")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum evaluations to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of evaluations to skip")

	return cmd
}

func evaluationsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single evaluation with its scored products and ranking",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			eval, err := c.GetEvaluation(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(eval)
			}
			return printEvaluationDetail(eval)
		},
	}
}
