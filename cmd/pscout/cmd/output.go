package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/hltran/product-scout/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printScoredTable(products []domain.ScoredProduct) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNAME\tCOST\tSELL\tMARGIN\tPROFIT\tREVIEW\tTREND\tFINAL\n")
	for i := range products {
		p := &products[i]
		tw.writef("%s\t%s\t%.2f\t%.2f\t%.1f%%\t%.2f\t%.2f\t%.2f\t%.3f\n",
			p.ProductID,
			truncate(p.ProductName, 40),
			p.CostPrice,
			p.SellingPrice,
			p.ProfitMargin,
			p.Scores.Profit,
			p.Scores.Review,
			p.Scores.Trend,
			p.Scores.Final,
		)
	}
	return tw.finish()
}

func printEvaluationsTable(evals []domain.Evaluation) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tSESSION\tTOTAL\tQUALIFIED\tRANKED\tCREATED\n")
	for i := range evals {
		e := &evals[i]
		ranked := "-"
		if e.Ranking != nil {
			ranked = e.Ranking.Model
		}
		tw.writef("%s\t%s\t%d\t%d\t%s\t%s\n",
			e.ID,
			e.SessionID,
			e.TotalProducts,
			e.Qualified,
			ranked,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return tw.finish()
}

func printEvaluationDetail(e *domain.Evaluation) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", e.ID)
	tw.writef("Session:\t%s\n", e.SessionID)
	tw.writef("User:\t%s\n", e.UserID)
	tw.writef("Total:\t%d\n", e.TotalProducts)
	tw.writef("Qualified:\t%d\n", e.Qualified)
	tw.writef("Created:\t%s\n", e.CreatedAt.Format("2006-01-02 15:04:05"))
	if err := tw.finish(); err != nil {
		return err
	}

	if len(e.ScoredProducts) > 0 {
		fmt.Println()
		if err := printScoredTable(e.ScoredProducts); err != nil {
			return err
		}
	}

	if e.Ranking != nil {
		fmt.Printf("\nAI ranking (%s):\n", e.Ranking.Model)
		tw = newTabWriter(os.Stdout)
		tw.writef("RANK\tID\tCOMMENT\n")
		for _, rp := range e.Ranking.Products {
			tw.writef("%d\t%s\t%s\n", rp.Rank, rp.ProductID, truncate(rp.Comment, 60))
		}
		if err := tw.finish(); err != nil {
			return err
		}
		if e.Ranking.Summary != "" {
			fmt.Println("\nSummary:", e.Ranking.Summary)
		}
	}

	return nil
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
