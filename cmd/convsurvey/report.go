package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/convsurvey/internal/export"
	"github.com/fyrsmithlabs/convsurvey/internal/table"
)

var reportCmd = &cobra.Command{
	Use:   "report <workbook.xlsx>",
	Short: "Summarize an exported ratings workbook",
	Long: `Print a per-conversation summary and aggregate statistics for a ratings
workbook produced by a previous survey session.

Examples:
  convsurvey report ./data/human_ratings_jane_doe.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	wb, err := table.ReadFile(args[0])
	if err != nil {
		return err
	}

	annotator := "unknown"
	if wb.Metadata.Len() > 0 {
		if cell, ok := wb.Metadata.Cell(0, export.MetaAnnotatorID); ok && !cell.IsNull() {
			annotator = cell.AsString()
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CONVERSATION\tSCORE\tRESULT\tTARGETS")

	passed := 0
	total := 0
	sum := 0.0
	for i := 0; i < wb.Ratings.Len(); i++ {
		id := cellString(wb.Ratings, i, export.ColConversationID)
		result := cellString(wb.Ratings, i, export.ColPassFail)

		score := 0.0
		if cell, ok := wb.Ratings.Cell(i, export.ColOverallScore); ok && !cell.IsNull() {
			if v, err := cell.AsFloat(); err == nil {
				score = v
			}
		}
		completed := cellString(wb.Ratings, i, export.ColTargetsCompleted)
		introduced := cellString(wb.Ratings, i, export.ColTargetsIntroduced)

		fmt.Fprintf(w, "%s\t%.4f\t%s\t%s/%s\n", id, score, result, completed, introduced)

		total++
		sum += score
		if result == "PASS" {
			passed++
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Annotator:  %s\n", annotator)
	fmt.Printf("Rated:      %d\n", total)
	if total > 0 {
		fmt.Printf("Passed:     %d (%.0f%%)\n", passed, float64(passed)/float64(total)*100)
		fmt.Printf("Mean score: %.4f\n", sum/float64(total))
	}
	return nil
}

func cellString(rel *table.Relation, row int, column string) string {
	cell, ok := rel.Cell(row, column)
	if !ok || cell.IsNull() {
		return ""
	}
	return cell.AsString()
}
