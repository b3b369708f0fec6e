package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/convsurvey/internal/scoring"
)

var (
	scoreValues     string
	scoreCompleted  int
	scoreIntroduced int
	scoreJSON       bool
)

func init() {
	scoreCmd.Flags().StringVar(&scoreValues, "scores", "", "Comma-separated 0-2 scores in dimension order (required)")
	scoreCmd.Flags().IntVar(&scoreCompleted, "targets-completed", 0, "Number of targets completed")
	scoreCmd.Flags().IntVar(&scoreIntroduced, "targets-introduced", 0, "Number of targets introduced")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Output results as JSON")
	_ = scoreCmd.MarkFlagRequired("scores")
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute an overall score from dimension scores",
	Long: `Compute the normalized overall score, pass/fail label and confidence band
for a set of dimension scores, without running the survey.

Scores are given in dimension order: instruction_constraint_adherence,
context_ambiguity_handling, plan_coherence, safety_compliance.

Examples:
  # All dimensions perfect, 3 of 4 targets completed
  convsurvey score --scores 2,2,2,2 --targets-completed 3 --targets-introduced 4

  # JSON output with configured weights and threshold
  convsurvey score --scores 2,1,2,1 --json`,
	RunE: runScore,
}

type scoreOutput struct {
	OverallScore float64 `json:"overall_score"`
	PassFail     string  `json:"pass_fail"`
	Band         string  `json:"band"`
	Threshold    float64 `json:"threshold"`
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	scores, err := parseScores(scoreValues)
	if err != nil {
		return err
	}
	if scoreCompleted < 0 || scoreIntroduced < 0 || scoreCompleted > scoreIntroduced {
		return fmt.Errorf("targets-completed must be between 0 and targets-introduced")
	}

	threshold := cfg.Scoring.PassThreshold
	score := scoring.Score(scores, scoreCompleted, scoreIntroduced, cfg.Scoring.Weights())
	out := scoreOutput{
		OverallScore: score,
		PassFail:     string(scoring.PassFail(score, threshold)),
		Band:         string(scoring.Classify(score, threshold)),
		Threshold:    threshold,
	}

	if scoreJSON {
		encoded, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		cmd.Println(string(encoded))
		return nil
	}

	cmd.Printf("Overall score: %.4f\n", out.OverallScore)
	cmd.Printf("Result:        %s (threshold %.2f)\n", out.PassFail, out.Threshold)
	cmd.Printf("Band:          %s\n", out.Band)
	return nil
}

// parseScores maps a comma-separated list onto the dimensions in display
// order. Fewer values than dimensions leaves the rest unscored.
func parseScores(s string) (map[scoring.Dimension]int, error) {
	dims := scoring.Dimensions()
	parts := strings.Split(s, ",")
	if len(parts) > len(dims) {
		return nil, fmt.Errorf("at most %d scores expected, got %d", len(dims), len(parts))
	}

	scores := make(map[scoring.Dimension]int, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue // unscored dimension
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid score %q for %s", part, dims[i])
		}
		if v < scoring.MinDimensionScore || v > scoring.MaxDimensionScore {
			return nil, fmt.Errorf("score for %s must be 0-2, got %d", dims[i], v)
		}
		scores[dims[i]] = v
	}
	return scores, nil
}
