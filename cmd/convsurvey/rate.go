package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/convsurvey/internal/logging"
	"github.com/fyrsmithlabs/convsurvey/internal/session"
	"github.com/fyrsmithlabs/convsurvey/internal/tui"
)

var rateAnnotator string

func init() {
	rateCmd.Flags().StringVar(&rateAnnotator, "annotator", "", "Annotator ID (skips the setup prompt)")
}

var rateCmd = &cobra.Command{
	Use:   "rate <folder>",
	Short: "Run the interactive rating survey",
	Long: `Run the terminal survey against a folder of conversation JSON files.
The folder may contain the files directly or hold them in a conversations/
subdirectory. Ratings are saved as human_ratings_<annotator>.xlsx next to
the conversation files; rerun with the same annotator ID and press i to
resume a previous session.

Examples:
  # Rate the conversations in ./data
  convsurvey rate ./data

  # Skip the annotator prompt
  convsurvey rate --annotator jane_doe ./data`,
	Args: cobra.ExactArgs(1),
	RunE: runRate,
}

func runRate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Logs go to a file or nowhere: the survey owns the terminal.
	logger := zap.NewNop()
	if cfg.Logging.File != "" {
		fileLogger, sync, err := logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		defer sync()
		logger = fileLogger
	}

	s, err := session.New(cfg, logger)
	if err != nil {
		return err
	}
	if rateAnnotator != "" {
		if err := s.SetAnnotator(rateAnnotator); err != nil {
			return err
		}
	}

	return tui.Run(s, args[0], logger)
}
