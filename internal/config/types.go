// Package config provides configuration loading for convsurvey.
package config

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/convsurvey/internal/scoring"
)

// Duration wraps time.Duration for text unmarshaling (YAML, env vars).
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if parsed < 0 {
		return fmt.Errorf("duration cannot be negative: %s", text)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration().String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the full convsurvey configuration.
type Config struct {
	Scoring ScoringConfig `koanf:"scoring"`
	Survey  SurveyConfig  `koanf:"survey"`
	Logging LoggingConfig `koanf:"logging"`
}

// ScoringConfig holds the scoring parameters. These are mutable only
// through configuration; weights recorded in an imported workbook are
// audit information and never override them.
type ScoringConfig struct {
	// DimensionWeights maps dimension identifiers to weights.
	DimensionWeights map[string]float64 `koanf:"dimension_weights"`

	// TargetWeight is the goal-completion weight.
	TargetWeight float64 `koanf:"target_weight"`

	// PassThreshold is the pass/fail boundary in [0, 1].
	PassThreshold float64 `koanf:"pass_threshold"`
}

// SurveyConfig holds rater-wellbeing settings.
type SurveyConfig struct {
	// BreakReminderInterval suggests a break every N ratings.
	BreakReminderInterval int `koanf:"break_reminder_interval"`

	// MaxSessionDuration recommends a longer break past this run length.
	MaxSessionDuration Duration `koanf:"max_session_duration"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// File, when set, appends logs there instead of stderr so log lines
	// do not corrupt the TUI.
	File string `koanf:"file"`
}

// NewDefaultConfig returns the defaults: unit weights, 0.75 threshold,
// break reminders every 5 ratings, 30 minute session warning.
func NewDefaultConfig() *Config {
	weights := make(map[string]float64, len(scoring.Dimensions()))
	for _, d := range scoring.Dimensions() {
		weights[string(d)] = 1.0
	}
	return &Config{
		Scoring: ScoringConfig{
			DimensionWeights: weights,
			TargetWeight:     1.0,
			PassThreshold:    scoring.DefaultThreshold,
		},
		Survey: SurveyConfig{
			BreakReminderInterval: 5,
			MaxSessionDuration:    Duration(30 * time.Minute),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Weights converts the scoring section to scoring.Weights.
func (c *ScoringConfig) Weights() scoring.Weights {
	dims := make(map[scoring.Dimension]float64, len(c.DimensionWeights))
	for name, w := range c.DimensionWeights {
		dims[scoring.Dimension(name)] = w
	}
	return scoring.Weights{Dimension: dims, Target: c.TargetWeight}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Scoring.PassThreshold < 0 || c.Scoring.PassThreshold > 1 {
		return fmt.Errorf("scoring.pass_threshold must be in [0, 1], got %v", c.Scoring.PassThreshold)
	}
	if c.Scoring.TargetWeight < 0 {
		return fmt.Errorf("scoring.target_weight cannot be negative")
	}
	for name, w := range c.Scoring.DimensionWeights {
		if w < 0 {
			return fmt.Errorf("scoring.dimension_weights[%s] cannot be negative", name)
		}
	}
	if c.Survey.BreakReminderInterval < 0 {
		return fmt.Errorf("survey.break_reminder_interval cannot be negative")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}
