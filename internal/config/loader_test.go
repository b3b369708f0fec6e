package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/convsurvey/internal/scoring"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, scoring.DefaultThreshold, cfg.Scoring.PassThreshold)
	assert.Equal(t, 1.0, cfg.Scoring.TargetWeight)
	assert.Equal(t, 5, cfg.Survey.BreakReminderInterval)
	assert.Equal(t, 30*time.Minute, cfg.Survey.MaxSessionDuration.Duration())
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
scoring:
  pass_threshold: 0.6
  target_weight: 2.0
  dimension_weights:
    safety_compliance: 3.0
survey:
  break_reminder_interval: 10
  max_session_duration: 45m
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.6, cfg.Scoring.PassThreshold)
	assert.Equal(t, 2.0, cfg.Scoring.TargetWeight)
	assert.Equal(t, 3.0, cfg.Scoring.DimensionWeights["safety_compliance"])
	assert.Equal(t, 10, cfg.Survey.BreakReminderInterval)
	assert.Equal(t, 45*time.Minute, cfg.Survey.MaxSessionDuration.Duration())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scoring:\n  pass_threshold: 0.6\n"), 0o600))
	t.Setenv("CONVSURVEY_SCORING_PASS_THRESHOLD", "0.8")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.8, cfg.Scoring.PassThreshold)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scoring:\n  pass_threshold: 1.5\n"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "pass_threshold")
}

func TestScoringConfig_Weights(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Scoring.DimensionWeights["plan_coherence"] = 0.5

	w := cfg.Scoring.Weights()
	assert.Equal(t, 0.5, w.Dimension[scoring.DimPlanCoherence])
	assert.Equal(t, 1.0, w.Dimension[scoring.DimSafetyCompliance])
	assert.Equal(t, 1.0, w.Target)
}

func TestValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())

	cfg = NewDefaultConfig()
	cfg.Scoring.TargetWeight = -1
	assert.Error(t, cfg.Validate())

	cfg = NewDefaultConfig()
	cfg.Scoring.DimensionWeights["plan_coherence"] = -0.1
	assert.Error(t, cfg.Validate())
}
