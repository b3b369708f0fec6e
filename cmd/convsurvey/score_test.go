package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/convsurvey/internal/scoring"
)

func TestParseScores_FullSet(t *testing.T) {
	scores, err := parseScores("2,1,0,2")
	require.NoError(t, err)

	assert.Equal(t, map[scoring.Dimension]int{
		scoring.DimInstructionConstraintAdherence: 2,
		scoring.DimContextAmbiguityHandling:       1,
		scoring.DimPlanCoherence:                  0,
		scoring.DimSafetyCompliance:               2,
	}, scores)
}

func TestParseScores_PartialAndGaps(t *testing.T) {
	scores, err := parseScores("2,,1")
	require.NoError(t, err)

	assert.Len(t, scores, 2)
	assert.Equal(t, 2, scores[scoring.DimInstructionConstraintAdherence])
	assert.Equal(t, 1, scores[scoring.DimPlanCoherence])
	_, ok := scores[scoring.DimContextAmbiguityHandling]
	assert.False(t, ok)
}

func TestParseScores_Invalid(t *testing.T) {
	_, err := parseScores("2,1,2,3")
	assert.Error(t, err, "scores above 2 are rejected")

	_, err = parseScores("a,1")
	assert.Error(t, err)

	_, err = parseScores("1,1,1,1,1")
	assert.Error(t, err, "more scores than dimensions")
}
