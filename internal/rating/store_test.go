package rating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/convsurvey/internal/scoring"
)

func sample(conversationID string, score float64) Rating {
	r := Rating{
		ConversationID: conversationID,
		AnnotatorID:    "rater-1",
		Timestamp:      time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Scores: map[scoring.Dimension]int{
			scoring.DimInstructionConstraintAdherence: 2,
			scoring.DimSafetyCompliance:               1,
		},
		TargetStatuses: map[string]int{"play jazz": 1, "navigate home": 0},
		OverallScore:   score,
		PassFail:       scoring.Fail,
	}
	r.RecountTargets()
	return r
}

func TestStore_UpsertMarksDone(t *testing.T) {
	s := NewStore()
	assert.False(t, s.IsDone("conv_001"))

	s.Upsert("conv_001", sample("conv_001", 0.5))

	assert.True(t, s.IsDone("conv_001"))
	assert.Equal(t, 1, s.DoneCount())

	got, ok := s.Get("conv_001")
	require.True(t, ok)
	assert.Equal(t, "conv_001", got.ConversationID)
}

func TestStore_UpsertIsLastWriteWins(t *testing.T) {
	s := NewStore()
	s.Upsert("conv_001", sample("conv_001", 0.5))
	s.Upsert("conv_001", sample("conv_001", 0.9))

	got, ok := s.Get("conv_001")
	require.True(t, ok)
	assert.Equal(t, 0.9, got.OverallScore)
	assert.Equal(t, 1, s.DoneCount(), "re-submission must not inflate the done count")
	assert.Equal(t, 1, s.Len())
}

func TestStore_DoneImpliesRetrievableRating(t *testing.T) {
	s := NewStore()
	s.Upsert("a", sample("a", 0.1))
	s.Upsert("b", sample("b", 0.2))

	for _, id := range s.IDs() {
		require.True(t, s.IsDone(id))
		_, ok := s.Get(id)
		require.True(t, ok)
	}
	assert.Equal(t, s.Len(), s.DoneCount())
}

func TestStore_IDsAreSorted(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		s.Upsert(id, sample(id, 0.5))
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, s.IDs())
}

func TestStore_Reset(t *testing.T) {
	s := NewStore()
	s.Upsert("conv_001", sample("conv_001", 0.5))
	s.Reset()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.DoneCount())
	assert.False(t, s.IsDone("conv_001"))
	_, ok := s.Get("conv_001")
	assert.False(t, ok)
}

func TestRating_RecountTargets(t *testing.T) {
	r := Rating{TargetStatuses: map[string]int{"a": 1, "b": 0, "c": 1}}
	r.RecountTargets()
	assert.Equal(t, 2, r.TargetsCompleted)
	assert.Equal(t, 3, r.TargetsIntroduced)

	r.TargetStatuses = nil
	r.RecountTargets()
	assert.Equal(t, 0, r.TargetsCompleted)
	assert.Equal(t, 0, r.TargetsIntroduced)
}
