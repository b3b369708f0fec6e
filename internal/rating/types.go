package rating

import (
	"time"

	"github.com/fyrsmithlabs/convsurvey/internal/scoring"
)

// Rating is one annotator's complete judgment of one conversation. It is
// the unit of work: created or overwritten whenever a rater submits the
// form, superseded in place on re-submission (last write wins, no history).
type Rating struct {
	// ConversationID identifies the rated conversation within the loaded set.
	ConversationID string `json:"conversation_id"`

	// AnnotatorID is the self-declared identity of the rater.
	AnnotatorID string `json:"annotator_id"`

	// Timestamp records when the rating was submitted.
	Timestamp time.Time `json:"timestamp"`

	// SeedPhrase is the conversation's scenario label, denormalized for
	// export so the workbook is readable standalone.
	SeedPhrase string `json:"seed_phrase"`

	// Scores holds the 0-2 judgment per dimension. Dimensions the rater
	// did not score are absent, not zero.
	Scores map[scoring.Dimension]int `json:"scores"`

	// TargetStatuses maps each target description to its completion flag
	// (0 incomplete, 1 complete).
	TargetStatuses map[string]int `json:"target_statuses"`

	// TargetsCompleted and TargetsIntroduced are derivable from
	// TargetStatuses but stored for audit.
	TargetsCompleted  int `json:"targets_completed"`
	TargetsIntroduced int `json:"targets_introduced"`

	// OverallScore is always recomputed from the inputs above, never
	// hand-edited.
	OverallScore float64 `json:"overall_score"`

	// PassFail is the label derived from OverallScore and the session
	// threshold at submission time.
	PassFail scoring.Outcome `json:"pass_fail"`
}

// RecountTargets recomputes the audit counts from TargetStatuses.
func (r *Rating) RecountTargets() {
	completed := 0
	for _, status := range r.TargetStatuses {
		if status == 1 {
			completed++
		}
	}
	r.TargetsCompleted = completed
	r.TargetsIntroduced = len(r.TargetStatuses)
}
