package tui

import (
	"sort"

	"github.com/fyrsmithlabs/convsurvey/internal/conversation"
	"github.com/fyrsmithlabs/convsurvey/internal/rating"
	"github.com/fyrsmithlabs/convsurvey/internal/scoring"
)

// ratingForm is the editable state of the rating screen: dimension scores
// and target completion toggles for one conversation. Fields are laid out
// as dimensions first, then targets in sorted order; focus is an index into
// that sequence.
type ratingForm struct {
	conv       conversation.Conversation
	defs       []scoring.Definition
	targets    []string
	scores     map[scoring.Dimension]int
	statuses   map[string]int
	focus      int
	showRubric bool
}

// newRatingForm builds the form for a conversation, pre-filling it from an
// existing rating when the conversation was rated before. Every target
// starts at 0 (not completed); there is no unset state for targets.
func newRatingForm(conv conversation.Conversation, existing rating.Rating) ratingForm {
	targets := make([]string, 0, len(conv.Targets))
	for desc := range conv.Targets {
		targets = append(targets, desc)
	}
	sort.Strings(targets)

	scores := make(map[scoring.Dimension]int)
	statuses := make(map[string]int, len(targets))
	for _, desc := range targets {
		statuses[desc] = 0
	}

	for d, v := range existing.Scores {
		scores[d] = v
	}
	for desc, status := range existing.TargetStatuses {
		// Only targets of the loaded conversation survive; anything else in
		// an imported rating row is stale.
		if _, ok := statuses[desc]; ok {
			statuses[desc] = status
		}
	}

	return ratingForm{
		conv:     conv,
		defs:     scoring.Definitions(),
		targets:  targets,
		scores:   scores,
		statuses: statuses,
	}
}

func (f *ratingForm) fieldCount() int {
	return len(f.defs) + len(f.targets)
}

func (f *ratingForm) next() {
	if n := f.fieldCount(); n > 0 {
		f.focus = (f.focus + 1) % n
	}
}

func (f *ratingForm) prev() {
	if n := f.fieldCount(); n > 0 {
		f.focus = (f.focus - 1 + n) % n
	}
}

// focusedDef returns the dimension definition under focus, if any.
func (f *ratingForm) focusedDef() (scoring.Definition, bool) {
	if f.focus < len(f.defs) {
		return f.defs[f.focus], true
	}
	return scoring.Definition{}, false
}

// setScore applies a 0-2 score to the focused dimension and advances focus.
// A no-op when a target row is focused.
func (f *ratingForm) setScore(v int) {
	def, ok := f.focusedDef()
	if !ok || v < scoring.MinDimensionScore || v > scoring.MaxDimensionScore {
		return
	}
	f.scores[def.Dimension] = v
	f.next()
}

// toggleTarget flips the focused target between completed and not. A no-op
// when a dimension row is focused.
func (f *ratingForm) toggleTarget() {
	i := f.focus - len(f.defs)
	if i < 0 || i >= len(f.targets) {
		return
	}
	desc := f.targets[i]
	f.statuses[desc] = 1 - f.statuses[desc]
}

// complete reports whether every dimension has a score.
func (f *ratingForm) complete() bool {
	for _, def := range f.defs {
		if _, ok := f.scores[def.Dimension]; !ok {
			return false
		}
	}
	return true
}
