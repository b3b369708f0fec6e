package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/convsurvey/internal/rating"
	"github.com/fyrsmithlabs/convsurvey/internal/scoring"
	"github.com/fyrsmithlabs/convsurvey/internal/table"
)

// Result reports a successful reconciliation.
type Result struct {
	// Store holds the reconstructed ratings, keyed by conversation ID.
	Store *rating.Store

	// Matched counts imported rows attached to loaded conversations.
	Matched int

	// Unmatched lists conversation IDs from the import that are not in
	// the loaded set. Non-empty Unmatched with Matched > 0 is a warning,
	// not a failure; the conversations may have been re-sourced from a
	// different folder slice.
	Unmatched []string
}

// Reconcile rebuilds a rating store from a previously exported pair of
// relations, attaching rows to the currently loaded conversations.
//
// Preconditions are checked in order: conversations must be loaded, the
// current annotator must be declared, the metadata relation must have a row,
// and the file's annotator (when recorded) must match the current one.
// After that the process is row-independent and tolerant: rows for unknown
// conversations are skipped and reported, unparseable cells degrade to
// absent values, and only a wholly unmatched import fails (ErrNoMatch).
//
// The returned store is freshly built; reconciliation never merges into an
// existing store, so a failed call leaves the caller's state untouched.
func Reconcile(loadedIDs map[string]struct{}, currentAnnotatorID string, ratings, metadata *table.Relation) (*Result, error) {
	if len(loadedIDs) == 0 {
		return nil, fmt.Errorf("%w: load conversations before importing", ErrPrecondition)
	}

	currentAnnotatorID = strings.TrimSpace(currentAnnotatorID)
	if currentAnnotatorID == "" {
		return nil, fmt.Errorf("%w: annotator id required", ErrPrecondition)
	}

	if metadata == nil || metadata.Len() == 0 {
		return nil, fmt.Errorf("%w: metadata has no rows", ErrMalformedImport)
	}
	// More than one metadata row: take the first. Older exporters only
	// ever wrote one; extra rows are noise, not corruption.
	importedAnnotator := ""
	if cell, ok := metadata.Cell(0, MetaAnnotatorID); ok && !cell.IsNull() {
		importedAnnotator = strings.TrimSpace(cell.AsString())
	}
	if importedAnnotator != "" && importedAnnotator != currentAnnotatorID {
		return nil, &IdentityMismatchError{ImportedID: importedAnnotator, CurrentID: currentAnnotatorID}
	}

	store := rating.NewStore()
	result := &Result{Store: store}

	if ratings != nil {
		for row := 0; row < ratings.Len(); row++ {
			id := stringAt(ratings, row, ColConversationID)
			if _, ok := loadedIDs[id]; !ok {
				result.Unmatched = append(result.Unmatched, id)
				continue
			}
			store.Upsert(id, rowToRating(ratings, row, id))
			result.Matched++
		}
	}

	if result.Matched == 0 {
		return nil, ErrNoMatch
	}
	return result, nil
}

// rowToRating reconstructs a rating from one imported row. Cell-level
// problems are absorbed: missing dimensions stay absent, an unparseable
// target payload becomes an empty mapping, bad numbers default to zero.
func rowToRating(rel *table.Relation, row int, id string) rating.Rating {
	r := rating.Rating{
		ConversationID: id,
		AnnotatorID:    stringAt(rel, row, ColAnnotatorID),
		SeedPhrase:     stringAt(rel, row, ColSeedPhrase),
		Scores:         make(map[scoring.Dimension]int),
		TargetStatuses: map[string]int{},
	}

	if ts, err := time.Parse(time.RFC3339, stringAt(rel, row, ColTimestamp)); err == nil {
		r.Timestamp = ts
	}

	for _, d := range scoring.Dimensions() {
		cell, ok := rel.Cell(row, DimColumn(d))
		if !ok || cell.IsNull() {
			continue
		}
		if v, err := cell.AsInt(); err == nil {
			r.Scores[d] = v
		}
	}

	if payload := stringAt(rel, row, ColTargetStatusesJSON); payload != "" {
		var statuses map[string]int
		if err := json.Unmarshal([]byte(payload), &statuses); err == nil && statuses != nil {
			r.TargetStatuses = statuses
		}
	}

	r.TargetsCompleted = intAt(rel, row, ColTargetsCompleted)
	r.TargetsIntroduced = intAt(rel, row, ColTargetsIntroduced)

	if cell, ok := rel.Cell(row, ColOverallScore); ok && !cell.IsNull() {
		if v, err := cell.AsFloat(); err == nil {
			r.OverallScore = v
		}
	}
	r.PassFail = scoring.Outcome(stringAt(rel, row, ColPassFail))

	return r
}

func stringAt(rel *table.Relation, row int, column string) string {
	cell, ok := rel.Cell(row, column)
	if !ok {
		return ""
	}
	return cell.AsString()
}

func intAt(rel *table.Relation, row int, column string) int {
	cell, ok := rel.Cell(row, column)
	if !ok || cell.IsNull() {
		return 0
	}
	v, err := cell.AsInt()
	if err != nil {
		return 0
	}
	return v
}
