package export

import (
	"encoding/json"
	"time"

	"github.com/fyrsmithlabs/convsurvey/internal/rating"
	"github.com/fyrsmithlabs/convsurvey/internal/scoring"
	"github.com/fyrsmithlabs/convsurvey/internal/table"
)

// Fixed column names of the ratings relation. Order is not contractual but
// kept stable so diffs between exports stay readable.
const (
	ColConversationID     = "conversation_id"
	ColAnnotatorID        = "annotator_id"
	ColTimestamp          = "timestamp"
	ColSeedPhrase         = "seed_phrase"
	ColTargetsCompleted   = "targets_completed"
	ColTargetsIntroduced  = "targets_introduced"
	ColTargetStatusesJSON = "target_statuses_json"
	ColOverallScore       = "overall_score"
	ColPassFail           = "pass_fail"
)

// Metadata relation column names.
const (
	MetaExportTimestamp    = "export_timestamp"
	MetaTotalConversations = "total_conversations"
	MetaTotalRated         = "total_rated"
	MetaAnnotatorID        = "annotator_id"
	MetaSourceFolder       = "source_folder"
	MetaPassThreshold      = "pass_threshold"
	MetaTargetWeight       = "target_weight"
	MetaDimensionWeights   = "dimension_weights"
)

// DimColumn returns the ratings-relation column name for a dimension.
func DimColumn(d scoring.Dimension) string {
	return "dim_" + string(d)
}

// RatingColumns returns the full ratings-relation column set in export
// order.
func RatingColumns() []string {
	cols := []string{ColConversationID, ColAnnotatorID, ColTimestamp, ColSeedPhrase}
	for _, d := range scoring.Dimensions() {
		cols = append(cols, DimColumn(d))
	}
	return append(cols,
		ColTargetsCompleted,
		ColTargetsIntroduced,
		ColTargetStatusesJSON,
		ColOverallScore,
		ColPassFail,
	)
}

// MetadataColumns returns the metadata-relation column set.
func MetadataColumns() []string {
	return []string{
		MetaExportTimestamp,
		MetaTotalConversations,
		MetaTotalRated,
		MetaAnnotatorID,
		MetaSourceFolder,
		MetaPassThreshold,
		MetaTargetWeight,
		MetaDimensionWeights,
	}
}

// Snapshot is everything the serializer needs from a session: the rating
// store plus the configuration recorded for audit.
type Snapshot struct {
	Store              *rating.Store
	AnnotatorID        string
	SourceFolder       string
	TotalConversations int
	Threshold          float64
	Weights            scoring.Weights
	ExportedAt         time.Time
}

// Export flattens the snapshot into the ratings and metadata relations.
// Rows are emitted in sorted conversation-ID order, so two exports of the
// same store are row-for-row identical modulo the export timestamp.
func Export(snap Snapshot) (*table.Workbook, error) {
	ratings := table.NewRelation(RatingColumns()...)

	for _, id := range snap.Store.IDs() {
		r, _ := snap.Store.Get(id)

		statuses, err := json.Marshal(targetStatusesOrEmpty(r))
		if err != nil {
			return nil, err
		}

		cells := []table.Cell{
			table.String(r.ConversationID),
			table.String(r.AnnotatorID),
			table.String(r.Timestamp.Format(time.RFC3339)),
			table.String(r.SeedPhrase),
		}
		for _, d := range scoring.Dimensions() {
			if score, ok := r.Scores[d]; ok {
				cells = append(cells, table.Int(score))
			} else {
				// Absent dimension stays null; 0 is a real judgment.
				cells = append(cells, table.Null())
			}
		}
		cells = append(cells,
			table.Int(r.TargetsCompleted),
			table.Int(r.TargetsIntroduced),
			table.String(string(statuses)),
			table.Float(r.OverallScore),
			table.String(string(r.PassFail)),
		)
		if err := ratings.AppendRow(cells...); err != nil {
			return nil, err
		}
	}

	weights, err := json.Marshal(dimensionWeights(snap.Weights))
	if err != nil {
		return nil, err
	}

	metadata := table.NewRelation(MetadataColumns()...)
	if err := metadata.AppendRow(
		table.String(snap.ExportedAt.Format(time.RFC3339)),
		table.Int(snap.TotalConversations),
		table.Int(snap.Store.DoneCount()),
		table.String(snap.AnnotatorID),
		table.String(snap.SourceFolder),
		table.Float(snap.Threshold),
		table.Float(snap.Weights.Target),
		table.String(string(weights)),
	); err != nil {
		return nil, err
	}

	return &table.Workbook{Ratings: ratings, Metadata: metadata}, nil
}

func targetStatusesOrEmpty(r rating.Rating) map[string]int {
	if r.TargetStatuses == nil {
		return map[string]int{}
	}
	return r.TargetStatuses
}

func dimensionWeights(w scoring.Weights) map[scoring.Dimension]float64 {
	out := make(map[scoring.Dimension]float64, len(scoring.Dimensions()))
	for _, d := range scoring.Dimensions() {
		if w.Dimension != nil {
			if v, ok := w.Dimension[d]; ok {
				out[d] = v
				continue
			}
		}
		out[d] = 1.0
	}
	return out
}
