package table

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureWorkbook(t *testing.T) *Workbook {
	t.Helper()
	ratings := NewRelation("conversation_id", "score", "note")
	require.NoError(t, ratings.AppendRow(String("conv_001"), Int(2), Null()))
	require.NoError(t, ratings.AppendRow(String("conv_002"), Null(), String("skipped")))

	metadata := NewRelation("annotator_id", "pass_threshold")
	require.NoError(t, metadata.AppendRow(String("rater-1"), Float(0.75)))

	return &Workbook{Ratings: ratings, Metadata: metadata}
}

func TestWorkbook_RoundTripPreservesNulls(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, fixtureWorkbook(t).Write(&buf))

	wb, err := Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"conversation_id", "score", "note"}, wb.Ratings.Columns)
	require.Equal(t, 2, wb.Ratings.Len())

	cell, ok := wb.Ratings.Cell(0, "score")
	require.True(t, ok)
	v, err := cell.AsInt()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	// Null cells stay null, including a trailing null the sheet trims.
	cell, ok = wb.Ratings.Cell(0, "note")
	require.True(t, ok)
	assert.True(t, cell.IsNull())

	cell, ok = wb.Ratings.Cell(1, "score")
	require.True(t, ok)
	assert.True(t, cell.IsNull())

	cell, ok = wb.Metadata.Cell(0, "pass_threshold")
	require.True(t, ok)
	f, err := cell.AsFloat()
	require.NoError(t, err)
	assert.InDelta(t, 0.75, f, 1e-9)
}

func TestWorkbook_FileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "human_ratings_rater-1.xlsx")
	require.NoError(t, fixtureWorkbook(t).WriteFile(path))

	wb, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, wb.Ratings.Len())
	assert.Equal(t, 1, wb.Metadata.Len())
}

func TestRead_MissingSheetFails(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}

func TestCell_Conversions(t *testing.T) {
	v, err := String(" 3 ").AsInt()
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = String("2.0").AsInt()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = String("abc").AsInt()
	assert.Error(t, err)

	f, err := String("0.95").AsFloat()
	require.NoError(t, err)
	assert.InDelta(t, 0.95, f, 1e-12)

	_, err = Null().AsInt()
	assert.Error(t, err)
	assert.Equal(t, "", Null().AsString())
	assert.Equal(t, "0.95", Float(0.95).AsString())
}

func TestRelation_AppendRowChecksArity(t *testing.T) {
	rel := NewRelation("a", "b")
	assert.Error(t, rel.AppendRow(String("only one")))
	assert.NoError(t, rel.AppendRow(String("x"), String("y")))
}

func TestRatingsPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("/data/batch_1", "human_ratings_rater-1.xlsx"),
		RatingsPath("/data/batch_1/conversations", "rater-1"))
	assert.Equal(t,
		filepath.Join("/data/batch_1", "human_ratings_J_Doe_QA.xlsx"),
		RatingsPath("/data/batch_1", "J Doe/QA"))
	assert.Equal(t, "human_ratings_anonymous.xlsx", RatingsPath("", ""))
}
