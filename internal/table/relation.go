package table

import (
	"fmt"
	"strconv"
	"strings"
)

// CellKind identifies the value stored in a Cell.
type CellKind int

const (
	KindNull CellKind = iota
	KindString
	KindInt
	KindFloat
)

// Cell is a single nullable value in a Relation. Null cells round-trip
// distinctly from zero values.
type Cell struct {
	kind CellKind
	str  string
	i    int64
	f    float64
}

// Null returns a null cell.
func Null() Cell { return Cell{kind: KindNull} }

// String returns a string cell.
func String(v string) Cell { return Cell{kind: KindString, str: v} }

// Int returns an integer cell.
func Int(v int) Cell { return Cell{kind: KindInt, i: int64(v)} }

// Float returns a float cell.
func Float(v float64) Cell { return Cell{kind: KindFloat, f: v} }

// Kind returns the cell's kind.
func (c Cell) Kind() CellKind { return c.kind }

// IsNull reports whether the cell holds no value.
func (c Cell) IsNull() bool { return c.kind == KindNull }

// AsString renders the cell value as a string. Null renders as "".
func (c Cell) AsString() string {
	switch c.kind {
	case KindString:
		return c.str
	case KindInt:
		return strconv.FormatInt(c.i, 10)
	case KindFloat:
		return strconv.FormatFloat(c.f, 'g', -1, 64)
	default:
		return ""
	}
}

// AsInt converts the cell to an int. String cells are parsed, float cells
// truncated toward zero. Returns an error for null or unparseable cells.
func (c Cell) AsInt() (int, error) {
	switch c.kind {
	case KindInt:
		return int(c.i), nil
	case KindFloat:
		return int(c.f), nil
	case KindString:
		s := strings.TrimSpace(c.str)
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return int(v), nil
		}
		// Spreadsheet readers frequently render integers as floats ("2.0").
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cell %q is not an integer", c.str)
		}
		return int(f), nil
	default:
		return 0, fmt.Errorf("cell is null")
	}
}

// AsFloat converts the cell to a float64. String cells are parsed.
func (c Cell) AsFloat() (float64, error) {
	switch c.kind {
	case KindFloat:
		return c.f, nil
	case KindInt:
		return float64(c.i), nil
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(c.str), 64)
		if err != nil {
			return 0, fmt.Errorf("cell %q is not a number", c.str)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cell is null")
	}
}

// Relation is an ordered set of named columns over rows of nullable cells.
// It is the interchange shape between the rating store and durable storage.
type Relation struct {
	Columns []string
	Rows    [][]Cell
}

// NewRelation creates an empty relation with the given column names.
func NewRelation(columns ...string) *Relation {
	return &Relation{Columns: columns}
}

// AppendRow adds a row. The cell count must match the column count.
func (r *Relation) AppendRow(cells ...Cell) error {
	if len(cells) != len(r.Columns) {
		return fmt.Errorf("row has %d cells, relation has %d columns", len(cells), len(r.Columns))
	}
	r.Rows = append(r.Rows, cells)
	return nil
}

// ColumnIndex returns the index of the named column, or -1 if absent.
func (r *Relation) ColumnIndex(name string) int {
	for i, c := range r.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the cell at the given row for the named column. Missing
// columns and out-of-range rows report a null cell and false.
func (r *Relation) Cell(row int, column string) (Cell, bool) {
	idx := r.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(r.Rows) {
		return Null(), false
	}
	cells := r.Rows[row]
	if idx >= len(cells) {
		return Null(), false
	}
	return cells[idx], true
}

// Len returns the number of rows.
func (r *Relation) Len() int { return len(r.Rows) }
