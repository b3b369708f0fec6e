package table

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet names match the workbook layout produced by earlier versions of the
// survey; readers of either implementation can open the other's files.
const (
	SheetRatings  = "Human_Ratings"
	SheetMetadata = "Metadata"
)

// Workbook is a pair of relations persisted as a two-sheet xlsx file.
type Workbook struct {
	Ratings  *Relation
	Metadata *Relation
}

// Write encodes the workbook to w.
func (wb *Workbook) Write(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, SheetRatings, wb.Ratings); err != nil {
		return err
	}
	if err := writeSheet(f, SheetMetadata, wb.Metadata); err != nil {
		return err
	}
	// Drop excelize's default sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile encodes the workbook to the given path.
func (wb *Workbook) WriteFile(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, SheetRatings, wb.Ratings); err != nil {
		return err
	}
	if err := writeSheet(f, SheetMetadata, wb.Metadata); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, rel *Relation) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	header := make([]any, len(rel.Columns))
	for i, c := range rel.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header on %s: %w", name, err)
	}

	for i, row := range rel.Rows {
		values := make([]any, len(row))
		for j, cell := range row {
			switch cell.Kind() {
			case KindInt:
				v, _ := cell.AsInt()
				values[j] = v
			case KindFloat:
				v, _ := cell.AsFloat()
				values[j] = v
			case KindString:
				values[j] = cell.AsString()
			default:
				values[j] = nil // null stays an empty cell
			}
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell address: %w", err)
		}
		if err := f.SetSheetRow(name, addr, &values); err != nil {
			return fmt.Errorf("failed to write row %d on %s: %w", i+1, name, err)
		}
	}
	return nil
}

// Read decodes a workbook from r. Empty cells become nulls; every other
// cell is read back as a string cell (spreadsheets do not preserve the
// writer's type distinctions).
func Read(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return readSheets(f)
}

// ReadFile decodes a workbook from the given path.
func ReadFile(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return readSheets(f)
}

func readSheets(f *excelize.File) (*Workbook, error) {
	ratings, err := readSheet(f, SheetRatings)
	if err != nil {
		return nil, err
	}
	metadata, err := readSheet(f, SheetMetadata)
	if err != nil {
		return nil, err
	}
	return &Workbook{Ratings: ratings, Metadata: metadata}, nil
}

func readSheet(f *excelize.File, name string) (*Relation, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s has no header row", name)
	}

	rel := NewRelation(rows[0]...)
	for _, raw := range rows[1:] {
		cells := make([]Cell, len(rel.Columns))
		for i := range cells {
			// GetRows trims trailing empty cells, so rows can be short.
			if i >= len(raw) || raw[i] == "" {
				cells[i] = Null()
				continue
			}
			cells[i] = String(raw[i])
		}
		rel.Rows = append(rel.Rows, cells)
	}
	return rel, nil
}

// RatingsPath returns the workbook save path for a source folder and
// annotator: human_ratings_<annotator>.xlsx next to the conversation files.
// When the source is a "conversations" directory the file is placed in its
// parent, alongside the run's other artifacts.
func RatingsPath(sourceFolder, annotatorID string) string {
	name := fmt.Sprintf("human_ratings_%s.xlsx", sanitizeFilename(annotatorID))
	if sourceFolder == "" {
		return name
	}
	dir := sourceFolder
	if filepath.Base(dir) == "conversations" {
		dir = filepath.Dir(dir)
	}
	return filepath.Join(dir, name)
}

func sanitizeFilename(s string) string {
	if s == "" {
		return "anonymous"
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
