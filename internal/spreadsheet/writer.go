package spreadsheet

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/juliandevatbs/SRLIMS/internal/table"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

// Range is a 1 based, inclusive rectangle of cells.
type Range struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

func (r Range) valid() bool {
	return r.StartRow >= 1 && r.StartCol >= 1 && r.EndRow >= r.StartRow && r.EndCol >= r.StartCol
}

// Overlaps reports whether the two ranges share at least one cell.
func (r Range) Overlaps(o Range) bool {
	if !r.valid() || !o.valid() {
		return false
	}
	return r.StartRow <= o.EndRow && o.StartRow <= r.EndRow && r.StartCol <= o.EndCol && o.StartCol <= r.EndCol
}

// String returns the range in A1:B2 form.
func (r Range) String() string {
	start, err := excelize.CoordinatesToCellName(r.StartCol, r.StartRow)
	if err != nil {
		return fmt.Sprintf("(%d,%d):(%d,%d)", r.StartRow, r.StartCol, r.EndRow, r.EndCol)
	}
	end, err := excelize.CoordinatesToCellName(r.EndCol, r.EndRow)
	if err != nil {
		return fmt.Sprintf("(%d,%d):(%d,%d)", r.StartRow, r.StartCol, r.EndRow, r.EndCol)
	}
	return start + ":" + end
}

// Writer modifies .xlsx/.xlsm workbooks in place. Legacy .xls files are read
// only.
type Writer struct {
	fs  afero.Fs
	log logrus.FieldLogger
}

func NewWriter(fs afero.Fs, log logrus.FieldLogger) *Writer {
	return &Writer{fs: fs, log: log}
}

// Create writes a new single sheet workbook with a header row followed by
// rows. An existing file at path is replaced.
func (w *Writer) Create(path, sheet string, header []string, rows []table.Row) error {
	if strings.TrimSpace(path) == "" {
		return errors.Wrap(table.ErrInvalidInput, "workbook path is empty")
	}
	if isLegacyWorkbook(path) {
		return errors.Wrapf(table.ErrInvalidInput, "can't write legacy workbook %s", filepath.Base(path))
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return table.NewReadError(path, err)
	}

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}

	if err := pasteValues(f, sheet, 1, 1, append([]table.Row{headerRow}, rows...)); err != nil {
		return table.NewReadError(path, err)
	}

	return w.save(path, f)
}

// PasteValues writes rows into sheet starting at (startRow, startCol). Only
// values are written; styles of the target cells are left alone. Absent
// values clear the target cell.
func (w *Writer) PasteValues(path, sheet string, startRow, startCol int, rows []table.Row) error {
	if startRow < 1 || startCol < 1 {
		return errors.Wrapf(table.ErrInvalidInput, "paste target (%d, %d) is not 1 based", startRow, startCol)
	}

	f, name, err := w.open(path, sheet)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := pasteValues(f, name, startRow, startCol, rows); err != nil {
		return table.NewReadError(path, err)
	}

	return w.save(path, f)
}

// CopyRange copies the values and styles of src so that its top left cell
// lands on (targetRow, targetCol) of the same sheet.
func (w *Writer) CopyRange(path, sheet string, src Range, targetRow, targetCol int) error {
	if !src.valid() || targetRow < 1 || targetCol < 1 {
		return errors.Wrapf(table.ErrInvalidInput, "invalid copy %s -> (%d, %d)", src, targetRow, targetCol)
	}

	f, name, err := w.open(path, sheet)
	if err != nil {
		return err
	}
	defer f.Close()

	type copied struct {
		value table.Value
		style int
	}

	// Snapshot the source first so overlapping ranges copy correctly.
	converter := newCellConverter()
	var snapshot [][]copied
	for row := src.StartRow; row <= src.EndRow; row++ {
		var line []copied
		for col := src.StartCol; col <= src.EndCol; col++ {
			axis, _ := excelize.CoordinatesToCellName(col, row)
			c := copied{}
			if raw, err := f.GetCellValue(name, axis, excelize.Options{RawCellValue: true}); err == nil && raw != "" {
				cellType, _ := f.GetCellType(name, axis)
				c.value = converter.toValue(raw, cellType)
			}
			c.style, _ = f.GetCellStyle(name, axis)
			line = append(line, c)
		}
		snapshot = append(snapshot, line)
	}

	for i, line := range snapshot {
		for j, c := range line {
			axis, err := excelize.CoordinatesToCellName(targetCol+j, targetRow+i)
			if err != nil {
				return errors.Wrapf(table.ErrInvalidInput, "copy target out of range: %s", err)
			}
			if err := f.SetCellValue(name, axis, c.value); err != nil {
				return table.NewReadError(path, err)
			}
			if c.style != 0 {
				if err := f.SetCellStyle(name, axis, axis, c.style); err != nil {
					return table.NewReadError(path, err)
				}
			}
		}
	}

	return w.save(path, f)
}

// MergedCells returns the merged ranges of a sheet.
func (w *Writer) MergedCells(path, sheet string) ([]Range, error) {
	f, name, err := w.open(path, sheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	merged, err := f.GetMergeCells(name)
	if err != nil {
		return nil, table.NewReadError(path, err)
	}

	var ranges []Range
	for _, mc := range merged {
		startCol, startRow, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			continue
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			continue
		}
		ranges = append(ranges, Range{StartRow: startRow, StartCol: startCol, EndRow: endRow, EndCol: endCol})
	}

	return ranges, nil
}

func (w *Writer) open(path, sheet string) (*excelize.File, string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, "", errors.Wrap(table.ErrInvalidInput, "workbook path is empty")
	}
	if isLegacyWorkbook(path) {
		return nil, "", errors.Wrapf(table.ErrInvalidInput, "can't write legacy workbook %s", filepath.Base(path))
	}

	file, err := w.fs.Open(path)
	switch {
	case err != nil && errors.Is(err, afero.ErrFileNotFound):
		return nil, "", errors.Wrapf(table.ErrNotFound, "workbook %s", path)
	case err != nil:
		return nil, "", table.NewReadError(path, err)
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, "", table.NewReadError(path, err)
	}

	book := &xlsxBook{f: f}
	name, err := resolveSheet(book, Locator{Path: path, Sheet: sheet})
	if err != nil {
		f.Close()
		return nil, "", err
	}

	return f, name, nil
}

func (w *Writer) save(path string, f *excelize.File) error {
	out, err := w.fs.Create(path)
	if err != nil {
		return table.NewReadError(path, err)
	}
	defer out.Close()

	if _, err := f.WriteTo(out); err != nil {
		return table.NewReadError(path, err)
	}

	w.log.WithField("source", filepath.Base(path)).Debug("saved workbook")
	return nil
}

func pasteValues(f *excelize.File, sheet string, startRow, startCol int, rows []table.Row) error {
	for i, row := range rows {
		for j, v := range row {
			axis, err := excelize.CoordinatesToCellName(startCol+j, startRow+i)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, axis, v); err != nil {
				return err
			}
		}
	}
	return nil
}
