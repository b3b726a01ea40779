// Package export writes the samples flagged for inclusion to a new workbook
// or CSV file.
package export

import (
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"github.com/juliandevatbs/SRLIMS/internal/spreadsheet"
	"github.com/juliandevatbs/SRLIMS/internal/table"
)

// SheetName is the worksheet written to exported workbooks.
const SheetName = "Selected Samples"

type Exporter struct {
	fs  afero.Fs
	out *spreadsheet.Writer
	log logrus.FieldLogger
}

func New(fs afero.Fs, log logrus.FieldLogger) *Exporter {
	return &Exporter{fs: fs, out: spreadsheet.NewWriter(fs, log), log: log}
}

// Write saves selected to path. The format follows the extension: .csv, or
// .xlsx/.xlsm for a workbook. An existing file is replaced.
func (e *Exporter) Write(path string, selected *table.Table) error {
	if strings.TrimSpace(path) == "" {
		return errors.Wrap(table.ErrInvalidInput, "no output path")
	}

	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		err = e.writeCSV(path, selected)
	case ".xlsx", ".xlsm":
		err = e.out.Create(path, SheetName, selected.Header, selected.Rows)
	default:
		return errors.Wrapf(table.ErrInvalidInput, "cannot export to '%s' files", ext)
	}

	if err != nil {
		return err
	}

	e.log.WithFields(logrus.Fields{"source": path, "rows": selected.Len()}).Info("exported selected samples")
	return nil
}

// Paste writes the rows of selected, without the header, into sheet of the
// existing workbook at path with the first value at cell axis, for example
// B15 of a report template. The row at axis is the template row: every
// pasted row below it takes its cell styles. A target block that overlaps
// merged cells is refused.
func (e *Exporter) Paste(path, sheet, axis string, selected *table.Table) error {
	col, row, err := excelize.CellNameToCoordinates(axis)
	if err != nil {
		return errors.Wrapf(table.ErrInvalidInput, "bad target cell '%s'", axis)
	}

	target := spreadsheet.Range{
		StartRow: row,
		StartCol: col,
		EndRow:   row + selected.Len() - 1,
		EndCol:   col + selected.Width() - 1,
	}

	merged, err := e.out.MergedCells(path, sheet)
	if err != nil {
		return err
	}
	for _, m := range merged {
		if m.Overlaps(target) {
			return errors.Wrapf(table.ErrInvalidInput, "paste target %s overlaps merged cells %s", target, m)
		}
	}

	templateRow := spreadsheet.Range{StartRow: row, StartCol: col, EndRow: row, EndCol: target.EndCol}
	for r := row + 1; r <= target.EndRow; r++ {
		if err := e.out.CopyRange(path, sheet, templateRow, r, col); err != nil {
			return err
		}
	}

	if err := e.out.PasteValues(path, sheet, row, col, selected.Rows); err != nil {
		return err
	}

	e.log.WithFields(logrus.Fields{"source": path, "sheet": sheet, "rows": selected.Len()}).Info("pasted selected samples")
	return nil
}

func (e *Exporter) writeCSV(path string, selected *table.Table) error {
	f, err := e.fs.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", path)
	}
	defer f.Close()

	records := make([][]string, 0, selected.Len()+1)
	records = append(records, selected.Header)
	for _, row := range selected.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = table.String(v)
		}
		records = append(records, record)
	}

	w := gocsv.DefaultCSVWriter(f)
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()

	if err := w.Error(); err != nil {
		return err
	}

	return f.Close()
}
