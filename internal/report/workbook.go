package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/juliandevatbs/SRLIMS/internal/model"
	"github.com/juliandevatbs/SRLIMS/internal/shape"
	"github.com/juliandevatbs/SRLIMS/internal/spreadsheet"
	"github.com/juliandevatbs/SRLIMS/internal/store"
	"github.com/juliandevatbs/SRLIMS/internal/table"
)

// Dataset is one extraction: the shaped custody and matrix tables plus the
// source they came from.
type Dataset struct {
	Source  string
	Custody *table.Table
	Matrix  *table.Table
}

// RowReader reads rectangular ranges out of workbooks.
type RowReader interface {
	ReadRows(loc spreadsheet.Locator, startRow int, columns []int, maxRows int) (*table.Table, error)
	Sheets(path string) ([]string, error)
}

// BatchReader loads a lab reporting batch from the database.
type BatchReader interface {
	ReadBatch(ctx context.Context, batchID string) (*store.Batch, error)
}

// Loader builds datasets from workbooks laid out as Layout describes, or from
// a database batch.
type Loader struct {
	rows   RowReader
	layout Layout
	log    logrus.FieldLogger
}

func NewLoader(rows RowReader, layout Layout, log logrus.FieldLogger) *Loader {
	return &Loader{rows: rows, layout: layout, log: log}
}

// ReadWorkbook reads the chain of custody sheet and every matrix sheet of the
// workbook at path. A matrix sheet that cannot be read fails the whole read;
// all of the failing sheets are reported together. A workbook where both the
// custody and matrix ranges are empty is table.ErrNotFound.
func (l *Loader) ReadWorkbook(path string) (*Dataset, error) {
	if err := l.layout.Validate(); err != nil {
		return nil, errors.Wrap(table.ErrInvalidInput, err.Error())
	}

	custody, err := l.readCustody(path)
	if err != nil {
		return nil, err
	}

	var (
		analytes []shape.AnalyteTable
		savedErr *multierror.Error
	)

	// Loop through all the analyte sheets so every missing or broken sheet is
	// reported back in one go.
	for _, sheet := range l.layout.MatrixSheets {
		rows, err := l.readMatrixSheet(path, sheet)
		if err != nil {
			savedErr = multierror.Append(savedErr, err)
			continue
		}
		analytes = append(analytes, shape.AnalyteTable{Analyte: model.ParseAnalyte(sheet), Rows: rows})
	}

	if err := savedErr.ErrorOrNil(); err != nil {
		return nil, err
	}

	ds := &Dataset{
		Source:  path,
		Custody: shape.Custody(custody),
		Matrix:  shape.Matrix(shape.WorkbookMatrixColumns, analytes),
	}

	if ds.Custody.Len() == 0 && ds.Matrix.Len() == 0 {
		return nil, errors.Wrapf(table.ErrNotFound, "no custody or matrix rows in %s", path)
	}

	l.log.WithFields(logrus.Fields{
		"source":  path,
		"custody": ds.Custody.Len(),
		"matrix":  ds.Matrix.Len(),
	}).Info("workbook read")

	return ds, nil
}

// ReadBatch builds a dataset from a lab reporting batch.
func ReadBatch(ctx context.Context, batches BatchReader, batchID string, log logrus.FieldLogger) (*Dataset, error) {
	batch, err := batches.ReadBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		Source:  fmt.Sprintf("batch %s", batch.ID),
		Custody: shape.Custody(batch.Custody),
		Matrix:  shape.Matrix(shape.DatabaseMatrixColumns, batch.Analytes),
	}

	log.WithFields(logrus.Fields{
		"batch":   batch.ID,
		"custody": ds.Custody.Len(),
		"matrix":  ds.Matrix.Len(),
	}).Info("batch read")

	return ds, nil
}

func (l *Loader) readCustody(path string) (*table.Table, error) {
	loc := spreadsheet.Locator{Path: path, Sheet: l.layout.CustodySheet}
	return l.rows.ReadRows(loc, l.layout.CustodyStartRow, l.layout.CustodyColumns, l.layout.CustodyMaxRows)
}

func (l *Loader) readMatrixSheet(path, sheet string) (*table.Table, error) {
	loc := spreadsheet.Locator{Path: path, Sheet: sheet}
	rows, err := l.rows.ReadRows(loc, l.layout.MatrixStartRow, l.layout.MatrixColumns, l.layout.MatrixMaxRows)
	if err != nil {
		return nil, errors.WithMessagef(err, "matrix sheet '%s'", sheet)
	}
	return rows, nil
}

// Check reads the workbook the same way ReadWorkbook does and reports every
// problem it finds instead of stopping at the first one:
//   - layout problems and sheets that cannot be read
//   - custody rows without a sample identification
//   - custody samples listed more than once
//   - matrix rows whose sample has no custody row
func (l *Loader) Check(path string) error {
	var errs *multierror.Error

	if err := l.layout.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}

	custody, err := l.readCustody(path)
	if err != nil {
		// Without the custody sheet there is nothing to check matrix rows against.
		return multierror.Append(errs, err)
	}
	shapedCustody := shape.Custody(custody)

	present, err := l.rows.Sheets(path)
	if err != nil {
		return multierror.Append(errs, err)
	}

	var analytes []shape.AnalyteTable
	for _, sheet := range l.layout.MatrixSheets {
		if !hasSheet(present, sheet) {
			e := fmt.Errorf("matrix sheet '%s' not found, workbook has: %s", sheet, strings.Join(present, ", "))
			errs = multierror.Append(errs, e)
			continue
		}

		rows, err := l.readMatrixSheet(path, sheet)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		analytes = append(analytes, shape.AnalyteTable{Analyte: model.ParseAnalyte(sheet), Rows: rows})
	}

	if err := validateCustody(shapedCustody); err != nil {
		errs = multierror.Append(errs, err)
	}

	known := knownSamples(shapedCustody)
	for _, a := range analytes {
		matrix := shape.Matrix(shape.WorkbookMatrixColumns, []shape.AnalyteTable{a})
		if err := validateMatrixSamples(known, a.Analyte.Sheet, matrix); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	return errs.ErrorOrNil()
}

func hasSheet(sheets []string, sheet string) bool {
	for _, s := range sheets {
		if strings.EqualFold(s, sheet) {
			return true
		}
	}
	return false
}

// validateCustody checks that every custody row names its sample once.
func validateCustody(custody *table.Table) error {
	var foundErrors *multierror.Error
	seen := make(map[string]int)

	for i, row := range custody.Rows {
		id := table.String(row[model.SampleIDColumn])
		if isBlank(id) {
			e := fmt.Errorf("chain of custody item '%s' has no sample identification", table.String(row[model.ItemIDColumn]))
			foundErrors = multierror.Append(foundErrors, e)
			continue
		}

		if first, ok := seen[id]; ok {
			e := fmt.Errorf("sample '%s' is listed more than once in the chain of custody (entries %d and %d)", id, first+1, i+1)
			foundErrors = multierror.Append(foundErrors, e)
			continue
		}
		seen[id] = i
	}

	return foundErrors.ErrorOrNil()
}

// validateMatrixSamples checks that every result row on an analyte sheet
// belongs to a sample on the chain of custody.
func validateMatrixSamples(known map[string]bool, sheet string, matrix *table.Table) error {
	var foundErrors *multierror.Error

	for _, row := range matrix.Rows {
		id := table.String(row[shape.MatrixSampleIDColumn])
		if isBlank(id) {
			continue
		}

		if !known[id] {
			e := fmt.Errorf("sample '%s' on sheet '%s' is not on the chain of custody", id, sheet)
			foundErrors = multierror.Append(foundErrors, e)
		}
	}

	return foundErrors.ErrorOrNil()
}

// knownSamples creates a map of [Sample Identification] => true
func knownSamples(custody *table.Table) map[string]bool {
	known := make(map[string]bool)
	for _, row := range custody.Rows {
		known[table.String(row[model.SampleIDColumn])] = true
	}
	return known
}
