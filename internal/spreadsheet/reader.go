package spreadsheet

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/juliandevatbs/SRLIMS/internal/table"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

// Locator identifies a worksheet in a workbook file. When Sheet is set the
// sheet is looked up by name ignoring case, otherwise Index (0 based) is used.
type Locator struct {
	Path  string
	Sheet string
	Index int
}

func (l Locator) String() string {
	if l.Sheet != "" {
		return filepath.Base(l.Path) + "!" + l.Sheet
	}
	return filepath.Base(l.Path) + "!#" + strconv.Itoa(l.Index)
}

// workbook is the part of a spreadsheet library the reader needs. There is one
// implementation for the OOXML formats (excelize) and one for legacy .xls.
type workbook interface {
	sheets() []string
	sheet(name string) (worksheet, error)
	Close() error
}

// worksheet gives 1 based access to cells. lastRow is the last populated row.
type worksheet interface {
	lastRow() int
	cell(row, col int) (table.Value, error)
}

// Reader reads rectangular cell ranges out of workbooks.
type Reader struct {
	fs  afero.Fs
	log logrus.FieldLogger
}

// NewReader creates a reader that opens files through fs.
func NewReader(fs afero.Fs, log logrus.FieldLogger) *Reader {
	return &Reader{fs: fs, log: log}
}

// ReadRows reads the given 1 based columns from startRow through the last
// populated row of the sheet, or through startRow+maxRows-1 when maxRows is
// positive. The returned table has one column per requested index, named by
// its column letter. Rows where every requested cell is empty are dropped.
// Columns past the end of a row, and cells that fail to read, come back as
// nil.
//
// The path, file and column list are validated before the workbook is opened.
// Validation failures wrap table.ErrInvalidInput or table.ErrNotFound; every
// other failure is returned as a *table.ReadError.
func (r *Reader) ReadRows(loc Locator, startRow int, columns []int, maxRows int) (*table.Table, error) {
	if err := r.validate(loc.Path); err != nil {
		return nil, err
	}

	if err := validateColumns(columns); err != nil {
		return nil, err
	}

	book, err := r.open(loc.Path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := book.Close(); err != nil {
			r.log.WithField("source", loc.Path).Warnf("Error closing workbook: %s", err)
		}
	}()

	sheetName, err := resolveSheet(book, loc)
	if err != nil {
		return nil, err
	}

	ws, err := book.sheet(sheetName)
	if err != nil {
		return nil, table.NewReadError(loc.Path, err)
	}

	if startRow < 1 {
		startRow = 1
	}

	endRow := ws.lastRow()
	if maxRows > 0 && startRow+maxRows-1 < endRow {
		endRow = startRow + maxRows - 1
	}

	var rows []table.Row
	for row := startRow; row <= endRow; row++ {
		values := make(table.Row, len(columns))
		for i, col := range columns {
			// A cell that can't be read is treated as empty rather than
			// failing the whole sheet.
			if v, err := ws.cell(row, col); err == nil {
				values[i] = v
			}
		}

		if !values.IsEmpty() {
			rows = append(rows, values)
		}
	}

	r.log.WithFields(logrus.Fields{
		"source": filepath.Base(loc.Path),
		"sheet":  sheetName,
		"rows":   len(rows),
	}).Debug("read worksheet range")

	return table.New(columnHeader(columns), rows)
}

// Sheets lists the worksheet names of a workbook in workbook order.
func (r *Reader) Sheets(path string) ([]string, error) {
	if err := r.validate(path); err != nil {
		return nil, err
	}

	book, err := r.open(path)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	return book.sheets(), nil
}

func (r *Reader) validate(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.Wrap(table.ErrInvalidInput, "workbook path is empty")
	}

	exists, err := afero.Exists(r.fs, path)
	switch {
	case err != nil:
		return table.NewReadError(path, err)
	case !exists:
		return errors.Wrapf(table.ErrNotFound, "workbook %s", path)
	}

	return nil
}

func (r *Reader) open(path string) (workbook, error) {
	f, err := r.fs.Open(path)
	if err != nil {
		return nil, table.NewReadError(path, err)
	}

	var book workbook
	if isLegacyWorkbook(path) {
		book, err = openXLS(f)
	} else {
		book, err = openXLSX(f)
	}

	if err != nil {
		f.Close()
		return nil, table.NewReadError(path, err)
	}

	return &fileBook{workbook: book, file: f}, nil
}

// validateColumns checks that at least one column was asked for and that all
// column indexes are 1 based.
func validateColumns(columns []int) error {
	if len(columns) == 0 {
		return errors.Wrap(table.ErrInvalidInput, "no columns requested")
	}

	for _, col := range columns {
		if col < 1 {
			return errors.Wrapf(table.ErrInvalidInput, "column index %d is not 1 based", col)
		}
	}

	return nil
}

func resolveSheet(book workbook, loc Locator) (string, error) {
	names := book.sheets()
	if loc.Sheet != "" {
		for _, name := range names {
			if strings.EqualFold(name, loc.Sheet) {
				return name, nil
			}
		}
		return "", errors.Wrapf(table.ErrNotFound, "sheet '%s' in %s", loc.Sheet, filepath.Base(loc.Path))
	}

	if loc.Index < 0 || loc.Index >= len(names) {
		return "", errors.Wrapf(table.ErrNotFound, "sheet %d in %s", loc.Index, filepath.Base(loc.Path))
	}

	return names[loc.Index], nil
}

func columnHeader(columns []int) []string {
	header := make([]string, len(columns))
	for i, col := range columns {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			name = table.ColumnName(col - 1)
		}
		header[i] = name
	}
	return header
}

func isLegacyWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xls")
}

// fileBook closes the underlying file along with the workbook.
type fileBook struct {
	workbook
	file afero.File
}

func (b *fileBook) Close() error {
	err := b.workbook.Close()
	if ferr := b.file.Close(); err == nil {
		err = ferr
	}
	return err
}
