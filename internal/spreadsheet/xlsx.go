package spreadsheet

import (
	"io"

	"github.com/juliandevatbs/SRLIMS/internal/table"
	"github.com/xuri/excelize/v2"
)

type xlsxBook struct {
	f *excelize.File
}

func openXLSX(r io.Reader) (*xlsxBook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	return &xlsxBook{f: f}, nil
}

func (b *xlsxBook) sheets() []string {
	return b.f.GetSheetList()
}

func (b *xlsxBook) sheet(name string) (worksheet, error) {
	rows, err := b.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	return &xlsxSheet{
		f:         b.f,
		name:      name,
		rows:      rows,
		converter: newCellConverter(),
	}, nil
}

func (b *xlsxBook) Close() error {
	return b.f.Close()
}

// xlsxSheet holds the raw (unformatted) cell text of a sheet. Cell types are
// looked up lazily, only for cells that are actually read.
type xlsxSheet struct {
	f         *excelize.File
	name      string
	rows      [][]string
	converter *cellConverter
}

func (s *xlsxSheet) lastRow() int {
	return len(s.rows)
}

func (s *xlsxSheet) cell(row, col int) (table.Value, error) {
	if row < 1 || row > len(s.rows) || col > len(s.rows[row-1]) {
		return nil, nil
	}

	raw := s.rows[row-1][col-1]
	if raw == "" {
		return nil, nil
	}

	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}

	cellType, err := s.f.GetCellType(s.name, axis)
	if err != nil {
		return nil, err
	}

	return s.converter.toValue(raw, cellType), nil
}
