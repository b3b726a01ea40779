package spreadsheet

import (
	"io"

	"github.com/extrame/xls"
	"github.com/juliandevatbs/SRLIMS/internal/table"
	"github.com/pkg/errors"
)

// xlsBook reads legacy BIFF (.xls) workbooks. The library hands back the
// displayed text of each cell, so values from .xls files are strings.
type xlsBook struct {
	wb *xls.WorkBook
}

func openXLS(r io.ReadSeeker) (*xlsBook, error) {
	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, err
	}
	return &xlsBook{wb: wb}, nil
}

func (b *xlsBook) sheets() []string {
	var names []string
	for i := 0; i < b.wb.NumSheets(); i++ {
		if sheet := b.wb.GetSheet(i); sheet != nil {
			names = append(names, sheet.Name)
		}
	}
	return names
}

func (b *xlsBook) sheet(name string) (worksheet, error) {
	for i := 0; i < b.wb.NumSheets(); i++ {
		if sheet := b.wb.GetSheet(i); sheet != nil && sheet.Name == name {
			return &xlsSheet{sheet: sheet}, nil
		}
	}
	return nil, errors.Errorf("sheet %s not present in workbook", name)
}

func (b *xlsBook) Close() error {
	return nil
}

type xlsSheet struct {
	sheet *xls.WorkSheet
}

func (s *xlsSheet) lastRow() int {
	// MaxRow is the 0 based index of the last row
	return int(s.sheet.MaxRow) + 1
}

func (s *xlsSheet) cell(row, col int) (table.Value, error) {
	r := s.row(row - 1)
	if r == nil || col-1 > r.LastCol() {
		return nil, nil
	}

	if v := r.Col(col - 1); v != "" {
		return v, nil
	}

	return nil, nil
}

// row returns nil for rows the sheet has no record of. The library
// dereferences the missing row itself, so that is recovered here.
func (s *xlsSheet) row(i int) (r *xls.Row) {
	defer func() {
		if recover() != nil {
			r = nil
		}
	}()
	return s.sheet.Row(i)
}
