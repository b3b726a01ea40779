package spreadsheet

import (
	"io"
	"testing"

	"github.com/juliandevatbs/SRLIMS/internal/table"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type testSheet struct {
	name  string
	cells map[string]interface{}
	merge [][2]string
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func writeBook(t *testing.T, fs afero.Fs, path string, sheets ...testSheet) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for axis, v := range s.cells {
			require.NoError(t, f.SetCellValue(s.name, axis, v))
		}
		for _, m := range s.merge {
			require.NoError(t, f.MergeCell(s.name, m[0], m[1]))
		}
	}

	out, err := fs.Create(path)
	require.NoError(t, err)
	defer out.Close()
	_, err = f.WriteTo(out)
	require.NoError(t, err)
}

func custodyBook(t *testing.T) (afero.Fs, string) {
	fs := afero.NewMemMapFs()
	path := "/reports/batch.xlsx"
	writeBook(t, fs, path,
		testSheet{name: "Summary", cells: map[string]interface{}{"A1": "summary"}},
		testSheet{name: "Chain of Custody 1", cells: map[string]interface{}{
			"B2": 1, "C2": "S1", "D2": "Grab", "F2": true,
			// row 3 is blank in the requested columns but has a value in A
			"A3": "ignored",
			"B4": 2, "C4": "S2",
			"C5": "S3",
			"B6": 4, "C6": "S4",
		}},
	)
	return fs, path
}

func TestReadRowsShapesAndDropsEmptyRows(t *testing.T) {
	fs, path := custodyBook(t)
	r := NewReader(fs, quietLogger())

	tbl, err := r.ReadRows(Locator{Path: path, Sheet: "chain of custody 1"}, 2, []int{2, 3, 4, 6, 30}, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "C", "D", "F", "AD"}, tbl.Header)
	require.Equal(t, 4, tbl.Len())
	for _, row := range tbl.Rows {
		assert.Len(t, row, 5)
		assert.Nil(t, row[4], "column past the end of the row must be absent")
	}

	assert.Equal(t, table.Row{1.0, "S1", "Grab", true, nil}, tbl.Rows[0])
	assert.Equal(t, table.Row{2.0, "S2", nil, nil, nil}, tbl.Rows[1])
	assert.Equal(t, table.Row{nil, "S3", nil, nil, nil}, tbl.Rows[2])
	assert.Equal(t, table.Row{4.0, "S4", nil, nil, nil}, tbl.Rows[3])
}

func TestReadRowsMaxRowsAndStartRow(t *testing.T) {
	fs, path := custodyBook(t)
	r := NewReader(fs, quietLogger())

	tests := []struct {
		name     string
		startRow int
		maxRows  int
		expected []interface{}
	}{
		{name: "capped", startRow: 2, maxRows: 3, expected: []interface{}{"S1", "S2"}},
		{name: "uncapped", startRow: 4, maxRows: 0, expected: []interface{}{"S2", "S3", "S4"}},
		{name: "start clamped to first row", startRow: -5, maxRows: 2, expected: []interface{}{"S1"}},
		{name: "past the end", startRow: 50, maxRows: 0, expected: nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tbl, err := r.ReadRows(Locator{Path: path, Sheet: "Chain of Custody 1"}, test.startRow, []int{3}, test.maxRows)
			require.NoError(t, err)
			var ids []interface{}
			for _, row := range tbl.Rows {
				ids = append(ids, row[0])
			}
			assert.Equal(t, test.expected, ids)
		})
	}
}

func TestReadRowsSheetByIndex(t *testing.T) {
	fs, path := custodyBook(t)
	r := NewReader(fs, quietLogger())

	tbl, err := r.ReadRows(Locator{Path: path, Index: 0}, 1, []int{1}, 0)
	require.NoError(t, err)
	assert.Equal(t, []table.Row{{"summary"}}, tbl.Rows)

	_, err = r.ReadRows(Locator{Path: path, Index: 7}, 1, []int{1}, 0)
	assert.True(t, errors.Is(err, table.ErrNotFound))
}

func TestReadRowsFailures(t *testing.T) {
	fs, path := custodyBook(t)
	require.NoError(t, afero.WriteFile(fs, "/reports/broken.xlsx", []byte("not a zip"), 0644))
	r := NewReader(fs, quietLogger())

	tests := []struct {
		name    string
		loc     Locator
		columns []int
		kind    error
	}{
		{name: "empty path", loc: Locator{Path: " "}, columns: []int{1}, kind: table.ErrInvalidInput},
		{name: "missing file", loc: Locator{Path: "/reports/missing.xlsx"}, columns: []int{1}, kind: table.ErrNotFound},
		{name: "no columns", loc: Locator{Path: path}, columns: nil, kind: table.ErrInvalidInput},
		{name: "zero column", loc: Locator{Path: path}, columns: []int{2, 0}, kind: table.ErrInvalidInput},
		{name: "negative column", loc: Locator{Path: path}, columns: []int{-1}, kind: table.ErrInvalidInput},
		{name: "missing sheet", loc: Locator{Path: path, Sheet: "Ammonia (7664417)"}, columns: []int{1}, kind: table.ErrNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tbl, err := r.ReadRows(test.loc, 1, test.columns, 0)
			require.Error(t, err)
			assert.Nil(t, tbl)
			assert.True(t, errors.Is(err, test.kind), "got %v", err)
		})
	}

	_, err := r.ReadRows(Locator{Path: "/reports/broken.xlsx"}, 1, []int{1}, 0)
	var readErr *table.ReadError
	require.True(t, errors.As(err, &readErr), "got %v", err)
	assert.Equal(t, "broken.xlsx", readErr.Source)
}

func TestSheets(t *testing.T) {
	fs, path := custodyBook(t)
	r := NewReader(fs, quietLogger())

	names, err := r.Sheets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Summary", "Chain of Custody 1"}, names)
}

func TestCellConverter(t *testing.T) {
	c := newCellConverter()

	assert.Equal(t, 45000.0, c.toValue("45000", excelize.CellTypeUnset))
	assert.Equal(t, 2.5, c.toValue("2.5", excelize.CellTypeNumber))
	assert.Equal(t, "abc", c.toValue("abc", excelize.CellTypeUnset))
	assert.Equal(t, "12", c.toValue("12", excelize.CellTypeSharedString))
	assert.Equal(t, true, c.toValue("1", excelize.CellTypeBool))
	assert.Equal(t, false, c.toValue("FALSE", excelize.CellTypeBool))
	assert.Equal(t, "#DIV/0!", c.toValue("#DIV/0!", excelize.CellTypeError))
	assert.Equal(t, "2024-13-45", c.toValue("2024-13-45", excelize.CellTypeDate))
}

func TestIsLegacyWorkbook(t *testing.T) {
	assert.True(t, isLegacyWorkbook("/a/b/report.XLS"))
	assert.False(t, isLegacyWorkbook("/a/b/report.xlsx"))
	assert.False(t, isLegacyWorkbook("/a/b/report.xlsm"))
}

// testdata/samples.xls is a legacy workbook with one sheet, "Table": a
// Code/Name/Description header and rows code1 to code11. Row 4 (code3) is
// present but has no cells and row 6 (code5) is missing altogether.
func TestReadRowsLegacyWorkbook(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewOsFs())
	r := NewReader(fs, quietLogger())
	path := "testdata/samples.xls"

	sheets, err := r.Sheets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Table"}, sheets)

	tbl, err := r.ReadRows(Locator{Path: path, Sheet: "table"}, 1, []int{1, 2, 50}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "AX"}, tbl.Header)
	require.Equal(t, 10, tbl.Len())
	assert.Equal(t, table.Row{"Code", "Name", nil}, tbl.Rows[0])
	assert.Equal(t, table.Row{"code2", "name2", nil}, tbl.Rows[2])
	assert.Equal(t, table.Row{"code4", "name4", nil}, tbl.Rows[3])
	assert.Equal(t, table.Row{"code6", "name6", nil}, tbl.Rows[4])
	assert.Equal(t, table.Row{"code11", "name11", nil}, tbl.Rows[9])

	tbl, err = r.ReadRows(Locator{Path: path}, 2, []int{3}, 4)
	require.NoError(t, err)
	assert.Equal(t, []table.Row{{"description1"}, {"description2"}, {"description4"}}, tbl.Rows)

	_, err = r.ReadRows(Locator{Path: path, Sheet: "Chain of Custody 1"}, 1, []int{1}, 0)
	assert.True(t, errors.Is(err, table.ErrNotFound))
}
