// Package table holds the row oriented in-memory tables that every source
// reader produces and every view consumes.
package table

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// Value is a single loosely typed cell: string, float64, bool, time.Time, or
// nil when the cell is absent.
type Value = interface{}

// Row is an ordered set of cells.
type Row []Value

// IsEmpty reports whether every cell in the row is absent.
func (r Row) IsEmpty() bool {
	for _, v := range r {
		if v != nil {
			return false
		}
	}
	return true
}

// Clone returns a copy of the row so the caller can modify it without touching
// the table it came from.
func (r Row) Clone() Row {
	c := make(Row, len(r))
	copy(c, r)
	return c
}

// Table is a header plus rows. Every row has exactly len(Header) cells. A
// Table is not modified after it is built.
type Table struct {
	Header []string
	Rows   []Row
}

// New builds a table and checks that every row matches the header width.
func New(header []string, rows []Row) (*Table, error) {
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, errors.Wrapf(ErrInvalidInput, "row %d has %d cells, header has %d columns", i, len(row), len(header))
		}
	}

	if rows == nil {
		rows = []Row{}
	}

	return &Table{Header: header, Rows: rows}, nil
}

// Empty returns a table with the given header and no rows.
func Empty(header []string) *Table {
	return &Table{Header: header, Rows: []Row{}}
}

// Len is the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Width is the number of columns.
func (t *Table) Width() int {
	if t == nil {
		return 0
	}
	return len(t.Header)
}

// Column returns the index of the named column or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Where returns a new table holding the rows for which keep returns true. Row
// order is preserved.
func (t *Table) Where(keep func(Row) bool) *Table {
	out := Empty(t.Header)
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// String renders a cell for display and for identifier comparisons. Absent
// cells render as the empty string.
func String(v Value) string {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format("2006-01-02 15:04:05")
	default:
		s, err := cast.ToStringE(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return s
	}
}

// ColumnName is the generic name used for a column that has no semantic name.
func ColumnName(index int) string {
	return fmt.Sprintf("Column %d", index+1)
}
