package display

import (
	"time"

	"github.com/juliandevatbs/SRLIMS/internal/shape"
	"github.com/juliandevatbs/SRLIMS/internal/table"
)

// Grid is a table in a form that encodes cleanly to JSON and YAML: the
// header plus rows of strings, numbers, bools and nulls. Dates are rendered
// as text. Types holds the kind of each column (text, date or flag) so a
// front end knows which columns to draw as check boxes or dates.
type Grid struct {
	Header []string        `json:"header" yaml:"header"`
	Types  []string        `json:"types" yaml:"types"`
	Rows   [][]interface{} `json:"rows" yaml:"rows"`
}

func NewGrid(t *table.Table) Grid {
	g := Grid{Header: t.Header, Types: columnTypes(t.Header), Rows: make([][]interface{}, 0, t.Len())}
	for _, row := range t.Rows {
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = gridValue(v)
		}
		g.Rows = append(g.Rows, values)
	}
	return g
}

func gridValue(v table.Value) interface{} {
	if t, ok := v.(time.Time); ok {
		return table.String(t)
	}
	return v
}

func columnTypes(header []string) []string {
	types := shape.ColumnTypes(header)
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}
