// Package shape turns raw source tables into the custody and matrix tables
// shown to the user.
package shape

import (
	"github.com/juliandevatbs/SRLIMS/internal/model"
	"github.com/juliandevatbs/SRLIMS/internal/table"
)

// AnalyteTable is the raw table read for one analyte, either one worksheet or
// one AnalyteName group of the measurement query.
type AnalyteTable struct {
	Analyte model.Analyte
	Rows    *table.Table
}

// Custody maps each raw row onto CustodyColumns and appends an include flag
// set to false. Raw rows shorter than the header leave the trailing fields
// absent, longer rows are cut at the header width.
func Custody(raw *table.Table) *table.Table {
	header := append(Names(CustodyColumns), IncludeFlagColumn.Name)
	out := table.Empty(header)

	if raw == nil {
		return out
	}

	for _, row := range raw.Rows {
		shaped := make(table.Row, len(header))
		copy(shaped[:len(CustodyColumns)], row)
		shaped[model.IncludeColumn] = false
		out.Rows = append(out.Rows, shaped)
	}

	return out
}

// Matrix combines the analyte tables into one table. The width of the first
// analyte table decides which of columns make up the header; columns past the
// known names get generic names. Every row is cut or padded to that width, its
// first cell goes through InferDate, and the analyte name is appended.
func Matrix(columns []Column, analytes []AnalyteTable) *table.Table {
	width := len(columns)
	if len(analytes) > 0 && analytes[0].Rows != nil {
		width = analytes[0].Rows.Width()
	}

	header := make([]string, 0, width+1)
	for i := 0; i < width; i++ {
		if i < len(columns) {
			header = append(header, columns[i].Name)
		} else {
			header = append(header, table.ColumnName(i))
		}
	}
	header = append(header, AnalyteNameColumn.Name)

	out := table.Empty(header)
	for _, analyte := range analytes {
		if analyte.Rows == nil {
			continue
		}

		for _, row := range analyte.Rows.Rows {
			shaped := make(table.Row, width+1)
			copy(shaped[:width], row)
			if width > 0 {
				shaped[0] = InferDate(shaped[0])
			}
			shaped[width] = analyte.Analyte.Name
			out.Rows = append(out.Rows, shaped)
		}
	}

	return out
}
