// Package report knows where the chain of custody and the analyte results
// live in a lab report workbook, and turns a workbook or a database batch into
// the custody and matrix tables.
package report

// Layout describes a lab report workbook. Rows and columns are 1-based.
type Layout struct {
	CustodySheet    string
	CustodyStartRow int
	CustodyColumns  []int
	CustodyMaxRows  int

	MatrixSheets   []string
	MatrixStartRow int
	MatrixColumns  []int
	MatrixMaxRows  int
}

// DefaultLayout is the layout of the lab's standard report template:
//   Chain of Custody 1    rows 15..34, B-G and Y
//   one sheet per analyte rows 21..45, B-K
func DefaultLayout() Layout {
	return Layout{
		CustodySheet:    "Chain of Custody 1",
		CustodyStartRow: 15,
		CustodyColumns:  []int{2, 3, 4, 5, 6, 7, 25},
		CustodyMaxRows:  20,

		MatrixSheets: []string{
			"Ammonia (7664417)",
			"Alkalinity (471341)",
			"Chlorides (16887006)",
		},
		MatrixStartRow: 21,
		MatrixColumns:  []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
		MatrixMaxRows:  25,
	}
}
