package shape

type ColumnType int

const (
	TextColumn ColumnType = iota + 1
	DateColumn
	FlagColumn
)

func (c ColumnType) String() string {
	switch c {
	case TextColumn:
		return "text"
	case DateColumn:
		return "date"
	case FlagColumn:
		return "flag"
	default:
		return "unknown"
	}
}

// Column is a named, typed column of a shaped table. The type tells a grid how
// to render the column; it does not constrain the values.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"-"`
}

// Names returns the column names in order.
func Names(columns []Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

const (
	IncludeColumnName = "Include"
	AnalyteColumnName = "Analyte"
)

var (
	// IncludeFlagColumn is appended to every custody table by Custody.
	IncludeFlagColumn = Column{Name: IncludeColumnName, Type: FlagColumn}

	// AnalyteNameColumn is appended to every matrix table by Matrix.
	AnalyteNameColumn = Column{Name: AnalyteColumnName, Type: TextColumn}
)

// CustodyColumns are the chain of custody fields, in grid order. The include
// flag column is appended by Custody.
var CustodyColumns = []Column{
	{Name: "Item ID", Type: TextColumn},
	{Name: "Sample Identification", Type: TextColumn},
	{Name: "Collection Date", Type: DateColumn},
	{Name: "Grab/Composite", Type: TextColumn},
	{Name: "Matrix", Type: TextColumn},
	{Name: "Containers", Type: TextColumn},
	{Name: "Lab Reporting Batch ID", Type: TextColumn},
}

// WorkbookMatrixColumns are the columns of an analyte worksheet.
var WorkbookMatrixColumns = []Column{
	{Name: "Date", Type: DateColumn},
	{Name: "Sample ID", Type: TextColumn},
	{Name: "Sample Volume", Type: TextColumn},
	{Name: "pH Adjustment", Type: TextColumn},
	{Name: "Titration Volume 1", Type: TextColumn},
	{Name: "Titration Volume 2", Type: TextColumn},
	{Name: "Normality", Type: TextColumn},
	{Name: "Result", Type: TextColumn},
	{Name: "Notes", Type: TextColumn},
	{Name: "Notes 2", Type: TextColumn},
}

// DatabaseMatrixColumns are the columns of a measurement row loaded from the
// Sample_Tests table. The date and sample id keep the same positions as in
// WorkbookMatrixColumns.
var DatabaseMatrixColumns = []Column{
	{Name: "Date Collected", Type: DateColumn},
	{Name: "Sample ID", Type: TextColumn},
	{Name: "Result", Type: TextColumn},
	{Name: "Units", Type: TextColumn},
	{Name: "Reporting Limit", Type: TextColumn},
	{Name: "Lab Qualifiers", Type: TextColumn},
	{Name: "QC Type", Type: TextColumn},
	{Name: "Result Comments", Type: TextColumn},
	{Name: "Notes", Type: TextColumn},
}

// ColumnTypes returns the type of each column of a shaped table header.
// Names that are not one of the known columns are text.
func ColumnTypes(header []string) []ColumnType {
	known := make(map[string]ColumnType)
	for _, columns := range [][]Column{CustodyColumns, WorkbookMatrixColumns, DatabaseMatrixColumns, {IncludeFlagColumn, AnalyteNameColumn}} {
		for _, c := range columns {
			known[c.Name] = c.Type
		}
	}

	types := make([]ColumnType, len(header))
	for i, name := range header {
		if t, ok := known[name]; ok {
			types[i] = t
		} else {
			types[i] = TextColumn
		}
	}
	return types
}

// MatrixSampleIDColumn is the position of the sample identifier in every
// matrix table.
const MatrixSampleIDColumn = 1
