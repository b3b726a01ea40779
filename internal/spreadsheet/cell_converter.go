package spreadsheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/juliandevatbs/SRLIMS/internal/table"
	"github.com/xuri/excelize/v2"
)

type cellConverter struct {
	// floatVal stores the value that isNumeric received from ParseFloat. This
	// allows using that value without having to call ParseFloat a second time
	// to access it.
	floatVal float64
}

func newCellConverter() *cellConverter {
	return &cellConverter{floatVal: 0}
}

// toValue takes the raw text of a cell and the type excelize recorded for it
// and turns it into a loosely typed value. Numbers are stored without a type
// attribute, so untyped cells are treated as numbers when they parse as one.
// Date formatted numbers stay numbers (spreadsheet serial dates); only cells
// stored with the ISO 8601 date type become time.Time. Anything that can't be
// converted is kept as the original text.
func (c *cellConverter) toValue(raw string, cellType excelize.CellType) table.Value {
	switch cellType {
	case excelize.CellTypeBool:
		return c.cellToBool(raw)
	case excelize.CellTypeDate:
		return c.cellToDate(raw)
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if c.isNumeric(raw) {
			return c.floatVal
		}
		return raw
	default:
		// shared strings, inline strings, formula results and error values
		return raw
	}
}

// isNumeric will check if the cell is a number. If it is it stores the converted
// value in c.floatVal and returns true.
func (c *cellConverter) isNumeric(str string) bool {
	var err error
	c.floatVal, err = strconv.ParseFloat(strings.TrimSpace(str), 64)
	return err == nil
}

func (c *cellConverter) cellToBool(cell string) table.Value {
	switch strings.ToUpper(strings.TrimSpace(cell)) {
	case "1", "TRUE":
		return true
	case "0", "FALSE":
		return false
	default:
		return cell
	}
}

func (c *cellConverter) cellToDate(cell string) table.Value {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, cell); err == nil {
			return t
		}
	}
	return cell
}
