package report

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Cell values that are treated as a blank sample identification.
var BlankCellKeywords = map[string]bool{
	"n/a":   true,
	"blank": true,
	"-":     true,
}

// isBlank returns true if the trimmed cell is empty or its lower case value
// is one of the blank keywords.
func isBlank(cell string) bool {
	lowerCaseCell := strings.ToLower(strings.TrimSpace(cell))
	if lowerCaseCell == "" {
		return true
	}

	_, ok := BlankCellKeywords[lowerCaseCell]
	return ok
}

// AddMatrixSheet adds an analyte worksheet to the end of the layout.
func (l *Layout) AddMatrixSheet(sheet string) {
	l.MatrixSheets = append(l.MatrixSheets, sheet)
}

// SetMatrixSheets replaces the analyte worksheets of the layout.
func (l *Layout) SetMatrixSheets(sheets ...string) {
	l.MatrixSheets = append([]string(nil), sheets...)
}

// Validate checks the layout before any workbook is opened. Every problem is
// reported, not just the first one.
func (l Layout) Validate() error {
	var errs *multierror.Error

	if strings.TrimSpace(l.CustodySheet) == "" {
		errs = multierror.Append(errs, fmt.Errorf("no chain of custody sheet"))
	}

	if len(l.CustodyColumns) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("no chain of custody columns"))
	}

	if len(l.MatrixSheets) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("there must be at least 1 matrix sheet"))
	}

	if len(l.MatrixColumns) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("no matrix columns"))
	}

	for _, err := range duplicateSheets(append([]string{l.CustodySheet}, l.MatrixSheets...)) {
		errs = multierror.Append(errs, err)
	}

	return errs.ErrorOrNil()
}

// duplicateSheets returns an error for each sheet named more than once.
// Sheet names are compared the way they are looked up, ignoring case.
func duplicateSheets(sheets []string) []error {
	var (
		errs   []error
		counts = make(map[string]int)
	)

	for _, sheet := range sheets {
		key := strings.ToLower(strings.TrimSpace(sheet))
		if key == "" {
			continue
		}

		counts[key]++
		if counts[key] == 2 {
			errs = append(errs, fmt.Errorf("sheet '%s' is used more than once in the layout", sheet))
		}
	}

	return errs
}
