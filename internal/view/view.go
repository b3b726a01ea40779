// Package view keeps the state of one extraction while a technician works on
// it: which custody row is selected and which samples are flagged for
// inclusion.
package view

import (
	"io"

	"github.com/pkg/errors"

	"github.com/juliandevatbs/SRLIMS/internal/model"
	"github.com/juliandevatbs/SRLIMS/internal/report"
	"github.com/juliandevatbs/SRLIMS/internal/shape"
	"github.com/juliandevatbs/SRLIMS/internal/table"
)

const noSelection = -1

// ChainView is a custody table with its matrix. The include flags live in the
// view's own copy of the custody rows; the dataset is not modified.
type ChainView struct {
	source   string
	custody  *table.Table
	matrix   *table.Table
	selected int

	// owned is released when the view is closed, for example the database
	// the dataset was read from.
	owned io.Closer
}

// New builds a view over ds. owned may be nil.
func New(ds *report.Dataset, owned io.Closer) *ChainView {
	custody := table.Empty(ds.Custody.Header)
	for _, row := range ds.Custody.Rows {
		custody.Rows = append(custody.Rows, row.Clone())
	}

	return &ChainView{
		source:   ds.Source,
		custody:  custody,
		matrix:   ds.Matrix,
		selected: noSelection,
		owned:    owned,
	}
}

func (v *ChainView) Source() string {
	return v.source
}

// Custody returns a copy of the custody rows with their current include
// flags. Changing the copy does not change the view.
func (v *ChainView) Custody() *table.Table {
	out := table.Empty(v.custody.Header)
	for _, row := range v.custody.Rows {
		out.Rows = append(out.Rows, row.Clone())
	}
	return out
}

func (v *ChainView) Matrix() *table.Table {
	return v.matrix
}

// Select makes custody row i the selected row.
func (v *ChainView) Select(i int) error {
	if err := v.checkRow(i); err != nil {
		return err
	}
	v.selected = i
	return nil
}

func (v *ChainView) ClearSelection() {
	v.selected = noSelection
}

// Selected returns the selected custody row index.
func (v *ChainView) Selected() (int, bool) {
	return v.selected, v.selected != noSelection
}

// FilteredMatrix returns the matrix rows of the selected sample, in matrix
// order. Sample identifications must match exactly, including case and
// surrounding spaces. With nothing selected the result has no rows.
func (v *ChainView) FilteredMatrix() *table.Table {
	if v.selected == noSelection {
		return table.Empty(v.matrix.Header)
	}

	id := table.String(v.custody.Rows[v.selected][model.SampleIDColumn])
	return v.matrix.Where(func(row table.Row) bool {
		return shape.MatrixSampleIDColumn < len(row) && table.String(row[shape.MatrixSampleIDColumn]) == id
	})
}

// SetInclude sets the include flag of custody row i.
func (v *ChainView) SetInclude(i int, include bool) error {
	if err := v.checkRow(i); err != nil {
		return err
	}
	v.custody.Rows[i][model.IncludeColumn] = include
	return nil
}

// IncludeOnly flags exactly the given custody rows for inclusion and clears
// the flag of every other row. Nothing changes if any index is invalid.
func (v *ChainView) IncludeOnly(rows []int) error {
	for _, i := range rows {
		if err := v.checkRow(i); err != nil {
			return err
		}
	}

	for i := range v.custody.Rows {
		v.custody.Rows[i][model.IncludeColumn] = false
	}
	for _, i := range rows {
		v.custody.Rows[i][model.IncludeColumn] = true
	}

	return nil
}

// SelectedChainData returns the custody rows flagged for inclusion, without
// the include column.
func (v *ChainView) SelectedChainData() *table.Table {
	out := table.Empty(v.custody.Header[:model.IncludeColumn])
	for _, row := range v.custody.Rows {
		if included(row) {
			out.Rows = append(out.Rows, row[:model.IncludeColumn].Clone())
		}
	}
	return out
}

// SelectedSamples is SelectedChainData as samples.
func (v *ChainView) SelectedSamples() []model.CustodySample {
	return model.NewCustodySamples(v.SelectedChainData().Rows)
}

// Close releases whatever the view owns. It is safe to call more than once.
func (v *ChainView) Close() error {
	if v.owned == nil {
		return nil
	}
	err := v.owned.Close()
	v.owned = nil
	return err
}

func (v *ChainView) checkRow(i int) error {
	if i < 0 || i >= v.custody.Len() {
		return errors.Wrapf(table.ErrInvalidInput, "custody row %d out of range (0..%d)", i, v.custody.Len()-1)
	}
	return nil
}

func included(row table.Row) bool {
	if model.IncludeColumn >= len(row) {
		return false
	}
	include, _ := row[model.IncludeColumn].(bool)
	return include
}
