// Package display prints extractions and selected samples for the command
// line, as aligned text tables or as JSON, YAML or CSV.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/juliandevatbs/SRLIMS/internal/model"
	"github.com/juliandevatbs/SRLIMS/internal/table"
	"github.com/juliandevatbs/SRLIMS/internal/view"
)

type Format string

const (
	TableFormat Format = "table"
	JSONFormat  Format = "json"
	YAMLFormat  Format = "yaml"
	CSVFormat   Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return TableFormat, nil
	case TableFormat, JSONFormat, YAMLFormat, CSVFormat:
		return f, nil
	default:
		return "", errors.Wrapf(table.ErrInvalidInput, "unknown output format '%s'", s)
	}
}

type Displayer struct {
	out    io.Writer
	format Format
}

func NewDisplayer(out io.Writer, format Format) *Displayer {
	return &Displayer{out: out, format: format}
}

// document is a view as written in JSON and YAML.
type document struct {
	Source   string           `json:"source" yaml:"source"`
	Custody  Grid             `json:"custody" yaml:"custody"`
	Samples  []SampleAnalytes `json:"samples" yaml:"samples"`
	Selected *Grid            `json:"selected_matrix,omitempty" yaml:"selected_matrix,omitempty"`
}

// Apply prints the custody grid of v, the analytes found for each sample and,
// when a custody row is selected, the matrix rows of that sample. The CSV
// format only has room for the custody grid.
func (d *Displayer) Apply(v *view.ChainView) error {
	custody := v.Custody()
	analytes := sampleAnalytes(custody, v.Matrix())

	var selected *Grid
	if _, ok := v.Selected(); ok {
		g := NewGrid(v.FilteredMatrix())
		selected = &g
	}

	switch d.format {
	case JSONFormat:
		return d.writeJSON(document{Source: v.Source(), Custody: NewGrid(custody), Samples: analytes, Selected: selected})
	case YAMLFormat:
		return d.writeYAML(document{Source: v.Source(), Custody: NewGrid(custody), Samples: analytes, Selected: selected})
	case CSVFormat:
		return d.writeCSV(custody)
	}

	fmt.Fprintln(d.out, "Source", v.Source())
	fmt.Fprintf(d.out, "%sChain of Custody (%d samples):\n", spaces(2), custody.Len())
	if err := d.printTable(4, custody); err != nil {
		return err
	}

	fmt.Fprintf(d.out, "%sAnalytes:\n", spaces(2))
	for _, s := range analytes {
		fmt.Fprintf(d.out, "%s%s\n", spaces(4), s.Sample)
		if len(s.Analytes) == 0 {
			fmt.Fprintf(d.out, "%sNo results\n", spaces(6))
		}
		for _, a := range s.Analytes {
			fmt.Fprintf(d.out, "%s%s: %d results\n", spaces(6), a.Name, a.Results)
		}
	}

	if i, ok := v.Selected(); ok {
		matrix := v.FilteredMatrix()
		id := table.String(custody.Rows[i][model.SampleIDColumn])
		fmt.Fprintf(d.out, "%sMatrix for sample %s (%d rows):\n", spaces(2), id, matrix.Len())
		return d.printTable(4, matrix)
	}

	return nil
}

// Samples prints the samples flagged for inclusion.
func (d *Displayer) Samples(samples []model.CustodySample) error {
	switch d.format {
	case JSONFormat:
		return d.writeJSON(samples)
	case YAMLFormat:
		return d.writeYAML(samples)
	case CSVFormat:
		return gocsv.Marshal(&samples, d.out)
	}

	tw := tabwriter.NewWriter(d.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Item ID\tSample Identification\tCollection Date\tGrab/Composite\tMatrix\tContainers\tLab Reporting Batch ID")
	for _, s := range samples {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ItemID, s.SampleID, s.CollectionDate, s.GrabComposite, s.Matrix, s.Containers, s.BatchID)
	}
	return tw.Flush()
}

// printTable writes t as an aligned text table indented by indent spaces. The
// first column is the row number used by --select and --include.
func (d *Displayer) printTable(indent int, t *table.Table) error {
	tw := tabwriter.NewWriter(d.out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "%s#\t%s\n", spaces(indent), strings.Join(t.Header, "\t"))
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = table.String(v)
		}
		fmt.Fprintf(tw, "%s%d\t%s\n", spaces(indent), i, strings.Join(cells, "\t"))
	}

	return tw.Flush()
}

func (d *Displayer) writeJSON(v interface{}) error {
	enc := json.NewEncoder(d.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (d *Displayer) writeYAML(v interface{}) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = d.out.Write(b)
	return err
}

func (d *Displayer) writeCSV(t *table.Table) error {
	w := gocsv.DefaultCSVWriter(d.out)
	if err := w.Write(t.Header); err != nil {
		return err
	}

	for _, row := range t.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = table.String(v)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func spaces(count int) string {
	return strings.Repeat(" ", count)
}
