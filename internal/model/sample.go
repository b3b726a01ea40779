package model

import "github.com/juliandevatbs/SRLIMS/internal/table"

// Positions of the custody fields in a shaped custody row.
const (
	ItemIDColumn = iota
	SampleIDColumn
	CollectionDateColumn
	GrabCompositeColumn
	MatrixColumn
	ContainersColumn
	BatchIDColumn
	IncludeColumn
)

// CustodySample is one chain of custody row in a form that can be exported or
// published. Values are rendered as text the same way the grid shows them.
type CustodySample struct {
	ItemID         string `csv:"Item ID" json:"item_id" yaml:"item_id"`
	SampleID       string `csv:"Sample Identification" json:"sample_id" yaml:"sample_id"`
	CollectionDate string `csv:"Collection Date" json:"collection_date" yaml:"collection_date"`
	GrabComposite  string `csv:"Grab/Composite" json:"grab_composite" yaml:"grab_composite"`
	Matrix         string `csv:"Matrix" json:"matrix" yaml:"matrix"`
	Containers     string `csv:"Containers" json:"containers" yaml:"containers"`
	BatchID        string `csv:"Lab Reporting Batch ID" json:"batch_id" yaml:"batch_id"`
}

// NewCustodySample builds a sample from a custody row. The row may or may not
// carry the include flag; missing trailing fields are left blank.
func NewCustodySample(row table.Row) CustodySample {
	field := func(i int) string {
		if i < len(row) {
			return table.String(row[i])
		}
		return ""
	}

	return CustodySample{
		ItemID:         field(ItemIDColumn),
		SampleID:       field(SampleIDColumn),
		CollectionDate: field(CollectionDateColumn),
		GrabComposite:  field(GrabCompositeColumn),
		Matrix:         field(MatrixColumn),
		Containers:     field(ContainersColumn),
		BatchID:        field(BatchIDColumn),
	}
}

// NewCustodySamples converts rows in order.
func NewCustodySamples(rows []table.Row) []CustodySample {
	samples := make([]CustodySample, 0, len(rows))
	for _, row := range rows {
		samples = append(samples, NewCustodySample(row))
	}
	return samples
}
