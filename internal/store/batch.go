package store

import (
	"context"

	"github.com/juliandevatbs/SRLIMS/internal/model"
	"github.com/juliandevatbs/SRLIMS/internal/shape"
	"github.com/juliandevatbs/SRLIMS/internal/table"
	"github.com/pkg/errors"
	"gopkg.in/guregu/null.v3"
)

// Batch is everything stored for one lab reporting batch, as raw tables ready
// for shaping.
type Batch struct {
	ID       string
	Custody  *table.Table
	Analytes []shape.AnalyteTable
}

var custodyRawHeader = []string{
	"ItemID", "ClientSampleID", "DateCollected", "CollectMethod", "MatrixID", "Containers", "LabReportingBatchID",
}

var measurementRawHeader = []string{
	"DateCollected", "ClientSampleID", "Result", "ResultUnits", "ReportingLimit",
	"LabQualifiers", "QCType", "ResultComments", "Notes",
}

// ReadBatch runs both queries for a batch. It fails with table.ErrNotFound
// when the batch has neither samples nor test results.
func (d *DB) ReadBatch(ctx context.Context, batchID string) (*Batch, error) {
	samples, err := d.CustodyByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	tests, err := d.MeasurementsByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	if len(samples) == 0 && len(tests) == 0 {
		return nil, errors.Wrapf(table.ErrNotFound, "no data for batch %s", batchID)
	}

	custody := table.Empty(custodyRawHeader)
	for _, s := range samples {
		custody.Rows = append(custody.Rows, s.row())
	}

	return &Batch{
		ID:       batchID,
		Custody:  custody,
		Analytes: groupByAnalyte(tests),
	}, nil
}

// groupByAnalyte splits test results by analyte name. Analytes are ordered by
// their first appearance, rows keep query order within each analyte.
func groupByAnalyte(tests []TestRecord) []shape.AnalyteTable {
	var (
		analytes []shape.AnalyteTable
		seen     = make(map[string]int)
	)

	for _, t := range tests {
		name := t.AnalyteName.String
		i, ok := seen[name]
		if !ok {
			i = len(analytes)
			seen[name] = i
			analytes = append(analytes, shape.AnalyteTable{
				Analyte: model.Analyte{Name: name},
				Rows:    table.Empty(measurementRawHeader),
			})
		}
		analytes[i].Rows.Rows = append(analytes[i].Rows.Rows, t.row())
	}

	return analytes
}

func (s SampleRecord) row() table.Row {
	return table.Row{
		intValue(s.ItemID),
		stringValue(s.ClientSampleID),
		driverValue(s.DateCollected),
		stringValue(s.CollectMethod),
		stringValue(s.MatrixID),
		nil,
		stringValue(s.LabReportingBatchID),
	}
}

func (t TestRecord) row() table.Row {
	return table.Row{
		driverValue(t.DateCollected),
		stringValue(t.ClientSampleID),
		stringValue(t.Result),
		stringValue(t.ResultUnits),
		stringValue(t.ReportingLimit),
		stringValue(t.LabQualifiers),
		stringValue(t.QCType),
		stringValue(t.ResultComments),
		stringValue(t.Notes),
	}
}

func stringValue(s null.String) table.Value {
	if !s.Valid {
		return nil
	}
	return s.String
}

// Item ids are floats so they look the same as ids read from a workbook.
func intValue(i null.Int) table.Value {
	if !i.Valid {
		return nil
	}
	return float64(i.Int64)
}

func driverValue(v interface{}) table.Value {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case int64:
		return float64(val)
	default:
		return val
	}
}
