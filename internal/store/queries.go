package store

import (
	"context"
	"strings"

	"github.com/juliandevatbs/SRLIMS/internal/table"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/guregu/null.v3"
)

const custodyQuery = `
SELECT ItemID, LabReportingBatchID, LabSampleID, ClientSampleID,
       CollectMethod, MatrixID, DateCollected
FROM Samples
WHERE LabReportingBatchID = ?
ORDER BY ItemID`

const measurementQuery = `
SELECT SampleTestsID, ItemID, ClientSampleID, LabSampleID, AnalyteName,
       Result, ResultUnits, LabQualifiers, ReportingLimit, DateCollected,
       QCType, ResultComments, Notes
FROM Sample_Tests
WHERE LabReportingBatchID = ?
ORDER BY SampleTestsID`

// SampleRecord is a row of the Samples table.
type SampleRecord struct {
	ItemID              null.Int    `db:"ItemID"`
	LabReportingBatchID null.String `db:"LabReportingBatchID"`
	LabSampleID         null.String `db:"LabSampleID"`
	ClientSampleID      null.String `db:"ClientSampleID"`
	CollectMethod       null.String `db:"CollectMethod"`
	MatrixID            null.String `db:"MatrixID"`

	// DateCollected is a time.Time from SQL Server and usually text from
	// SQLite, so it is scanned as whatever the driver returns.
	DateCollected interface{} `db:"DateCollected"`
}

// TestRecord is a row of the Sample_Tests table.
type TestRecord struct {
	SampleTestsID  null.Int    `db:"SampleTestsID"`
	ItemID         null.Int    `db:"ItemID"`
	ClientSampleID null.String `db:"ClientSampleID"`
	LabSampleID    null.String `db:"LabSampleID"`
	AnalyteName    null.String `db:"AnalyteName"`
	Result         null.String `db:"Result"`
	ResultUnits    null.String `db:"ResultUnits"`
	LabQualifiers  null.String `db:"LabQualifiers"`
	ReportingLimit null.String `db:"ReportingLimit"`
	DateCollected  interface{} `db:"DateCollected"`
	QCType         null.String `db:"QCType"`
	ResultComments null.String `db:"ResultComments"`
	Notes          null.String `db:"Notes"`
}

// CustodyByBatch returns the samples of a batch ordered by item id.
func (d *DB) CustodyByBatch(ctx context.Context, batchID string) ([]SampleRecord, error) {
	if strings.TrimSpace(batchID) == "" {
		return nil, errors.Wrap(table.ErrInvalidInput, "batch id is empty")
	}

	var samples []SampleRecord
	if err := d.selectAll(ctx, &samples, custodyQuery, batchID); err != nil {
		return nil, err
	}

	d.log.WithFields(logrus.Fields{"batch": batchID, "rows": len(samples)}).Debug("custody query")
	return samples, nil
}

// MeasurementsByBatch returns the test results of a batch.
func (d *DB) MeasurementsByBatch(ctx context.Context, batchID string) ([]TestRecord, error) {
	if strings.TrimSpace(batchID) == "" {
		return nil, errors.Wrap(table.ErrInvalidInput, "batch id is empty")
	}

	var tests []TestRecord
	if err := d.selectAll(ctx, &tests, measurementQuery, batchID); err != nil {
		return nil, err
	}

	d.log.WithFields(logrus.Fields{"batch": batchID, "rows": len(tests)}).Debug("measurement query")
	return tests, nil
}
