package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/juliandevatbs/SRLIMS/internal/table"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schema = `
CREATE TABLE Samples (
	ItemID INTEGER,
	LabReportingBatchID TEXT,
	LabSampleID TEXT,
	ClientSampleID TEXT,
	CollectMethod TEXT,
	MatrixID TEXT,
	DateCollected TEXT
);
CREATE TABLE Sample_Tests (
	SampleTestsID INTEGER,
	ItemID INTEGER,
	LabReportingBatchID TEXT,
	ClientSampleID TEXT,
	LabSampleID TEXT,
	AnalyteName TEXT,
	Result REAL,
	ResultUnits TEXT,
	LabQualifiers TEXT,
	ReportingLimit TEXT,
	DateCollected TEXT,
	QCType TEXT,
	ResultComments TEXT,
	Notes TEXT
);
INSERT INTO Samples VALUES
	(2, 'B-100', 'L2', 'S2', 'Composite', 'Soil', '2024-03-02'),
	(1, 'B-100', 'L1', 'S1', 'Grab', 'Water', '2024-03-01'),
	(3, 'B-200', 'L3', 'S3', 'Grab', 'Water', '2024-03-03');
INSERT INTO Sample_Tests VALUES
	(1, 1, 'B-100', 'S1', 'L1', 'Ammonia', 0.5, 'mg/L', NULL, '0.1', '2024-03-01', NULL, NULL, NULL),
	(2, 1, 'B-100', 'S1', 'L1', 'Chlorides', 12, 'mg/L', NULL, '1', '2024-03-01', NULL, NULL, 'dup'),
	(3, 2, 'B-100', 'S2', 'L2', 'Ammonia', 0.7, 'mg/L', 'J', '0.1', '2024-03-02', 'MS', NULL, NULL),
	(4, 3, 'B-200', 'S3', 'L3', 'Ammonia', 0.2, 'mg/L', NULL, '0.1', '2024-03-03', NULL, NULL, NULL);
`

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testDB(t *testing.T) *DB {
	t.Helper()

	d, err := New(Config{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "lims.db")}, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	db, err := d.conn(context.Background())
	require.NoError(t, err)
	_, err = db.Exec(schema)
	require.NoError(t, err)

	return d
}

func TestNewRequiresDriverAndDSN(t *testing.T) {
	_, err := New(Config{DSN: "x"}, quietLogger())
	assert.True(t, errors.Is(err, table.ErrInvalidInput))

	_, err = New(Config{Driver: "sqlite"}, quietLogger())
	assert.True(t, errors.Is(err, table.ErrInvalidInput))
}

func TestReadBatch(t *testing.T) {
	d := testDB(t)

	batch, err := d.ReadBatch(context.Background(), "B-100")
	require.NoError(t, err)

	require.Equal(t, 2, batch.Custody.Len())
	assert.Equal(t, table.Row{1.0, "S1", "2024-03-01", "Grab", "Water", nil, "B-100"}, batch.Custody.Rows[0])
	assert.Equal(t, "S2", batch.Custody.Rows[1][1])

	require.Len(t, batch.Analytes, 2)
	assert.Equal(t, "Ammonia", batch.Analytes[0].Analyte.Name)
	assert.Equal(t, "Chlorides", batch.Analytes[1].Analyte.Name)

	ammonia := batch.Analytes[0].Rows
	require.Equal(t, 2, ammonia.Len())
	assert.Equal(t, table.Row{"2024-03-01", "S1", "0.5", "mg/L", "0.1", nil, nil, nil, nil}, ammonia.Rows[0])
	assert.Equal(t, "J", ammonia.Rows[1][5])
	assert.Equal(t, "MS", ammonia.Rows[1][6])

	assert.Equal(t, "dup", batch.Analytes[1].Rows.Rows[0][8])
}

func TestReadBatchFailures(t *testing.T) {
	d := testDB(t)

	_, err := d.ReadBatch(context.Background(), "")
	assert.True(t, errors.Is(err, table.ErrInvalidInput))

	_, err = d.ReadBatch(context.Background(), "NOPE")
	assert.True(t, errors.Is(err, table.ErrNotFound))
}

func TestQueryBindsBatchID(t *testing.T) {
	d := testDB(t)

	samples, err := d.CustodyByBatch(context.Background(), "B-100' OR '1'='1")
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestCloseIsIdempotent(t *testing.T) {
	d := testDB(t)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	_, err := d.CustodyByBatch(context.Background(), "B-100")
	require.Error(t, err)
	var readErr *table.ReadError
	assert.True(t, errors.As(err, &readErr))
}
