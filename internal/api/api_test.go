package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliandevatbs/SRLIMS/internal/display"
	"github.com/juliandevatbs/SRLIMS/internal/model"
	"github.com/juliandevatbs/SRLIMS/internal/report"
	"github.com/juliandevatbs/SRLIMS/internal/shape"
	"github.com/juliandevatbs/SRLIMS/internal/table"
	"github.com/juliandevatbs/SRLIMS/internal/view"
)

type fakeOpener struct {
	t *testing.T
}

func (o fakeOpener) dataset(source string) *report.Dataset {
	raw, err := table.New(make([]string, 7), []table.Row{
		{1.0, "S1", "2024-03-01", "Grab", "Water", nil, "B-100"},
		{2.0, "S2", "2024-03-02", "Grab", "Water", nil, "B-100"},
		{3.0, "S3", "2024-03-03", "Grab", "Water", nil, "B-100"},
	})
	require.NoError(o.t, err)

	results, err := table.New([]string{"a", "b", "c"}, []table.Row{
		{45000.0, "S1", 0.5},
		{45000.0, "S2", 0.7},
	})
	require.NoError(o.t, err)

	return &report.Dataset{
		Source:  source,
		Custody: shape.Custody(raw),
		Matrix: shape.Matrix(shape.WorkbookMatrixColumns, []shape.AnalyteTable{
			{Analyte: model.Analyte{Name: "Ammonia"}, Rows: results},
		}),
	}
}

func (o fakeOpener) OpenWorkbook(path string) (*view.ChainView, error) {
	switch path {
	case "":
		return nil, errors.Wrap(table.ErrInvalidInput, "workbook path is empty")
	case "/missing.xlsx":
		return nil, errors.Wrap(table.ErrNotFound, path)
	case "/broken.xlsx":
		return nil, table.NewReadError(path, errors.New("zip: not a valid zip file"))
	}
	return view.New(o.dataset(path), nil), nil
}

func (o fakeOpener) OpenBatch(_ context.Context, batchID string) (*view.ChainView, error) {
	if batchID == "" {
		return nil, errors.Wrap(table.ErrInvalidInput, "batch id is empty")
	}
	return view.New(o.dataset("batch "+batchID), nil), nil
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newServer(t *testing.T) *httptest.Server {
	session := view.NewSession(quietLogger())
	srv := httptest.NewServer(Router(session, fakeOpener{t: t}, quietLogger(), false))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path string, body interface{}, out interface{}) int {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, srv.URL+path, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestNothingLoaded(t *testing.T) {
	srv := newServer(t)

	var e map[string]string
	assert.Equal(t, http.StatusNotFound, call(t, srv, "GET", "/custody", nil, &e))
	assert.Contains(t, e["error"], "no data source loaded")
}

func TestOpenErrors(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		path   string
		status int
	}{
		{path: "", status: http.StatusBadRequest},
		{path: "/missing.xlsx", status: http.StatusNotFound},
		{path: "/broken.xlsx", status: http.StatusInternalServerError},
	}

	for _, test := range tests {
		var e map[string]string
		status := call(t, srv, "POST", "/sources/workbook", map[string]string{"path": test.path}, &e)
		assert.Equal(t, test.status, status, "path %q", test.path)
		assert.NotEmpty(t, e["error"])
	}

	assert.Equal(t, http.StatusBadRequest, call(t, srv, "POST", "/sources/batch", map[string]string{}, nil))
}

func TestWorkflow(t *testing.T) {
	srv := newServer(t)

	var summary Summary
	require.Equal(t, http.StatusCreated, call(t, srv, "POST", "/sources/workbook", map[string]string{"path": "/B-100.xlsx"}, &summary))
	assert.Equal(t, Summary{Source: "/B-100.xlsx", CustodyRows: 3, MatrixRows: 2}, summary)

	var custody CustodyGrid
	require.Equal(t, http.StatusOK, call(t, srv, "GET", "/custody", nil, &custody))
	assert.Equal(t, -1, custody.Selected)
	assert.Len(t, custody.Rows, 3)
	assert.Equal(t, shape.IncludeColumnName, custody.Header[model.IncludeColumn])

	var matrix display.Grid
	require.Equal(t, http.StatusOK, call(t, srv, "GET", "/matrix", nil, &matrix))
	assert.Empty(t, matrix.Rows)

	require.Equal(t, http.StatusOK, call(t, srv, "PUT", "/custody/selection", map[string]int{"row": 1}, &matrix))
	require.Len(t, matrix.Rows, 1)
	assert.Equal(t, "S2", matrix.Rows[0][shape.MatrixSampleIDColumn])
	assert.Equal(t, "2023-03-15", matrix.Rows[0][0])

	require.Equal(t, http.StatusOK, call(t, srv, "GET", "/matrix?all=true", nil, &matrix))
	assert.Len(t, matrix.Rows, 2)

	var selected display.Grid
	require.Equal(t, http.StatusOK, call(t, srv, "PUT", "/custody/0/include", map[string]bool{"include": true}, &selected))
	require.Equal(t, http.StatusOK, call(t, srv, "PUT", "/custody/2/include", map[string]bool{"include": true}, &selected))
	require.Len(t, selected.Rows, 2)
	assert.Len(t, selected.Header, 7)
	assert.Equal(t, "S3", selected.Rows[1][model.SampleIDColumn])

	assert.Equal(t, http.StatusBadRequest, call(t, srv, "PUT", "/custody/9/include", map[string]bool{"include": true}, nil))
	assert.Equal(t, http.StatusBadRequest, call(t, srv, "PUT", "/custody/0/include", map[string]string{}, nil))

	require.Equal(t, http.StatusOK, call(t, srv, "PUT", "/custody/include", map[string][]int{"rows": {1}}, &selected))
	require.Len(t, selected.Rows, 1)

	require.Equal(t, http.StatusOK, call(t, srv, "GET", "/selected", nil, &selected))
	assert.Equal(t, "S2", selected.Rows[0][model.SampleIDColumn])

	// a new source replaces the view and its state
	require.Equal(t, http.StatusCreated, call(t, srv, "POST", "/sources/batch", map[string]string{"batch_id": "B-100"}, &summary))
	assert.Equal(t, "batch B-100", summary.Source)
	require.Equal(t, http.StatusOK, call(t, srv, "GET", "/selected", nil, &selected))
	assert.Empty(t, selected.Rows)

	require.Equal(t, http.StatusOK, call(t, srv, "PUT", "/custody/selection", map[string]interface{}{"row": nil}, &matrix))
	assert.Empty(t, matrix.Rows)
}
