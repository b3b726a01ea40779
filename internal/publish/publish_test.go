package publish

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliandevatbs/SRLIMS/internal/model"
	"github.com/juliandevatbs/SRLIMS/internal/table"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestApplyPostsSubmission(t *testing.T) {
	var (
		got    Submission
		path   string
		apikey string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		apikey = r.URL.Query().Get("apikey")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Receipt{SubmissionID: got.SubmissionID, Accepted: len(got.Samples)})
	}))
	defer srv.Close()

	samples := []model.CustodySample{
		{SampleID: "S1", BatchID: "B-100"},
		{SampleID: "S2", BatchID: "B-100"},
		{SampleID: "S1", BatchID: "B-100", Matrix: "Soil"},
	}

	c := NewCreater("", NewClient(srv.URL+"/", "secret"), quietLogger())
	receipt, err := c.Apply(samples)
	require.NoError(t, err)

	assert.Equal(t, "/batches/B-100/samples", path)
	assert.Equal(t, "secret", apikey)
	assert.Equal(t, "B-100", got.BatchID)
	require.Len(t, got.Samples, 2)
	assert.Equal(t, "", got.Samples[0].Matrix)
	assert.Equal(t, "S2", got.Samples[1].SampleID)

	assert.Len(t, receipt.SubmissionID, 36)
	assert.Equal(t, got.SubmissionID, receipt.SubmissionID)
	assert.Equal(t, 2, receipt.Accepted)
}

func TestApplyErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("apikey") {
		case "bad":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"batch is closed"}`))
		}
	}))
	defer srv.Close()

	samples := []model.CustodySample{{SampleID: "S1"}}

	_, err := NewCreater("B-100", NewClient(srv.URL, "bad"), quietLogger()).Apply(samples)
	assert.True(t, errors.Is(err, ErrAuth))

	_, err = NewCreater("B-100", NewClient(srv.URL, "good"), quietLogger()).Apply(samples)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP Status: 409")
	assert.Contains(t, err.Error(), "batch is closed")

	_, err = NewCreater("B-100", NewClient(srv.URL, "good"), quietLogger()).Apply(nil)
	assert.True(t, errors.Is(err, table.ErrInvalidInput))

	_, err = NewCreater("", NewClient(srv.URL, "good"), quietLogger()).Apply(samples)
	assert.True(t, errors.Is(err, table.ErrInvalidInput))
}

func TestSampleTracker(t *testing.T) {
	tracker := newSampleTracker()
	assert.True(t, tracker.add(model.CustodySample{SampleID: "S1"}))
	assert.False(t, tracker.add(model.CustodySample{SampleID: "S1"}))
	assert.True(t, tracker.add(model.CustodySample{SampleID: "s1"}))
	assert.Len(t, tracker.samples, 2)
}
