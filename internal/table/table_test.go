package table

import (
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsRaggedRows(t *testing.T) {
	_, err := New([]string{"a", "b"}, []Row{{1.0, 2.0}, {1.0}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	tbl, err := New([]string{"a", "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.NotNil(t, tbl.Rows)
}

func TestRowIsEmpty(t *testing.T) {
	assert.True(t, Row{nil, nil}.IsEmpty())
	assert.True(t, Row{}.IsEmpty())
	assert.False(t, Row{nil, ""}.IsEmpty())
	assert.False(t, Row{0.0, nil}.IsEmpty())
}

func TestWherePreservesOrder(t *testing.T) {
	tbl, err := New([]string{"id"}, []Row{{"S1"}, {"S2"}, {"S1"}, {"S3"}})
	require.NoError(t, err)

	out := tbl.Where(func(r Row) bool { return r[0] == "S1" })
	assert.Equal(t, []string{"id"}, out.Header)
	assert.Equal(t, []Row{{"S1"}, {"S1"}}, out.Rows)
}

func TestString(t *testing.T) {
	tests := []struct {
		in       Value
		expected string
	}{
		{in: nil, expected: ""},
		{in: "S1", expected: "S1"},
		{in: 101.0, expected: "101"},
		{in: 2.5, expected: "2.5"},
		{in: true, expected: "true"},
		{in: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), expected: "2024-03-01"},
		{in: time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC), expected: "2024-03-01 13:30:00"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, String(test.in), "value %#v", test.in)
	}
}

func TestReadError(t *testing.T) {
	cause := fmt.Errorf("zip: not a valid zip file")
	err := NewReadError("/data/reports/book.xlsx", cause)

	assert.Equal(t, "book.xlsx", err.Source)
	assert.Equal(t, "*errors.errorString", err.Category)
	assert.Contains(t, err.Error(), "book.xlsx")
	assert.Contains(t, err.Error(), "zip: not a valid zip file")
	assert.True(t, errors.Is(err, cause))
}
