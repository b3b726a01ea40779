package model

import (
	"testing"

	"github.com/juliandevatbs/SRLIMS/internal/table"
	"github.com/stretchr/testify/assert"
)

func TestParseAnalyte(t *testing.T) {
	tests := []struct {
		sheet string
		name  string
		cas   string
	}{
		{sheet: "Ammonia (7664417)", name: "Ammonia", cas: "7664417"},
		{sheet: "Alkalinity (471341)", name: "Alkalinity", cas: "471341"},
		{sheet: "Chlorides (16887006", name: "Chlorides", cas: "16887006"},
		{sheet: " Hardness ", name: "Hardness", cas: ""},
	}

	for _, test := range tests {
		a := ParseAnalyte(test.sheet)
		assert.Equal(t, test.name, a.Name)
		assert.Equal(t, test.cas, a.CAS)
		assert.Equal(t, test.sheet, a.Sheet)
	}
}

func TestNewCustodySample(t *testing.T) {
	s := NewCustodySample(table.Row{1.0, "S1", nil, "Grab", "Water"})
	assert.Equal(t, CustodySample{ItemID: "1", SampleID: "S1", GrabComposite: "Grab", Matrix: "Water"}, s)

	samples := NewCustodySamples([]table.Row{{2.0, "S2", nil, nil, nil, 3.0, "B-7", true}})
	assert.Equal(t, []CustodySample{{ItemID: "2", SampleID: "S2", Containers: "3", BatchID: "B-7"}}, samples)
}
