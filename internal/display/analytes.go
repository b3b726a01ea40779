package display

import (
	"github.com/juliandevatbs/SRLIMS/internal/model"
	"github.com/juliandevatbs/SRLIMS/internal/shape"
	"github.com/juliandevatbs/SRLIMS/internal/table"
)

// SampleAnalytes lists the analytes that have results for one custody sample.
type SampleAnalytes struct {
	Sample   string         `json:"sample" yaml:"sample"`
	Analytes []AnalyteCount `json:"analytes" yaml:"analytes"`
}

type AnalyteCount struct {
	Name    string `json:"name" yaml:"name"`
	Results int    `json:"results" yaml:"results"`
}

// sampleAnalytes walks the matrix once and attaches each result row to its
// custody sample. Samples keep custody order and analytes keep the order they
// first appear in the matrix. Matrix rows for samples that are not on the
// chain of custody are ignored.
func sampleAnalytes(custody, matrix *table.Table) []SampleAnalytes {
	var (
		samples  = make([]SampleAnalytes, 0, custody.Len())
		bySample = make(map[string]int)
	)

	for _, row := range custody.Rows {
		id := table.String(row[model.SampleIDColumn])
		if _, ok := bySample[id]; ok {
			continue
		}
		bySample[id] = len(samples)
		samples = append(samples, SampleAnalytes{Sample: id})
	}

	analyteColumn := matrix.Column(shape.AnalyteColumnName)
	if analyteColumn == -1 {
		return samples
	}

	for _, row := range matrix.Rows {
		i, ok := bySample[table.String(row[shape.MatrixSampleIDColumn])]
		if !ok {
			continue
		}
		samples[i].add(table.String(row[analyteColumn]))
	}

	return samples
}

func (s *SampleAnalytes) add(analyte string) {
	for i := range s.Analytes {
		if s.Analytes[i].Name == analyte {
			s.Analytes[i].Results++
			return
		}
	}
	s.Analytes = append(s.Analytes, AnalyteCount{Name: analyte, Results: 1})
}
