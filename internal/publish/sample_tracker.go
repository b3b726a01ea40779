package publish

import "github.com/juliandevatbs/SRLIMS/internal/model"

// sampleTracker keeps the samples of one submission in the order they were
// first seen. A sample identification that has been seen already is not
// added again.
type sampleTracker struct {
	seen    map[string]bool
	samples []model.CustodySample
}

func newSampleTracker() *sampleTracker {
	return &sampleTracker{seen: make(map[string]bool)}
}

// add returns false when the sample was already tracked.
func (t *sampleTracker) add(sample model.CustodySample) bool {
	if t.seen[sample.SampleID] {
		return false
	}

	t.seen[sample.SampleID] = true
	t.samples = append(t.samples, sample)
	return true
}
