// Package publish sends the samples a technician flagged for inclusion to
// the sample registry.
//
// A submission posts every flagged sample of a lab reporting batch in one
// request. Each submission carries a newly generated id so the registry can
// tell a retried submission from a new one. Samples with the same sample
// identification are sent once, the first one wins.
package publish

import (
	"strings"

	"github.com/hashicorp/go-uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/juliandevatbs/SRLIMS/internal/model"
	"github.com/juliandevatbs/SRLIMS/internal/table"
)

type Creater struct {
	// BatchID is the lab reporting batch the samples are filed under. When
	// empty the batch of the first sample is used.
	BatchID string

	client *Client
	log    logrus.FieldLogger
}

// Submission is the request body.
type Submission struct {
	SubmissionID string                `json:"submission_id"`
	BatchID      string                `json:"batch_id"`
	Samples      []model.CustodySample `json:"samples"`
}

// Receipt is what the registry answers.
type Receipt struct {
	SubmissionID string `json:"submission_id"`
	Accepted     int    `json:"accepted"`
}

func NewCreater(batchID string, client *Client, log logrus.FieldLogger) *Creater {
	return &Creater{BatchID: batchID, client: client, log: log}
}

// Apply posts samples as one submission.
func (c *Creater) Apply(samples []model.CustodySample) (*Receipt, error) {
	if len(samples) == 0 {
		return nil, errors.Wrap(table.ErrInvalidInput, "no samples selected")
	}

	batchID := c.BatchID
	if batchID == "" {
		batchID = samples[0].BatchID
	}
	if strings.TrimSpace(batchID) == "" {
		return nil, errors.Wrap(table.ErrInvalidInput, "no lab reporting batch id for submission")
	}

	tracker := newSampleTracker()
	for _, sample := range samples {
		if !tracker.add(sample) {
			c.log.WithField("sample", sample.SampleID).Warn("Skipping repeated sample")
		}
	}

	id, err := uuid.GenerateUUID()
	if err != nil {
		return nil, errors.Wrap(err, "unable to create submission id")
	}

	submission := Submission{
		SubmissionID: id,
		BatchID:      batchID,
		Samples:      tracker.samples,
	}

	c.log.WithFields(logrus.Fields{
		"batch":      batchID,
		"submission": id,
		"samples":    len(submission.Samples),
	}).Info("Publishing samples")

	var receipt Receipt
	if err := c.client.post(&receipt, submission, "batches", batchID, "samples"); err != nil {
		return nil, errors.Wrapf(err, "publishing batch %s", batchID)
	}

	if receipt.SubmissionID == "" {
		receipt.SubmissionID = id
	}

	return &receipt, nil
}
