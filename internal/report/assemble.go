package report

import (
	"time"

	"github.com/EpicMandM/snapshot-report/internal/models"
	"github.com/EpicMandM/snapshot-report/internal/snapshot"
)

// Option customises the metadata attached to an assembled report.
type Option func(*models.Report)

// WithThreshold records the staleness threshold the rows were classified with.
func WithThreshold(d time.Duration) Option {
	return func(r *models.Report) { r.Threshold = d }
}

// WithGeneratedAt records the instant the rows were classified against.
func WithGeneratedAt(t time.Time) Option {
	return func(r *models.Report) { r.GeneratedAt = t }
}

// WithVMCount records how many VMs were inspected.
func WithVMCount(n int) Option {
	return func(r *models.Report) { r.VMCount = n }
}

// WithSkipped records VMs that were left out of the rows.
func WithSkipped(failures []models.VMFailure) Option {
	return func(r *models.Report) { r.Skipped = failures }
}

// Assemble wraps already-classified descriptors into a report. No
// descriptors yields the empty variant.
func Assemble(descriptors []models.SnapshotDescriptor, opts ...Option) *models.Report {
	r := &models.Report{
		Kind:      models.ReportEmpty,
		Threshold: snapshot.DefaultThreshold,
	}
	if len(descriptors) > 0 {
		r.Kind = models.ReportPopulated
		r.Rows = append([]models.SnapshotDescriptor(nil), descriptors...)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
