package models

import "time"

// SnapshotDescriptor is one flattened, classified snapshot row.
type SnapshotDescriptor struct {
	VMName       string        `json:"vm_name"`
	SnapshotName string        `json:"snapshot_name"`
	Description  string        `json:"description"`
	CreatedAt    time.Time     `json:"created_at"`
	Elapsed      time.Duration `json:"elapsed"`
	Stale        bool          `json:"stale"`
	Depth        int           `json:"depth"`
}

// ReportKind distinguishes an empty report from a populated one.
type ReportKind int

const (
	ReportEmpty ReportKind = iota
	ReportPopulated
)

func (k ReportKind) String() string {
	switch k {
	case ReportEmpty:
		return "empty"
	case ReportPopulated:
		return "populated"
	default:
		return "unknown"
	}
}

// VMFailure records a VM that was left out of the report.
type VMFailure struct {
	VMName string `json:"vm_name"`
	Reason string `json:"reason"`
}

// Report is the result of one inventory run.
type Report struct {
	Kind        ReportKind           `json:"kind"`
	Rows        []SnapshotDescriptor `json:"rows"`
	GeneratedAt time.Time            `json:"generated_at"`
	Threshold   time.Duration        `json:"threshold"`
	VMCount     int                  `json:"vm_count"`
	Skipped     []VMFailure          `json:"skipped,omitempty"`
}

func (r *Report) IsEmpty() bool {
	return r.Kind == ReportEmpty
}

func (r *Report) Len() int {
	return len(r.Rows)
}

// StaleCount returns the number of rows flagged as stale.
func (r *Report) StaleCount() int {
	n := 0
	for _, row := range r.Rows {
		if row.Stale {
			n++
		}
	}
	return n
}
