package service

import (
	"context"

	"github.com/EpicMandM/snapshot-report/internal/models"
)

// InventoryClient abstracts the vSphere inventory for testability.
type InventoryClient interface {
	ListVMSnapshots(ctx context.Context) ([]models.VMSnapshots, error)
	Close(ctx context.Context) error
}

// ReportSender abstracts report delivery for testability.
type ReportSender interface {
	SendReport(msg ReportMessage) error
}
