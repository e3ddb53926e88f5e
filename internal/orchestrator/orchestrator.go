package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/EpicMandM/snapshot-report/internal/config"
	"github.com/EpicMandM/snapshot-report/internal/logger"
	"github.com/EpicMandM/snapshot-report/internal/models"
	"github.com/EpicMandM/snapshot-report/internal/report"
	"github.com/EpicMandM/snapshot-report/internal/service"
	"github.com/EpicMandM/snapshot-report/internal/snapshot"
)

// Orchestrator coordinates one snapshot report run.
type Orchestrator struct {
	Logger    *logger.Logger
	Inventory service.InventoryClient
	Sender    service.ReportSender
	ReportCfg *config.ReportConfig
	RunID     string

	// Clock defaults to time.Now. It is read once per run.
	Clock func() time.Time

	// DryRun writes the rendered report to Output instead of mailing it.
	DryRun bool
	Output io.Writer
}

// Run fetches inventory, classifies snapshots against a single instant, then
// assembles, renders and sends the report. The inventory session is closed
// on every path.
func (o *Orchestrator) Run(ctx context.Context) error {
	defer func() {
		if cerr := o.Inventory.Close(context.WithoutCancel(ctx)); cerr != nil {
			o.Logger.Error("Failed to close inventory session", logger.Error(cerr))
		}
	}()

	vms, err := o.FetchInventory(ctx)
	if err != nil {
		return err
	}

	now := o.now()
	rep, err := o.BuildReport(vms, now)
	if err != nil {
		o.Logger.Error("Failed to build report", logger.Action("report"), logger.Status("failed"), logger.Error(err))
		return err
	}
	o.LogReport(rep)

	msg, err := o.RenderReport(rep)
	if err != nil {
		return err
	}

	if o.DryRun {
		return o.writeDryRun(msg)
	}

	if err := o.Sender.SendReport(msg); err != nil {
		o.Logger.Error("Failed to send report", logger.Action("dispatch"), logger.Status("failed"), logger.Error(err))
		return err
	}

	o.Logger.Info("Report sent",
		logger.Action("dispatch"),
		logger.Status("success"),
		logger.Count(rep.Len()),
		logger.Stale(rep.StaleCount()),
		logger.Skipped(len(rep.Skipped)))
	return nil
}

// FetchInventory fetches every VM and its snapshot forest.
func (o *Orchestrator) FetchInventory(ctx context.Context) ([]models.VMSnapshots, error) {
	o.Logger.Info("Fetching VM inventory", logger.Action("inventory"), logger.Status("fetching_vms"))

	vms, err := o.Inventory.ListVMSnapshots(ctx)
	if err != nil {
		o.Logger.Error("Failed to fetch VMs", logger.Error(err))
		return nil, err
	}

	o.Logger.Info("VM inventory fetched", logger.Action("inventory"), logger.Status("vm_inventory"), logger.Count(len(vms)))
	o.LogVMInventory(vms)
	return vms, nil
}

// LogVMInventory logs each VM that has snapshots.
func (o *Orchestrator) LogVMInventory(vms []models.VMSnapshots) {
	for _, vm := range vms {
		if !vm.HasSnapshots() {
			continue
		}
		o.Logger.Info("VM found", logger.VM(vm.Name), logger.F("SNAPSHOT_COUNT", models.CountNodes(vm.Forest)))
	}
}

// BuildReport walks every non-excluded VM in inventory order and assembles the
// report. VMs without snapshots contribute nothing. A malformed snapshot tree
// fails the run unless the report config says to skip the VM.
func (o *Orchestrator) BuildReport(vms []models.VMSnapshots, now time.Time) (*models.Report, error) {
	cfg := o.reportCfg()
	threshold := cfg.Threshold()

	var (
		descriptors []models.SnapshotDescriptor
		skipped     []models.VMFailure
		inspected   int
	)

	for _, vm := range vms {
		if cfg.Excluded(vm.Name) {
			o.Logger.Debug("VM excluded", logger.VM(vm.Name))
			continue
		}
		inspected++
		if !vm.HasSnapshots() {
			continue
		}

		descs, err := snapshot.Walk(vm.Name, vm.Forest, now, threshold)
		if err != nil {
			if cfg.Report.OnVMError != config.PolicySkip {
				return nil, err
			}
			skipped = append(skipped, models.VMFailure{VMName: vm.Name, Reason: failureReason(err)})
			o.Logger.Warn("Skipping VM with malformed snapshot tree", logger.VM(vm.Name), logger.Reason(failureReason(err)))
			continue
		}
		descriptors = append(descriptors, descs...)
	}

	return report.Assemble(descriptors,
		report.WithThreshold(threshold),
		report.WithGeneratedAt(now),
		report.WithVMCount(inspected),
		report.WithSkipped(skipped),
	), nil
}

// LogReport logs the summary and every stale snapshot.
func (o *Orchestrator) LogReport(rep *models.Report) {
	for _, row := range rep.Rows {
		if row.Stale {
			o.Logger.Info("Stale snapshot",
				logger.VM(row.VMName),
				logger.Snapshot(row.SnapshotName),
				logger.Age(report.FormatAge(row.Elapsed)))
		}
	}
	o.Logger.Info("Report assembled",
		logger.Action("report"),
		logger.Status(rep.Kind.String()),
		logger.Count(rep.Len()),
		logger.Stale(rep.StaleCount()),
		logger.Threshold(rep.Threshold))
}

// RenderReport renders the configured format. HTML reports also carry a
// plain-text alternative.
func (o *Orchestrator) RenderReport(rep *models.Report) (service.ReportMessage, error) {
	cfg := o.reportCfg()
	msg := service.ReportMessage{Subject: cfg.Report.Subject, RunID: o.RunID}

	format := cfg.Format()
	body, err := report.Render(rep, format)
	if err != nil {
		return msg, err
	}
	if format == report.FormatText {
		msg.Text = body
		return msg, nil
	}

	msg.HTML = body
	if msg.Text, err = report.RenderText(rep); err != nil {
		return msg, err
	}
	return msg, nil
}

func (o *Orchestrator) writeDryRun(msg service.ReportMessage) error {
	body := msg.Text
	if msg.HTML != "" {
		body = msg.HTML
	}
	out := o.Output
	if out == nil {
		out = io.Discard
	}
	if _, err := io.WriteString(out, body); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	o.Logger.Info("Report written (dry run)", logger.Action("dispatch"), logger.Status("dry_run"))
	return nil
}

func (o *Orchestrator) now() time.Time {
	if o.Clock != nil {
		return o.Clock()
	}
	return time.Now()
}

func (o *Orchestrator) reportCfg() *config.ReportConfig {
	if o.ReportCfg == nil {
		o.ReportCfg = config.DefaultReportConfig()
	}
	return o.ReportCfg
}

func failureReason(err error) string {
	var merr *snapshot.MalformedInputError
	if errors.As(err, &merr) {
		return fmt.Sprintf("snapshot %q: %s", merr.Snapshot, merr.Reason)
	}
	return err.Error()
}
