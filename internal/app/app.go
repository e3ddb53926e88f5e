package app

import (
	"context"
	"fmt"
	"io"

	"github.com/EpicMandM/snapshot-report/internal/config"
	"github.com/EpicMandM/snapshot-report/internal/logger"
	"github.com/EpicMandM/snapshot-report/internal/orchestrator"
	"github.com/EpicMandM/snapshot-report/internal/service"
	"github.com/google/uuid"
)

// App wires configuration to the vCenter and SMTP services.
type App struct {
	config    *config.Config
	reportCfg *config.ReportConfig
	logger    *logger.Logger
	output    io.Writer
	runID     string

	inventory service.InventoryClient
	sender    service.ReportSender

	// DryRun prints the report to output instead of mailing it.
	DryRun bool
}

func New(cfg *config.Config, reportCfg *config.ReportConfig, log *logger.Logger, output io.Writer) *App {
	if reportCfg == nil {
		reportCfg = config.DefaultReportConfig()
	}
	if output == nil {
		output = io.Discard
	}
	runID := uuid.NewString()
	if log == nil {
		log = logger.NewWithWriter(io.Discard)
	}
	return &App{
		config:    cfg,
		reportCfg: reportCfg,
		logger:    log.With(logger.RunID(runID)),
		output:    output,
		runID:     runID,
	}
}

// RunID identifies this run in logs and in the mail headers.
func (a *App) RunID() string {
	return a.runID
}

// Initialize builds the mail service, then logs in to vCenter.
func (a *App) Initialize(ctx context.Context) error {
	sender, err := service.NewEmailService(a.config)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrConfiguration, err)
	}
	a.sender = sender
	a.logger.Info("Email service initialized", logger.Host(a.config.SMTPHost), logger.Recipients(a.config.To), logger.Status("ready"))

	vmwareSvc, err := service.NewVMwareService(ctx, a.config, a.logger)
	if err != nil {
		return err
	}
	a.inventory = vmwareSvc
	a.logger.Info("Connected to vCenter", logger.Host(a.config.VCenterHost), logger.F("ABOUT", vmwareSvc.About()))
	return nil
}

// Run produces and delivers one report.
func (a *App) Run(ctx context.Context) error {
	if a.inventory == nil || a.sender == nil {
		return fmt.Errorf("service not initialized")
	}
	o := &orchestrator.Orchestrator{
		Logger:    a.logger,
		Inventory: a.inventory,
		Sender:    a.sender,
		ReportCfg: a.reportCfg,
		RunID:     a.runID,
		DryRun:    a.DryRun,
		Output:    a.output,
	}
	err := o.Run(ctx)
	// The orchestrator closes the session on every path.
	a.inventory = nil
	return err
}

// Close releases the vCenter session when Run was never reached.
func (a *App) Close(ctx context.Context) error {
	if a.inventory == nil {
		return nil
	}
	if err := a.inventory.Close(ctx); err != nil {
		return fmt.Errorf("failed to close VMware service: %w", err)
	}
	a.logger.Info("Disconnected from vCenter")
	return nil
}
