package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/EpicMandM/snapshot-report/internal/report"
	"github.com/EpicMandM/snapshot-report/internal/snapshot"
)

// VMErrorPolicy decides what happens when one VM's snapshot tree is malformed.
type VMErrorPolicy string

const (
	// PolicyAbort fails the whole run.
	PolicyAbort VMErrorPolicy = "abort"
	// PolicySkip leaves the VM out and lists it in the report.
	PolicySkip VMErrorPolicy = "skip"
)

// ReportSettings is the [report] table.
type ReportSettings struct {
	Subject        string        `toml:"subject"`
	StaleThreshold string        `toml:"stale_threshold"`
	Format         string        `toml:"format"`
	OnVMError      VMErrorPolicy `toml:"on_vm_error"`
}

// InventorySettings is the [inventory] table.
type InventorySettings struct {
	Exclude []string `toml:"exclude"`
}

// ReportConfig holds user-facing report settings. Non-sensitive, read from a
// TOML file that may be absent.
type ReportConfig struct {
	Report    ReportSettings    `toml:"report"`
	Inventory InventorySettings `toml:"inventory"`

	threshold time.Duration
	format    report.Format
}

// DefaultReportConfig returns the settings used when no file is present.
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Report: ReportSettings{
			Subject:        "VM Snapshot Report",
			StaleThreshold: snapshot.DefaultThreshold.String(),
			Format:         string(report.FormatHTML),
			OnVMError:      PolicyAbort,
		},
		threshold: snapshot.DefaultThreshold,
		format:    report.FormatHTML,
	}
}

// LoadReportConfig decodes path over the defaults. A missing file is not an
// error.
func LoadReportConfig(p string) (*ReportConfig, error) {
	cfg := DefaultReportConfig()
	if p != "" {
		if _, err := toml.DecodeFile(p, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: failed to load report config: %v", ErrConfiguration, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalises and checks the settings.
func (c *ReportConfig) Validate() error {
	if c.Report.Subject == "" {
		c.Report.Subject = "VM Snapshot Report"
	}
	if c.Report.OnVMError == "" {
		c.Report.OnVMError = PolicyAbort
	}
	if c.Report.StaleThreshold == "" {
		c.Report.StaleThreshold = snapshot.DefaultThreshold.String()
	}

	d, err := time.ParseDuration(c.Report.StaleThreshold)
	if err != nil {
		return fmt.Errorf("%w: stale_threshold: %v", ErrConfiguration, err)
	}
	if d <= 0 {
		return fmt.Errorf("%w: stale_threshold must be positive, got %s", ErrConfiguration, d)
	}
	c.threshold = d

	f, err := report.ParseFormat(c.Report.Format)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	c.format = f

	switch c.Report.OnVMError {
	case PolicyAbort, PolicySkip:
	default:
		return fmt.Errorf("%w: on_vm_error must be %q or %q, got %q", ErrConfiguration, PolicyAbort, PolicySkip, c.Report.OnVMError)
	}

	for _, pattern := range c.Inventory.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w: exclude pattern %q: %v", ErrConfiguration, pattern, err)
		}
	}
	return nil
}

// Threshold is the parsed stale_threshold.
func (c *ReportConfig) Threshold() time.Duration { return c.threshold }

// Format is the parsed report format.
func (c *ReportConfig) Format() report.Format { return c.format }

// Excluded reports whether vmName matches one of the exclude patterns.
func (c *ReportConfig) Excluded(vmName string) bool {
	for _, pattern := range c.Inventory.Exclude {
		if ok, _ := path.Match(pattern, vmName); ok {
			return true
		}
	}
	return false
}
