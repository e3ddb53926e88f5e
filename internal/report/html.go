package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/EpicMandM/snapshot-report/internal/models"
	"github.com/dustin/go-humanize/english"
)

// EmptyAdvice accompanies the "No Snapshots Found" notice.
const EmptyAdvice = "We couldn't find any snapshots for the VMs in the vCenter. " +
	"It's always a good idea to regularly review and clean up unnecessary snapshots " +
	"to save storage space and maintain VM performance."

//go:embed templates/report.html
var templateFS embed.FS

var htmlTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html"))

type htmlRow struct {
	VMName       string
	SnapshotName string
	Description  string
	Created      string
	Age          string
	Stale        bool
	Indent       float64
}

type htmlView struct {
	Empty       bool
	EmptyAdvice string
	Summary     string
	Rows        []htmlRow
	Skipped     []models.VMFailure
}

// RenderHTML renders the report as a standalone HTML document. Values coming
// from the inventory are escaped by html/template.
func RenderHTML(r *models.Report) (string, error) {
	view := htmlView{
		Empty:       r.IsEmpty(),
		EmptyAdvice: EmptyAdvice,
		Summary:     Summary(r),
		Skipped:     r.Skipped,
	}
	for _, row := range r.Rows {
		view.Rows = append(view.Rows, htmlRow{
			VMName:       row.VMName,
			SnapshotName: row.SnapshotName,
			Description:  row.Description,
			Created:      FormatCreated(row.CreatedAt),
			Age:          AgeCell(row.Elapsed, row.Stale, r.Threshold),
			Stale:        row.Stale,
			Indent:       0.75 + float64(row.Depth),
		})
	}

	var buf bytes.Buffer
	if err := htmlTemplate.ExecuteTemplate(&buf, "report", view); err != nil {
		return "", fmt.Errorf("failed to render HTML report: %w", err)
	}
	return buf.String(), nil
}

// Summary is the one-line overview printed above the table.
func Summary(r *models.Report) string {
	if r.IsEmpty() {
		return fmt.Sprintf("No snapshots found across %s.", english.Plural(r.VMCount, "VM", ""))
	}
	return fmt.Sprintf("%s across %s, %d older than %s.",
		english.Plural(r.Len(), "snapshot", ""),
		english.Plural(r.VMCount, "VM", ""),
		r.StaleCount(), FormatThreshold(r.Threshold))
}
