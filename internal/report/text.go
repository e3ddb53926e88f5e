package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"text/tabwriter"

	"github.com/EpicMandM/snapshot-report/internal/models"
	"github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// RenderText renders the report as an aligned plain-text table.
func RenderText(r *models.Report) (string, error) {
	var buf bytes.Buffer

	if r.IsEmpty() {
		fmt.Fprintf(&buf, "No Snapshots Found!\n\n%s\n", EmptyAdvice)
		writeSkipped(&buf, r.Skipped)
		return buf.String(), nil
	}

	fmt.Fprintf(&buf, "%s\n\n", Summary(r))

	tw := tabwriter.NewWriter(&buf, 2, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "VM\tSnapshot\tDescription\tCreated\tAge"); err != nil {
		return "", err
	}
	for _, row := range r.Rows {
		line := strings.Join([]string{
			singleLine(row.VMName),
			strings.Repeat("  ", row.Depth) + singleLine(row.SnapshotName),
			PlainDescription(row.Description),
			createdCell(row, r),
			AgeCell(row.Elapsed, row.Stale, r.Threshold),
		}, "\t")
		if _, err := fmt.Fprintln(tw, line); err != nil {
			return "", err
		}
	}
	if err := tw.Flush(); err != nil {
		return "", fmt.Errorf("failed to render text report: %w", err)
	}

	writeSkipped(&buf, r.Skipped)
	return buf.String(), nil
}

// PlainDescription strips markup and collapses whitespace so a description
// fits on one table line.
func PlainDescription(s string) string {
	return singleLine(html.UnescapeString(stripPolicy.Sanitize(s)))
}

// singleLine collapses runs of whitespace, tabs and newlines included, to a
// single space.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func createdCell(row models.SnapshotDescriptor, r *models.Report) string {
	created := FormatCreated(row.CreatedAt)
	if r.GeneratedAt.IsZero() {
		return created
	}
	return created + " (" + humanize.RelTime(row.CreatedAt, r.GeneratedAt, "ago", "from now") + ")"
}

func writeSkipped(buf *bytes.Buffer, skipped []models.VMFailure) {
	if len(skipped) == 0 {
		return
	}
	fmt.Fprintf(buf, "\nVMs skipped:\n")
	for _, f := range skipped {
		fmt.Fprintf(buf, "  %s: %s\n", singleLine(f.VMName), singleLine(f.Reason))
	}
}

// Render dispatches to the renderer for format.
func Render(r *models.Report, format Format) (string, error) {
	switch format {
	case FormatText:
		return RenderText(r)
	case FormatHTML, "":
		return RenderHTML(r)
	default:
		return "", fmt.Errorf("unknown report format %q", format)
	}
}
