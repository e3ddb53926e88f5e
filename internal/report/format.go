package report

import (
	"fmt"
	"time"
)

const createdLayout = "2006-01-02 15:04:05 -07:00"

// Format selects the rendering used for the report body.
type Format string

const (
	FormatHTML Format = "html"
	FormatText Format = "text"
)

// ParseFormat accepts "html" or "text"; an empty string means html.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatHTML:
		return FormatHTML, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want html or text)", s)
	}
}

// FormatAge renders a duration as "N days, H:MM:SS", dropping the day part
// when it is zero. Sub-second precision is truncated.
func FormatAge(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	total := int64(d / time.Second)
	days := total / 86400
	rem := total % 86400
	clock := fmt.Sprintf("%d:%02d:%02d", rem/3600, (rem%3600)/60, rem%60)

	switch days {
	case 0:
		return sign + clock
	case 1:
		return sign + "1 day, " + clock
	default:
		return fmt.Sprintf("%s%d days, %s", sign, days, clock)
	}
}

// FormatThreshold renders a threshold in words when it is a whole number of
// hours, and as a Go duration otherwise.
func FormatThreshold(d time.Duration) string {
	if d > 0 && d%time.Hour == 0 {
		h := int64(d / time.Hour)
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	}
	return d.String()
}

// StaleMarker is appended to the age of every stale row.
func StaleMarker(threshold time.Duration) string {
	return "*Older than " + FormatThreshold(threshold) + "*"
}

// AgeCell is the age column of a row, with the stale marker when flagged.
func AgeCell(elapsed time.Duration, stale bool, threshold time.Duration) string {
	age := FormatAge(elapsed)
	if stale {
		return age + " " + StaleMarker(threshold)
	}
	return age
}

// FormatCreated renders a snapshot creation time in its own zone.
func FormatCreated(t time.Time) string {
	return t.Format(createdLayout)
}
