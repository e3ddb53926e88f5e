package snapshot

import "time"

// DefaultThreshold is the age past which a snapshot is reported as stale.
const DefaultThreshold = 24 * time.Hour

// Classify returns how long ago createdAt was relative to now, and whether
// that age is strictly greater than threshold. A snapshot exactly threshold
// old is not stale. Callers must use the same now for every snapshot in a
// report.
func Classify(createdAt, now time.Time, threshold time.Duration) (time.Duration, bool) {
	elapsed := now.Sub(createdAt)
	return elapsed, elapsed > threshold
}
