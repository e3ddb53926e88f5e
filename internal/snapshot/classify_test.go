package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		created     time.Time
		now         time.Time
		wantElapsed time.Duration
		wantStale   bool
	}{
		{"same instant", base, base, 0, false},
		{"exactly threshold", base, base.Add(DefaultThreshold), DefaultThreshold, false},
		{"one second past threshold", base, base.Add(DefaultThreshold + time.Second), DefaultThreshold + time.Second, true},
		{"two hours old", base, base.Add(2 * time.Hour), 2 * time.Hour, false},
		{"thirty hours old", base, base.Add(30 * time.Hour), 30 * time.Hour, true},
		{"created in the future", base.Add(time.Hour), base, -time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elapsed, stale := Classify(tt.created, tt.now, DefaultThreshold)
			assert.Equal(t, tt.wantElapsed, elapsed)
			assert.Equal(t, tt.wantStale, stale)
		})
	}
}

func TestClassify_MixedZones(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	created := time.Date(2025, 3, 10, 8, 0, 0, 0, ny)
	now := created.UTC().Add(25 * time.Hour)

	elapsed, stale := Classify(created, now, DefaultThreshold)
	assert.Equal(t, 25*time.Hour, elapsed)
	assert.True(t, stale)
}

func TestClassify_CustomThreshold(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	threshold := 7 * 24 * time.Hour

	_, stale := Classify(base, base.Add(3*24*time.Hour), threshold)
	assert.False(t, stale)

	_, stale = Classify(base, base.Add(8*24*time.Hour), threshold)
	assert.True(t, stale)
}
