package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2025, 1, 10, h, 0, 0, 0, time.UTC) }

	tests := []struct {
		name       string
		aStart     time.Time
		aEnd       time.Time
		bStart     time.Time
		bEnd       time.Time
		wantResult bool
	}{
		{"identical", at(9), at(10), at(9), at(10), true},
		{"partial start", at(9), at(11), at(10), at(12), true},
		{"partial end", at(10), at(12), at(9), at(11), true},
		{"contains", at(8), at(12), at(9), at(10), true},
		{"contained", at(9), at(10), at(8), at(12), true},
		{"touching end", at(9), at(10), at(10), at(11), false},
		{"touching start", at(10), at(11), at(9), at(10), false},
		{"disjoint", at(9), at(10), at(12), at(13), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantResult, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			assert.Equal(t, tt.wantResult, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd), "overlap must be symmetric")
		})
	}
}

func TestReservationOverlapsIgnoresRoom(t *testing.T) {
	start := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	a := Reservation{Room: "A", StartDate: start, EndDate: start.Add(time.Hour)}
	b := Reservation{Room: "B", StartDate: start.Add(30 * time.Minute), EndDate: start.Add(2 * time.Hour)}

	assert.True(t, a.Overlaps(b))
}
