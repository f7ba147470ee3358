package game

import (
	"testing"

	"lacrosse-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestActivePenaltiesBoundaries(t *testing.T) {
	// 60-second penalty starting at clock=700: active on (640, 700].
	penalties := []domain.Penalty{
		{ID: "p1", StartClock: 700, ReleaseClock: 640, DurationSeconds: 60},
	}

	tests := []struct {
		name   string
		clock  int
		active bool
	}{
		{"just after start", 701, false},
		{"at start", 700, true},
		{"mid-serve", 660, true},
		{"one before release", 641, true},
		{"at release", 640, false},
		{"after release", 600, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ActivePenalties(penalties, tt.clock)
			if tt.active {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestActivePenaltiesExample(t *testing.T) {
	// Slashing, 30 seconds, committed at clock=600.
	penalties := []domain.Penalty{
		{ID: "p1", StartClock: 600, ReleaseClock: 570, DurationSeconds: 30},
	}

	assert.Len(t, ActivePenalties(penalties, 585), 1)
	assert.Empty(t, ActivePenalties(penalties, 565))
}

func TestActivePenaltiesSortedSoonestReleaseFirst(t *testing.T) {
	penalties := []domain.Penalty{
		{ID: "late", StartClock: 650, ReleaseClock: 590},
		{ID: "soon", StartClock: 600, ReleaseClock: 540},
		{ID: "soonest", StartClock: 560, ReleaseClock: 500},
	}

	got := ActivePenalties(penalties, 555)
	assert.Len(t, got, 2, "penalty starting at 650 released already at 590")
	assert.Equal(t, "soonest", got[0].ID)
	assert.Equal(t, "soon", got[1].ID)
}

func TestActivePenaltiesNegativeReleaseNeverExpires(t *testing.T) {
	penalties := []domain.Penalty{
		{ID: "p1", StartClock: 20, ReleaseClock: -40, DurationSeconds: 60},
	}

	// Active all the way down to clock=1; gone only when the clock would
	// pass the (unreachable) negative release value.
	assert.Len(t, ActivePenalties(penalties, 20), 1)
	assert.Len(t, ActivePenalties(penalties, 1), 1)
	assert.Empty(t, ActivePenalties(penalties, 21))
}

func TestActivePenaltiesEmptyInput(t *testing.T) {
	assert.Empty(t, ActivePenalties(nil, 300))
}
