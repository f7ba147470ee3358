package game

import (
	"sort"

	"lacrosse-tracker/internal/domain"
)

// ActivePenalties returns the penalties currently being served at the
// given clock value: active iff releaseClock < clock <= startClock.
// It is a pure derived view, recomputed on every tick; results are
// sorted soonest-to-release first.
func ActivePenalties(penalties []domain.Penalty, clock int) []domain.Penalty {
	var active []domain.Penalty
	for _, p := range penalties {
		if clock > p.ReleaseClock && clock <= p.StartClock {
			active = append(active, p)
		}
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].ReleaseClock < active[j].ReleaseClock
	})

	return active
}
