package drill

import (
	"testing"
	"time"

	"lacrosse-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestSessionRepsMode(t *testing.T) {
	s := NewSession(SessionConfig{Mode: domain.DrillModeReps, TargetReps: 3})
	s.Begin()

	assert.False(t, s.Done())
	s.Record(300 * time.Millisecond)
	s.Record(250 * time.Millisecond)
	assert.False(t, s.Done(), "two of three reps recorded")
	s.Record(275 * time.Millisecond)
	assert.True(t, s.Done())
}

func TestSessionTimedMode(t *testing.T) {
	clock := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s := NewSession(SessionConfig{Mode: domain.DrillModeTimed, TargetDuration: time.Minute})
	s.now = func() time.Time { return clock }
	s.Begin()

	assert.False(t, s.Done())

	clock = clock.Add(59 * time.Second)
	assert.False(t, s.Done())

	clock = clock.Add(time.Second)
	assert.True(t, s.Done(), "done exactly at the target duration")

	// Rep counts never end a timed session.
	s.Record(200 * time.Millisecond)
	assert.True(t, s.Done())
}

func TestSessionBestAndAverage(t *testing.T) {
	s := NewSession(SessionConfig{Mode: domain.DrillModeReps, TargetReps: 4})
	s.Record(300 * time.Millisecond)
	s.Record(180 * time.Millisecond)
	s.Record(420 * time.Millisecond)

	assert.Equal(t, 180*time.Millisecond, s.Best())
	assert.Equal(t, 300*time.Millisecond, s.Average())
}

func TestSessionEmpty(t *testing.T) {
	s := NewSession(SessionConfig{Mode: domain.DrillModeReps, TargetReps: 1})
	assert.Zero(t, s.Best())
	assert.Zero(t, s.Average())
	assert.Empty(t, s.Samples())
}

func TestSessionSamplesCopy(t *testing.T) {
	s := NewSession(SessionConfig{Mode: domain.DrillModeReps, TargetReps: 2})
	s.Record(100 * time.Millisecond)

	out := s.Samples()
	out[0] = time.Hour
	assert.Equal(t, 100*time.Millisecond, s.Samples()[0])
}
