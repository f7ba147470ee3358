package drill

import (
	"time"

	"lacrosse-tracker/internal/domain"
)

// SessionConfig is the envelope around the repetition state machine:
// either a fixed number of reps or a fixed wall-clock duration.
type SessionConfig struct {
	Mode           domain.DrillMode
	TargetReps     int
	TargetDuration time.Duration
}

// Session accumulates reaction samples for one drill run. End-of-session
// conditions are evaluated when a repetition reaches its result.
type Session struct {
	cfg       SessionConfig
	samples   []time.Duration
	startedAt time.Time
	now       func() time.Time
}

func NewSession(cfg SessionConfig) *Session {
	return &Session{cfg: cfg, now: time.Now}
}

func (s *Session) Begin() {
	s.startedAt = s.now()
}

func (s *Session) Record(elapsed time.Duration) {
	s.samples = append(s.samples, elapsed)
}

// Done reports whether the session's end condition has been reached.
func (s *Session) Done() bool {
	switch s.cfg.Mode {
	case domain.DrillModeReps:
		return len(s.samples) >= s.cfg.TargetReps
	case domain.DrillModeTimed:
		return s.now().Sub(s.startedAt) >= s.cfg.TargetDuration
	default:
		return true
	}
}

func (s *Session) Samples() []time.Duration {
	out := make([]time.Duration, len(s.samples))
	copy(out, s.samples)
	return out
}

func (s *Session) Best() time.Duration {
	if len(s.samples) == 0 {
		return 0
	}
	best := s.samples[0]
	for _, d := range s.samples[1:] {
		if d < best {
			best = d
		}
	}
	return best
}

func (s *Session) Average() time.Duration {
	if len(s.samples) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range s.samples {
		sum += d
	}
	return sum / time.Duration(len(s.samples))
}

func (s *Session) StartedAt() time.Time {
	return s.startedAt
}
