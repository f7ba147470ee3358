package service

import (
	"context"
	"fmt"
	"time"

	"lacrosse-tracker/internal/constants"
	"lacrosse-tracker/internal/domain"
	"lacrosse-tracker/internal/drill"
	"lacrosse-tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type DrillService struct {
	repo   *repository.DrillRepository
	logger zerolog.Logger
}

func NewDrillService(repo *repository.DrillRepository, logger zerolog.Logger) *DrillService {
	return &DrillService{repo: repo, logger: logger}
}

// RecordSession persists a completed reaction-time session reported by a
// client.
func (s *DrillService) RecordSession(ctx context.Context, session *domain.DrillSession) (*domain.DrillSession, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if session.PlayerID == "" {
		return nil, ErrNameRequired
	}
	if session.Mode != domain.DrillModeReps && session.Mode != domain.DrillModeTimed {
		return nil, fmt.Errorf("unknown drill mode: %s", session.Mode)
	}

	session.ID = uuid.New().String()
	session.CreatedAt = time.Now()
	for i := range session.Samples {
		session.Samples[i].CreatedAt = session.CreatedAt
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to record drill session: %w", err)
	}

	s.logger.Info().
		Str("session_id", session.ID).
		Str("player_id", session.PlayerID).
		Int("samples", len(session.Samples)).
		Msg("drill session recorded")
	return session, nil
}

// RunSession drives the drill engine to completion against the given
// frame source and cue player, then persists the resulting samples. This
// is the server-side form of the drill; the browser client reports
// finished sessions through RecordSession instead.
func (s *DrillService) RunSession(ctx context.Context, playerID string, cfg drill.Config, sessionCfg drill.SessionConfig, frames drill.FrameSource, cues drill.CuePlayer) (*domain.DrillSession, error) {
	session := drill.NewSession(sessionCfg)
	runner := drill.NewRunner(cfg, frames, cues, session, s.logger)

	if err := runner.Run(ctx); err != nil {
		return nil, fmt.Errorf("drill run failed: %w", err)
	}

	now := time.Now()
	record := &domain.DrillSession{
		PlayerID:      playerID,
		Mode:          sessionCfg.Mode,
		TargetReps:    sessionCfg.TargetReps,
		TargetSeconds: int(sessionCfg.TargetDuration.Seconds()),
		StartedAt:     session.StartedAt(),
		EndedAt:       now,
	}
	for _, d := range session.Samples() {
		record.Samples = append(record.Samples, domain.ReactionSample{
			ElapsedMS: int(d.Milliseconds()),
		})
	}

	return s.RecordSession(ctx, record)
}

func (s *DrillService) History(ctx context.Context, playerID string) ([]domain.DrillSession, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.ListByPlayer(ctx, playerID, constants.DrillHistoryLimit)
}

// SessionStats summarizes one session's samples.
type SessionStats struct {
	Samples   int `json:"samples"`
	BestMS    int `json:"best_ms"`
	AverageMS int `json:"average_ms"`
}

func Summarize(session domain.DrillSession) SessionStats {
	stats := SessionStats{Samples: len(session.Samples)}
	if stats.Samples == 0 {
		return stats
	}

	best := session.Samples[0].ElapsedMS
	sum := 0
	for _, sample := range session.Samples {
		if sample.ElapsedMS < best {
			best = sample.ElapsedMS
		}
		sum += sample.ElapsedMS
	}
	stats.BestMS = best
	stats.AverageMS = sum / stats.Samples
	return stats
}
