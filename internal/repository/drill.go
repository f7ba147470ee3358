package repository

import (
	"context"
	"database/sql"
	"fmt"

	"lacrosse-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type DrillRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewDrillRepository(sqlDB *sql.DB, logger zerolog.Logger) *DrillRepository {
	return &DrillRepository{db: sqlDB, logger: logger}
}

func (r *DrillRepository) CreateSession(ctx context.Context, session *domain.DrillSession) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO drill_sessions (id, player_id, mode, target_reps, target_seconds, started_at, ended_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.PlayerID, session.Mode, session.TargetReps, session.TargetSeconds,
		session.StartedAt, session.EndedAt, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert drill session: %w", err)
	}

	for i := range session.Samples {
		sample := &session.Samples[i]
		if sample.ID == "" {
			sample.ID, err = gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}
		}
		sample.SessionID = session.ID

		_, err = tx.ExecContext(ctx,
			`INSERT INTO drill_samples (id, session_id, elapsed_ms, created_at)
			 VALUES (?, ?, ?, ?)`,
			sample.ID, sample.SessionID, sample.ElapsedMS, sample.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert drill sample: %w", err)
		}
	}

	return tx.Commit()
}

func (r *DrillRepository) ListByPlayer(ctx context.Context, playerID string, limit int) ([]domain.DrillSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, player_id, mode, target_reps, target_seconds, started_at, ended_at, created_at
		 FROM drill_sessions WHERE player_id = ? ORDER BY started_at DESC LIMIT ?`,
		playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.DrillSession
	for rows.Next() {
		var s domain.DrillSession
		if err := rows.Scan(&s.ID, &s.PlayerID, &s.Mode, &s.TargetReps, &s.TargetSeconds, &s.StartedAt, &s.EndedAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sessions {
		samples, err := r.loadSamples(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Samples = samples
	}

	return sessions, nil
}

func (r *DrillRepository) loadSamples(ctx context.Context, sessionID string) ([]domain.ReactionSample, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, elapsed_ms, created_at
		 FROM drill_samples WHERE session_id = ? ORDER BY created_at`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []domain.ReactionSample
	for rows.Next() {
		var s domain.ReactionSample
		if err := rows.Scan(&s.ID, &s.SessionID, &s.ElapsedMS, &s.CreatedAt); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}
