package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lacrosse-tracker/internal/domain"

	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("not found")

type TeamRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewTeamRepository(sqlDB *sql.DB, logger zerolog.Logger) *TeamRepository {
	return &TeamRepository{db: sqlDB, logger: logger}
}

func (r *TeamRepository) Create(ctx context.Context, team *domain.Team) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO teams (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		team.ID, team.Name, team.CreatedAt, team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert team: %w", err)
	}

	for _, p := range team.Roster {
		if err := insertPlayer(ctx, tx, p); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertPlayer(ctx context.Context, tx *sql.Tx, p domain.Player) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO players (id, team_id, name, jersey_number, position, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.TeamID, p.Name, p.JerseyNumber, p.Position, p.UserID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert player %s: %w", p.ID, err)
	}
	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	var team domain.Team
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM teams WHERE id = ?`, id).
		Scan(&team.ID, &team.Name, &team.CreatedAt, &team.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	roster, err := r.loadRoster(ctx, id)
	if err != nil {
		return nil, err
	}
	team.Roster = roster

	return &team, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]domain.Team, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM teams ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range teams {
		roster, err := r.loadRoster(ctx, teams[i].ID)
		if err != nil {
			return nil, err
		}
		teams[i].Roster = roster
	}

	return teams, nil
}

func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TeamRepository) AddPlayer(ctx context.Context, p *domain.Player) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO players (id, team_id, name, jersey_number, position, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.TeamID, p.Name, p.JerseyNumber, p.Position, p.UserID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

func (r *TeamRepository) UpdatePlayer(ctx context.Context, p *domain.Player) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE players SET name = ?, jersey_number = ?, position = ?, user_id = ?, updated_at = ?
		 WHERE id = ? AND team_id = ?`,
		p.Name, p.JerseyNumber, p.Position, p.UserID, time.Now(), p.ID, p.TeamID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TeamRepository) RemovePlayer(ctx context.Context, teamID, playerID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM players WHERE id = ? AND team_id = ?`, playerID, teamID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TeamRepository) loadRoster(ctx context.Context, teamID string) ([]domain.Player, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, team_id, name, jersey_number, position, user_id, created_at, updated_at
		 FROM players WHERE team_id = ? ORDER BY jersey_number, name`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []domain.Player
	for rows.Next() {
		var p domain.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Name, &p.JerseyNumber, &p.Position, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		roster = append(roster, p)
	}
	return roster, rows.Err()
}
