package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"lacrosse-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type GameRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewGameRepository(sqlDB *sql.DB, logger zerolog.Logger) *GameRepository {
	return &GameRepository{db: sqlDB, logger: logger}
}

// Create stores a new game. Both rosters are persisted as JSON snapshots
// so later team edits never change what this game recorded.
func (r *GameRepository) Create(ctx context.Context, g *domain.Game) error {
	homeJSON, err := json.Marshal(g.HomeTeam)
	if err != nil {
		return fmt.Errorf("failed to marshal home team snapshot: %w", err)
	}
	awayJSON, err := json.Marshal(g.AwayTeam)
	if err != nil {
		return fmt.Errorf("failed to marshal away team snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO games (id, home_team, away_team, scheduled_at, status, home_score, away_score,
		                    current_period, clock_seconds, summary, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, string(homeJSON), string(awayJSON), g.ScheduledAt, g.Status,
		g.Score.Home, g.Score.Away, g.CurrentPeriod, g.ClockSeconds, g.Summary,
		g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}
	return nil
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (*domain.Game, error) {
	g, err := r.scanGame(r.db.QueryRowContext(ctx,
		`SELECT id, home_team, away_team, scheduled_at, status, home_score, away_score,
		        current_period, clock_seconds, summary, created_at, updated_at
		 FROM games WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if g.Stats, err = r.loadStats(ctx, id); err != nil {
		return nil, err
	}
	if g.Penalties, err = r.loadPenalties(ctx, id); err != nil {
		return nil, err
	}

	return g, nil
}

// List returns game headers ordered most recent first. Stat and penalty
// logs are not loaded; use GetByID for the full aggregate.
func (r *GameRepository) List(ctx context.Context) ([]domain.Game, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, home_team, away_team, scheduled_at, status, home_score, away_score,
		        current_period, clock_seconds, summary, created_at, updated_at
		 FROM games ORDER BY scheduled_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		g, err := r.scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// SaveState persists the mutable half of a game: status, score, period,
// clock, summary.
func (r *GameRepository) SaveState(ctx context.Context, g *domain.Game) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE games SET status = ?, home_score = ?, away_score = ?, current_period = ?,
		                  clock_seconds = ?, summary = ?, updated_at = ?
		 WHERE id = ?`,
		g.Status, g.Score.Home, g.Score.Away, g.CurrentPeriod,
		g.ClockSeconds, g.Summary, time.Now(), g.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GameRepository) InsertStat(ctx context.Context, s *domain.Stat) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO game_stats (id, game_id, player_id, team_id, type, clock_seconds, assist_player_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.GameID, s.PlayerID, s.TeamID, s.Type, s.ClockSeconds, s.AssistPlayerID, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert stat: %w", err)
	}
	return nil
}

func (r *GameRepository) InsertPenalty(ctx context.Context, p *domain.Penalty) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO game_penalties (id, game_id, player_id, team_id, type, duration_seconds, start_clock, release_clock, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.GameID, p.PlayerID, p.TeamID, p.Type, p.DurationSeconds, p.StartClock, p.ReleaseClock, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert penalty: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *GameRepository) scanGame(row rowScanner) (*domain.Game, error) {
	var g domain.Game
	var homeJSON, awayJSON string

	err := row.Scan(&g.ID, &homeJSON, &awayJSON, &g.ScheduledAt, &g.Status,
		&g.Score.Home, &g.Score.Away, &g.CurrentPeriod, &g.ClockSeconds,
		&g.Summary, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(homeJSON), &g.HomeTeam); err != nil {
		return nil, fmt.Errorf("failed to unmarshal home team snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(awayJSON), &g.AwayTeam); err != nil {
		return nil, fmt.Errorf("failed to unmarshal away team snapshot: %w", err)
	}

	return &g, nil
}

// loadStats returns the log in display order: clock descending, most
// recent entries first within a clock value.
func (r *GameRepository) loadStats(ctx context.Context, gameID string) ([]domain.Stat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, player_id, team_id, type, clock_seconds, assist_player_id, created_at
		 FROM game_stats WHERE game_id = ? ORDER BY clock_seconds DESC, created_at DESC`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.Stat
	for rows.Next() {
		var s domain.Stat
		if err := rows.Scan(&s.ID, &s.GameID, &s.PlayerID, &s.TeamID, &s.Type, &s.ClockSeconds, &s.AssistPlayerID, &s.CreatedAt); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *GameRepository) loadPenalties(ctx context.Context, gameID string) ([]domain.Penalty, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, player_id, team_id, type, duration_seconds, start_clock, release_clock, created_at
		 FROM game_penalties WHERE game_id = ? ORDER BY created_at`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var penalties []domain.Penalty
	for rows.Next() {
		var p domain.Penalty
		if err := rows.Scan(&p.ID, &p.GameID, &p.PlayerID, &p.TeamID, &p.Type, &p.DurationSeconds, &p.StartClock, &p.ReleaseClock, &p.CreatedAt); err != nil {
			return nil, err
		}
		penalties = append(penalties, p)
	}
	return penalties, rows.Err()
}
