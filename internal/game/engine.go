package game

import (
	"errors"
	"fmt"
	"time"

	"lacrosse-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrGameNotScheduled = errors.New("game is not in scheduled status")
	ErrGameNotLive      = errors.New("game is not live")
	ErrGameNotFinished  = errors.New("game is not finished")
	ErrGameFinished     = errors.New("game is finished")
	ErrUnknownTeam      = errors.New("team is not part of this game")
	ErrPlayerNotOnTeam  = errors.New("player is not on the given team's roster")
	ErrInvalidStatType  = errors.New("unrecognized stat type")
	ErrInvalidPenalty   = errors.New("unrecognized penalty type")
	ErrSummaryExists    = errors.New("summary already attached")
)

// Engine owns the state transitions of a single game: lifecycle, the
// append-only stat and penalty logs, and the running score. It performs
// no I/O; persistence and broadcasting sit above it.
type Engine struct {
	game *domain.Game
}

func NewEngine(g *domain.Game) *Engine {
	return &Engine{game: g}
}

func (e *Engine) Game() *domain.Game { return e.game }

// Start moves the game from scheduled to live.
func (e *Engine) Start() error {
	if e.game.Status != domain.StatusScheduled {
		return ErrGameNotScheduled
	}
	e.game.Status = domain.StatusLive
	return nil
}

// End moves the game from live to finished. A finished game is immutable
// except for attaching the AI summary.
func (e *Engine) End() error {
	if e.game.Status != domain.StatusLive {
		return ErrGameNotLive
	}
	e.game.Status = domain.StatusFinished
	return nil
}

func (e *Engine) AttachSummary(text string) error {
	if e.game.Status != domain.StatusFinished {
		return ErrGameNotFinished
	}
	if e.game.Summary != "" {
		return ErrSummaryExists
	}
	e.game.Summary = text
	return nil
}

// RecordStat validates the event against the game's rosters and appends
// it to the stat log, stamped with the current game clock. A goal bumps
// the scoring side's counter by exactly one; no other validation is
// applied, entries are append-only and may arrive out of clock order.
func (e *Engine) RecordStat(playerID, teamID string, statType domain.StatType, assistPlayerID string) (*domain.Stat, error) {
	if e.game.Status == domain.StatusFinished {
		return nil, ErrGameFinished
	}
	if e.game.Status != domain.StatusLive {
		return nil, ErrGameNotLive
	}
	if !statType.Valid() {
		return nil, ErrInvalidStatType
	}

	team, err := e.teamByID(teamID)
	if err != nil {
		return nil, err
	}
	if !team.HasPlayer(playerID) {
		return nil, ErrPlayerNotOnTeam
	}
	if assistPlayerID != "" && statType != domain.StatGoal {
		return nil, fmt.Errorf("assist is only recorded on goals: %w", ErrInvalidStatType)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate stat id: %w", err)
	}

	stat := domain.Stat{
		ID:             id,
		GameID:         e.game.ID,
		PlayerID:       playerID,
		TeamID:         teamID,
		Type:           statType,
		ClockSeconds:   e.game.ClockSeconds,
		AssistPlayerID: assistPlayerID,
		CreatedAt:      time.Now(),
	}
	e.game.Stats = append(e.game.Stats, stat)

	if statType == domain.StatGoal {
		if teamID == e.game.HomeTeam.ID {
			e.game.Score.Home++
		} else {
			e.game.Score.Away++
		}
	}

	return &stat, nil
}

// AdjustScore mutates a score counter directly without creating a stat
// entry. Manual correction is independent of the automatic goal tally
// and is allowed to disagree with it; the counter still never drops
// below zero.
func (e *Engine) AdjustScore(teamID string, delta int) error {
	if e.game.Status == domain.StatusFinished {
		return ErrGameFinished
	}
	if _, err := e.teamByID(teamID); err != nil {
		return err
	}

	if teamID == e.game.HomeTeam.ID {
		e.game.Score.Home += delta
		if e.game.Score.Home < 0 {
			e.game.Score.Home = 0
		}
	} else {
		e.game.Score.Away += delta
		if e.game.Score.Away < 0 {
			e.game.Score.Away = 0
		}
	}
	return nil
}

// RecordPenalty appends a penalty starting at the current clock value.
// ReleaseClock is not clamped: when the duration exceeds the elapsed
// clock it goes negative and the penalty never releases in this period.
func (e *Engine) RecordPenalty(playerID, teamID string, penaltyType domain.PenaltyType, durationSeconds int) (*domain.Penalty, error) {
	if e.game.Status == domain.StatusFinished {
		return nil, ErrGameFinished
	}
	if e.game.Status != domain.StatusLive {
		return nil, ErrGameNotLive
	}
	if !penaltyType.Valid() {
		return nil, ErrInvalidPenalty
	}

	team, err := e.teamByID(teamID)
	if err != nil {
		return nil, err
	}
	if !team.HasPlayer(playerID) {
		return nil, ErrPlayerNotOnTeam
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate penalty id: %w", err)
	}

	penalty := domain.Penalty{
		ID:              id,
		GameID:          e.game.ID,
		PlayerID:        playerID,
		TeamID:          teamID,
		Type:            penaltyType,
		DurationSeconds: durationSeconds,
		StartClock:      e.game.ClockSeconds,
		ReleaseClock:    e.game.ClockSeconds - durationSeconds,
		CreatedAt:       time.Now(),
	}
	e.game.Penalties = append(e.game.Penalties, penalty)

	return &penalty, nil
}

// SetClock synchronizes the clock controller's remaining seconds into
// the game record.
func (e *Engine) SetClock(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	e.game.ClockSeconds = seconds
}

func (e *Engine) teamByID(teamID string) (domain.Team, error) {
	switch teamID {
	case e.game.HomeTeam.ID:
		return e.game.HomeTeam, nil
	case e.game.AwayTeam.ID:
		return e.game.AwayTeam, nil
	default:
		return domain.Team{}, ErrUnknownTeam
	}
}
