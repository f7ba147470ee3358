package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"lacrosse-tracker/internal/ai"
	"lacrosse-tracker/internal/constants"
	"lacrosse-tracker/internal/domain"
	"lacrosse-tracker/internal/game"
	"lacrosse-tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSameTeam       = errors.New("home and away team must differ")
	ErrGameNotTracked = errors.New("game has no live tracker")
)

// announcer routes clock cues into the log; the real speech/horn output
// lives client-side.
type announcer struct {
	logger zerolog.Logger
	gameID string
}

func (a announcer) Announce(secondsLeft int) {
	a.logger.Info().Str("game_id", a.gameID).Int("seconds_left", secondsLeft).Msg("countdown cue")
}

func (a announcer) Buzzer() {
	a.logger.Info().Str("game_id", a.gameID).Msg("period buzzer")
}

type GameService struct {
	gameRepo *repository.GameRepository
	teamRepo *repository.TeamRepository
	aiClient *ai.Client
	hub      game.Broadcaster
	logger   zerolog.Logger

	trackersMu sync.Mutex
	trackers   map[string]*game.Tracker
}

func NewGameService(gameRepo *repository.GameRepository, teamRepo *repository.TeamRepository, aiClient *ai.Client, broadcaster game.Broadcaster, logger zerolog.Logger) *GameService {
	return &GameService{
		gameRepo: gameRepo,
		teamRepo: teamRepo,
		aiClient: aiClient,
		hub:      broadcaster,
		logger:   logger,
		trackers: make(map[string]*game.Tracker),
	}
}

// Schedule creates a game with both rosters embedded as snapshots, so
// later roster edits do not rewrite history.
func (s *GameService) Schedule(ctx context.Context, homeTeamID, awayTeamID string, scheduledAt time.Time) (*domain.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if homeTeamID == awayTeamID {
		return nil, ErrSameTeam
	}

	home, err := s.teamRepo.GetByID(ctx, homeTeamID)
	if err != nil {
		return nil, fmt.Errorf("home team: %w", err)
	}
	away, err := s.teamRepo.GetByID(ctx, awayTeamID)
	if err != nil {
		return nil, fmt.Errorf("away team: %w", err)
	}

	now := time.Now()
	g := &domain.Game{
		ID:            uuid.New().String(),
		HomeTeam:      *home,
		AwayTeam:      *away,
		ScheduledAt:   scheduledAt,
		Status:        domain.StatusScheduled,
		CurrentPeriod: 1,
		ClockSeconds:  constants.PeriodSeconds,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.gameRepo.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	s.logger.Info().
		Str("game_id", g.ID).
		Str("home", home.Name).
		Str("away", away.Name).
		Time("scheduled_at", scheduledAt).
		Msg("game scheduled")
	return g, nil
}

func (s *GameService) List(ctx context.Context) ([]domain.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.gameRepo.List(ctx)
}

// Get returns the live in-memory state when the game is being tracked,
// the stored state otherwise.
func (s *GameService) Get(ctx context.Context, id string) (*domain.Game, error) {
	if t, ok := s.tracker(id); ok {
		g := t.Game()
		return &g, nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.gameRepo.GetByID(ctx, id)
}

// Start moves a scheduled game to live and spins up its tracker.
func (s *GameService) Start(ctx context.Context, id string) (*domain.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	g, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	engine := game.NewEngine(g)
	if err := engine.Start(); err != nil {
		return nil, err
	}

	clock := game.NewClock(g.ClockSeconds, announcer{logger: s.logger, gameID: g.ID})
	tracker := game.NewTracker(engine, clock, s.hub, s.logger)

	s.trackersMu.Lock()
	s.trackers[g.ID] = tracker
	s.trackersMu.Unlock()

	go tracker.Run()

	// The tracker goroutine keeps mutating g from here on; hand the
	// caller a mutex-guarded copy instead.
	gc := tracker.Game()
	s.persistState(&gc)
	s.hub.Broadcast(tracker.Snapshot())

	s.logger.Info().Str("game_id", gc.ID).Msg("game started")
	return &gc, nil
}

// End finishes the game, stops its tracker, and persists the final
// state.
func (s *GameService) End(ctx context.Context, id string) (*domain.Game, error) {
	t, ok := s.tracker(id)
	if !ok {
		// Not tracked in this process (e.g. after a restart); finish it
		// straight against the stored state.
		ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
		defer cancel()

		g, err := s.gameRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := game.NewEngine(g).End(); err != nil {
			return nil, err
		}
		if err := s.gameRepo.SaveState(ctx, g); err != nil {
			return nil, fmt.Errorf("failed to persist final state: %w", err)
		}
		return g, nil
	}

	update, err := t.End()
	if err != nil {
		return nil, err
	}
	t.Close()

	s.trackersMu.Lock()
	delete(s.trackers, id)
	s.trackersMu.Unlock()

	g := t.Game()
	s.persistState(&g)
	s.hub.Broadcast(update)

	s.logger.Info().
		Str("game_id", id).
		Int("home_score", g.Score.Home).
		Int("away_score", g.Score.Away).
		Msg("game finished")
	return &g, nil
}

func (s *GameService) RecordStat(ctx context.Context, gameID, playerID, teamID string, statType domain.StatType, assistPlayerID string) (*domain.Stat, error) {
	t, ok := s.tracker(gameID)
	if !ok {
		return nil, game.ErrGameNotLive
	}

	stat, update, err := t.RecordStat(playerID, teamID, statType, assistPlayerID)
	if err != nil {
		return nil, err
	}

	// Persistence is best-effort: a failed save is logged and the event
	// lives on in memory until the next successful save.
	dbCtx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()
	if err := s.gameRepo.InsertStat(dbCtx, stat); err != nil {
		s.logger.Error().Err(err).Str("game_id", gameID).Str("stat_id", stat.ID).Msg("failed to persist stat")
	}
	g := t.Game()
	s.persistState(&g)

	s.hub.Broadcast(update)
	return stat, nil
}

func (s *GameService) RecordPenalty(ctx context.Context, gameID, playerID, teamID string, penaltyType domain.PenaltyType, durationSeconds int) (*domain.Penalty, error) {
	t, ok := s.tracker(gameID)
	if !ok {
		return nil, game.ErrGameNotLive
	}

	penalty, update, err := t.RecordPenalty(playerID, teamID, penaltyType, durationSeconds)
	if err != nil {
		return nil, err
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()
	if err := s.gameRepo.InsertPenalty(dbCtx, penalty); err != nil {
		s.logger.Error().Err(err).Str("game_id", gameID).Str("penalty_id", penalty.ID).Msg("failed to persist penalty")
	}

	s.hub.Broadcast(update)
	return penalty, nil
}

func (s *GameService) AdjustScore(ctx context.Context, gameID, teamID string, delta int) error {
	t, ok := s.tracker(gameID)
	if !ok {
		return game.ErrGameNotLive
	}

	update, err := t.AdjustScore(teamID, delta)
	if err != nil {
		return err
	}

	g := t.Game()
	s.persistState(&g)
	s.hub.Broadcast(update)
	return nil
}

type ClockAction string

const (
	ClockStart  ClockAction = "start"
	ClockPause  ClockAction = "pause"
	ClockAdjust ClockAction = "adjust"
	ClockPeriod ClockAction = "next_period"
)

func (s *GameService) Clock(ctx context.Context, gameID string, action ClockAction, deltaSeconds int) (game.Update, error) {
	t, ok := s.tracker(gameID)
	if !ok {
		return game.Update{}, ErrGameNotTracked
	}

	var update game.Update
	switch action {
	case ClockStart:
		update = t.StartClock()
	case ClockPause:
		update = t.PauseClock()
	case ClockAdjust:
		update = t.AdjustClock(deltaSeconds)
	case ClockPeriod:
		update = t.NextPeriod()
	default:
		return game.Update{}, fmt.Errorf("unknown clock action: %s", action)
	}

	g := t.Game()
	s.persistState(&g)
	s.hub.Broadcast(update)
	return update, nil
}

// Aggregate derives per-player stat lines and team totals for a game.
func (s *GameService) Aggregate(ctx context.Context, gameID string) (map[string]domain.StatLine, domain.StatLine, domain.StatLine, error) {
	g, err := s.Get(ctx, gameID)
	if err != nil {
		return nil, domain.StatLine{}, domain.StatLine{}, err
	}

	lines := game.Aggregate(g)
	home := game.TeamTotals(g.HomeTeam, lines)
	away := game.TeamTotals(g.AwayTeam, lines)
	return lines, home, away, nil
}

// ActivePenalties is the derived serving-now view at the game's current
// clock value.
func (s *GameService) ActivePenalties(ctx context.Context, gameID string) ([]domain.Penalty, error) {
	g, err := s.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return game.ActivePenalties(g.Penalties, g.ClockSeconds), nil
}

// Summarize asks the AI service for a narrative recap of a finished game
// and attaches it. The summary is attached at most once.
func (s *GameService) Summarize(ctx context.Context, gameID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	g, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return "", err
	}

	engine := game.NewEngine(g)
	lines := game.Aggregate(g)

	text, err := s.aiClient.SummarizeGame(ctx, g, lines)
	if err != nil {
		s.logger.Warn().Err(err).Str("game_id", gameID).Msg("summary generation failed")
		return "", fmt.Errorf("summary generation failed: %w", err)
	}

	if err := engine.AttachSummary(text); err != nil {
		return "", err
	}
	if err := s.gameRepo.SaveState(ctx, g); err != nil {
		return "", fmt.Errorf("failed to persist summary: %w", err)
	}

	s.logger.Info().Str("game_id", gameID).Msg("summary attached")
	return text, nil
}

// AnalyzePlayer produces AI coaching feedback for one player's line in a
// game.
func (s *GameService) AnalyzePlayer(ctx context.Context, gameID, playerID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	g, err := s.Get(ctx, gameID)
	if err != nil {
		return "", err
	}

	player, ok := g.HomeTeam.PlayerByID(playerID)
	if !ok {
		player, ok = g.AwayTeam.PlayerByID(playerID)
	}
	if !ok {
		return "", repository.ErrNotFound
	}

	lines := game.Aggregate(g)
	return s.aiClient.AnalyzePlayer(ctx, player, lines[playerID])
}

// AnalyzeTeam fans player analyses out in parallel, bounded so a large
// roster does not hammer the AI API.
func (s *GameService) AnalyzeTeam(ctx context.Context, gameID, teamID string) (map[string]string, error) {
	g, err := s.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}

	var team domain.Team
	switch teamID {
	case g.HomeTeam.ID:
		team = g.HomeTeam
	case g.AwayTeam.ID:
		team = g.AwayTeam
	default:
		return nil, game.ErrUnknownTeam
	}

	lines := game.Aggregate(g)

	var mu sync.Mutex
	results := make(map[string]string, len(team.Roster))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(constants.AnalysisConcurrency)
	for _, p := range team.Roster {
		p := p
		eg.Go(func() error {
			text, err := s.aiClient.AnalyzePlayer(egCtx, p, lines[p.ID])
			if err != nil {
				return fmt.Errorf("analysis for %s: %w", p.Name, err)
			}
			mu.Lock()
			results[p.ID] = text
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Shutdown stops every live tracker; pending ticks must not fire into a
// torn-down process.
func (s *GameService) Shutdown() {
	s.trackersMu.Lock()
	defer s.trackersMu.Unlock()
	for id, t := range s.trackers {
		t.Close()
		delete(s.trackers, id)
	}
}

func (s *GameService) tracker(gameID string) (*game.Tracker, bool) {
	s.trackersMu.Lock()
	defer s.trackersMu.Unlock()
	t, ok := s.trackers[gameID]
	return t, ok
}

func (s *GameService) persistState(g *domain.Game) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()
	if err := s.gameRepo.SaveState(ctx, g); err != nil {
		s.logger.Error().Err(err).Str("game_id", g.ID).Msg("failed to persist game state")
	}
}
