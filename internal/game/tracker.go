package game

import (
	"sync"
	"time"

	"lacrosse-tracker/internal/constants"
	"lacrosse-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// Update is the live snapshot pushed to scoreboard clients after every
// mutation and clock tick.
type Update struct {
	GameID          string            `json:"game_id"`
	Status          domain.GameStatus `json:"status"`
	Score           domain.Score      `json:"score"`
	CurrentPeriod   int               `json:"current_period"`
	ClockSeconds    int               `json:"clock_seconds"`
	ClockRunning    bool              `json:"clock_running"`
	LastEvent       *domain.Stat      `json:"last_event,omitempty"`
	ActivePenalties []domain.Penalty  `json:"active_penalties"`
	Timestamp       time.Time         `json:"timestamp"`
}

// Broadcaster fans an update out to connected clients.
type Broadcaster interface {
	Broadcast(update Update)
}

// Tracker is the single logical owner of one live game: it serializes
// engine and clock access behind a mutex and drives the clock with a
// once-per-second ticker. Stat and penalty recording stay synchronous
// with the caller, so a recorded goal is visible to the next read.
type Tracker struct {
	mu     sync.Mutex
	engine *Engine
	clock  *Clock

	broadcaster Broadcaster
	logger      zerolog.Logger

	done     chan struct{}
	stopOnce sync.Once
}

func NewTracker(engine *Engine, clock *Clock, broadcaster Broadcaster, logger zerolog.Logger) *Tracker {
	return &Tracker{
		engine:      engine,
		clock:       clock,
		broadcaster: broadcaster,
		logger:      logger,
		done:        make(chan struct{}),
	}
}

// Run drives the game clock until Close is called. Ticks and stat
// recording mutate disjoint fields, but both go through the tracker
// mutex so snapshots are always consistent.
func (t *Tracker) Run() {
	ticker := time.NewTicker(constants.ClockTickInterval)
	defer ticker.Stop()

	t.logger.Info().Str("game_id", t.engine.Game().ID).Msg("tracker started")

	for {
		select {
		case <-t.done:
			t.logger.Info().Str("game_id", t.engine.Game().ID).Msg("tracker stopped")
			return
		case <-ticker.C:
			t.mu.Lock()
			wasRunning := t.clock.Running()
			t.clock.Tick()
			t.engine.SetClock(t.clock.Remaining())
			update := t.snapshotLocked(nil)
			t.mu.Unlock()

			if wasRunning {
				t.broadcaster.Broadcast(update)
			}
		}
	}
}

// Close synchronously stops the ticker goroutine. Pending ticks never
// fire into a torn-down game; this is part of the cleanup contract, not
// an optimization.
func (t *Tracker) Close() {
	t.stopOnce.Do(func() { close(t.done) })
}

func (t *Tracker) StartClock() Update {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clock.Start()
	return t.snapshotLocked(nil)
}

func (t *Tracker) PauseClock() Update {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clock.Pause()
	return t.snapshotLocked(nil)
}

func (t *Tracker) AdjustClock(deltaSeconds int) Update {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clock.Adjust(deltaSeconds)
	t.engine.SetClock(t.clock.Remaining())
	return t.snapshotLocked(nil)
}

// NextPeriod resets the clock to a full period and advances the period
// counter.
func (t *Tracker) NextPeriod() Update {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clock.Pause()
	t.clock.Reset(constants.PeriodSeconds)
	t.engine.SetClock(t.clock.Remaining())
	t.engine.Game().CurrentPeriod++
	return t.snapshotLocked(nil)
}

func (t *Tracker) RecordStat(playerID, teamID string, statType domain.StatType, assistPlayerID string) (*domain.Stat, Update, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	stat, err := t.engine.RecordStat(playerID, teamID, statType, assistPlayerID)
	if err != nil {
		return nil, Update{}, err
	}
	return stat, t.snapshotLocked(stat), nil
}

func (t *Tracker) RecordPenalty(playerID, teamID string, penaltyType domain.PenaltyType, durationSeconds int) (*domain.Penalty, Update, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	penalty, err := t.engine.RecordPenalty(playerID, teamID, penaltyType, durationSeconds)
	if err != nil {
		return nil, Update{}, err
	}
	return penalty, t.snapshotLocked(nil), nil
}

func (t *Tracker) AdjustScore(teamID string, delta int) (Update, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.engine.AdjustScore(teamID, delta); err != nil {
		return Update{}, err
	}
	return t.snapshotLocked(nil), nil
}

// End finishes the game and stops the clock.
func (t *Tracker) End() (Update, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.engine.End(); err != nil {
		return Update{}, err
	}
	t.clock.Pause()
	return t.snapshotLocked(nil), nil
}

// Game returns a copy of the underlying game state.
func (t *Tracker) Game() domain.Game {
	t.mu.Lock()
	defer t.mu.Unlock()
	return *t.engine.Game()
}

func (t *Tracker) Snapshot() Update {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked(nil)
}

func (t *Tracker) snapshotLocked(lastEvent *domain.Stat) Update {
	g := t.engine.Game()
	return Update{
		GameID:          g.ID,
		Status:          g.Status,
		Score:           g.Score,
		CurrentPeriod:   g.CurrentPeriod,
		ClockSeconds:    g.ClockSeconds,
		ClockRunning:    t.clock.Running(),
		LastEvent:       lastEvent,
		ActivePenalties: ActivePenalties(g.Penalties, g.ClockSeconds),
		Timestamp:       time.Now(),
	}
}
