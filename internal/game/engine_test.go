package game

import (
	"testing"
	"time"

	"lacrosse-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGame() *domain.Game {
	return &domain.Game{
		ID: "game-1",
		HomeTeam: domain.Team{
			ID:   "home",
			Name: "Riverhawks",
			Roster: []domain.Player{
				{ID: "h1", TeamID: "home", Name: "Avery Brooks", JerseyNumber: 4, Position: domain.PositionAttack},
				{ID: "h2", TeamID: "home", Name: "Sam Reyes", JerseyNumber: 11, Position: domain.PositionMidfield},
				{ID: "h3", TeamID: "home", Name: "Casey Whitman", JerseyNumber: 30, Position: domain.PositionGoalie},
			},
		},
		AwayTeam: domain.Team{
			ID:   "away",
			Name: "Stingers",
			Roster: []domain.Player{
				{ID: "a1", TeamID: "away", Name: "Jordan Blake", JerseyNumber: 7, Position: domain.PositionAttack},
				{ID: "a2", TeamID: "away", Name: "Riley Fontaine", JerseyNumber: 22, Position: domain.PositionDefense},
			},
		},
		ScheduledAt:   time.Now(),
		Status:        domain.StatusScheduled,
		CurrentPeriod: 1,
		ClockSeconds:  720,
	}
}

func liveGame() *domain.Game {
	g := testGame()
	g.Status = domain.StatusLive
	return g
}

func TestEngineLifecycle(t *testing.T) {
	engine := NewEngine(testGame())

	require.NoError(t, engine.Start())
	assert.Equal(t, domain.StatusLive, engine.Game().Status)

	assert.ErrorIs(t, engine.Start(), ErrGameNotScheduled)

	require.NoError(t, engine.End())
	assert.Equal(t, domain.StatusFinished, engine.Game().Status)

	assert.ErrorIs(t, engine.End(), ErrGameNotLive)
}

func TestEngineGoalIncrementsCorrectSide(t *testing.T) {
	engine := NewEngine(liveGame())

	_, err := engine.RecordStat("h1", "home", domain.StatGoal, "")
	require.NoError(t, err)
	_, err = engine.RecordStat("h2", "home", domain.StatGoal, "h1")
	require.NoError(t, err)
	_, err = engine.RecordStat("a1", "away", domain.StatGoal, "")
	require.NoError(t, err)

	assert.Equal(t, 2, engine.Game().Score.Home)
	assert.Equal(t, 1, engine.Game().Score.Away)
	assert.Len(t, engine.Game().Stats, 3)
}

func TestEngineScoreMatchesGoalCount(t *testing.T) {
	engine := NewEngine(liveGame())

	// A mix of goals and non-scoring events; only goals count.
	events := []struct {
		playerID string
		teamID   string
		statType domain.StatType
	}{
		{"h1", "home", domain.StatGoal},
		{"h1", "home", domain.StatShot},
		{"a1", "away", domain.StatGoal},
		{"h2", "home", domain.StatGoal},
		{"a2", "away", domain.StatTurnover},
		{"a1", "away", domain.StatGoal},
		{"h3", "home", domain.StatSave},
	}

	for _, ev := range events {
		_, err := engine.RecordStat(ev.playerID, ev.teamID, ev.statType, "")
		require.NoError(t, err)
	}

	homeGoals, awayGoals := 0, 0
	for _, s := range engine.Game().Stats {
		if s.Type != domain.StatGoal {
			continue
		}
		if s.TeamID == "home" {
			homeGoals++
		} else {
			awayGoals++
		}
	}

	assert.Equal(t, homeGoals, engine.Game().Score.Home)
	assert.Equal(t, awayGoals, engine.Game().Score.Away)
}

func TestEngineRecordStatValidation(t *testing.T) {
	tests := []struct {
		name     string
		playerID string
		teamID   string
		statType domain.StatType
		assistID string
		wantErr  error
	}{
		{"unknown team", "h1", "nope", domain.StatGoal, "", ErrUnknownTeam},
		{"player on other roster", "a1", "home", domain.StatGoal, "", ErrPlayerNotOnTeam},
		{"unknown player", "ghost", "home", domain.StatShot, "", ErrPlayerNotOnTeam},
		{"bad stat type", "h1", "home", domain.StatType("dunk"), "", ErrInvalidStatType},
		{"assist on non-goal", "h1", "home", domain.StatShot, "h2", ErrInvalidStatType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(liveGame())
			_, err := engine.RecordStat(tt.playerID, tt.teamID, tt.statType, tt.assistID)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, engine.Game().Stats, "no state mutation on validation error")
			assert.Equal(t, 0, engine.Game().Score.Home)
		})
	}
}

func TestEngineRecordStatRequiresLiveGame(t *testing.T) {
	engine := NewEngine(testGame())
	_, err := engine.RecordStat("h1", "home", domain.StatGoal, "")
	assert.ErrorIs(t, err, ErrGameNotLive)

	// A finished game reports its immutability, not a generic
	// not-live error.
	finished := testGame()
	finished.Status = domain.StatusFinished
	engine = NewEngine(finished)
	_, err = engine.RecordStat("h1", "home", domain.StatGoal, "")
	assert.ErrorIs(t, err, ErrGameFinished)
	_, err = engine.RecordPenalty("h1", "home", domain.PenaltySlashing, 30)
	assert.ErrorIs(t, err, ErrGameFinished)
}

func TestEngineStatTimestampUsesGameClock(t *testing.T) {
	g := liveGame()
	g.ClockSeconds = 433
	engine := NewEngine(g)

	stat, err := engine.RecordStat("h1", "home", domain.StatGoal, "")
	require.NoError(t, err)
	assert.Equal(t, 433, stat.ClockSeconds)
	assert.NotEmpty(t, stat.ID)
}

func TestEngineAdjustScoreIndependentOfStatLog(t *testing.T) {
	engine := NewEngine(liveGame())

	require.NoError(t, engine.AdjustScore("home", 2))
	require.NoError(t, engine.AdjustScore("away", 1))

	assert.Equal(t, 2, engine.Game().Score.Home)
	assert.Equal(t, 1, engine.Game().Score.Away)
	assert.Empty(t, engine.Game().Stats, "manual adjustment creates no stat entry")

	// The counter clamps at zero.
	require.NoError(t, engine.AdjustScore("away", -5))
	assert.Equal(t, 0, engine.Game().Score.Away)

	assert.ErrorIs(t, engine.AdjustScore("nope", 1), ErrUnknownTeam)
}

func TestEngineRecordPenalty(t *testing.T) {
	g := liveGame()
	g.ClockSeconds = 600
	engine := NewEngine(g)

	penalty, err := engine.RecordPenalty("a2", "away", domain.PenaltySlashing, 30)
	require.NoError(t, err)

	assert.Equal(t, 600, penalty.StartClock)
	assert.Equal(t, 570, penalty.ReleaseClock)
	assert.Equal(t, 30, penalty.DurationSeconds)
	assert.Len(t, engine.Game().Penalties, 1)
}

func TestEngineRecordPenaltyNegativeReleaseIsKept(t *testing.T) {
	g := liveGame()
	g.ClockSeconds = 45
	engine := NewEngine(g)

	penalty, err := engine.RecordPenalty("h2", "home", domain.PenaltyCrossCheck, 60)
	require.NoError(t, err)

	// Duration exceeds remaining clock: release time goes negative and
	// the penalty never releases this period.
	assert.Equal(t, -15, penalty.ReleaseClock)
	assert.NotEmpty(t, ActivePenalties(engine.Game().Penalties, 1))
}

func TestEngineAttachSummary(t *testing.T) {
	g := testGame()
	g.Status = domain.StatusFinished
	engine := NewEngine(g)

	require.NoError(t, engine.AttachSummary("a hard-fought win"))
	assert.Equal(t, "a hard-fought win", engine.Game().Summary)

	assert.ErrorIs(t, engine.AttachSummary("again"), ErrSummaryExists)

	live := liveGame()
	assert.ErrorIs(t, NewEngine(live).AttachSummary("too early"), ErrGameNotFinished)
}
