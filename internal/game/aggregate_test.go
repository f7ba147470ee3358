package game

import (
	"testing"

	"lacrosse-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateCounts(t *testing.T) {
	engine := NewEngine(liveGame())

	mustRecord := func(playerID, teamID string, st domain.StatType, assistID string) {
		t.Helper()
		_, err := engine.RecordStat(playerID, teamID, st, assistID)
		require.NoError(t, err)
	}

	mustRecord("h1", "home", domain.StatGoal, "h2")
	mustRecord("h1", "home", domain.StatGoal, "")
	mustRecord("h1", "home", domain.StatShot, "")
	mustRecord("h2", "home", domain.StatGroundBall, "")
	mustRecord("h3", "home", domain.StatSave, "")
	mustRecord("a1", "away", domain.StatGoal, "a2")
	mustRecord("a2", "away", domain.StatCausedTurnover, "")
	mustRecord("h2", "home", domain.StatFaceoffWin, "")
	mustRecord("a1", "away", domain.StatFaceoffLoss, "")

	lines := Aggregate(engine.Game())

	assert.Equal(t, 2, lines["h1"].Goals)
	assert.Equal(t, 1, lines["h1"].Shots)
	assert.Equal(t, 2, lines["h1"].Points)

	assert.Equal(t, 1, lines["h2"].Assists, "assist credit derived from the goal event")
	assert.Equal(t, 1, lines["h2"].GroundBalls)
	assert.Equal(t, 1, lines["h2"].FaceoffWins)
	assert.Equal(t, 1, lines["h2"].Points)

	assert.Equal(t, 1, lines["h3"].Saves)
	assert.Equal(t, 1, lines["a1"].Goals)
	assert.Equal(t, 1, lines["a1"].FaceoffLosses)
	assert.Equal(t, 1, lines["a2"].Assists)
	assert.Equal(t, 1, lines["a2"].CausedTurnovers)
}

func TestAggregateOneAssistPerAssistedGoal(t *testing.T) {
	engine := NewEngine(liveGame())

	// h2 assists three goals and scores two of their own: assists must
	// track the assisted goals exactly, independent of personal goals.
	for i := 0; i < 3; i++ {
		_, err := engine.RecordStat("h1", "home", domain.StatGoal, "h2")
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := engine.RecordStat("h2", "home", domain.StatGoal, "")
		require.NoError(t, err)
	}

	lines := Aggregate(engine.Game())
	assert.Equal(t, 3, lines["h2"].Assists)
	assert.Equal(t, 2, lines["h2"].Goals)
	assert.Equal(t, 5, lines["h2"].Points)
}

func TestAggregateSelfAssistedGoal(t *testing.T) {
	engine := NewEngine(liveGame())
	_, err := engine.RecordStat("h1", "home", domain.StatGoal, "h1")
	require.NoError(t, err)

	lines := Aggregate(engine.Game())
	assert.Equal(t, 1, lines["h1"].Goals)
	assert.Equal(t, 1, lines["h1"].Assists, "self-assist keeps both credits")
	assert.Equal(t, 2, lines["h1"].Points)
}

func TestAggregateZeroLinesForIdlePlayers(t *testing.T) {
	g := liveGame()
	lines := Aggregate(g)

	// Every rostered player appears even with an empty log.
	assert.Len(t, lines, 5)
	for id, line := range lines {
		assert.Equal(t, domain.StatLine{}, line, "player %s should have a zeroed line", id)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	engine := NewEngine(liveGame())
	_, err := engine.RecordStat("h1", "home", domain.StatGoal, "h2")
	require.NoError(t, err)
	_, err = engine.RecordStat("a1", "away", domain.StatTurnover, "")
	require.NoError(t, err)

	first := Aggregate(engine.Game())
	second := Aggregate(engine.Game())
	assert.Equal(t, first, second)
}

func TestTeamTotals(t *testing.T) {
	engine := NewEngine(liveGame())

	_, err := engine.RecordStat("h1", "home", domain.StatGoal, "h2")
	require.NoError(t, err)
	_, err = engine.RecordStat("h2", "home", domain.StatGoal, "")
	require.NoError(t, err)
	_, err = engine.RecordStat("h3", "home", domain.StatSave, "")
	require.NoError(t, err)
	_, err = engine.RecordStat("a1", "away", domain.StatGoal, "")
	require.NoError(t, err)

	lines := Aggregate(engine.Game())
	home := TeamTotals(engine.Game().HomeTeam, lines)
	away := TeamTotals(engine.Game().AwayTeam, lines)

	assert.Equal(t, 2, home.Goals)
	assert.Equal(t, 1, home.Assists)
	assert.Equal(t, 3, home.Points)
	assert.Equal(t, 1, home.Saves)

	assert.Equal(t, 1, away.Goals)
	assert.Equal(t, 0, away.Assists)
}
