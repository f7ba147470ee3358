package ai

import (
	"testing"

	"lacrosse-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRosterResponse(t *testing.T) {
	raw := `[
		{"name": "Maya Ortiz", "jersey_number": 7, "position": "attack"},
		{"name": "Sam Lee", "jersey_number": 23, "position": "goalie"}
	]`

	players, err := ParseRosterResponse(raw)
	require.NoError(t, err)
	require.Len(t, players, 2)

	assert.Equal(t, "Maya Ortiz", players[0].Name)
	assert.Equal(t, 7, players[0].JerseyNumber)
	assert.Equal(t, domain.PositionAttack, players[0].Position)
	assert.Equal(t, domain.PositionGoalie, players[1].Position)
}

func TestParseRosterResponseCodeFences(t *testing.T) {
	raw := "```json\n[{\"name\": \"Jo Park\", \"jersey_number\": 4, \"position\": \"lsm\"}]\n```"

	players, err := ParseRosterResponse(raw)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, domain.PositionLSM, players[0].Position)
}

func TestParseRosterResponseDefaultsPosition(t *testing.T) {
	raw := `[
		{"name": "Alex Chen", "jersey_number": 11, "position": "wing"},
		{"name": "Riley Fox", "jersey_number": 2, "position": ""}
	]`

	players, err := ParseRosterResponse(raw)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, domain.PositionMidfield, players[0].Position)
	assert.Equal(t, domain.PositionMidfield, players[1].Position)
}

func TestParseRosterResponseSkipsBlankNames(t *testing.T) {
	raw := `[
		{"name": "  ", "jersey_number": 9, "position": "defense"},
		{"name": " Dana Wolfe ", "jersey_number": 15, "position": "defense"}
	]`

	players, err := ParseRosterResponse(raw)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Dana Wolfe", players[0].Name)
}

func TestParseRosterResponseRejectsProse(t *testing.T) {
	_, err := ParseRosterResponse("Sure! Here is the roster you asked for.")
	assert.Error(t, err)
}

func TestBuildRosterPromptIncludesSourceText(t *testing.T) {
	prompt := buildRosterPrompt("7 Maya Ortiz A\n23 Sam Lee G")
	assert.Contains(t, prompt, "JSON array")
	assert.Contains(t, prompt, "23 Sam Lee G")
}

func TestBuildSummaryPromptSkipsIdlePlayers(t *testing.T) {
	g := &domain.Game{
		HomeTeam: domain.Team{
			ID:   "home",
			Name: "Riverhawks",
			Roster: []domain.Player{
				{ID: "h1", Name: "Maya Ortiz", JerseyNumber: 7},
				{ID: "h2", Name: "Sam Lee", JerseyNumber: 23},
			},
		},
		AwayTeam:      domain.Team{ID: "away", Name: "Stingers"},
		Score:         domain.Score{Home: 3, Away: 1},
		CurrentPeriod: 4,
	}
	lines := map[string]domain.StatLine{
		"h1": {Goals: 3, Points: 3, Shots: 5},
		"h2": {},
	}

	prompt := buildSummaryPrompt(g, lines)
	assert.Contains(t, prompt, "Riverhawks 3, Stingers 1")
	assert.Contains(t, prompt, "Maya Ortiz")
	assert.NotContains(t, prompt, "Sam Lee", "players without stats stay out of the prompt")
}
