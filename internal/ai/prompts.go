package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"lacrosse-tracker/internal/domain"
)

func buildSummaryPrompt(g *domain.Game, lines map[string]domain.StatLine) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a short game recap for a youth lacrosse game.\n")
	fmt.Fprintf(&b, "Final score: %s %d, %s %d.\n",
		g.HomeTeam.Name, g.Score.Home, g.AwayTeam.Name, g.Score.Away)
	fmt.Fprintf(&b, "Periods played: %d.\n\n", g.CurrentPeriod)

	b.WriteString("Player stat lines (only mention players who contributed):\n")
	writeRosterLines(&b, g.HomeTeam, lines)
	writeRosterLines(&b, g.AwayTeam, lines)

	b.WriteString("\nKeep it to two or three paragraphs, upbeat and suitable for a team page.")
	return b.String()
}

func writeRosterLines(b *strings.Builder, team domain.Team, lines map[string]domain.StatLine) {
	for _, p := range team.Roster {
		line := lines[p.ID]
		if line == (domain.StatLine{}) {
			continue
		}
		fmt.Fprintf(b, "- %s #%d (%s): %dG %dA %d shots, %d GB, %d saves\n",
			p.Name, p.JerseyNumber, team.Name,
			line.Goals, line.Assists, line.Shots, line.GroundBalls, line.Saves)
	}
}

func buildAnalysisPrompt(player domain.Player, line domain.StatLine) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a lacrosse coach. Analyze this player's game performance:\n")
	fmt.Fprintf(&b, "Player: %s, #%d, position %s.\n", player.Name, player.JerseyNumber, player.Position)
	fmt.Fprintf(&b, "Goals: %d, Assists: %d, Points: %d, Shots: %d, Saves: %d,\n",
		line.Goals, line.Assists, line.Points, line.Shots, line.Saves)
	fmt.Fprintf(&b, "Ground balls: %d, Turnovers: %d, Caused turnovers: %d, Faceoffs: %d-%d.\n",
		line.GroundBalls, line.Turnovers, line.CausedTurnovers, line.FaceoffWins, line.FaceoffLosses)
	b.WriteString("\nGive two strengths and two things to work on, in plain language for a young athlete.")

	return b.String()
}

func buildRosterPrompt(text string) string {
	var b strings.Builder

	b.WriteString("Extract a lacrosse roster from the text below.\n")
	b.WriteString("Respond with ONLY a JSON array, no prose, where each element is\n")
	b.WriteString(`{"name": string, "jersey_number": number, "position": one of `)
	b.WriteString(`"attack"|"midfield"|"defense"|"goalie"|"faceoff"|"lsm"}.` + "\n")
	b.WriteString("Use \"midfield\" when the position is missing or unclear.\n\n")
	b.WriteString(text)

	return b.String()
}

type rosterEntry struct {
	Name         string `json:"name"`
	JerseyNumber int    `json:"jersey_number"`
	Position     string `json:"position"`
}

// ParseRosterResponse parses the model's roster JSON, tolerating the
// markdown code fences models like to wrap JSON in.
func ParseRosterResponse(raw string) ([]domain.Player, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var entries []rosterEntry
	if err := json.Unmarshal([]byte(cleaned), &entries); err != nil {
		return nil, fmt.Errorf("failed to parse roster response: %w", err)
	}

	players := make([]domain.Player, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			continue
		}
		pos := domain.Position(e.Position)
		switch pos {
		case domain.PositionAttack, domain.PositionMidfield, domain.PositionDefense,
			domain.PositionGoalie, domain.PositionFaceoff, domain.PositionLSM:
		default:
			pos = domain.PositionMidfield
		}
		players = append(players, domain.Player{
			Name:         strings.TrimSpace(e.Name),
			JerseyNumber: e.JerseyNumber,
			Position:     pos,
		})
	}

	return players, nil
}
