package game

import (
	"lacrosse-tracker/internal/domain"
)

// Aggregate derives a stat line for every rostered player from a single
// scan of the game's stat log. Players with no recorded events get a
// zeroed line. A goal credits the scorer's Goals and, when an assisting
// player is attached, exactly one Assist to that player. The result is
// recomputed from the log each call rather than maintained incrementally.
func Aggregate(g *domain.Game) map[string]domain.StatLine {
	lines := make(map[string]domain.StatLine)
	for _, p := range g.HomeTeam.Roster {
		lines[p.ID] = domain.StatLine{}
	}
	for _, p := range g.AwayTeam.Roster {
		lines[p.ID] = domain.StatLine{}
	}

	for _, s := range g.Stats {
		line := lines[s.PlayerID]

		switch s.Type {
		case domain.StatGoal:
			line.Goals++
		case domain.StatShot:
			line.Shots++
		case domain.StatSave:
			line.Saves++
		case domain.StatGroundBall:
			line.GroundBalls++
		case domain.StatTurnover:
			line.Turnovers++
		case domain.StatCausedTurnover:
			line.CausedTurnovers++
		case domain.StatFaceoffWin:
			line.FaceoffWins++
		case domain.StatFaceoffLoss:
			line.FaceoffLosses++
		}

		line.Points = line.Goals + line.Assists
		lines[s.PlayerID] = line

		// Assist credit goes through the map after the scorer's write so
		// a self-assisted goal keeps both the goal and the assist.
		if s.Type == domain.StatGoal && s.AssistPlayerID != "" {
			assist := lines[s.AssistPlayerID]
			assist.Assists++
			assist.Points = assist.Goals + assist.Assists
			lines[s.AssistPlayerID] = assist
		}
	}

	return lines
}

// TeamTotals sums the per-player lines over one team's roster.
func TeamTotals(team domain.Team, lines map[string]domain.StatLine) domain.StatLine {
	var total domain.StatLine
	for _, p := range team.Roster {
		total = total.Add(lines[p.ID])
	}
	return total
}
