package domain

import (
	"time"
)

type GameStatus string

const (
	StatusScheduled GameStatus = "scheduled"
	StatusLive      GameStatus = "live"
	StatusFinished  GameStatus = "finished"
)

type StatType string

const (
	StatGoal           StatType = "goal"
	StatShot           StatType = "shot"
	StatSave           StatType = "save"
	StatGroundBall     StatType = "ground_ball"
	StatTurnover       StatType = "turnover"
	StatCausedTurnover StatType = "caused_turnover"
	StatFaceoffWin     StatType = "faceoff_win"
	StatFaceoffLoss    StatType = "faceoff_loss"
)

var statTypes = map[StatType]bool{
	StatGoal:           true,
	StatShot:           true,
	StatSave:           true,
	StatGroundBall:     true,
	StatTurnover:       true,
	StatCausedTurnover: true,
	StatFaceoffWin:     true,
	StatFaceoffLoss:    true,
}

func (t StatType) Valid() bool {
	return statTypes[t]
}

type PenaltyType string

const (
	PenaltySlashing        PenaltyType = "slashing"
	PenaltyTripping        PenaltyType = "tripping"
	PenaltyCrossCheck      PenaltyType = "cross_check"
	PenaltyHolding         PenaltyType = "holding"
	PenaltyInterference    PenaltyType = "interference"
	PenaltyRoughness       PenaltyType = "unnecessary_roughness"
	PenaltyUnsportsmanlike PenaltyType = "unsportsmanlike_conduct"
	PenaltyOffside         PenaltyType = "offside"
)

var penaltyTypes = map[PenaltyType]bool{
	PenaltySlashing:        true,
	PenaltyTripping:        true,
	PenaltyCrossCheck:      true,
	PenaltyHolding:         true,
	PenaltyInterference:    true,
	PenaltyRoughness:       true,
	PenaltyUnsportsmanlike: true,
	PenaltyOffside:         true,
}

func (t PenaltyType) Valid() bool {
	return penaltyTypes[t]
}

type Position string

const (
	PositionAttack   Position = "attack"
	PositionMidfield Position = "midfield"
	PositionDefense  Position = "defense"
	PositionGoalie   Position = "goalie"
	PositionFaceoff  Position = "faceoff"
	PositionLSM      Position = "lsm"
)

type Player struct {
	ID           string    `json:"id"`
	TeamID       string    `json:"team_id"`
	Name         string    `json:"name"`
	JerseyNumber int       `json:"jersey_number"`
	Position     Position  `json:"position"`
	UserID       string    `json:"user_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Roster    []Player  `json:"roster"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t Team) HasPlayer(playerID string) bool {
	for _, p := range t.Roster {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

func (t Team) PlayerByID(playerID string) (Player, bool) {
	for _, p := range t.Roster {
		if p.ID == playerID {
			return p, true
		}
	}
	return Player{}, false
}

// Stat is a single recorded game event. Entries are append-only: never
// mutated, never deleted. An assist is not its own event; a goal carries
// the assisting player's id and the credit is derived during aggregation.
type Stat struct {
	ID             string    `json:"id"` // nanoid
	GameID         string    `json:"game_id"`
	PlayerID       string    `json:"player_id"`
	TeamID         string    `json:"team_id"`
	Type           StatType  `json:"type"`
	ClockSeconds   int       `json:"clock_seconds"`
	AssistPlayerID string    `json:"assist_player_id,omitempty"` // goals only
	CreatedAt      time.Time `json:"created_at"`
}

// Penalty is recorded once and never mutated. The clock counts down, so
// ReleaseClock = StartClock - DurationSeconds and may be negative, in
// which case the penalty never releases within the period.
type Penalty struct {
	ID              string      `json:"id"` // nanoid
	GameID          string      `json:"game_id"`
	PlayerID        string      `json:"player_id"`
	TeamID          string      `json:"team_id"`
	Type            PenaltyType `json:"type"`
	DurationSeconds int         `json:"duration_seconds"`
	StartClock      int         `json:"start_clock"`
	ReleaseClock    int         `json:"release_clock"`
	CreatedAt       time.Time   `json:"created_at"`
}

type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Game embeds full team snapshots taken at creation time, so later roster
// edits never retroactively alter historical game data.
type Game struct {
	ID            string     `json:"id"`
	HomeTeam      Team       `json:"home_team"`
	AwayTeam      Team       `json:"away_team"`
	ScheduledAt   time.Time  `json:"scheduled_at"`
	Status        GameStatus `json:"status"`
	Score         Score      `json:"score"`
	Stats         []Stat     `json:"stats"`
	Penalties     []Penalty  `json:"penalties"`
	CurrentPeriod int        `json:"current_period"`
	ClockSeconds  int        `json:"clock_seconds"`
	Summary       string     `json:"summary,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// StatLine holds every counted stat type with explicit fields so all keys
// default to zero. Points is always Goals + Assists.
type StatLine struct {
	Goals           int `json:"goals"`
	Assists         int `json:"assists"`
	Points          int `json:"points"`
	Shots           int `json:"shots"`
	Saves           int `json:"saves"`
	GroundBalls     int `json:"ground_balls"`
	Turnovers       int `json:"turnovers"`
	CausedTurnovers int `json:"caused_turnovers"`
	FaceoffWins     int `json:"faceoff_wins"`
	FaceoffLosses   int `json:"faceoff_losses"`
}

func (l StatLine) Add(other StatLine) StatLine {
	return StatLine{
		Goals:           l.Goals + other.Goals,
		Assists:         l.Assists + other.Assists,
		Points:          l.Points + other.Points,
		Shots:           l.Shots + other.Shots,
		Saves:           l.Saves + other.Saves,
		GroundBalls:     l.GroundBalls + other.GroundBalls,
		Turnovers:       l.Turnovers + other.Turnovers,
		CausedTurnovers: l.CausedTurnovers + other.CausedTurnovers,
		FaceoffWins:     l.FaceoffWins + other.FaceoffWins,
		FaceoffLosses:   l.FaceoffLosses + other.FaceoffLosses,
	}
}

type DrillMode string

const (
	DrillModeReps  DrillMode = "reps"
	DrillModeTimed DrillMode = "timed"
)

type ReactionSample struct {
	ID        string    `json:"id"` // nanoid
	SessionID string    `json:"session_id"`
	ElapsedMS int       `json:"elapsed_ms"`
	CreatedAt time.Time `json:"created_at"`
}

type DrillSession struct {
	ID            string           `json:"id"`
	PlayerID      string           `json:"player_id"`
	Mode          DrillMode        `json:"mode"`
	TargetReps    int              `json:"target_reps,omitempty"`
	TargetSeconds int              `json:"target_seconds,omitempty"`
	Samples       []ReactionSample `json:"samples"`
	StartedAt     time.Time        `json:"started_at"`
	EndedAt       time.Time        `json:"ended_at"`
	CreatedAt     time.Time        `json:"created_at"`
}
