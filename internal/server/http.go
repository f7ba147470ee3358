package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"lacrosse-tracker/internal/ai"
	"lacrosse-tracker/internal/domain"
	"lacrosse-tracker/internal/game"
	"lacrosse-tracker/internal/hub"
	"lacrosse-tracker/internal/repository"
	"lacrosse-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Server struct {
	teamSvc  *service.TeamService
	gameSvc  *service.GameService
	drillSvc *service.DrillService
	hub      *hub.Hub
	logger   zerolog.Logger
}

func NewServer(teamSvc *service.TeamService, gameSvc *service.GameService, drillSvc *service.DrillService, h *hub.Hub, logger zerolog.Logger) *Server {
	return &Server{teamSvc: teamSvc, gameSvc: gameSvc, drillSvc: drillSvc, hub: h, logger: logger}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/teams", func(r chi.Router) {
			r.Post("/", s.handleCreateTeam)
			r.Get("/", s.handleListTeams)
			r.Get("/{teamID}", s.handleGetTeam)
			r.Delete("/{teamID}", s.handleDeleteTeam)
			r.Post("/{teamID}/players", s.handleAddPlayer)
			r.Put("/{teamID}/players/{playerID}", s.handleUpdatePlayer)
			r.Delete("/{teamID}/players/{playerID}", s.handleRemovePlayer)
			r.Post("/{teamID}/roster-import", s.handleImportRoster)
		})

		r.Route("/games", func(r chi.Router) {
			r.Post("/", s.handleScheduleGame)
			r.Get("/", s.handleListGames)
			r.Get("/{gameID}", s.handleGetGame)
			r.Post("/{gameID}/start", s.handleStartGame)
			r.Post("/{gameID}/end", s.handleEndGame)
			r.Post("/{gameID}/stats", s.handleRecordStat)
			r.Post("/{gameID}/penalties", s.handleRecordPenalty)
			r.Get("/{gameID}/penalties/active", s.handleActivePenalties)
			r.Post("/{gameID}/score", s.handleAdjustScore)
			r.Post("/{gameID}/clock", s.handleClock)
			r.Get("/{gameID}/aggregate", s.handleAggregate)
			r.Post("/{gameID}/summary", s.handleSummarize)
			r.Get("/{gameID}/players/{playerID}/analysis", s.handleAnalyzePlayer)
			r.Get("/{gameID}/teams/{teamID}/analysis", s.handleAnalyzeTeam)
			r.Get("/{gameID}/ws", s.handleGameFeed)
		})

		r.Route("/drills", func(r chi.Router) {
			r.Post("/sessions", s.handleRecordDrillSession)
			r.Get("/players/{playerID}/sessions", s.handleDrillHistory)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"active_clients": s.hub.ClientCount(),
	})
}

type createTeamRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if !decode(w, r, &req) {
		return
	}

	team, err := s.teamSvc.Create(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.teamSvc.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := s.teamSvc.Get(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (s *Server) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := s.teamSvc.Delete(r.Context(), chi.URLParam(r, "teamID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type playerRequest struct {
	Name         string          `json:"name"`
	JerseyNumber int             `json:"jersey_number"`
	Position     domain.Position `json:"position"`
}

func (s *Server) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if !decode(w, r, &req) {
		return
	}

	player, err := s.teamSvc.AddPlayer(r.Context(), chi.URLParam(r, "teamID"), req.Name, req.JerseyNumber, req.Position)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, player)
}

func (s *Server) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if !decode(w, r, &req) {
		return
	}

	player := &domain.Player{
		ID:           chi.URLParam(r, "playerID"),
		TeamID:       chi.URLParam(r, "teamID"),
		Name:         req.Name,
		JerseyNumber: req.JerseyNumber,
		Position:     req.Position,
	}
	if err := s.teamSvc.UpdatePlayer(r.Context(), player); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func (s *Server) handleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	err := s.teamSvc.RemovePlayer(r.Context(), chi.URLParam(r, "teamID"), chi.URLParam(r, "playerID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type importRosterRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleImportRoster(w http.ResponseWriter, r *http.Request) {
	var req importRosterRequest
	if !decode(w, r, &req) {
		return
	}

	added, err := s.teamSvc.ImportRoster(r.Context(), chi.URLParam(r, "teamID"), req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"added": added})
}

type scheduleGameRequest struct {
	HomeTeamID  string    `json:"home_team_id"`
	AwayTeamID  string    `json:"away_team_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

func (s *Server) handleScheduleGame(w http.ResponseWriter, r *http.Request) {
	var req scheduleGameRequest
	if !decode(w, r, &req) {
		return
	}

	g, err := s.gameSvc.Schedule(r.Context(), req.HomeTeamID, req.AwayTeamID, req.ScheduledAt)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.gameSvc.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.gameSvc.Get(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.gameSvc.Start(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.gameSvc.End(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type recordStatRequest struct {
	PlayerID       string          `json:"player_id"`
	TeamID         string          `json:"team_id"`
	Type           domain.StatType `json:"type"`
	AssistPlayerID string          `json:"assist_player_id,omitempty"`
}

func (s *Server) handleRecordStat(w http.ResponseWriter, r *http.Request) {
	var req recordStatRequest
	if !decode(w, r, &req) {
		return
	}

	stat, err := s.gameSvc.RecordStat(r.Context(), chi.URLParam(r, "gameID"), req.PlayerID, req.TeamID, req.Type, req.AssistPlayerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stat)
}

type recordPenaltyRequest struct {
	PlayerID        string             `json:"player_id"`
	TeamID          string             `json:"team_id"`
	Type            domain.PenaltyType `json:"type"`
	DurationSeconds int                `json:"duration_seconds"`
}

func (s *Server) handleRecordPenalty(w http.ResponseWriter, r *http.Request) {
	var req recordPenaltyRequest
	if !decode(w, r, &req) {
		return
	}

	penalty, err := s.gameSvc.RecordPenalty(r.Context(), chi.URLParam(r, "gameID"), req.PlayerID, req.TeamID, req.Type, req.DurationSeconds)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, penalty)
}

func (s *Server) handleActivePenalties(w http.ResponseWriter, r *http.Request) {
	penalties, err := s.gameSvc.ActivePenalties(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, penalties)
}

type adjustScoreRequest struct {
	TeamID string `json:"team_id"`
	Delta  int    `json:"delta"`
}

func (s *Server) handleAdjustScore(w http.ResponseWriter, r *http.Request) {
	var req adjustScoreRequest
	if !decode(w, r, &req) {
		return
	}

	if err := s.gameSvc.AdjustScore(r.Context(), chi.URLParam(r, "gameID"), req.TeamID, req.Delta); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type clockRequest struct {
	Action       service.ClockAction `json:"action"`
	DeltaSeconds int                 `json:"delta_seconds,omitempty"`
}

func (s *Server) handleClock(w http.ResponseWriter, r *http.Request) {
	var req clockRequest
	if !decode(w, r, &req) {
		return
	}

	update, err := s.gameSvc.Clock(r.Context(), chi.URLParam(r, "gameID"), req.Action, req.DeltaSeconds)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, update)
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	lines, home, away, err := s.gameSvc.Aggregate(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"players":     lines,
		"home_totals": home,
		"away_totals": away,
	})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	text, err := s.gameSvc.Summarize(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": text})
}

func (s *Server) handleAnalyzePlayer(w http.ResponseWriter, r *http.Request) {
	text, err := s.gameSvc.AnalyzePlayer(r.Context(), chi.URLParam(r, "gameID"), chi.URLParam(r, "playerID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"analysis": text})
}

func (s *Server) handleAnalyzeTeam(w http.ResponseWriter, r *http.Request) {
	results, err := s.gameSvc.AnalyzeTeam(r.Context(), chi.URLParam(r, "gameID"), chi.URLParam(r, "teamID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// handleGameFeed upgrades to a websocket pinned to one game's live feed.
func (s *Server) handleGameFeed(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), gameID, conn, s.hub, s.logger)
	s.hub.Register(client)

	// The request context dies with the handler; the connection is
	// hijacked and outlives it. Hub shutdown closes the pumps.
	go client.WritePump(context.Background())
	go client.ReadPump(context.Background())
}

func (s *Server) handleRecordDrillSession(w http.ResponseWriter, r *http.Request) {
	var session domain.DrillSession
	if !decode(w, r, &session) {
		return
	}

	recorded, err := s.drillSvc.RecordSession(r.Context(), &session)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recorded)
}

func (s *Server) handleDrillHistory(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.drillSvc.History(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	type sessionWithStats struct {
		domain.DrillSession
		Stats service.SessionStats `json:"stats"`
	}
	out := make([]sessionWithStats, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sessionWithStats{DrillSession: sess, Stats: service.Summarize(sess)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrSameTeam),
		errors.Is(err, game.ErrInvalidStatType),
		errors.Is(err, game.ErrInvalidPenalty),
		errors.Is(err, game.ErrUnknownTeam),
		errors.Is(err, game.ErrPlayerNotOnTeam):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrDuplicateJersey),
		errors.Is(err, game.ErrGameNotScheduled),
		errors.Is(err, game.ErrGameNotLive),
		errors.Is(err, game.ErrGameFinished),
		errors.Is(err, game.ErrGameNotFinished),
		errors.Is(err, game.ErrSummaryExists),
		errors.Is(err, service.ErrGameNotTracked):
		status = http.StatusConflict
	case errors.Is(err, ai.ErrDisabled):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
