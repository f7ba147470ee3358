package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lacrosse-tracker/internal/ai"
	"lacrosse-tracker/internal/constants"
	"lacrosse-tracker/internal/domain"
	"lacrosse-tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrNameRequired    = errors.New("name is required")
	ErrDuplicateJersey = errors.New("jersey number already on roster")
)

type TeamService struct {
	repo     *repository.TeamRepository
	aiClient *ai.Client
	logger   zerolog.Logger
}

func NewTeamService(repo *repository.TeamRepository, aiClient *ai.Client, logger zerolog.Logger) *TeamService {
	return &TeamService{repo: repo, aiClient: aiClient, logger: logger}
}

func (s *TeamService) Create(ctx context.Context, name string) (*domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	now := time.Now()
	team := &domain.Team{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	s.logger.Info().Str("team_id", team.ID).Str("name", name).Msg("team created")
	return team, nil
}

func (s *TeamService) List(ctx context.Context) ([]domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.List(ctx)
}

func (s *TeamService) Get(ctx context.Context, id string) (*domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.GetByID(ctx, id)
}

func (s *TeamService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("team_id", id).Msg("team deleted")
	return nil
}

func (s *TeamService) AddPlayer(ctx context.Context, teamID, name string, jerseyNumber int, position domain.Position) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	team, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := checkJersey(team.Roster, jerseyNumber, ""); err != nil {
		return nil, err
	}

	if position == "" {
		position = domain.PositionMidfield
	}

	now := time.Now()
	player := &domain.Player{
		ID:           uuid.New().String(),
		TeamID:       teamID,
		Name:         name,
		JerseyNumber: jerseyNumber,
		Position:     position,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.AddPlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to add player: %w", err)
	}

	s.logger.Info().
		Str("team_id", teamID).
		Str("player_id", player.ID).
		Int("jersey", jerseyNumber).
		Msg("player added to roster")
	return player, nil
}

func (s *TeamService) UpdatePlayer(ctx context.Context, player *domain.Player) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if strings.TrimSpace(player.Name) == "" {
		return ErrNameRequired
	}

	team, err := s.repo.GetByID(ctx, player.TeamID)
	if err != nil {
		return err
	}
	if err := checkJersey(team.Roster, player.JerseyNumber, player.ID); err != nil {
		return err
	}

	return s.repo.UpdatePlayer(ctx, player)
}

func (s *TeamService) RemovePlayer(ctx context.Context, teamID, playerID string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.RemovePlayer(ctx, teamID, playerID)
}

// ImportRoster extracts players from pasted free text via the AI service
// and appends them to the roster. Entries whose jersey number collides
// with an existing player are skipped with a warning rather than failing
// the whole import.
func (s *TeamService) ImportRoster(ctx context.Context, teamID, text string) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	team, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	extracted, err := s.aiClient.ExtractRoster(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("roster extraction failed: %w", err)
	}

	s.logger.Info().Str("team_id", teamID).Int("extracted", len(extracted)).Msg("roster extracted")

	roster := team.Roster
	var added []domain.Player
	now := time.Now()
	for _, p := range extracted {
		if err := checkJersey(roster, p.JerseyNumber, ""); err != nil {
			s.logger.Warn().
				Str("team_id", teamID).
				Str("name", p.Name).
				Int("jersey", p.JerseyNumber).
				Msg("skipping imported player with duplicate jersey number")
			continue
		}

		p.ID = uuid.New().String()
		p.TeamID = teamID
		p.CreatedAt = now
		p.UpdatedAt = now

		if err := s.repo.AddPlayer(ctx, &p); err != nil {
			return added, fmt.Errorf("failed to add imported player %s: %w", p.Name, err)
		}
		roster = append(roster, p)
		added = append(added, p)
	}

	return added, nil
}

func checkJersey(roster []domain.Player, jerseyNumber int, excludePlayerID string) error {
	for _, p := range roster {
		if p.JerseyNumber == jerseyNumber && p.ID != excludePlayerID {
			return ErrDuplicateJersey
		}
	}
	return nil
}
