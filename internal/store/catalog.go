package store

import (
	"context"

	"github.com/basetopia/basetopia-backend/internal/models"
	"gorm.io/gorm/clause"
)

func (s *Store) ListTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := s.conn(ctx).Order("name ASC").Find(&teams).Error; err != nil {
		return nil, unavailable("list teams", err)
	}
	return teams, nil
}

func (s *Store) ListPlayers(ctx context.Context) ([]models.Player, error) {
	var players []models.Player
	if err := s.conn(ctx).Order("name ASC").Find(&players).Error; err != nil {
		return nil, unavailable("list players", err)
	}
	return players, nil
}

func (s *Store) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	var team models.Team
	if err := s.conn(ctx).First(&team, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, ErrTeamNotFound, "get team")
	}
	return &team, nil
}

func (s *Store) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	var player models.Player
	if err := s.conn(ctx).First(&player, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, ErrPlayerNotFound, "get player")
	}
	return &player, nil
}

// UpsertTeams inserts or fully replaces teams by id.
func (s *Store) UpsertTeams(ctx context.Context, teams []models.Team) error {
	if len(teams) == 0 {
		return nil
	}
	err := s.conn(ctx).Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(teams, 100).Error
	if err != nil {
		return unavailable("upsert teams", err)
	}
	return nil
}

// UpsertPlayers inserts or fully replaces players by id.
func (s *Store) UpsertPlayers(ctx context.Context, players []models.Player) error {
	if len(players) == 0 {
		return nil
	}
	err := s.conn(ctx).Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(players, 100).Error
	if err != nil {
		return unavailable("upsert players", err)
	}
	return nil
}
