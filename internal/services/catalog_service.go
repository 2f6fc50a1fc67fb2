package services

import (
	"context"
	"time"

	"github.com/basetopia/basetopia-backend/internal/models"
	"github.com/basetopia/basetopia-backend/internal/store"
)

// CatalogService serves the player and team reference listings.
type CatalogService struct {
	store   *store.Store
	timeout time.Duration
}

func NewCatalogService(st *store.Store, timeout time.Duration) *CatalogService {
	return &CatalogService{store: st, timeout: timeout}
}

func (s *CatalogService) Players(ctx context.Context) ([]models.Player, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.ListPlayers(ctx)
}

func (s *CatalogService) Player(ctx context.Context, id string) (*models.Player, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.GetPlayer(ctx, id)
}

func (s *CatalogService) Teams(ctx context.Context) ([]models.Team, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.ListTeams(ctx)
}

func (s *CatalogService) Team(ctx context.Context, id string) (*models.Team, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.GetTeam(ctx, id)
}
