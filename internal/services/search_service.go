package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/basetopia/basetopia-backend/internal/apperr"
	"github.com/basetopia/basetopia-backend/internal/catalog"
	"github.com/basetopia/basetopia-backend/internal/fuzzy"
)

const (
	MinQueryLength   = 2
	MaxQueryLength   = 100
	MaxSearchLimit   = 50
	DefaultLimit     = 10
	DefaultThreshold = 60
)

// Searcher is the catalog view search needs.
type Searcher interface {
	ListSearchable(ctx context.Context, kind catalog.Kind) ([]catalog.Entity, error)
}

type SearchService struct {
	catalog Searcher
}

func NewSearchService(c Searcher) *SearchService {
	return &SearchService{catalog: c}
}

// Search ranks players and teams against query. Results are never nil.
func (s *SearchService) Search(ctx context.Context, query string, limit, threshold int) ([]fuzzy.Result, error) {
	query = strings.TrimSpace(query)
	switch {
	case utf8.RuneCountInString(query) < MinQueryLength:
		return nil, apperr.InvalidArgument("query must be at least 2 characters")
	case utf8.RuneCountInString(query) > MaxQueryLength:
		return nil, apperr.InvalidArgument("query must be at most 100 characters")
	case limit < 1 || limit > MaxSearchLimit:
		return nil, apperr.InvalidArgument("limit must be between 1 and 50")
	case threshold < 0 || threshold > 100:
		return nil, apperr.InvalidArgument("threshold must be between 0 and 100")
	}

	players, err := s.catalog.ListSearchable(ctx, catalog.KindPlayer)
	if err != nil {
		return nil, err
	}
	teams, err := s.catalog.ListSearchable(ctx, catalog.KindTeam)
	if err != nil {
		return nil, err
	}

	results := fuzzy.Search(query, threshold, limit, players, teams)
	if results == nil {
		results = []fuzzy.Result{}
	}
	return results, nil
}
