package services

import (
	"context"
	"time"

	"github.com/basetopia/basetopia-backend/internal/apperr"
	"github.com/basetopia/basetopia-backend/internal/cursor"
	"github.com/basetopia/basetopia-backend/internal/models"
	"github.com/basetopia/basetopia-backend/internal/store"
)

const (
	MinPageSize     = 1
	MaxPageSize     = 100
	DefaultPageSize = 10
)

// FeedKind selects which posts a feed contains.
type FeedKind string

const (
	FeedByAuthor  FeedKind = "author"
	FeedByTeams   FeedKind = "teams"
	FeedByPlayers FeedKind = "players"
)

var ErrInvalidPageSize = apperr.InvalidArgument("page_size must be between 1 and 100")

// Filter is a feed selector. For FeedByAuthor Values holds one email; for
// the tag kinds it holds the followed ids.
type Filter struct {
	Kind   FeedKind
	Values []string
}

// Page is one window of a feed. Next is set only when more posts follow.
type Page struct {
	Items []models.Post
	Next  *cursor.Position
}

type FeedService struct {
	store   *store.Store
	timeout time.Duration
}

func NewFeedService(st *store.Store, timeout time.Duration) *FeedService {
	return &FeedService{store: st, timeout: timeout}
}

// Page returns up to pageSize posts matching f, newest first, strictly after
// the cursor when one is given.
func (s *FeedService) Page(ctx context.Context, f Filter, pageSize int, after *cursor.Position) (*Page, error) {
	if pageSize < MinPageSize || pageSize > MaxPageSize {
		return nil, ErrInvalidPageSize
	}

	q := store.PostQuery{After: after, Limit: pageSize + 1}
	switch f.Kind {
	case FeedByAuthor:
		if len(f.Values) != 1 || f.Values[0] == "" {
			return nil, apperr.InvalidArgument("author feed needs exactly one email")
		}
		q.AuthorEmail = f.Values[0]
	case FeedByTeams, FeedByPlayers:
		if len(f.Values) == 0 {
			return &Page{Items: []models.Post{}}, nil
		}
		q.TagKind = tagKindOf(f.Kind)
		q.Tags = f.Values
	default:
		return nil, apperr.InvalidArgument("unknown feed kind: " + string(f.Kind))
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	posts, err := s.store.QueryPosts(ctx, q)
	if err != nil {
		return nil, apperr.Unavailable("query failed", err)
	}

	page := &Page{Items: posts}
	if page.Items == nil {
		page.Items = []models.Post{}
	}
	if len(page.Items) > pageSize {
		page.Items = page.Items[:pageSize]
		last := page.Items[pageSize-1]
		page.Next = &cursor.Position{CreatedAt: last.CreatedAt.UTC(), ID: last.ID}
	}
	return page, nil
}

// Following pages through posts tagged with the teams or players uid follows.
func (s *FeedService) Following(ctx context.Context, uid string, kind FeedKind, pageSize int, after *cursor.Position) (*Page, error) {
	lookupCtx, cancel := withTimeout(ctx, s.timeout)
	user, err := s.store.GetUser(lookupCtx, uid)
	cancel()
	if err != nil {
		return nil, err
	}
	values := []string(user.TeamsFollowing)
	if kind == FeedByPlayers {
		values = user.PlayersFollowing
	}
	return s.Page(ctx, Filter{Kind: kind, Values: values}, pageSize, after)
}

func tagKindOf(kind FeedKind) string {
	if kind == FeedByPlayers {
		return models.TagKindPlayer
	}
	return models.TagKindTeam
}
