package services

import (
	"context"
	"time"

	"github.com/basetopia/basetopia-backend/internal/apperr"
	"github.com/basetopia/basetopia-backend/internal/models"
	"github.com/basetopia/basetopia-backend/internal/store"
	"gorm.io/datatypes"
)

// PostInput is the client-supplied part of a post.
type PostInput struct {
	ID               int64
	UserEmail        string
	PlayerTags       []string
	TeamTags         []string
	LocalizedContent map[string]models.LocalizedContent
}

type PostService struct {
	store   *store.Store
	timeout time.Duration
	now     func() time.Time
}

func NewPostService(st *store.Store, timeout time.Duration) *PostService {
	return &PostService{store: st, timeout: timeout, now: time.Now}
}

// Create allocates the next post id and stores the post owned by ownerEmail.
func (s *PostService) Create(ctx context.Context, ownerEmail string, in PostInput) (*models.Post, error) {
	if ownerEmail == "" {
		return nil, apperr.Unauthenticated("token carries no email")
	}
	if in.UserEmail != "" && in.UserEmail != ownerEmail {
		return nil, store.ErrForbidden
	}
	if len(in.LocalizedContent) == 0 {
		return nil, apperr.InvalidArgument("localized_content is required")
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	id, err := s.store.AllocatePostID(ctx)
	if err != nil {
		return nil, err
	}
	post := &models.Post{
		ID:               id,
		UserEmail:        ownerEmail,
		CreatedAt:        s.now().UTC().Truncate(time.Microsecond),
		LocalizedContent: datatypes.NewJSONType(in.LocalizedContent),
	}
	post.SetTags(in.PlayerTags, in.TeamTags)

	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update replaces the content and tags of post in.ID. The post must belong to
// callerEmail and in.UserEmail must name the same owner.
func (s *PostService) Update(ctx context.Context, callerEmail string, in PostInput) (*models.Post, error) {
	if in.ID <= 0 {
		return nil, apperr.InvalidArgument("post id is required")
	}
	if len(in.LocalizedContent) == 0 {
		return nil, apperr.InvalidArgument("localized_content is required")
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	post := &models.Post{
		ID:               in.ID,
		UserEmail:        in.UserEmail,
		LocalizedContent: datatypes.NewJSONType(in.LocalizedContent),
	}
	post.SetTags(in.PlayerTags, in.TeamTags)

	if err := s.store.UpdatePost(ctx, post, callerEmail); err != nil {
		return nil, err
	}
	return s.store.GetPost(ctx, in.ID)
}

func (s *PostService) Get(ctx context.Context, id int64) (*models.Post, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.GetPost(ctx, id)
}

// ByTag lists every post tagged with tag, newest first.
func (s *PostService) ByTag(ctx context.Context, kind, tag string) ([]models.Post, error) {
	if tag == "" {
		return nil, apperr.InvalidArgument("tag is required")
	}
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	posts, err := s.store.PostsByTag(ctx, kind, tag)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}
