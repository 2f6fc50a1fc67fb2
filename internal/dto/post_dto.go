package dto

import (
	"strconv"
	"time"

	"github.com/basetopia/basetopia-backend/internal/cursor"
	"github.com/basetopia/basetopia-backend/internal/models"
)

// PostRequest is the body of POST and PUT /posts. ID is required on PUT.
type PostRequest struct {
	ID               string                             `json:"id"`
	UserEmail        string                             `json:"user_email"`
	PlayerTags       []string                           `json:"player_tags"`
	TeamTags         []string                           `json:"team_tags"`
	LocalizedContent map[string]models.LocalizedContent `json:"localized_content"`
}

type PostResponse struct {
	ID               string                             `json:"id"`
	UserEmail        string                             `json:"user_email"`
	CreatedAt        time.Time                          `json:"created_at"`
	PlayerTags       []string                           `json:"player_tags"`
	TeamTags         []string                           `json:"team_tags"`
	LocalizedContent map[string]models.LocalizedContent `json:"localized_content"`
}

type NextPageCursor struct {
	CreatedAt string `json:"created_at"`
	ID        string `json:"id"`
	Token     string `json:"token"`
}

type PostsResponse struct {
	Posts          []PostResponse  `json:"posts"`
	NextPageCursor *NextPageCursor `json:"next_page_cursor"`
	PageSize       int             `json:"page_size"`
}

type PostListResponse struct {
	Posts []PostResponse `json:"posts"`
}

func NewPostResponse(p *models.Post) PostResponse {
	content := p.LocalizedContent.Data()
	if content == nil {
		content = map[string]models.LocalizedContent{}
	}
	return PostResponse{
		ID:               strconv.FormatInt(p.ID, 10),
		UserEmail:        p.UserEmail,
		CreatedAt:        p.CreatedAt.UTC(),
		PlayerTags:       p.TagValues(models.TagKindPlayer),
		TeamTags:         p.TagValues(models.TagKindTeam),
		LocalizedContent: content,
	}
}

func NewPostResponses(posts []models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, NewPostResponse(&posts[i]))
	}
	return out
}

func NewNextPageCursor(p *cursor.Position) *NextPageCursor {
	if p == nil {
		return nil
	}
	return &NextPageCursor{
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339Nano),
		ID:        strconv.FormatInt(p.ID, 10),
		Token:     cursor.Encode(*p),
	}
}
