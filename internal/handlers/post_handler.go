package handlers

import (
	"strconv"
	"strings"

	"github.com/basetopia/basetopia-backend/internal/apperr"
	"github.com/basetopia/basetopia-backend/internal/cursor"
	"github.com/basetopia/basetopia-backend/internal/dto"
	"github.com/basetopia/basetopia-backend/internal/identity"
	"github.com/basetopia/basetopia-backend/internal/models"
	"github.com/basetopia/basetopia-backend/internal/services"
	"github.com/basetopia/basetopia-backend/pkg/metrics"
	"github.com/gofiber/fiber/v2"
)

var errInvalidPostID = apperr.InvalidArgument("post id must be a positive integer")

type PostHandler struct {
	posts *services.PostService
	feeds *services.FeedService
}

func NewPostHandler(posts *services.PostService, feeds *services.FeedService) *PostHandler {
	return &PostHandler{posts: posts, feeds: feeds}
}

// MyPosts pages through the caller's own posts.
func (h *PostHandler) MyPosts(c *fiber.Ctx) error {
	id, err := identity.FromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	if id.Email == "" {
		return respondError(c, apperr.Unauthenticated("token carries no email"))
	}
	pageSize, after, err := pageParams(c)
	if err != nil {
		return respondError(c, err)
	}

	page, err := h.feeds.Page(c.UserContext(), services.Filter{
		Kind:   services.FeedByAuthor,
		Values: []string{id.Email},
	}, pageSize, after)
	if err != nil {
		return respondError(c, err)
	}
	return h.respondPage(c, services.FeedByAuthor, page, pageSize)
}

func (h *PostHandler) TeamFeed(c *fiber.Ctx) error {
	return h.following(c, services.FeedByTeams)
}

func (h *PostHandler) PlayerFeed(c *fiber.Ctx) error {
	return h.following(c, services.FeedByPlayers)
}

func (h *PostHandler) following(c *fiber.Ctx, kind services.FeedKind) error {
	pageSize, after, err := pageParams(c)
	if err != nil {
		return respondError(c, err)
	}
	page, err := h.feeds.Following(c.UserContext(), identity.UID(c), kind, pageSize, after)
	if err != nil {
		return respondError(c, err)
	}
	return h.respondPage(c, kind, page, pageSize)
}

func (h *PostHandler) respondPage(c *fiber.Ctx, kind services.FeedKind, page *services.Page, pageSize int) error {
	metrics.RecordFeedPage(string(kind), len(page.Items))
	return c.JSON(dto.PostsResponse{
		Posts:          dto.NewPostResponses(page.Items),
		NextPageCursor: dto.NewNextPageCursor(page.Next),
		PageSize:       pageSize,
	})
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	id, err := identity.FromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	in, err := parsePost(c)
	if err != nil {
		return respondError(c, err)
	}

	post, err := h.posts.Create(c.UserContext(), id.Email, in)
	if err != nil {
		return respondError(c, err)
	}
	metrics.RecordPostCreated()
	return c.Status(fiber.StatusCreated).JSON(dto.NewPostResponse(post))
}

// Update replaces a post the caller owns.
func (h *PostHandler) Update(c *fiber.Ctx) error {
	id, err := identity.FromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	in, err := parsePost(c)
	if err != nil {
		return respondError(c, err)
	}
	if in.ID == 0 {
		return respondError(c, errInvalidPostID)
	}

	post, err := h.posts.Update(c.UserContext(), id.Email, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPostResponse(post))
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	postID, err := parsePostID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	post, err := h.posts.Get(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPostResponse(post))
}

func (h *PostHandler) ByPlayer(c *fiber.Ctx) error {
	return h.byTag(c, models.TagKindPlayer)
}

func (h *PostHandler) ByTeam(c *fiber.Ctx) error {
	return h.byTag(c, models.TagKindTeam)
}

func (h *PostHandler) byTag(c *fiber.Ctx, kind string) error {
	posts, err := h.posts.ByTag(c.UserContext(), kind, c.Params("tag"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PostListResponse{Posts: dto.NewPostResponses(posts)})
}

func parsePost(c *fiber.Ctx) (services.PostInput, error) {
	var req dto.PostRequest
	if err := c.BodyParser(&req); err != nil {
		return services.PostInput{}, errInvalidBody
	}
	in := services.PostInput{
		UserEmail:        req.UserEmail,
		PlayerTags:       req.PlayerTags,
		TeamTags:         req.TeamTags,
		LocalizedContent: req.LocalizedContent,
	}
	if req.ID != "" {
		id, err := parsePostID(req.ID)
		if err != nil {
			return services.PostInput{}, err
		}
		in.ID = id
	}
	return in, nil
}

func parsePostID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidPostID
	}
	return id, nil
}

// pageParams reads page_size and the continuation position. The opaque
// cursor wins over the last_created_at/last_id pair, which counts only when
// both parts are present.
func pageParams(c *fiber.Ctx) (int, *cursor.Position, error) {
	pageSize, err := queryInt(c, "page_size", services.DefaultPageSize)
	if err != nil {
		return 0, nil, err
	}
	if pageSize < services.MinPageSize || pageSize > services.MaxPageSize {
		return 0, nil, services.ErrInvalidPageSize
	}

	if token := c.Query("cursor"); token != "" {
		p, err := cursor.Decode(token)
		if err != nil {
			return 0, nil, err
		}
		return pageSize, &p, nil
	}

	// A literal "+" in the offset arrives as a space.
	createdAt := strings.ReplaceAll(c.Query("last_created_at"), " ", "+")
	lastID := c.Query("last_id")
	if createdAt == "" || lastID == "" {
		return pageSize, nil, nil
	}
	p, err := cursor.FromParts(createdAt, lastID)
	if err != nil {
		return 0, nil, err
	}
	return pageSize, &p, nil
}
