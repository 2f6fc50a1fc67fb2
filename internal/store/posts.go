package store

import (
	"context"
	"errors"

	"github.com/basetopia/basetopia-backend/internal/apperr"
	"github.com/basetopia/basetopia-backend/internal/cursor"
	"github.com/basetopia/basetopia-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostsCounter names the counter row backing post ids.
const PostsCounter = "posts"

// PostQuery selects one window of a feed. Exactly one of AuthorEmail or
// TagKind should be set.
type PostQuery struct {
	AuthorEmail string
	TagKind     string
	Tags        []string
	After       *cursor.Position
	Limit       int
}

// EnsureCounter creates the named counter at zero if it does not exist.
func (s *Store) EnsureCounter(ctx context.Context, name string) error {
	err := s.conn(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Counter{Name: name}).Error
	if err != nil {
		return unavailable("ensure counter", err)
	}
	return nil
}

// ResetPostsCounter sets the posts counter to the highest stored post id, or
// zero when there are no posts, so the next allocation never reuses an id.
func (s *Store) ResetPostsCounter(ctx context.Context) (int64, error) {
	var seq int64
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Select("COALESCE(MAX(id), 0)").Scan(&seq).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"seq"}),
		}).Create(&models.Counter{Name: PostsCounter, Seq: seq}).Error
	})
	if err != nil {
		return 0, unavailable("reset posts counter", err)
	}
	return seq, nil
}

// AllocatePostID increments the posts counter and returns the new value.
// The UPDATE holds the row lock until commit, so concurrent callers never see
// the same value.
func (s *Store) AllocatePostID(ctx context.Context) (int64, error) {
	var counter models.Counter
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Counter{Name: PostsCounter}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Counter{}).
			Where("name = ?", PostsCounter).
			UpdateColumn("seq", gorm.Expr("seq + ?", 1)).Error; err != nil {
			return err
		}
		return tx.Where("name = ?", PostsCounter).First(&counter).Error
	})
	if err != nil {
		return 0, unavailable("allocate post id", err)
	}
	return counter.Seq, nil
}

// CreatePost writes the post and its tags in one transaction.
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	for i := range post.Tags {
		post.Tags[i].PostID = post.ID
	}
	if err := s.conn(ctx).Create(post).Error; err != nil {
		return unavailable("create post", err)
	}
	return nil
}

// UpdatePost replaces the content and tags of an existing post owned by
// ownerEmail. CreatedAt is preserved.
func (s *Store) UpdatePost(ctx context.Context, post *models.Post, ownerEmail string) error {
	if post.UserEmail != ownerEmail {
		return ErrForbidden
	}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Post
		if err := tx.First(&existing, "id = ?", post.ID).Error; err != nil {
			return err
		}
		if existing.UserEmail != ownerEmail {
			return ErrForbidden
		}
		post.CreatedAt = existing.CreatedAt

		if err := tx.Model(&existing).
			Update("localized_content", post.LocalizedContent).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		for i := range post.Tags {
			post.Tags[i].PostID = post.ID
		}
		if len(post.Tags) > 0 {
			return tx.Create(&post.Tags).Error
		}
		return nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrForbidden):
		return err
	default:
		return notFoundOr(err, ErrPostNotFound, "update post")
	}
}

// GetPost loads one post with its tags.
func (s *Store) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := s.conn(ctx).Scopes(withTags).First(&post, "posts.id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, ErrPostNotFound, "get post")
	}
	return &post, nil
}

// QueryPosts returns up to q.Limit posts, newest first.
func (s *Store) QueryPosts(ctx context.Context, q PostQuery) ([]models.Post, error) {
	db := s.conn(ctx).Model(&models.Post{})
	switch {
	case q.AuthorEmail != "":
		db = db.Scopes(ByAuthor(q.AuthorEmail))
	case q.TagKind != "":
		if len(q.Tags) == 0 {
			return nil, nil
		}
		db = db.Scopes(TaggedWith(q.TagKind, q.Tags))
	default:
		return nil, apperr.InvalidArgument("post query needs an author or tags")
	}
	if q.After != nil {
		db = db.Scopes(After(*q.After))
	}

	var posts []models.Post
	if err := db.Scopes(Newest, withTags).Limit(q.Limit).Find(&posts).Error; err != nil {
		return nil, unavailable("query posts", err)
	}
	return posts, nil
}

// PostsByTag returns every post carrying tag, newest first.
func (s *Store) PostsByTag(ctx context.Context, kind, tag string) ([]models.Post, error) {
	var posts []models.Post
	err := s.conn(ctx).Model(&models.Post{}).
		Scopes(TaggedWith(kind, []string{tag}), Newest, withTags).
		Find(&posts).Error
	if err != nil {
		return nil, unavailable("posts by tag", err)
	}
	return posts, nil
}
