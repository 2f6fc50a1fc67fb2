package store

import (
	"github.com/basetopia/basetopia-backend/internal/cursor"
	"gorm.io/gorm"
)

// ByAuthor filters posts by owner email.
func ByAuthor(email string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.user_email = ?", email)
	}
}

// TaggedWith keeps posts carrying at least one of tags of the given kind.
func TaggedWith(kind string, tags []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"EXISTS (SELECT 1 FROM post_tags WHERE post_tags.post_id = posts.id AND post_tags.kind = ? AND post_tags.tag IN ?)",
			kind, tags,
		)
	}
}

// After resumes strictly after pos in (created_at DESC, id DESC) order.
func After(pos cursor.Position) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"(posts.created_at < ? OR (posts.created_at = ? AND posts.id < ?))",
			pos.CreatedAt, pos.CreatedAt, pos.ID,
		)
	}
}

// Newest orders posts by creation time, breaking ties by id.
func Newest(db *gorm.DB) *gorm.DB {
	return db.Order("posts.created_at DESC").Order("posts.id DESC")
}

func withTags(db *gorm.DB) *gorm.DB {
	return db.Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("post_tags.kind ASC").Order("post_tags.tag ASC")
	})
}
