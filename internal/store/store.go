// Package store is the GORM-backed persistence layer for users, posts, the
// entity catalog and highlight clips.
package store

import (
	"context"
	"errors"

	"github.com/basetopia/basetopia-backend/internal/apperr"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound   = apperr.NotFound("user not found")
	ErrPostNotFound   = apperr.NotFound("post not found")
	ErrTeamNotFound   = apperr.NotFound("team not found")
	ErrPlayerNotFound = apperr.NotFound("player not found")
	ErrForbidden      = apperr.Forbidden("post belongs to another user")
)

// Store wraps a *gorm.DB. It is safe for concurrent use.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for migrations and health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// notFoundOr maps gorm.ErrRecordNotFound to notFound and every other error to
// an unavailable failure.
func notFoundOr(err error, notFound *apperr.Error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(notFound.Kind, notFound.Message, err)
	}
	return unavailable(op, err)
}

func unavailable(op string, err error) error {
	return apperr.Unavailable(op+" failed", err)
}
