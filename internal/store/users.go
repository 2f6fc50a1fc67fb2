package store

import (
	"context"

	"github.com/basetopia/basetopia-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) GetUser(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).First(&user, "uid = ?", uid).Error; err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "get user")
	}
	return &user, nil
}

// PutUser creates the user or overwrites every profile field.
func (s *Store) PutUser(ctx context.Context, user *models.User) error {
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "display_name", "nationality", "teams_following", "players_following", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return unavailable("put user", err)
	}
	return nil
}

// UpdateUser applies fn to the stored user inside a transaction and saves the
// result.
func (s *Store) UpdateUser(ctx context.Context, uid string, fn func(*models.User) error) (*models.User, error) {
	var user models.User
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "uid = ?", uid).Error; err != nil {
			return err
		}
		if err := fn(&user); err != nil {
			return err
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "update user")
	}
	return &user, nil
}

// DeleteUser hard-deletes the profile.
func (s *Store) DeleteUser(ctx context.Context, uid string) error {
	result := s.conn(ctx).Where("uid = ?", uid).Delete(&models.User{})
	if result.Error != nil {
		return unavailable("delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
