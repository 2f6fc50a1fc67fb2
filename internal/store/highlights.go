package store

import (
	"context"
	"strings"

	"github.com/basetopia/basetopia-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertHighlights stores clips keyed by video URL. Existing clips keep their
// id and get the new description and team.
func (s *Store) UpsertHighlights(ctx context.Context, clips []models.HighlightClip) (int64, error) {
	if len(clips) == 0 {
		return 0, nil
	}
	for i := range clips {
		if clips[i].ID == uuid.Nil {
			clips[i].ID = uuid.New()
		}
	}
	result := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "video_url"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "team_short_name", "player_ids", "published_at"}),
	}).CreateInBatches(clips, 100)
	if result.Error != nil {
		return 0, unavailable("upsert highlights", result.Error)
	}
	return result.RowsAffected, nil
}

// HighlightsByTeam returns the k most recent clips of a team.
func (s *Store) HighlightsByTeam(ctx context.Context, teamShortName string, k int) ([]models.HighlightClip, error) {
	var clips []models.HighlightClip
	err := s.conn(ctx).
		Where("team_short_name = ?", teamShortName).
		Order("published_at DESC").
		Limit(k).
		Find(&clips).Error
	if err != nil {
		return nil, unavailable("highlights by team", err)
	}
	return clips, nil
}

// SearchHighlights returns up to k recent clips whose description contains
// any of terms. With no terms it returns the most recent clips.
func (s *Store) SearchHighlights(ctx context.Context, terms []string, k int) ([]models.HighlightClip, error) {
	db := s.conn(ctx).Model(&models.HighlightClip{})
	if len(terms) > 0 {
		cond := s.db.Session(&gorm.Session{NewDB: true})
		for i, term := range terms {
			pattern := "%" + strings.ToLower(term) + "%"
			if i == 0 {
				cond = cond.Where("LOWER(description) LIKE ?", pattern)
			} else {
				cond = cond.Or("LOWER(description) LIKE ?", pattern)
			}
		}
		db = db.Where(cond)
	}

	var clips []models.HighlightClip
	if err := db.Order("published_at DESC").Limit(k).Find(&clips).Error; err != nil {
		return nil, unavailable("search highlights", err)
	}
	return clips, nil
}
