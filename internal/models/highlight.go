package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// HighlightClip is an ingested video clip the agent can cite.
type HighlightClip struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	VideoURL      string                      `gorm:"not null;size:1000;uniqueIndex" json:"video_url"`
	Description   string                      `gorm:"type:text" json:"description"`
	TeamShortName string                      `gorm:"size:100;index" json:"team_short_name"`
	PlayerIDs     datatypes.JSONSlice[string] `json:"player_ids"`
	PublishedAt   time.Time                   `gorm:"index" json:"published_at"`
	CreatedAt     time.Time                   `json:"created_at"`
}
