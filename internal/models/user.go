package models

import (
	"time"

	"gorm.io/datatypes"
)

// User is a profile keyed by the identity provider's uid.
type User struct {
	UID              string                      `gorm:"primaryKey;size:128" json:"uid"`
	Email            string                      `gorm:"not null;size:255;index" json:"email"`
	DisplayName      string                      `gorm:"size:255" json:"display_name"`
	Nationality      string                      `gorm:"size:100" json:"nationality"`
	TeamsFollowing   datatypes.JSONSlice[string] `json:"teams_following"`
	PlayersFollowing datatypes.JSONSlice[string] `json:"players_following"`
	CreatedAt        time.Time                   `json:"-"`
	UpdatedAt        time.Time                   `json:"-"`
}
