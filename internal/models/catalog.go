package models

import "gorm.io/datatypes"

// Team is reference data loaded by basetopiactl.
type Team struct {
	ID               string                      `gorm:"primaryKey;size:64" json:"id" yaml:"id"`
	Name             string                      `gorm:"not null;size:255" json:"name" yaml:"name"`
	ShortName        string                      `gorm:"size:100;index" json:"short_name" yaml:"short_name"`
	AlternativeNames datatypes.JSONSlice[string] `json:"alternative_names" yaml:"alternative_names"`
	League           string                      `gorm:"size:100" json:"league" yaml:"league"`
	Country          string                      `gorm:"size:100" json:"country" yaml:"country"`
	LogoURL          string                      `gorm:"size:500" json:"logo_url" yaml:"logo_url"`
	Stadium          string                      `gorm:"size:255" json:"stadium" yaml:"stadium"`
	Founded          int                         `json:"founded" yaml:"founded"`
}

// Player is reference data loaded by basetopiactl.
type Player struct {
	ID          string `gorm:"primaryKey;size:64" json:"id" yaml:"id"`
	Name        string `gorm:"not null;size:255" json:"name" yaml:"name"`
	Position    string `gorm:"size:50" json:"position" yaml:"position"`
	TeamName    string `gorm:"size:255" json:"team_name" yaml:"team_name"`
	Number      string `gorm:"size:10" json:"number" yaml:"number"`
	ImageURL    string `gorm:"size:500" json:"image_url" yaml:"image_url"`
	Nationality string `gorm:"size:100" json:"nationality" yaml:"nationality"`
	Age         int    `json:"age" yaml:"age"`
}
