package models

import (
	"time"

	"gorm.io/datatypes"
)

// Tag kinds stored in post_tags.kind.
const (
	TagKindPlayer = "player"
	TagKindTeam   = "team"
)

// Highlight is a video clip embedded in a post.
type Highlight struct {
	VideoURL    string `json:"video_url"`
	Description string `json:"description"`
}

// LocalizedContent is the body of a post in one locale.
type LocalizedContent struct {
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	Highlights []Highlight `json:"highlights"`
}

// Post ids come from the posts counter, never from the database.
type Post struct {
	ID               int64                                           `gorm:"primaryKey;autoIncrement:false"`
	UserEmail        string                                          `gorm:"not null;size:255;index"`
	CreatedAt        time.Time                                       `gorm:"not null;index"`
	LocalizedContent datatypes.JSONType[map[string]LocalizedContent] `gorm:"not null"`
	Tags             []PostTag                                       `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// PostTag attaches a player or team id to a post.
type PostTag struct {
	PostID int64  `gorm:"primaryKey;autoIncrement:false"`
	Kind   string `gorm:"primaryKey;size:16"`
	Tag    string `gorm:"primaryKey;size:64;index"`
}

// TagValues returns the tags of the given kind in stored order.
func (p *Post) TagValues(kind string) []string {
	values := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		if t.Kind == kind {
			values = append(values, t.Tag)
		}
	}
	return values
}

// SetTags replaces the post's tags, dropping duplicates and empty ids.
func (p *Post) SetTags(players, teams []string) {
	p.Tags = p.Tags[:0]
	seen := make(map[PostTag]bool)
	add := func(kind string, values []string) {
		for _, v := range values {
			t := PostTag{PostID: p.ID, Kind: kind, Tag: v}
			if v == "" || seen[t] {
				continue
			}
			seen[t] = true
			p.Tags = append(p.Tags, t)
		}
	}
	add(TagKindPlayer, players)
	add(TagKindTeam, teams)
}

// Counter backs atomic id allocation.
type Counter struct {
	Name string `gorm:"primaryKey;size:64"`
	Seq  int64  `gorm:"not null;default:0"`
}
