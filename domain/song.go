package domain

import (
	"time"
)

// Song represents a playlist suggestion made by a guest. Suggestions are
// public immediately; the DJ works off the list ordered by like count.
//
// LikeCount is a denormalized copy of the number of Like rows referencing
// this song, maintained exclusively by the LikeService toggle.
type Song struct {
	ID          int    `json:"id" gorm:"primaryKey"`
	Artist      string `json:"artist"`
	Title       string `json:"title"`
	SuggestedBy string `json:"suggested_by"`
	LikeCount   int    `json:"likes" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SongService is a set of methods to manipulate and work with the Song model.
type SongService interface {
	ByID(id int) (*Song, error)
	All() ([]Song, error)
	Create(song *Song) error
	Delete(id int) error
}
