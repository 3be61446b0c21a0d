package domain

import (
	"time"
)

// Comment represents a guest comment on a photo. Comments are anonymous in
// the sense that Author is whatever name the guest typed in; there is no
// account behind it.
type Comment struct {
	ID      int    `json:"id" gorm:"primaryKey"`
	PhotoID int    `json:"photo_id" gorm:"not null;index"`
	Author  string `json:"author"`
	Content string `json:"content"`

	CreatedAt time.Time `json:"created_at"`
}

// CommentService is a set of methods to manipulate and work with the Comment model.
type CommentService interface {
	ByPhotoID(photoID int) ([]Comment, error)
	Create(comment *Comment) error
	Delete(id int) error
}
