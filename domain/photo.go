package domain

import (
	"mime/multipart"
	"time"
)

const (
	// UploadsBaseDir determines the storage location of uploaded photo files.
	UploadsBaseDir = "uploads/photos"
	// MaxUploadSize determines the maximum filesize of a photo to be uploaded.
	MaxUploadSize int64 = 10 << 20 // 10 Megabyte
)

// Photo represents a guest-uploaded photo. The image file itself lives in the
// filesystem under UploadsBaseDir, the row only keeps the stored filename.
// New photos start out unapproved and stay hidden from the public gallery
// until an admin approves them.
//
// LikeCount is a denormalized copy of the number of Like rows referencing
// this photo. It is maintained exclusively by the LikeService toggle; no
// other code path may write it.
type Photo struct {
	ID        int    `json:"id" gorm:"primaryKey"`
	Filename  string `json:"filename"`
	Caption   string `json:"caption"`
	Uploader  string `json:"uploader"`
	Approved  bool   `json:"approved" gorm:"not null;default:false;index"`
	LikeCount int    `json:"likes" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PhotoFile represents a photo file being uploaded. It is not stored in the
// database; after validation the file lands in the filesystem and the
// resulting Filename is recorded on the Photo row.
type PhotoFile struct {
	File        multipart.File `json:"-"`
	Filename    string         `json:"-"`
	Extension   string         `json:"-"`
	ContentType string         `json:"-"`
}

// PhotoService is a set of methods to manipulate and work with the Photo model.
type PhotoService interface {
	ByID(id int) (*Photo, error)
	All() ([]Photo, error)
	ByApproval(approved bool) ([]Photo, error)
	Create(photo *Photo) error
	Approve(id int) (*Photo, error)
	Delete(id int) error
}

// PhotoStorage stores and removes the actual image files.
type PhotoStorage interface {
	Save(file *PhotoFile) error
	Remove(filename string) error
}
