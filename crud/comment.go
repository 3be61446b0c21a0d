package crud

import (
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"wedfest/domain"
	"wedfest/errs"
)

// CommentService manages photo Comments.
// It implements the domain.CommentService interface.
type CommentService struct {
	commentValidator
}

// commentValidator runs validations on incoming Comment data.
// On success, it passes the data on to commentGorm.
// Otherwise, it returns the error of the validation that has failed.
type commentValidator struct {
	commentGorm
}

// commentGorm runs CRUD operations on the database using incoming Comment data.
// It assumes that data has been validated.
type commentGorm struct {
	db *gorm.DB
}

// NewCommentService returns an instance of CommentService.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		commentValidator{
			commentGorm{
				db: db,
			},
		},
	}
}

// Ensure the CommentService struct properly implements the domain.CommentService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.CommentService = &CommentService{}

// Create runs validations needed for creating new Comment database records.
func (cv *commentValidator) Create(comment *domain.Comment) error {
	err := runCommentValFns(comment,
		cv.photoExists,
		cv.contentMinLength,
		cv.contentMaxLength)
	if err != nil {
		return err
	}
	return cv.commentGorm.Create(comment)
}

// runCommentValFns runs any number of functions of type commentValFn on the passed in Comment object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runCommentValFns(comment *domain.Comment, fns ...commentValFn) error {
	for _, fn := range fns {
		if err := fn(comment); err != nil {
			return err
		}
	}
	return nil
}

// A commentValFn is any function that takes in a pointer to a domain.Comment object and returns an error.
type commentValFn func(comment *domain.Comment) error

// photoExists makes sure the commented photo actually exists.
func (cv *commentValidator) photoExists(comment *domain.Comment) error {
	err := cv.db.First(&domain.Photo{}, "id = ?", comment.PhotoID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The commented photo does not exist.")
		}
		return err
	}
	return nil
}

// contentMinLength makes sure the comment is not empty.
func (cv *commentValidator) contentMinLength(comment *domain.Comment) error {
	if strings.TrimSpace(comment.Content) == "" {
		return errs.Errorf(errs.EINVALID, "Comment must not be empty.")
	}
	return nil
}

// contentMaxLength makes sure the comment does not exceed the maximum length.
func (cv *commentValidator) contentMaxLength(comment *domain.Comment) error {
	if utf8.RuneCountInString(comment.Content) > 500 {
		return errs.Errorf(errs.EINVALID, "Comment max length is 500 characters.")
	}
	return nil
}

// ByPhotoID retrieves all comments of a photo, oldest first.
func (cg *commentGorm) ByPhotoID(photoID int) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := cg.db.
		Where("photo_id = ?", photoID).
		Order("created_at asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Create stores the data from the Comment object in a new database record.
func (cg *commentGorm) Create(comment *domain.Comment) error {
	return cg.db.Create(comment).Error
}

// Delete permanently deletes a comment record.
func (cg *commentGorm) Delete(id int) error {
	res := cg.db.Delete(&domain.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected < 1 {
		return errs.Errorf(errs.ENOTFOUND, "The comment does not exist.")
	}
	return nil
}
