package crud

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"wedfest/domain"
	"wedfest/errs"
)

// PhotoService manages Photos.
// It implements the domain.PhotoService interface.
type PhotoService struct {
	photoValidator
}

// photoValidator runs validations on incoming Photo data.
// On success, it passes the data on to photoGorm.
// Otherwise, it returns the error of the validation that has failed.
type photoValidator struct {
	photoGorm
}

// photoGorm runs CRUD operations on the database using incoming Photo data.
// It assumes that data has been validated.
type photoGorm struct {
	db *gorm.DB
	// rank is the redis leaderboard mirror, needed to evict deleted photos.
	// It is optional, like everywhere else.
	rank *redis.Client
}

// NewPhotoService returns an instance of PhotoService. rank may be nil.
func NewPhotoService(db *gorm.DB, rank *redis.Client) *PhotoService {
	return &PhotoService{
		photoValidator{
			photoGorm{
				db:   db,
				rank: rank,
			},
		},
	}
}

// Ensure the PhotoService struct properly implements the domain.PhotoService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.PhotoService = &PhotoService{}

// Create runs validations needed for creating new Photo database records.
func (pv *photoValidator) Create(photo *domain.Photo) error {
	err := runPhotoValFns(photo,
		pv.filenameRequired,
		pv.captionMaxLength,
		pv.uploaderMaxLength)
	if err != nil {
		return err
	}
	return pv.photoGorm.Create(photo)
}

// runPhotoValFns runs any number of functions of type photoValFn on the passed in Photo object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runPhotoValFns(photo *domain.Photo, fns ...photoValFn) error {
	for _, fn := range fns {
		if err := fn(photo); err != nil {
			return err
		}
	}
	return nil
}

// A photoValFn is any function that takes in a pointer to a domain.Photo object and returns an error.
type photoValFn func(photo *domain.Photo) error

// filenameRequired makes sure the photo row points at a stored file.
func (pv *photoValidator) filenameRequired(photo *domain.Photo) error {
	if strings.TrimSpace(photo.Filename) == "" {
		return errs.Errorf(errs.EINVALID, "Photo file is required.")
	}
	return nil
}

// captionMaxLength makes sure the caption does not exceed the maximum length.
func (pv *photoValidator) captionMaxLength(photo *domain.Photo) error {
	if utf8.RuneCountInString(photo.Caption) > 280 {
		return errs.Errorf(errs.EINVALID, "Caption max length is 280 characters.")
	}
	return nil
}

// uploaderMaxLength makes sure the uploader name does not exceed the maximum length.
func (pv *photoValidator) uploaderMaxLength(photo *domain.Photo) error {
	if utf8.RuneCountInString(photo.Uploader) > 80 {
		return errs.Errorf(errs.EINVALID, "Uploader name max length is 80 characters.")
	}
	return nil
}

// ByID retrieves a single Photo by ID.
func (pg *photoGorm) ByID(id int) (*domain.Photo, error) {
	var photo domain.Photo
	err := pg.db.First(&photo, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The photo does not exist.")
		}
		return nil, err
	}
	return &photo, nil
}

// All retrieves all photos, newest first.
func (pg *photoGorm) All() ([]domain.Photo, error) {
	var photos []domain.Photo
	err := pg.db.
		Order("created_at desc").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// ByApproval retrieves photos filtered by approval state, newest first.
func (pg *photoGorm) ByApproval(approved bool) ([]domain.Photo, error) {
	var photos []domain.Photo
	err := pg.db.
		Where("approved = ?", approved).
		Order("created_at desc").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// Create stores the data from the Photo object in a new database record.
func (pg *photoGorm) Create(photo *domain.Photo) error {
	return pg.db.Create(photo).Error
}

// Approve marks a photo as visible in the public gallery and returns the
// updated record.
func (pg *photoGorm) Approve(id int) (*domain.Photo, error) {
	res := pg.db.
		Model(&domain.Photo{}).
		Where("id = ?", id).
		Update("approved", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected < 1 {
		return nil, errs.Errorf(errs.ENOTFOUND, "The photo does not exist.")
	}
	return pg.ByID(id)
}

// Delete permanently deletes a photo record together with its like ledger
// rows and comments. The ledger rows go first and in the same transaction,
// so no orphaned likes survive the photo and the counter invariant holds
// trivially (both sides of it are gone). The leaderboard eviction runs after
// the commit, best-effort.
func (pg *photoGorm) Delete(id int) error {
	err := pg.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("owner_type = ? AND owner_id = ?", domain.OwnerTypePhoto, id).
			Delete(&domain.Like{}).Error
		if err != nil {
			return err
		}
		err = tx.Where("photo_id = ?", id).Delete(&domain.Comment{}).Error
		if err != nil {
			return err
		}
		res := tx.Delete(&domain.Photo{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected < 1 {
			return errs.Errorf(errs.ENOTFOUND, "The photo does not exist.")
		}
		return nil
	})
	if err != nil {
		return err
	}
	dropRank(pg.rank, domain.OwnerTypePhoto, id)
	return nil
}
