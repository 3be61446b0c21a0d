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

// SongService manages playlist Songs.
// It implements the domain.SongService interface.
type SongService struct {
	songValidator
}

// songValidator runs validations on incoming Song data.
// On success, it passes the data on to songGorm.
// Otherwise, it returns the error of the validation that has failed.
type songValidator struct {
	songGorm
}

// songGorm runs CRUD operations on the database using incoming Song data.
// It assumes that data has been validated.
type songGorm struct {
	db *gorm.DB
	// rank is the redis leaderboard mirror, needed to evict deleted songs.
	// It is optional, like everywhere else.
	rank *redis.Client
}

// NewSongService returns an instance of SongService. rank may be nil.
func NewSongService(db *gorm.DB, rank *redis.Client) *SongService {
	return &SongService{
		songValidator{
			songGorm{
				db:   db,
				rank: rank,
			},
		},
	}
}

// Ensure the SongService struct properly implements the domain.SongService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.SongService = &SongService{}

// Create runs validations needed for creating new Song database records.
func (sv *songValidator) Create(song *domain.Song) error {
	err := runSongValFns(song,
		sv.artistRequired,
		sv.titleRequired,
		sv.fieldsMaxLength,
		sv.notAlreadySuggested)
	if err != nil {
		return err
	}
	return sv.songGorm.Create(song)
}

// runSongValFns runs any number of functions of type songValFn on the passed in Song object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runSongValFns(song *domain.Song, fns ...songValFn) error {
	for _, fn := range fns {
		if err := fn(song); err != nil {
			return err
		}
	}
	return nil
}

// A songValFn is any function that takes in a pointer to a domain.Song object and returns an error.
type songValFn func(song *domain.Song) error

// artistRequired makes sure the artist is not empty.
func (sv *songValidator) artistRequired(song *domain.Song) error {
	if strings.TrimSpace(song.Artist) == "" {
		return errs.Errorf(errs.EINVALID, "Artist must not be empty.")
	}
	return nil
}

// titleRequired makes sure the title is not empty.
func (sv *songValidator) titleRequired(song *domain.Song) error {
	if strings.TrimSpace(song.Title) == "" {
		return errs.Errorf(errs.EINVALID, "Title must not be empty.")
	}
	return nil
}

// fieldsMaxLength makes sure no text field exceeds the maximum length.
func (sv *songValidator) fieldsMaxLength(song *domain.Song) error {
	for _, field := range []string{song.Artist, song.Title, song.SuggestedBy} {
		if utf8.RuneCountInString(field) > 200 {
			return errs.Errorf(errs.EINVALID, "Song fields max length is 200 characters.")
		}
	}
	return nil
}

// notAlreadySuggested makes sure the same song has not been suggested before.
func (sv *songValidator) notAlreadySuggested(song *domain.Song) error {
	err := sv.db.
		Where("lower(artist) = lower(?) AND lower(title) = lower(?)", song.Artist, song.Title).
		First(&domain.Song{}).Error
	if err == nil {
		return errs.Errorf(errs.EINVALID, "This song is already on the wishlist.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// ByID retrieves a single Song by ID.
func (sg *songGorm) ByID(id int) (*domain.Song, error) {
	var song domain.Song
	err := sg.db.First(&song, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The song does not exist.")
		}
		return nil, err
	}
	return &song, nil
}

// All retrieves all suggested songs, most liked first, ties newest first.
func (sg *songGorm) All() ([]domain.Song, error) {
	var songs []domain.Song
	err := sg.db.
		Order("like_count desc").
		Order("created_at desc").
		Find(&songs).Error
	if err != nil {
		return nil, err
	}
	return songs, nil
}

// Create stores the data from the Song object in a new database record.
func (sg *songGorm) Create(song *domain.Song) error {
	return sg.db.Create(song).Error
}

// Delete permanently deletes a song record together with its like ledger
// rows. The ledger rows go first and in the same transaction, so no
// orphaned likes survive the song. The leaderboard eviction runs after the
// commit, best-effort.
func (sg *songGorm) Delete(id int) error {
	err := sg.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("owner_type = ? AND owner_id = ?", domain.OwnerTypeSong, id).
			Delete(&domain.Like{}).Error
		if err != nil {
			return err
		}
		res := tx.Delete(&domain.Song{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected < 1 {
			return errs.Errorf(errs.ENOTFOUND, "The song does not exist.")
		}
		return nil
	})
	if err != nil {
		return err
	}
	dropRank(sg.rank, domain.OwnerTypeSong, id)
	return nil
}
