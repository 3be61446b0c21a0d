package crud

import (
	"strings"

	"gorm.io/gorm"

	"wedfest/domain"
	"wedfest/errs"
)

// GameService manages mini-game scores.
// It implements the domain.GameService interface.
type GameService struct {
	gameValidator
}

// gameValidator runs validations on incoming GameScore data.
// On success, it passes the data on to gameGorm.
// Otherwise, it returns the error of the validation that has failed.
type gameValidator struct {
	gameGorm
}

// gameGorm runs CRUD operations on the database using incoming GameScore data.
// It assumes that data has been validated.
type gameGorm struct {
	db *gorm.DB
}

// NewGameService returns an instance of GameService.
func NewGameService(db *gorm.DB) *GameService {
	return &GameService{
		gameValidator{
			gameGorm{
				db: db,
			},
		},
	}
}

// Ensure the GameService struct properly implements the domain.GameService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.GameService = &GameService{}

// Submit runs validations needed for recording a new game score.
func (gv *gameValidator) Submit(score *domain.GameScore) error {
	if strings.TrimSpace(score.Game) == "" {
		return errs.Errorf(errs.EINVALID, "Game must not be empty.")
	}
	if strings.TrimSpace(score.Player) == "" {
		return errs.Errorf(errs.EINVALID, "Player must not be empty.")
	}
	if score.Score < 0 {
		return errs.Errorf(errs.EINVALID, "Score must not be negative.")
	}
	return gv.gameGorm.Submit(score)
}

// Submit stores the data from the GameScore object in a new database record.
func (gg *gameGorm) Submit(score *domain.GameScore) error {
	return gg.db.Create(score).Error
}

// Top retrieves the n best scores of one game, highest first, ties oldest
// first so the first to reach a score keeps the spot.
func (gg *gameGorm) Top(game string, n int) ([]domain.GameScore, error) {
	if n <= 0 {
		n = 10
	}
	var scores []domain.GameScore
	err := gg.db.
		Where("game = ?", game).
		Order("score desc").
		Order("created_at asc").
		Limit(n).
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}
