package domain

import (
	"time"
)

// GameScore represents one finished round of a mini-game. Game is a free-form
// slug chosen by the frontend ("quiz", "memory", ...), Player is the name the
// guest typed in.
type GameScore struct {
	ID     int    `json:"id" gorm:"primaryKey"`
	Game   string `json:"game" gorm:"type:varchar(64);not null;index"`
	Player string `json:"player"`
	Score  int    `json:"score" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}

// GameService is a set of methods to manipulate and work with the GameScore model.
type GameService interface {
	Submit(score *GameScore) error
	Top(game string, n int) ([]GameScore, error)
}
