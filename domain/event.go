package domain

import (
	"time"
)

// Event represents one item of the wedding day schedule, e.g. the ceremony
// or the first dance.
type Event struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
}

// EventService is a set of methods to manipulate and work with the Event model.
type EventService interface {
	All() ([]Event, error)
	Create(event *Event) error
}
