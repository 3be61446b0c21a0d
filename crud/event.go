package crud

import (
	"strings"

	"gorm.io/gorm"

	"wedfest/domain"
	"wedfest/errs"
)

// EventService manages schedule Events.
// It implements the domain.EventService interface.
type EventService struct {
	eventValidator
}

// eventValidator runs validations on incoming Event data.
// On success, it passes the data on to eventGorm.
// Otherwise, it returns the error of the validation that has failed.
type eventValidator struct {
	eventGorm
}

// eventGorm runs CRUD operations on the database using incoming Event data.
// It assumes that data has been validated.
type eventGorm struct {
	db *gorm.DB
}

// NewEventService returns an instance of EventService.
func NewEventService(db *gorm.DB) *EventService {
	return &EventService{
		eventValidator{
			eventGorm{
				db: db,
			},
		},
	}
}

// Ensure the EventService struct properly implements the domain.EventService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.EventService = &EventService{}

// Create runs validations needed for creating new Event database records.
func (ev *eventValidator) Create(event *domain.Event) error {
	if strings.TrimSpace(event.Title) == "" {
		return errs.Errorf(errs.EINVALID, "Event title must not be empty.")
	}
	if event.StartsAt.IsZero() {
		return errs.Errorf(errs.EINVALID, "Event start time is required.")
	}
	return ev.eventGorm.Create(event)
}

// All retrieves the full schedule, earliest first.
func (eg *eventGorm) All() ([]domain.Event, error) {
	var events []domain.Event
	err := eg.db.
		Order("starts_at asc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Create stores the data from the Event object in a new database record.
func (eg *eventGorm) Create(event *domain.Event) error {
	return eg.db.Create(event).Error
}
