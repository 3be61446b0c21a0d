package crud

import (
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"wedfest/domain"
	"wedfest/errs"
)

// MessageService manages guestbook Messages.
// It implements the domain.MessageService interface.
type MessageService struct {
	messageValidator
}

// messageValidator runs validations on incoming Message data.
// On success, it passes the data on to messageGorm.
// Otherwise, it returns the error of the validation that has failed.
type messageValidator struct {
	messageGorm
}

// messageGorm runs CRUD operations on the database using incoming Message data.
// It assumes that data has been validated.
type messageGorm struct {
	db *gorm.DB
}

// NewMessageService returns an instance of MessageService.
func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{
		messageValidator{
			messageGorm{
				db: db,
			},
		},
	}
}

// Ensure the MessageService struct properly implements the domain.MessageService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.MessageService = &MessageService{}

// Create runs validations needed for creating new Message database records.
func (mv *messageValidator) Create(message *domain.Message) error {
	err := runMessageValFns(message,
		mv.authorRequired,
		mv.contentMinLength,
		mv.contentMaxLength,
		mv.sentimentValid)
	if err != nil {
		return err
	}
	return mv.messageGorm.Create(message)
}

// runMessageValFns runs any number of functions of type messageValFn on the passed in Message object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runMessageValFns(message *domain.Message, fns ...messageValFn) error {
	for _, fn := range fns {
		if err := fn(message); err != nil {
			return err
		}
	}
	return nil
}

// A messageValFn is any function that takes in a pointer to a domain.Message object and returns an error.
type messageValFn func(message *domain.Message) error

// authorRequired makes sure the author name is not empty.
func (mv *messageValidator) authorRequired(message *domain.Message) error {
	if strings.TrimSpace(message.Author) == "" {
		return errs.Errorf(errs.EINVALID, "Author must not be empty.")
	}
	return nil
}

// contentMinLength makes sure the message is not empty.
func (mv *messageValidator) contentMinLength(message *domain.Message) error {
	if strings.TrimSpace(message.Content) == "" {
		return errs.Errorf(errs.EINVALID, "Message must not be empty.")
	}
	return nil
}

// contentMaxLength makes sure the message does not exceed the maximum length.
func (mv *messageValidator) contentMaxLength(message *domain.Message) error {
	if utf8.RuneCountInString(message.Content) > 2000 {
		return errs.Errorf(errs.EINVALID, "Message max length is 2000 characters.")
	}
	return nil
}

// sentimentValid normalizes the sentiment label to one of the known values.
// An unknown or missing label degrades to neutral rather than failing the
// write; the label is decoration, the message is the payload.
func (mv *messageValidator) sentimentValid(message *domain.Message) error {
	switch message.Sentiment {
	case domain.SentimentPositive, domain.SentimentNeutral, domain.SentimentNegative:
	default:
		message.Sentiment = domain.SentimentNeutral
	}
	return nil
}

// All retrieves all guestbook messages, newest first.
func (mg *messageGorm) All() ([]domain.Message, error) {
	var messages []domain.Message
	err := mg.db.
		Order("created_at desc").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Create stores the data from the Message object in a new database record.
func (mg *messageGorm) Create(message *domain.Message) error {
	return mg.db.Create(message).Error
}
