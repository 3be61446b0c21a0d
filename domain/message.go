package domain

import (
	"time"
)

// Sentiment labels assigned to guestbook messages. The label comes from a
// best-effort AI pass; when the AI is unavailable every message is neutral.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Message represents a guestbook entry left for the couple.
type Message struct {
	ID        int    `json:"id" gorm:"primaryKey"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	Sentiment string `json:"sentiment" gorm:"type:varchar(16)"`

	CreatedAt time.Time `json:"created_at"`
}

// MessageService is a set of methods to manipulate and work with the Message model.
type MessageService interface {
	All() ([]Message, error)
	Create(message *Message) error
}
