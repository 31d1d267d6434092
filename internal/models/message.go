package models

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who authored a Turn
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// String returns the display label of the sender
func (s Sender) String() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAssistant:
		return "Assistant"
	default:
		return string(s)
	}
}

// Valid reports whether s is one of the known senders
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAssistant
}

// Turn is one message unit in a transcript. Turns are immutable once appended.
type Turn struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTurn creates a Turn with a fresh ID stamped at now
func NewTurn(sender Sender, text string) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// IsUser reports whether the turn was authored by the user
func (t Turn) IsUser() bool {
	return t.Sender == SenderUser
}
