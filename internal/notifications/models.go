package notifications

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies a portal notification for visual treatment.
type Type string

const (
	TypeUrgent  Type = "urgent"
	TypeWarning Type = "warning"
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeInfo    Type = "info"
)

// Notification is one entry in the reviewer's notification feed.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
}

// New builds a notification with a fresh id and timestamp.
func New(t Type, title, body string) Notification {
	return Notification{
		ID:        uuid.New(),
		Type:      t,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
	}
}
