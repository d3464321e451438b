package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Chat is a conversation between a user and the assistant.
type Chat struct {
	ID        uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string                      `gorm:"not null;size:255;index" json:"user_id"`
	Title     string                      `gorm:"not null;size:255" json:"title"`
	Messages  datatypes.JSONSlice[Message] `json:"messages"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `gorm:"index" json:"updated_at"`
}

func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
