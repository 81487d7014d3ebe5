package models

import (
	"time"
)

// Chat message types
const (
	MessageTypeUser = "USER"
	MessageTypeBot  = "BOT"
)

// Conversation groups chatbot messages for one taxpayer session.
type Conversation struct {
	ID             uint      `gorm:"primarykey" json:"-"`
	ConversationID string    `gorm:"not null;uniqueIndex" json:"conversation_id"`
	UserID         string    `gorm:"index" json:"user_id,omitempty"`
	SessionID      string    `json:"session_id,omitempty"`
	InitialQuery   string    `json:"initial_query"`
	Context        JSON      `gorm:"type:jsonb" json:"context,omitempty"`
	Language       string    `gorm:"default:'en'" json:"language"`
	TotalMessages  int       `json:"total_messages"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"-"`
}

// ChatMessage is a single message within a conversation.
type ChatMessage struct {
	ID               uint       `gorm:"primarykey" json:"-"`
	ConversationID   string     `gorm:"not null;index" json:"conversation_id"`
	MessageType      string     `gorm:"not null" json:"message_type"`
	Content          string     `gorm:"not null" json:"content"`
	Topic            string     `json:"topic,omitempty"`
	Confidence       float64    `json:"confidence,omitempty"`
	Suggestions      StringList `gorm:"type:jsonb" json:"suggestions,omitempty"`
	ProcessingTimeMs int        `json:"processing_time_ms"`
	CreatedAt        time.Time  `json:"created_at"`
}
