package models

import (
	"time"

	"gorm.io/datatypes"
)

type MessageKind string

const (
	MessageKindText MessageKind = "text"
)

// Message is one element of a conversation's messages collection.
// Messages live as a single ordered JSONB array on the conversation row;
// they are never addressed as independent rows.
type Message struct {
	ID             string      `json:"id"`
	SenderID       string      `json:"sender_id"`
	Content        string      `json:"content"`
	Kind           MessageKind `json:"kind"`
	AttachmentURLs []string    `json:"attachment_urls,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	ReadAt         *time.Time  `json:"read_at,omitempty"` // once set, never cleared
}

type Conversation struct {
	ID            string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title         string         `gorm:"column:title;type:text" json:"title"`
	ApplicationID *string        `gorm:"column:application_id;type:uuid;index" json:"application_id,omitempty"`
	Messages      datatypes.JSON `gorm:"column:messages;type:jsonb" json:"messages"`
	CreatedAt     time.Time      `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
	LastMessageAt *time.Time     `gorm:"column:last_message_at;type:timestamptz;index" json:"last_message_at,omitempty"`
}

func (Conversation) TableName() string { return "conversations" }

type ParticipantRole string

const (
	ParticipantApplicant ParticipantRole = "applicant"
	ParticipantEmployer  ParticipantRole = "employer"
)

// ConversationParticipant membership is fixed at conversation creation.
type ConversationParticipant struct {
	ConversationID string          `gorm:"column:conversation_id;type:uuid;primaryKey" json:"conversation_id"`
	UserID         string          `gorm:"column:user_id;type:uuid;primaryKey;index" json:"user_id"`
	Role           ParticipantRole `gorm:"column:role;type:text" json:"role"`
	CreatedAt      time.Time       `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (ConversationParticipant) TableName() string { return "conversation_participants" }

// ConversationSummary is the list-view shape: the conversation row joined
// with application, job, company, and counterpart display fields.
type ConversationSummary struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	ApplicationID     *string    `json:"application_id,omitempty"`
	ApplicationStatus *string    `json:"application_status,omitempty"`
	JobTitle          *string    `json:"job_title,omitempty"`
	CompanyName       *string    `json:"company_name,omitempty"`
	CounterpartID     string     `json:"counterpart_id"`
	CounterpartName   *string    `json:"counterpart_name,omitempty"`
	LastMessageAt     *time.Time `json:"last_message_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
