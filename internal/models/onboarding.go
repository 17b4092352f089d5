package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OnboardingStatus string

const (
	OnboardingActive    OnboardingStatus = "active"
	OnboardingCompleted OnboardingStatus = "completed"
	OnboardingAbandoned OnboardingStatus = "abandoned"
)

type OnboardingTurn struct {
	Role    string    `bson:"role" json:"role"` // "user" | "assistant"
	Content string    `bson:"content" json:"content"`
	At      time.Time `bson:"at" json:"at"`
}

// OnboardingSession is the employer onboarding chat, stored in Mongo:
// append-heavy history with no fixed schema for the extracted block.
type OnboardingSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"` // uuid v4
	UserID    string             `bson:"user_id" json:"user_id"`

	Status OnboardingStatus `bson:"status" json:"status"`
	Turns  []OnboardingTurn `bson:"turns" json:"turns"`

	// CompanyBlock is the structured JSON fragment extracted from the
	// assistant's final answer, used to prefill the company form.
	CompanyBlock string `bson:"company_block,omitempty" json:"company_block,omitempty"`

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}
