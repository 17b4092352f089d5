package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Profile struct {
	UserID   string `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	FullName string `gorm:"column:full_name;type:text" json:"full_name"`
	Headline string `gorm:"column:headline;type:text" json:"headline,omitempty"`
	Email    string `gorm:"column:email;type:text" json:"email,omitempty"`
	Phone    string `gorm:"column:phone;type:text" json:"phone,omitempty"`
	Bio      string `gorm:"column:bio;type:text" json:"bio,omitempty"`

	Skills pq.StringArray `gorm:"column:skills;type:text[]" json:"skills,omitempty"`

	// Flexible JSONB blocks, shape owned by the frontend.
	Experience  datatypes.JSON `gorm:"column:experience;type:jsonb" json:"experience,omitempty"`
	Education   datatypes.JSON `gorm:"column:education;type:jsonb" json:"education,omitempty"`
	Preferences datatypes.JSON `gorm:"column:preferences;type:jsonb" json:"preferences,omitempty"`

	// Written by the ingestion pipeline alongside resume parsing; nil until
	// then, stored as NULL.
	Embedding *pgvector.Vector `gorm:"column:embedding;type:vector(768)" json:"-"`

	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
