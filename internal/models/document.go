package models

import "time"

type DocumentType string

const (
	DocumentResume      DocumentType = "resume"
	DocumentIdentity    DocumentType = "identity"
	DocumentCertificate DocumentType = "certificate"
)

type Document struct {
	ID                string       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OwnerID           string       `gorm:"column:owner_id;type:uuid;index" json:"owner_id"`
	Type              DocumentType `gorm:"column:type;type:text" json:"type"`
	FileName          string       `gorm:"column:file_name;type:text" json:"file_name"`
	ObjectPath        string       `gorm:"column:object_path;type:text" json:"object_path"`
	FileSize          int64        `gorm:"column:file_size;type:bigint" json:"file_size"`
	MimeType          string       `gorm:"column:mime_type;type:text" json:"mime_type"`
	Verified          bool         `gorm:"column:verified" json:"verified"`
	VerificationNotes string       `gorm:"column:verification_notes;type:text" json:"verification_notes,omitempty"`
	UploadedAt        time.Time    `gorm:"column:uploaded_at;type:timestamptz" json:"uploaded_at"`
	VerifiedAt        *time.Time   `gorm:"column:verified_at;type:timestamptz" json:"verified_at,omitempty"`
}

func (Document) TableName() string { return "documents" }

// DocumentWithOwner is the admin list shape: document joined with the
// owner's profile display fields.
type DocumentWithOwner struct {
	Document
	OwnerName  *string `json:"owner_name,omitempty"`
	OwnerEmail *string `json:"owner_email,omitempty"`
}
