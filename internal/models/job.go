package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

type JobStatus string

const (
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
)

type Company struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OwnerID     string    `gorm:"column:owner_id;type:uuid;index" json:"owner_id"`
	Name        string    `gorm:"column:name;type:text" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Website     string    `gorm:"column:website;type:text" json:"website,omitempty"`
	LogoPath    string    `gorm:"column:logo_path;type:text" json:"logo_path,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Company) TableName() string { return "companies" }

type Job struct {
	ID             string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CompanyID      string         `gorm:"column:company_id;type:uuid;index" json:"company_id"`
	EmployerID     string         `gorm:"column:employer_id;type:uuid;index" json:"employer_id"`
	Title          string         `gorm:"column:title;type:text" json:"title"`
	Description    string         `gorm:"column:description;type:text" json:"description"`
	Location       string         `gorm:"column:location;type:text" json:"location,omitempty"`
	EmploymentType string         `gorm:"column:employment_type;type:text" json:"employment_type,omitempty"` // full_time|part_time|contract|internship
	SalaryMin      int            `gorm:"column:salary_min" json:"salary_min,omitempty"`
	SalaryMax      int            `gorm:"column:salary_max" json:"salary_max,omitempty"`
	Skills         pq.StringArray `gorm:"column:skills;type:text[]" json:"skills,omitempty"`

	// Filled by the offline ingestion pipeline; nil until then, stored as
	// NULL. Used for recommendation ordering.
	Embedding *pgvector.Vector `gorm:"column:embedding;type:vector(768)" json:"-"`

	Status    JobStatus `gorm:"column:status;type:text;index" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Job) TableName() string { return "jobs" }

// JobSearchFilter narrows job browsing; zero values mean "no constraint".
type JobSearchFilter struct {
	Query    string
	Location string
	Skills   []string
	Limit    int
}
