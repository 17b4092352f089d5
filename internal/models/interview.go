package models

import "time"

type InterviewStatus string

const (
	InterviewScheduled   InterviewStatus = "scheduled"
	InterviewRescheduled InterviewStatus = "rescheduled"
	InterviewCancelled   InterviewStatus = "cancelled"
)

// Interview may exist with no application row (a direct interview); the
// application is synthesized when the candidate first acts on it.
type Interview struct {
	ID            string          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	JobID         string          `gorm:"column:job_id;type:uuid;index" json:"job_id"`
	SeekerID      string          `gorm:"column:seeker_id;type:uuid;index" json:"seeker_id"`
	ApplicationID *string         `gorm:"column:application_id;type:uuid;index" json:"application_id,omitempty"`
	Status        InterviewStatus `gorm:"column:status;type:text" json:"status"`
	Notes         string          `gorm:"column:notes;type:text" json:"notes,omitempty"`
	ScheduledAt   time.Time       `gorm:"column:scheduled_at;type:timestamptz" json:"scheduled_at"`
	Format        string          `gorm:"column:format;type:text" json:"format,omitempty"` // onsite|video|phone
	Location      string          `gorm:"column:location;type:text" json:"location,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Interview) TableName() string { return "interviews" }
