package models

import "time"

type ApplicationStatus string

const (
	StatusApplied             ApplicationStatus = "applied"
	StatusReviewing           ApplicationStatus = "reviewing"
	StatusRescheduleRequested ApplicationStatus = "reschedule_requested"
	StatusInterviewing        ApplicationStatus = "interviewing"
	StatusOffered             ApplicationStatus = "offered"
	StatusAccepted            ApplicationStatus = "accepted"
	StatusHired               ApplicationStatus = "hired"
	StatusDeclined            ApplicationStatus = "declined"
	StatusRejected            ApplicationStatus = "rejected"
)

type JobApplication struct {
	ID            string            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SeekerID      string            `gorm:"column:seeker_id;type:uuid;index" json:"seeker_id"`
	JobID         string            `gorm:"column:job_id;type:uuid;index" json:"job_id"`
	Status        ApplicationStatus `gorm:"column:status;type:text" json:"status"`
	CoverNote     string            `gorm:"column:cover_note;type:text" json:"cover_note,omitempty"`
	EmployerNotes string            `gorm:"column:employer_notes;type:text" json:"employer_notes,omitempty"`
	InterviewID   *string           `gorm:"column:interview_id;type:uuid;index" json:"interview_id,omitempty"`
	AppliedAt     time.Time         `gorm:"column:applied_at;type:timestamptz" json:"applied_at"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (JobApplication) TableName() string { return "job_applications" }

// applicationTransitions is the full status graph. Hired and rejected are
// terminal; declined re-opens only through a reschedule request.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusApplied:             {StatusReviewing, StatusInterviewing, StatusDeclined, StatusRejected},
	StatusReviewing:           {StatusInterviewing, StatusOffered, StatusRescheduleRequested, StatusDeclined, StatusRejected},
	StatusRescheduleRequested: {StatusReviewing, StatusInterviewing, StatusDeclined, StatusRejected},
	StatusInterviewing:        {StatusOffered, StatusRescheduleRequested, StatusDeclined, StatusRejected},
	StatusOffered:             {StatusAccepted, StatusDeclined, StatusRejected},
	StatusAccepted:            {StatusHired, StatusDeclined},
	StatusDeclined:            {StatusRescheduleRequested},
	StatusHired:               {},
	StatusRejected:            {},
}

func CanTransition(from, to ApplicationStatus) bool {
	for _, s := range applicationTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func IsTerminalStatus(s ApplicationStatus) bool {
	return len(applicationTransitions[s]) == 0
}

type RefKind string

const (
	RefApplication     RefKind = "application"
	RefDirectInterview RefKind = "direct_interview"
)

// ApplicationRef is the tagged variant resolved once at the API boundary:
// either a real application row or an employer-initiated direct interview
// that has no application row yet.
type ApplicationRef struct {
	Kind RefKind `json:"kind"`
	ID   string  `json:"id"`
}

func (r ApplicationRef) IsDirectInterview() bool { return r.Kind == RefDirectInterview }
