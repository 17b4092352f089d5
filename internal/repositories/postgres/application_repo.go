package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/internal/utils"
	"gorm.io/gorm"
)

type ApplicationRepo interface {
	Create(ctx context.Context, app *models.JobApplication) error
	GetByID(ctx context.Context, id string) (*models.JobApplication, error)
	GetBySeekerAndJob(ctx context.Context, seekerID, jobID string) (*models.JobApplication, error)
	ListBySeeker(ctx context.Context, seekerID string) ([]models.JobApplication, error)
	ListByJob(ctx context.Context, jobID string) ([]models.JobApplication, error)
	Update(ctx context.Context, app *models.JobApplication) error

	// ResolveDirectInterview runs the synthesize-or-reuse step for a direct
	// interview plus the interview status write in one transaction.
	ResolveDirectInterview(ctx context.Context, interviewID string, appStatus models.ApplicationStatus, appNotes string, ivStatus models.InterviewStatus, ivNotes string) (*models.JobApplication, error)

	// UpdateWithInterview applies an application write and an interview
	// write atomically.
	UpdateWithInterview(ctx context.Context, app *models.JobApplication, iv *models.Interview) error

	// ScheduleInterview creates the interview row and links it to the
	// application in one transaction.
	ScheduleInterview(ctx context.Context, app *models.JobApplication, iv *models.Interview) error
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepo {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *models.JobApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*models.JobApplication, error) {
	var row models.JobApplication
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *applicationRepo) GetBySeekerAndJob(ctx context.Context, seekerID, jobID string) (*models.JobApplication, error) {
	var row models.JobApplication
	err := r.db.WithContext(ctx).
		Where("seeker_id = ? AND job_id = ?", seekerID, jobID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *applicationRepo) ListBySeeker(ctx context.Context, seekerID string) ([]models.JobApplication, error) {
	var rows []models.JobApplication
	err := r.db.WithContext(ctx).
		Where("seeker_id = ?", seekerID).
		Order("applied_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID string) ([]models.JobApplication, error) {
	var rows []models.JobApplication
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("applied_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *applicationRepo) Update(ctx context.Context, app *models.JobApplication) error {
	res := r.db.WithContext(ctx).Save(app)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) ResolveDirectInterview(ctx context.Context, interviewID string, appStatus models.ApplicationStatus, appNotes string, ivStatus models.InterviewStatus, ivNotes string) (*models.JobApplication, error) {
	var out *models.JobApplication
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var iv models.Interview
		if err := tx.Where("id = ?", interviewID).Take(&iv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrNotFound
			}
			return err
		}

		now := time.Now().UTC()

		var app models.JobApplication
		err := tx.Where("seeker_id = ? AND job_id = ?", iv.SeekerID, iv.JobID).Take(&app).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			app = models.JobApplication{
				ID:            uuid.NewString(),
				SeekerID:      iv.SeekerID,
				JobID:         iv.JobID,
				Status:        appStatus,
				EmployerNotes: appNotes,
				InterviewID:   &iv.ID,
				AppliedAt:     now,
				UpdatedAt:     now,
			}
			if err := tx.Create(&app).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			// An existing row still obeys the status graph; a terminal
			// application cannot be resurrected by acting on an invitation.
			if app.Status != appStatus && !models.CanTransition(app.Status, appStatus) {
				return utils.ErrInvalidTransition
			}
			app.Status = appStatus
			app.InterviewID = &iv.ID
			if appNotes != "" {
				app.EmployerNotes = appNotes
			}
			app.UpdatedAt = now
			if err := tx.Save(&app).Error; err != nil {
				return err
			}
		}

		iv.Status = ivStatus
		iv.ApplicationID = &app.ID
		if ivNotes != "" {
			iv.Notes = ivNotes
		}
		iv.UpdatedAt = now
		if err := tx.Save(&iv).Error; err != nil {
			return err
		}

		out = &app
		return nil
	})
	return out, err
}

func (r *applicationRepo) UpdateWithInterview(ctx context.Context, app *models.JobApplication, iv *models.Interview) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(app).Error; err != nil {
			return err
		}
		return tx.Save(iv).Error
	})
}

func (r *applicationRepo) ScheduleInterview(ctx context.Context, app *models.JobApplication, iv *models.Interview) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(iv).Error; err != nil {
			return err
		}
		return tx.Save(app).Error
	})
}
