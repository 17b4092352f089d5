package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hirebridge/hirebridge/internal/models"
	pgrepo "github.com/hirebridge/hirebridge/internal/repositories/postgres"
	"github.com/hirebridge/hirebridge/internal/utils"
)

// ApplicationService drives a job application (or a direct interview
// invitation) through its status states. Every operation that touches both
// an application row and an interview row does so in one transaction.
type ApplicationService interface {
	Apply(ctx context.Context, seekerID, jobID, coverNote string) (*models.JobApplication, error)
	ListMine(ctx context.Context, seekerID string) ([]models.JobApplication, error)
	ListForJob(ctx context.Context, employerID, jobID string) ([]models.JobApplication, error)
	Get(ctx context.Context, userID, applicationID string) (*models.JobApplication, error)

	AcceptDirectInterview(ctx context.Context, seekerID string, ref models.ApplicationRef) (*models.JobApplication, error)
	RejectDirectInterview(ctx context.Context, seekerID string, ref models.ApplicationRef, reason string) (*models.JobApplication, error)
	AcceptOffer(ctx context.Context, seekerID, applicationID string) error
	Reject(ctx context.Context, seekerID, applicationID, reason string) error
	RequestReschedule(ctx context.Context, seekerID, applicationID, interviewID, reason string) error
	RequestApplicationReschedule(ctx context.Context, seekerID, applicationID, reason string) error
	CancelRescheduleRequest(ctx context.Context, seekerID, applicationID, interviewID string) error

	InviteToInterview(ctx context.Context, employerID, seekerID, jobID string, at time.Time, format, location string) (*models.Interview, error)
	ScheduleInterview(ctx context.Context, employerID, applicationID string, at time.Time, format, location string) (*models.Interview, error)
	SetStatus(ctx context.Context, employerID, applicationID string, to models.ApplicationStatus) error
}

type applicationService struct {
	apps       pgrepo.ApplicationRepo
	interviews pgrepo.InterviewRepo
	jobs       pgrepo.JobRepo
	profiles   pgrepo.ProfileRepository
}

func NewApplicationService(apps pgrepo.ApplicationRepo, interviews pgrepo.InterviewRepo, jobs pgrepo.JobRepo, profiles pgrepo.ProfileRepository) ApplicationService {
	return &applicationService{apps: apps, interviews: interviews, jobs: jobs, profiles: profiles}
}

func (s *applicationService) Apply(ctx context.Context, seekerID, jobID, coverNote string) (*models.JobApplication, error) {
	const op = "ApplicationService.Apply"

	if seekerID == "" || jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "seeker_id and job_id are required", nil)
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if job.Status != models.JobOpen {
		return nil, utils.E(utils.CodeConflict, op, "job is not open for applications", nil)
	}

	if _, err := s.apps.GetBySeekerAndJob(ctx, seekerID, jobID); err == nil {
		return nil, utils.E(utils.CodeConflict, op, "already applied to this job", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to check existing application", err)
	}

	now := time.Now().UTC()
	app := &models.JobApplication{
		ID:        uuid.NewString(),
		SeekerID:  seekerID,
		JobID:     jobID,
		Status:    models.StatusApplied,
		CoverNote: coverNote,
		AppliedAt: now,
		UpdatedAt: now,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create application", err)
	}
	return app, nil
}

func (s *applicationService) ListMine(ctx context.Context, seekerID string) ([]models.JobApplication, error) {
	const op = "ApplicationService.ListMine"

	if seekerID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "seeker_id is required", nil)
	}
	rows, err := s.apps.ListBySeeker(ctx, seekerID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return rows, nil
}

func (s *applicationService) ListForJob(ctx context.Context, employerID, jobID string) ([]models.JobApplication, error) {
	const op = "ApplicationService.ListForJob"

	if employerID == "" || jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "employer_id and job_id are required", nil)
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if job.EmployerID != employerID {
		return nil, utils.E(utils.CodeForbidden, op, "job belongs to another employer", nil)
	}

	rows, err := s.apps.ListByJob(ctx, jobID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return rows, nil
}

func (s *applicationService) Get(ctx context.Context, userID, applicationID string) (*models.JobApplication, error) {
	const op = "ApplicationService.Get"

	app, err := s.loadApplication(ctx, op, applicationID)
	if err != nil {
		return nil, err
	}
	if app.SeekerID != userID {
		job, jerr := s.jobs.GetByID(ctx, app.JobID)
		if jerr != nil || job.EmployerID != userID {
			return nil, utils.E(utils.CodeForbidden, op, "not a party to this application", nil)
		}
	}
	return app, nil
}

// AcceptDirectInterview resolves a direct interview into a real application
// with status interviewing and marks the interview scheduled. For a ref
// that already points at an application row, only the statuses change.
func (s *applicationService) AcceptDirectInterview(ctx context.Context, seekerID string, ref models.ApplicationRef) (*models.JobApplication, error) {
	const op = "ApplicationService.AcceptDirectInterview"
	return s.resolveDirect(ctx, op, seekerID, ref, models.StatusInterviewing, models.InterviewScheduled, "", "")
}

func (s *applicationService) RejectDirectInterview(ctx context.Context, seekerID string, ref models.ApplicationRef, reason string) (*models.JobApplication, error) {
	const op = "ApplicationService.RejectDirectInterview"
	return s.resolveDirect(ctx, op, seekerID, ref, models.StatusDeclined, models.InterviewCancelled, reason, reason)
}

func (s *applicationService) resolveDirect(ctx context.Context, op, seekerID string, ref models.ApplicationRef, appStatus models.ApplicationStatus, ivStatus models.InterviewStatus, appNotes, ivNotes string) (*models.JobApplication, error) {
	if seekerID == "" || ref.ID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "seeker_id and reference id are required", nil)
	}

	if ref.IsDirectInterview() {
		iv, err := s.loadInterview(ctx, op, ref.ID)
		if err != nil {
			return nil, err
		}
		if iv.SeekerID != seekerID {
			return nil, utils.E(utils.CodeForbidden, op, "interview belongs to another candidate", nil)
		}
		app, err := s.apps.ResolveDirectInterview(ctx, iv.ID, appStatus, appNotes, ivStatus, ivNotes)
		if err != nil {
			if errors.Is(err, utils.ErrInvalidTransition) {
				return nil, utils.E(utils.CodeConflict, op, "invalid status transition", err)
			}
			return nil, utils.E(utils.CodeInternal, op, "failed to resolve direct interview", err)
		}
		return app, nil
	}

	app, err := s.loadOwnedApplication(ctx, op, seekerID, ref.ID)
	if err != nil {
		return nil, err
	}
	if app.InterviewID == nil {
		return nil, utils.E(utils.CodeConflict, op, "application has no linked interview", nil)
	}
	iv, err := s.loadInterview(ctx, op, *app.InterviewID)
	if err != nil {
		return nil, err
	}

	if app.Status != appStatus && !models.CanTransition(app.Status, appStatus) {
		return nil, utils.E(utils.CodeConflict, op, "invalid status transition", nil)
	}

	now := time.Now().UTC()
	app.Status = appStatus
	if appNotes != "" {
		app.EmployerNotes = appNotes
	}
	app.UpdatedAt = now
	iv.Status = ivStatus
	if ivNotes != "" {
		iv.Notes = ivNotes
	}
	iv.UpdatedAt = now

	if err := s.apps.UpdateWithInterview(ctx, app, iv); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update application and interview", err)
	}
	return app, nil
}

func (s *applicationService) AcceptOffer(ctx context.Context, seekerID, applicationID string) error {
	const op = "ApplicationService.AcceptOffer"
	return s.transition(ctx, op, seekerID, applicationID, models.StatusAccepted, "")
}

func (s *applicationService) Reject(ctx context.Context, seekerID, applicationID, reason string) error {
	const op = "ApplicationService.Reject"
	return s.transition(ctx, op, seekerID, applicationID, models.StatusDeclined, reason)
}

func (s *applicationService) transition(ctx context.Context, op, seekerID, applicationID string, to models.ApplicationStatus, reason string) error {
	app, err := s.loadOwnedApplication(ctx, op, seekerID, applicationID)
	if err != nil {
		return err
	}
	if !models.CanTransition(app.Status, to) {
		return utils.E(utils.CodeConflict, op, "invalid status transition", nil)
	}

	app.Status = to
	if reason != "" {
		app.EmployerNotes = appendNote(app.EmployerNotes, reason)
	}
	app.UpdatedAt = time.Now().UTC()

	if err := s.apps.Update(ctx, app); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update application", err)
	}
	return nil
}

func (s *applicationService) RequestReschedule(ctx context.Context, seekerID, applicationID, interviewID, reason string) error {
	const op = "ApplicationService.RequestReschedule"

	if strings.TrimSpace(reason) == "" {
		return utils.E(utils.CodeInvalidArgument, op, "a reason is required", nil)
	}

	app, err := s.loadOwnedApplication(ctx, op, seekerID, applicationID)
	if err != nil {
		return err
	}
	iv, err := s.loadInterview(ctx, op, interviewID)
	if err != nil {
		return err
	}
	if iv.SeekerID != seekerID {
		return utils.E(utils.CodeForbidden, op, "interview belongs to another candidate", nil)
	}
	if !models.CanTransition(app.Status, models.StatusRescheduleRequested) {
		return utils.E(utils.CodeConflict, op, "invalid status transition", nil)
	}

	now := time.Now().UTC()
	app.Status = models.StatusRescheduleRequested
	app.UpdatedAt = now
	iv.Status = models.InterviewRescheduled
	iv.Notes = appendNote(iv.Notes, reason)
	iv.UpdatedAt = now

	if err := s.apps.UpdateWithInterview(ctx, app, iv); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to request reschedule", err)
	}
	return nil
}

// RequestApplicationReschedule covers applications that have no interview
// record yet; the reason lands in the notes field.
func (s *applicationService) RequestApplicationReschedule(ctx context.Context, seekerID, applicationID, reason string) error {
	const op = "ApplicationService.RequestApplicationReschedule"

	if strings.TrimSpace(reason) == "" {
		return utils.E(utils.CodeInvalidArgument, op, "a reason is required", nil)
	}

	app, err := s.loadOwnedApplication(ctx, op, seekerID, applicationID)
	if err != nil {
		return err
	}
	if !models.CanTransition(app.Status, models.StatusRescheduleRequested) {
		return utils.E(utils.CodeConflict, op, "invalid status transition", nil)
	}

	app.Status = models.StatusRescheduleRequested
	app.EmployerNotes = appendNote(app.EmployerNotes, reason)
	app.UpdatedAt = time.Now().UTC()

	if err := s.apps.Update(ctx, app); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to request reschedule", err)
	}
	return nil
}

func (s *applicationService) CancelRescheduleRequest(ctx context.Context, seekerID, applicationID, interviewID string) error {
	const op = "ApplicationService.CancelRescheduleRequest"

	app, err := s.loadOwnedApplication(ctx, op, seekerID, applicationID)
	if err != nil {
		return err
	}
	iv, err := s.loadInterview(ctx, op, interviewID)
	if err != nil {
		return err
	}
	if iv.Status != models.InterviewRescheduled {
		return utils.E(utils.CodeConflict, op, "no pending reschedule request", nil)
	}

	now := time.Now().UTC()
	iv.Status = models.InterviewScheduled
	iv.UpdatedAt = now
	if app.Status == models.StatusRescheduleRequested {
		app.Status = models.StatusInterviewing
		app.UpdatedAt = now
	}

	if err := s.apps.UpdateWithInterview(ctx, app, iv); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to cancel reschedule request", err)
	}
	return nil
}

// InviteToInterview creates a direct interview: an interview row with no
// application yet. The application is synthesized when the candidate acts
// on the invitation.
func (s *applicationService) InviteToInterview(ctx context.Context, employerID, seekerID, jobID string, at time.Time, format, location string) (*models.Interview, error) {
	const op = "ApplicationService.InviteToInterview"

	if employerID == "" || seekerID == "" || jobID == "" || at.IsZero() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "employer_id, seeker_id, job_id, and time are required", nil)
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if job.EmployerID != employerID {
		return nil, utils.E(utils.CodeForbidden, op, "job belongs to another employer", nil)
	}
	if job.Status != models.JobOpen {
		return nil, utils.E(utils.CodeConflict, op, "job is not open", nil)
	}

	ok, err := s.profiles.Exists(ctx, seekerID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check candidate profile", err)
	}
	if !ok {
		return nil, utils.E(utils.CodeNotFound, op, "candidate profile not found", nil)
	}

	now := time.Now().UTC()
	iv := &models.Interview{
		ID:          uuid.NewString(),
		JobID:       jobID,
		SeekerID:    seekerID,
		Status:      models.InterviewScheduled,
		ScheduledAt: at.UTC(),
		Format:      format,
		Location:    location,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.interviews.Create(ctx, iv); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create interview", err)
	}
	return iv, nil
}

func (s *applicationService) ScheduleInterview(ctx context.Context, employerID, applicationID string, at time.Time, format, location string) (*models.Interview, error) {
	const op = "ApplicationService.ScheduleInterview"

	if employerID == "" || applicationID == "" || at.IsZero() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "employer_id, application_id, and time are required", nil)
	}

	app, err := s.loadApplication(ctx, op, applicationID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if job.EmployerID != employerID {
		return nil, utils.E(utils.CodeForbidden, op, "job belongs to another employer", nil)
	}
	if !models.CanTransition(app.Status, models.StatusInterviewing) {
		return nil, utils.E(utils.CodeConflict, op, "invalid status transition", nil)
	}

	now := time.Now().UTC()
	iv := &models.Interview{
		ID:            uuid.NewString(),
		JobID:         app.JobID,
		SeekerID:      app.SeekerID,
		ApplicationID: &app.ID,
		Status:        models.InterviewScheduled,
		ScheduledAt:   at.UTC(),
		Format:        format,
		Location:      location,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	app.Status = models.StatusInterviewing
	app.InterviewID = &iv.ID
	app.UpdatedAt = now

	if err := s.apps.ScheduleInterview(ctx, app, iv); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to schedule interview", err)
	}
	return iv, nil
}

func (s *applicationService) SetStatus(ctx context.Context, employerID, applicationID string, to models.ApplicationStatus) error {
	const op = "ApplicationService.SetStatus"

	app, err := s.loadApplication(ctx, op, applicationID)
	if err != nil {
		return err
	}
	job, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if job.EmployerID != employerID {
		return utils.E(utils.CodeForbidden, op, "job belongs to another employer", nil)
	}
	if !models.CanTransition(app.Status, to) {
		return utils.E(utils.CodeConflict, op, "invalid status transition", nil)
	}

	app.Status = to
	app.UpdatedAt = time.Now().UTC()
	if err := s.apps.Update(ctx, app); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update application", err)
	}
	return nil
}

func (s *applicationService) loadApplication(ctx context.Context, op, id string) (*models.JobApplication, error) {
	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "application_id is required", nil)
	}
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load application", err)
	}
	return app, nil
}

func (s *applicationService) loadOwnedApplication(ctx context.Context, op, seekerID, id string) (*models.JobApplication, error) {
	app, err := s.loadApplication(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if app.SeekerID != seekerID {
		return nil, utils.E(utils.CodeForbidden, op, "application belongs to another candidate", nil)
	}
	return app, nil
}

func (s *applicationService) loadInterview(ctx context.Context, op, id string) (*models.Interview, error) {
	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interview_id is required", nil)
	}
	iv, err := s.interviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load interview", err)
	}
	return iv, nil
}

func appendNote(existing, note string) string {
	note = strings.TrimSpace(note)
	if note == "" {
		return existing
	}
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}
