package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hirebridge/hirebridge/internal/models"
	pgrepo "github.com/hirebridge/hirebridge/internal/repositories/postgres"
	"github.com/hirebridge/hirebridge/internal/utils"
)

type JobInput struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Location       string   `json:"location"`
	EmploymentType string   `json:"employment_type"`
	SalaryMin      int      `json:"salary_min"`
	SalaryMax      int      `json:"salary_max"`
	Skills         []string `json:"skills"`
}

type JobService interface {
	CreateCompany(ctx context.Context, ownerID, name, description, website string) (*models.Company, error)
	MyCompany(ctx context.Context, ownerID string) (*models.Company, error)

	PostJob(ctx context.Context, employerID string, in JobInput) (*models.Job, error)
	CloseJob(ctx context.Context, employerID, jobID string) error
	MyJobs(ctx context.Context, employerID string) ([]models.Job, error)

	Get(ctx context.Context, jobID string) (*models.Job, error)
	Search(ctx context.Context, f models.JobSearchFilter) ([]models.Job, error)
	Recommend(ctx context.Context, userID string, limit int) ([]models.Job, error)
}

type jobService struct {
	jobs      pgrepo.JobRepo
	companies pgrepo.CompanyRepo
	profiles  pgrepo.ProfileRepository
}

func NewJobService(jobs pgrepo.JobRepo, companies pgrepo.CompanyRepo, profiles pgrepo.ProfileRepository) JobService {
	return &jobService{jobs: jobs, companies: companies, profiles: profiles}
}

func (s *jobService) CreateCompany(ctx context.Context, ownerID, name, description, website string) (*models.Company, error) {
	const op = "JobService.CreateCompany"

	if ownerID == "" || name == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner_id and name are required", nil)
	}
	if _, err := s.companies.GetByOwner(ctx, ownerID); err == nil {
		return nil, utils.E(utils.CodeConflict, op, "a company already exists for this account", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to check existing company", err)
	}

	now := time.Now().UTC()
	co := &models.Company{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Website:     website,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.companies.Create(ctx, co); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create company", err)
	}
	return co, nil
}

func (s *jobService) MyCompany(ctx context.Context, ownerID string) (*models.Company, error) {
	const op = "JobService.MyCompany"

	if ownerID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner_id is required", nil)
	}
	co, err := s.companies.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "company not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load company", err)
	}
	return co, nil
}

func (s *jobService) PostJob(ctx context.Context, employerID string, in JobInput) (*models.Job, error) {
	const op = "JobService.PostJob"

	if employerID == "" || in.Title == "" || in.Description == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "employer_id, title, and description are required", nil)
	}

	co, err := s.companies.GetByOwner(ctx, employerID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeConflict, op, "create a company before posting jobs", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load company", err)
	}

	now := time.Now().UTC()
	job := &models.Job{
		ID:             uuid.NewString(),
		CompanyID:      co.ID,
		EmployerID:     employerID,
		Title:          in.Title,
		Description:    in.Description,
		Location:       in.Location,
		EmploymentType: in.EmploymentType,
		SalaryMin:      in.SalaryMin,
		SalaryMax:      in.SalaryMax,
		Skills:         pq.StringArray(in.Skills),
		Status:         models.JobOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job", err)
	}
	return job, nil
}

func (s *jobService) CloseJob(ctx context.Context, employerID, jobID string) error {
	const op = "JobService.CloseJob"

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if job.EmployerID != employerID {
		return utils.E(utils.CodeForbidden, op, "job belongs to another employer", nil)
	}
	if job.Status == models.JobClosed {
		return nil
	}

	job.Status = models.JobClosed
	job.UpdatedAt = time.Now().UTC()
	if err := s.jobs.Update(ctx, job); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to close job", err)
	}
	return nil
}

func (s *jobService) MyJobs(ctx context.Context, employerID string) ([]models.Job, error) {
	const op = "JobService.MyJobs"

	if employerID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "employer_id is required", nil)
	}
	rows, err := s.jobs.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return rows, nil
}

func (s *jobService) Get(ctx context.Context, jobID string) (*models.Job, error) {
	const op = "JobService.Get"

	if jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	return job, nil
}

func (s *jobService) Search(ctx context.Context, f models.JobSearchFilter) ([]models.Job, error) {
	const op = "JobService.Search"

	rows, err := s.jobs.Search(ctx, f)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to search jobs", err)
	}
	return rows, nil
}

func (s *jobService) Recommend(ctx context.Context, userID string, limit int) ([]models.Job, error) {
	const op = "JobService.Recommend"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeConflict, op, "complete your profile to get recommendations", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load profile", err)
	}

	rows, err := s.jobs.Recommend(ctx, p, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to compute recommendations", err)
	}
	return rows, nil
}
