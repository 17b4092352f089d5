package postgres

import (
	"context"
	"errors"

	"github.com/lib/pq"

	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/internal/utils"
	"gorm.io/gorm"
)

type JobRepo interface {
	Create(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	ListByEmployer(ctx context.Context, employerID string) ([]models.Job, error)
	Search(ctx context.Context, f models.JobSearchFilter) ([]models.Job, error)
	Recommend(ctx context.Context, p *models.Profile, limit int) ([]models.Job, error)
	Update(ctx context.Context, j *models.Job) error
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepo {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, j *models.Job) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	var row models.Job
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *jobRepo) ListByEmployer(ctx context.Context, employerID string) ([]models.Job, error) {
	var rows []models.Job
	err := r.db.WithContext(ctx).
		Where("employer_id = ?", employerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *jobRepo) Search(ctx context.Context, f models.JobSearchFilter) ([]models.Job, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	q := r.db.WithContext(ctx).
		Where("status = ?", models.JobOpen)

	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if f.Location != "" {
		q = q.Where("location ILIKE ?", "%"+f.Location+"%")
	}
	if len(f.Skills) > 0 {
		q = q.Where("skills && ?", pq.StringArray(f.Skills))
	}

	var rows []models.Job
	err := q.Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

const recommendByEmbeddingSQL = `
SELECT * FROM jobs
WHERE status = 'open' AND embedding IS NOT NULL
ORDER BY embedding <=> ?
LIMIT ?`

// Recommend orders open jobs by embedding distance to the profile when the
// ingestion pipeline has produced one, and falls back to skills overlap.
func (r *jobRepo) Recommend(ctx context.Context, p *models.Profile, limit int) ([]models.Job, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	var rows []models.Job
	if p.Embedding != nil && len(p.Embedding.Slice()) > 0 {
		err := r.db.WithContext(ctx).Raw(recommendByEmbeddingSQL, *p.Embedding, limit).Scan(&rows).Error
		return rows, err
	}

	q := r.db.WithContext(ctx).Where("status = ?", models.JobOpen)
	if len(p.Skills) > 0 {
		q = q.Where("skills && ?", p.Skills)
	}
	err := q.Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *jobRepo) Update(ctx context.Context, j *models.Job) error {
	res := r.db.WithContext(ctx).Save(j)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
