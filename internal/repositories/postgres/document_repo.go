package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/internal/utils"
	"gorm.io/gorm"
)

type DocumentRepo interface {
	Insert(ctx context.Context, d *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Document, error)
	ListAllWithOwner(ctx context.Context) ([]models.DocumentWithOwner, error)
	SetVerification(ctx context.Context, id string, verified bool, notes string, at time.Time) error
}

type documentRepo struct {
	db *gorm.DB
}

func NewDocumentRepo(db *gorm.DB) DocumentRepo {
	return &documentRepo{db: db}
}

func (r *documentRepo) Insert(ctx context.Context, d *models.Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *documentRepo) GetByID(ctx context.Context, id string) (*models.Document, error) {
	var row models.Document
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *documentRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Document, error) {
	var rows []models.Document
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("uploaded_at DESC").
		Find(&rows).Error
	return rows, err
}

const listAllWithOwnerSQL = `
SELECT d.*, pr.full_name AS owner_name, pr.email AS owner_email
FROM documents d
LEFT JOIN profiles pr ON pr.user_id = d.owner_id
ORDER BY d.uploaded_at DESC`

func (r *documentRepo) ListAllWithOwner(ctx context.Context) ([]models.DocumentWithOwner, error) {
	var rows []models.DocumentWithOwner
	err := r.db.WithContext(ctx).Raw(listAllWithOwnerSQL).Scan(&rows).Error
	return rows, err
}

func (r *documentRepo) SetVerification(ctx context.Context, id string, verified bool, notes string, at time.Time) error {
	updates := map[string]any{
		"verified":           verified,
		"verification_notes": notes,
	}
	if verified {
		updates["verified_at"] = at
	} else {
		updates["verified_at"] = nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
