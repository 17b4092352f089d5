package postgres

import (
	"context"
	"errors"

	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/internal/utils"
	"gorm.io/gorm"
)

type CompanyRepo interface {
	Create(ctx context.Context, co *models.Company) error
	GetByID(ctx context.Context, id string) (*models.Company, error)
	GetByOwner(ctx context.Context, ownerID string) (*models.Company, error)
	Update(ctx context.Context, co *models.Company) error
}

type companyRepo struct {
	db *gorm.DB
}

func NewCompanyRepo(db *gorm.DB) CompanyRepo {
	return &companyRepo{db: db}
}

func (r *companyRepo) Create(ctx context.Context, co *models.Company) error {
	return r.db.WithContext(ctx).Create(co).Error
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*models.Company, error) {
	var row models.Company
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *companyRepo) GetByOwner(ctx context.Context, ownerID string) (*models.Company, error) {
	var row models.Company
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *companyRepo) Update(ctx context.Context, co *models.Company) error {
	res := r.db.WithContext(ctx).Save(co)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
