package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/brandon3sican/to-system/internal/model"
)

// EmploymentStatusRepository employment status data access
type EmploymentStatusRepository interface {
	Create(ctx context.Context, status *model.EmploymentStatus) error
	GetByID(ctx context.Context, id string) (*model.EmploymentStatus, error)
	GetByName(ctx context.Context, name string) (*model.EmploymentStatus, error)
	List(ctx context.Context, offset, limit int) ([]model.EmploymentStatus, int64, error)
	ListAll(ctx context.Context) ([]model.EmploymentStatus, error)
	Update(ctx context.Context, status *model.EmploymentStatus) error
	Delete(ctx context.Context, id string) error
	CountEmployees(ctx context.Context, statusID string) (int64, error)
}

type employmentStatusRepo struct {
	db *gorm.DB
}

// NewEmploymentStatusRepo creates an EmploymentStatusRepository
func NewEmploymentStatusRepo(db *gorm.DB) EmploymentStatusRepository {
	return &employmentStatusRepo{db: db}
}

func (r *employmentStatusRepo) Create(ctx context.Context, status *model.EmploymentStatus) error {
	return r.db.WithContext(ctx).Create(status).Error
}

func (r *employmentStatusRepo) GetByID(ctx context.Context, id string) (*model.EmploymentStatus, error) {
	if !isUUID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var status model.EmploymentStatus
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *employmentStatusRepo) GetByName(ctx context.Context, name string) (*model.EmploymentStatus, error) {
	var status model.EmploymentStatus
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *employmentStatusRepo) List(ctx context.Context, offset, limit int) ([]model.EmploymentStatus, int64, error) {
	var statuses []model.EmploymentStatus
	var total int64
	db := r.db.WithContext(ctx).Model(&model.EmploymentStatus{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(db, offset, limit).Order("name ASC").Find(&statuses).Error
	return statuses, total, err
}

func (r *employmentStatusRepo) ListAll(ctx context.Context) ([]model.EmploymentStatus, error) {
	var statuses []model.EmploymentStatus
	err := r.db.WithContext(ctx).Order("name ASC").Find(&statuses).Error
	return statuses, err
}

func (r *employmentStatusRepo) Update(ctx context.Context, status *model.EmploymentStatus) error {
	return r.db.WithContext(ctx).Save(status).Error
}

func (r *employmentStatusRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.EmploymentStatus{}).Error
}

func (r *employmentStatusRepo) CountEmployees(ctx context.Context, statusID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Employee{}).Where("employment_status_id = ?", statusID).Count(&count).Error
	return count, err
}
