package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/brandon3sican/to-system/internal/model"
)

// DivSecUnitRepository division/section/unit data access
type DivSecUnitRepository interface {
	Create(ctx context.Context, unit *model.DivSecUnit) error
	GetByID(ctx context.Context, id string) (*model.DivSecUnit, error)
	GetByName(ctx context.Context, name string) (*model.DivSecUnit, error)
	List(ctx context.Context, offset, limit int) ([]model.DivSecUnit, int64, error)
	ListAll(ctx context.Context) ([]model.DivSecUnit, error)
	Update(ctx context.Context, unit *model.DivSecUnit) error
	Delete(ctx context.Context, id string) error
	CountPositions(ctx context.Context, unitID string) (int64, error)
	CountEmployees(ctx context.Context, unitID string) (int64, error)
}

type divSecUnitRepo struct {
	db *gorm.DB
}

// NewDivSecUnitRepo creates a DivSecUnitRepository
func NewDivSecUnitRepo(db *gorm.DB) DivSecUnitRepository {
	return &divSecUnitRepo{db: db}
}

func (r *divSecUnitRepo) Create(ctx context.Context, unit *model.DivSecUnit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *divSecUnitRepo) GetByID(ctx context.Context, id string) (*model.DivSecUnit, error) {
	if !isUUID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var unit model.DivSecUnit
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *divSecUnitRepo) GetByName(ctx context.Context, name string) (*model.DivSecUnit, error) {
	var unit model.DivSecUnit
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *divSecUnitRepo) List(ctx context.Context, offset, limit int) ([]model.DivSecUnit, int64, error) {
	var units []model.DivSecUnit
	var total int64
	db := r.db.WithContext(ctx).Model(&model.DivSecUnit{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(db, offset, limit).Order("name ASC").Find(&units).Error
	return units, total, err
}

func (r *divSecUnitRepo) ListAll(ctx context.Context) ([]model.DivSecUnit, error) {
	var units []model.DivSecUnit
	err := r.db.WithContext(ctx).Order("name ASC").Find(&units).Error
	return units, err
}

func (r *divSecUnitRepo) Update(ctx context.Context, unit *model.DivSecUnit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

func (r *divSecUnitRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.DivSecUnit{}).Error
}

func (r *divSecUnitRepo) CountPositions(ctx context.Context, unitID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Position{}).Where("div_sec_unit_id = ?", unitID).Count(&count).Error
	return count, err
}

func (r *divSecUnitRepo) CountEmployees(ctx context.Context, unitID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Employee{}).Where("div_sec_unit_id = ?", unitID).Count(&count).Error
	return count, err
}
