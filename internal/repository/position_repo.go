package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/brandon3sican/to-system/internal/model"
)

// PositionRepository position data access
type PositionRepository interface {
	Create(ctx context.Context, position *model.Position) error
	GetByID(ctx context.Context, id string) (*model.Position, error)
	GetByName(ctx context.Context, name string) (*model.Position, error)
	List(ctx context.Context, offset, limit int) ([]model.Position, int64, error)
	ListAll(ctx context.Context) ([]model.Position, error)
	Update(ctx context.Context, position *model.Position) error
	Delete(ctx context.Context, id string) error
	CountEmployees(ctx context.Context, positionID string) (int64, error)
}

type positionRepo struct {
	db *gorm.DB
}

// NewPositionRepo creates a PositionRepository
func NewPositionRepo(db *gorm.DB) PositionRepository {
	return &positionRepo{db: db}
}

func (r *positionRepo) Create(ctx context.Context, position *model.Position) error {
	return r.db.WithContext(ctx).Omit("DivSecUnit").Create(position).Error
}

func (r *positionRepo) GetByID(ctx context.Context, id string) (*model.Position, error) {
	if !isUUID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var position model.Position
	err := r.db.WithContext(ctx).
		Preload("DivSecUnit").
		Where("id = ?", id).
		First(&position).Error
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *positionRepo) GetByName(ctx context.Context, name string) (*model.Position, error) {
	var position model.Position
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&position).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *positionRepo) List(ctx context.Context, offset, limit int) ([]model.Position, int64, error) {
	var positions []model.Position
	var total int64
	db := r.db.WithContext(ctx).Model(&model.Position{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(db.Preload("DivSecUnit"), offset, limit).Order("name ASC").Find(&positions).Error
	return positions, total, err
}

func (r *positionRepo) ListAll(ctx context.Context) ([]model.Position, error) {
	var positions []model.Position
	err := r.db.WithContext(ctx).Preload("DivSecUnit").Order("name ASC").Find(&positions).Error
	return positions, err
}

func (r *positionRepo) Update(ctx context.Context, position *model.Position) error {
	return r.db.WithContext(ctx).Omit("DivSecUnit").Save(position).Error
}

func (r *positionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Position{}).Error
}

func (r *positionRepo) CountEmployees(ctx context.Context, positionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Employee{}).Where("position_id = ?", positionID).Count(&count).Error
	return count, err
}
