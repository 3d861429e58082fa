package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/brandon3sican/to-system/internal/model"
)

// OfficialStationRepository official station data access
type OfficialStationRepository interface {
	Create(ctx context.Context, station *model.OfficialStation) error
	GetByID(ctx context.Context, id string) (*model.OfficialStation, error)
	GetByName(ctx context.Context, name string) (*model.OfficialStation, error)
	List(ctx context.Context, offset, limit int) ([]model.OfficialStation, int64, error)
	ListAll(ctx context.Context) ([]model.OfficialStation, error)
	Update(ctx context.Context, station *model.OfficialStation) error
	Delete(ctx context.Context, id string) error
	CountTravelOrders(ctx context.Context, stationID string) (int64, error)
}

type officialStationRepo struct {
	db *gorm.DB
}

// NewOfficialStationRepo creates an OfficialStationRepository
func NewOfficialStationRepo(db *gorm.DB) OfficialStationRepository {
	return &officialStationRepo{db: db}
}

func (r *officialStationRepo) Create(ctx context.Context, station *model.OfficialStation) error {
	return r.db.WithContext(ctx).Create(station).Error
}

func (r *officialStationRepo) GetByID(ctx context.Context, id string) (*model.OfficialStation, error) {
	if !isUUID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var station model.OfficialStation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&station).Error; err != nil {
		return nil, err
	}
	return &station, nil
}

func (r *officialStationRepo) GetByName(ctx context.Context, name string) (*model.OfficialStation, error) {
	var station model.OfficialStation
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&station).Error; err != nil {
		return nil, err
	}
	return &station, nil
}

func (r *officialStationRepo) List(ctx context.Context, offset, limit int) ([]model.OfficialStation, int64, error) {
	var stations []model.OfficialStation
	var total int64
	db := r.db.WithContext(ctx).Model(&model.OfficialStation{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(db, offset, limit).Order("name ASC").Find(&stations).Error
	return stations, total, err
}

func (r *officialStationRepo) ListAll(ctx context.Context) ([]model.OfficialStation, error) {
	var stations []model.OfficialStation
	err := r.db.WithContext(ctx).Order("name ASC").Find(&stations).Error
	return stations, err
}

func (r *officialStationRepo) Update(ctx context.Context, station *model.OfficialStation) error {
	return r.db.WithContext(ctx).Save(station).Error
}

func (r *officialStationRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.OfficialStation{}).Error
}

func (r *officialStationRepo) CountTravelOrders(ctx context.Context, stationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TravelOrder{}).Where("official_station_id = ?", stationID).Count(&count).Error
	return count, err
}
