package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/repository"
)

var (
	ErrOfficialStationNotFound        = errors.New("Official station not found.")
	ErrOfficialStationHasTravelOrders = errors.New("Cannot delete official station with travel orders")
)

// OfficialStationService official station catalog
type OfficialStationService interface {
	List(ctx context.Context, req *dto.PaginationRequest) ([]model.OfficialStation, int64, error)
	ListAll(ctx context.Context) ([]model.OfficialStation, error)
	GetByID(ctx context.Context, id string) (*model.OfficialStation, error)
	Create(ctx context.Context, req *dto.OfficialStationRequest) (*model.OfficialStation, error)
	Update(ctx context.Context, id string, req *dto.OfficialStationRequest) (*model.OfficialStation, error)
	Delete(ctx context.Context, id string) error
}

type officialStationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOfficialStationService creates an OfficialStationService
func NewOfficialStationService(repo *repository.Repository, logger *zap.Logger) OfficialStationService {
	return &officialStationService{repo: repo, logger: logger}
}

func (s *officialStationService) List(ctx context.Context, req *dto.PaginationRequest) ([]model.OfficialStation, int64, error) {
	stations, total, err := s.repo.OfficialStation.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list official stations failed", zap.Error(err))
		return nil, 0, err
	}
	return stations, total, nil
}

func (s *officialStationService) ListAll(ctx context.Context) ([]model.OfficialStation, error) {
	return s.repo.OfficialStation.ListAll(ctx)
}

func (s *officialStationService) GetByID(ctx context.Context, id string) (*model.OfficialStation, error) {
	station, err := s.repo.OfficialStation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficialStationNotFound
		}
		s.logger.Error("get official station failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return station, nil
}

func (s *officialStationService) Create(ctx context.Context, req *dto.OfficialStationRequest) (*model.OfficialStation, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.Name, ""); err != nil {
		return nil, err
	}

	station := &model.OfficialStation{
		Name:        req.Name,
		Address:     strings.TrimSpace(req.Address),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.OfficialStation.Create(ctx, station); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newFieldError("name", ErrNameTaken)
		}
		s.logger.Error("create official station failed", zap.Error(err))
		return nil, err
	}
	return station, nil
}

func (s *officialStationService) Update(ctx context.Context, id string, req *dto.OfficialStationRequest) (*model.OfficialStation, error) {
	station, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.Name, station.ID); err != nil {
		return nil, err
	}

	station.Name = req.Name
	station.Address = strings.TrimSpace(req.Address)
	station.Description = strings.TrimSpace(req.Description)
	if err := s.repo.OfficialStation.Update(ctx, station); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newFieldError("name", ErrNameTaken)
		}
		s.logger.Error("update official station failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return station, nil
}

func (s *officialStationService) Delete(ctx context.Context, id string) error {
	station, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.repo.OfficialStation.CountTravelOrders(ctx, station.ID)
	if err != nil {
		s.logger.Error("count station travel orders failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrOfficialStationHasTravelOrders
	}
	if err := s.repo.OfficialStation.Delete(ctx, station.ID); err != nil {
		s.logger.Error("delete official station failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *officialStationService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.OfficialStation.GetByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return newFieldError("name", ErrNameTaken)
	}
	return nil
}
