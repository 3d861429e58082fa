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
	ErrDivSecUnitNotFound     = errors.New("Division/section/unit not found.")
	ErrDivSecUnitHasPositions = errors.New("Cannot delete division/section/unit with assigned positions")
	ErrDivSecUnitHasEmployees = errors.New("Cannot delete division/section/unit with assigned employees")
)

// DivSecUnitService division/section/unit catalog
type DivSecUnitService interface {
	List(ctx context.Context, req *dto.PaginationRequest) ([]model.DivSecUnit, int64, error)
	ListAll(ctx context.Context) ([]model.DivSecUnit, error)
	GetByID(ctx context.Context, id string) (*model.DivSecUnit, error)
	Create(ctx context.Context, req *dto.DivSecUnitRequest) (*model.DivSecUnit, error)
	Update(ctx context.Context, id string, req *dto.DivSecUnitRequest) (*model.DivSecUnit, error)
	Delete(ctx context.Context, id string) error
}

type divSecUnitService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDivSecUnitService creates a DivSecUnitService
func NewDivSecUnitService(repo *repository.Repository, logger *zap.Logger) DivSecUnitService {
	return &divSecUnitService{repo: repo, logger: logger}
}

func (s *divSecUnitService) List(ctx context.Context, req *dto.PaginationRequest) ([]model.DivSecUnit, int64, error) {
	units, total, err := s.repo.DivSecUnit.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list div/sec/units failed", zap.Error(err))
		return nil, 0, err
	}
	return units, total, nil
}

func (s *divSecUnitService) ListAll(ctx context.Context) ([]model.DivSecUnit, error) {
	return s.repo.DivSecUnit.ListAll(ctx)
}

func (s *divSecUnitService) GetByID(ctx context.Context, id string) (*model.DivSecUnit, error) {
	unit, err := s.repo.DivSecUnit.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDivSecUnitNotFound
		}
		s.logger.Error("get div/sec/unit failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return unit, nil
}

func (s *divSecUnitService) Create(ctx context.Context, req *dto.DivSecUnitRequest) (*model.DivSecUnit, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.Name, ""); err != nil {
		return nil, err
	}

	unit := &model.DivSecUnit{Name: req.Name, Description: strings.TrimSpace(req.Description)}
	if err := s.repo.DivSecUnit.Create(ctx, unit); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newFieldError("name", ErrNameTaken)
		}
		s.logger.Error("create div/sec/unit failed", zap.Error(err))
		return nil, err
	}
	return unit, nil
}

func (s *divSecUnitService) Update(ctx context.Context, id string, req *dto.DivSecUnitRequest) (*model.DivSecUnit, error) {
	unit, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.Name, unit.ID); err != nil {
		return nil, err
	}

	unit.Name = req.Name
	unit.Description = strings.TrimSpace(req.Description)
	if err := s.repo.DivSecUnit.Update(ctx, unit); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newFieldError("name", ErrNameTaken)
		}
		s.logger.Error("update div/sec/unit failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return unit, nil
}

// Delete refuses while positions or employees still reference the unit
func (s *divSecUnitService) Delete(ctx context.Context, id string) error {
	unit, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	positions, err := s.repo.DivSecUnit.CountPositions(ctx, unit.ID)
	if err != nil {
		s.logger.Error("count unit positions failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if positions > 0 {
		return ErrDivSecUnitHasPositions
	}

	employees, err := s.repo.DivSecUnit.CountEmployees(ctx, unit.ID)
	if err != nil {
		s.logger.Error("count unit employees failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if employees > 0 {
		return ErrDivSecUnitHasEmployees
	}

	if err := s.repo.DivSecUnit.Delete(ctx, unit.ID); err != nil {
		s.logger.Error("delete div/sec/unit failed", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("div/sec/unit deleted", zap.String("id", id), zap.String("name", unit.Name))
	return nil
}

func (s *divSecUnitService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.DivSecUnit.GetByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return newFieldError("name", ErrNameTaken)
	}
	return nil
}
