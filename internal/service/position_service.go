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
	ErrPositionNotFound     = errors.New("Position not found.")
	ErrPositionHasEmployees = errors.New("Cannot delete position with assigned employees")
)

// PositionService position catalog. Every position belongs to a DivSecUnit.
type PositionService interface {
	List(ctx context.Context, req *dto.PaginationRequest) ([]model.Position, int64, error)
	ListAll(ctx context.Context) ([]model.Position, error)
	GetByID(ctx context.Context, id string) (*model.Position, error)
	Create(ctx context.Context, req *dto.PositionRequest) (*model.Position, error)
	Update(ctx context.Context, id string, req *dto.PositionRequest) (*model.Position, error)
	Delete(ctx context.Context, id string) error
}

type positionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPositionService creates a PositionService
func NewPositionService(repo *repository.Repository, logger *zap.Logger) PositionService {
	return &positionService{repo: repo, logger: logger}
}

func (s *positionService) List(ctx context.Context, req *dto.PaginationRequest) ([]model.Position, int64, error) {
	positions, total, err := s.repo.Position.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list positions failed", zap.Error(err))
		return nil, 0, err
	}
	return positions, total, nil
}

func (s *positionService) ListAll(ctx context.Context) ([]model.Position, error) {
	return s.repo.Position.ListAll(ctx)
}

func (s *positionService) GetByID(ctx context.Context, id string) (*model.Position, error) {
	position, err := s.repo.Position.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPositionNotFound
		}
		s.logger.Error("get position failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return position, nil
}

func (s *positionService) Create(ctx context.Context, req *dto.PositionRequest) (*model.Position, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, req, ""); err != nil {
		return nil, err
	}

	position := &model.Position{Name: req.Name, DivSecUnitID: req.DivSecUnitID}
	if err := s.repo.Position.Create(ctx, position); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newFieldError("name", ErrNameTaken)
		}
		s.logger.Error("create position failed", zap.Error(err))
		return nil, err
	}
	return position, nil
}

func (s *positionService) Update(ctx context.Context, id string, req *dto.PositionRequest) (*model.Position, error) {
	position, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, req, position.ID); err != nil {
		return nil, err
	}

	position.Name = req.Name
	position.DivSecUnitID = req.DivSecUnitID
	position.DivSecUnit = nil
	if err := s.repo.Position.Update(ctx, position); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newFieldError("name", ErrNameTaken)
		}
		s.logger.Error("update position failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return position, nil
}

func (s *positionService) Delete(ctx context.Context, id string) error {
	position, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.repo.Position.CountEmployees(ctx, position.ID)
	if err != nil {
		s.logger.Error("count position employees failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrPositionHasEmployees
	}
	if err := s.repo.Position.Delete(ctx, position.ID); err != nil {
		s.logger.Error("delete position failed", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("position deleted", zap.String("id", id), zap.String("name", position.Name))
	return nil
}

// checkRefs name uniqueness (excluding selfID) and parent unit existence
func (s *positionService) checkRefs(ctx context.Context, req *dto.PositionRequest, selfID string) error {
	existing, err := s.repo.Position.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return newFieldError("name", ErrNameTaken)
	}

	if _, err := s.repo.DivSecUnit.GetByID(ctx, req.DivSecUnitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newFieldError("div_sec_unit_id", ErrInvalidReference)
		}
		return err
	}
	return nil
}
