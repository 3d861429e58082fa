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
	ErrEmploymentStatusNotFound     = errors.New("Employment status not found.")
	ErrEmploymentStatusHasEmployees = errors.New("Cannot delete employment status with assigned employees")
)

// EmploymentStatusService employment status catalog
type EmploymentStatusService interface {
	List(ctx context.Context, req *dto.PaginationRequest) ([]model.EmploymentStatus, int64, error)
	ListAll(ctx context.Context) ([]model.EmploymentStatus, error)
	GetByID(ctx context.Context, id string) (*model.EmploymentStatus, error)
	Create(ctx context.Context, req *dto.EmploymentStatusRequest) (*model.EmploymentStatus, error)
	Update(ctx context.Context, id string, req *dto.EmploymentStatusRequest) (*model.EmploymentStatus, error)
	Delete(ctx context.Context, id string) error
}

type employmentStatusService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmploymentStatusService creates an EmploymentStatusService
func NewEmploymentStatusService(repo *repository.Repository, logger *zap.Logger) EmploymentStatusService {
	return &employmentStatusService{repo: repo, logger: logger}
}

func (s *employmentStatusService) List(ctx context.Context, req *dto.PaginationRequest) ([]model.EmploymentStatus, int64, error) {
	statuses, total, err := s.repo.EmploymentStatus.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list employment statuses failed", zap.Error(err))
		return nil, 0, err
	}
	return statuses, total, nil
}

func (s *employmentStatusService) ListAll(ctx context.Context) ([]model.EmploymentStatus, error) {
	return s.repo.EmploymentStatus.ListAll(ctx)
}

func (s *employmentStatusService) GetByID(ctx context.Context, id string) (*model.EmploymentStatus, error) {
	status, err := s.repo.EmploymentStatus.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmploymentStatusNotFound
		}
		s.logger.Error("get employment status failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return status, nil
}

func (s *employmentStatusService) Create(ctx context.Context, req *dto.EmploymentStatusRequest) (*model.EmploymentStatus, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.Name, ""); err != nil {
		return nil, err
	}

	status := &model.EmploymentStatus{Name: req.Name, Description: strings.TrimSpace(req.Description)}
	if err := s.repo.EmploymentStatus.Create(ctx, status); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newFieldError("name", ErrNameTaken)
		}
		s.logger.Error("create employment status failed", zap.Error(err))
		return nil, err
	}
	return status, nil
}

func (s *employmentStatusService) Update(ctx context.Context, id string, req *dto.EmploymentStatusRequest) (*model.EmploymentStatus, error) {
	status, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.Name, status.ID); err != nil {
		return nil, err
	}

	status.Name = req.Name
	status.Description = strings.TrimSpace(req.Description)
	if err := s.repo.EmploymentStatus.Update(ctx, status); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newFieldError("name", ErrNameTaken)
		}
		s.logger.Error("update employment status failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return status, nil
}

func (s *employmentStatusService) Delete(ctx context.Context, id string) error {
	status, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.repo.EmploymentStatus.CountEmployees(ctx, status.ID)
	if err != nil {
		s.logger.Error("count status employees failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrEmploymentStatusHasEmployees
	}
	if err := s.repo.EmploymentStatus.Delete(ctx, status.ID); err != nil {
		s.logger.Error("delete employment status failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *employmentStatusService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.EmploymentStatus.GetByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return newFieldError("name", ErrNameTaken)
	}
	return nil
}
