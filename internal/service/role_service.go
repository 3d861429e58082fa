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

// ── directory errors shared by every catalog ──

var (
	ErrNameTaken = errors.New("The name has already been taken.")
)

// ── role errors ──

var (
	ErrRoleNotFound = errors.New("Role not found.")
	ErrRoleHasUsers = errors.New("Cannot delete role with assigned users")
)

// RoleService role catalog
type RoleService interface {
	List(ctx context.Context, req *dto.PaginationRequest) ([]model.Role, int64, error)
	ListAll(ctx context.Context) ([]model.Role, error)
	GetByID(ctx context.Context, id string) (*model.Role, error)
	Create(ctx context.Context, req *dto.RoleRequest) (*model.Role, error)
	Update(ctx context.Context, id string, req *dto.RoleRequest) (*model.Role, error)
	Delete(ctx context.Context, id string) error
}

type roleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRoleService creates a RoleService
func NewRoleService(repo *repository.Repository, logger *zap.Logger) RoleService {
	return &roleService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *roleService) List(ctx context.Context, req *dto.PaginationRequest) ([]model.Role, int64, error) {
	roles, total, err := s.repo.Role.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list roles failed", zap.Error(err))
		return nil, 0, err
	}
	return roles, total, nil
}

func (s *roleService) ListAll(ctx context.Context) ([]model.Role, error) {
	return s.repo.Role.ListAll(ctx)
}

// ────────────────────── GetByID ──────────────────────

func (s *roleService) GetByID(ctx context.Context, id string) (*model.Role, error) {
	role, err := s.repo.Role.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		s.logger.Error("get role failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return role, nil
}

// ────────────────────── Create ──────────────────────

func (s *roleService) Create(ctx context.Context, req *dto.RoleRequest) (*model.Role, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.Name, ""); err != nil {
		return nil, err
	}

	role := &model.Role{Name: req.Name, Description: strings.TrimSpace(req.Description)}
	if err := s.repo.Role.Create(ctx, role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newFieldError("name", ErrNameTaken)
		}
		s.logger.Error("create role failed", zap.Error(err))
		return nil, err
	}
	s.logger.Info("role created", zap.String("id", role.ID), zap.String("name", role.Name))
	return role, nil
}

// ────────────────────── Update ──────────────────────

func (s *roleService) Update(ctx context.Context, id string, req *dto.RoleRequest) (*model.Role, error) {
	role, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.Name, role.ID); err != nil {
		return nil, err
	}

	role.Name = req.Name
	role.Description = strings.TrimSpace(req.Description)
	if err := s.repo.Role.Update(ctx, role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newFieldError("name", ErrNameTaken)
		}
		s.logger.Error("update role failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return role, nil
}

// ────────────────────── Delete ──────────────────────

func (s *roleService) Delete(ctx context.Context, id string) error {
	role, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.repo.Role.CountUsers(ctx, role.ID)
	if err != nil {
		s.logger.Error("count role users failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrRoleHasUsers
	}
	if err := s.repo.Role.Delete(ctx, role.ID); err != nil {
		s.logger.Error("delete role failed", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("role deleted", zap.String("id", id), zap.String("name", role.Name))
	return nil
}

// ensureNameFree fails when another role (not selfID) already uses name
func (s *roleService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.Role.GetByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup role by name failed", zap.Error(err))
		return err
	}
	if existing != nil && existing.ID != selfID {
		return newFieldError("name", ErrNameTaken)
	}
	return nil
}
