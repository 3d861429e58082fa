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
	ErrUserNotFound       = errors.New("User not found.")
	ErrEmployeeHasUser    = errors.New("This employee already has an account.")
	ErrCannotDeleteSelf   = errors.New("You cannot delete your own account.")
	ErrLastAdministrator  = errors.New("At least one Administrator account must remain.")
	ErrNameFieldsRequired = errors.New("The first and last name are required for accounts linked to an employee.")
)

// PasswordHasher hashes account passwords
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// UserService account administration
type UserService interface {
	List(ctx context.Context, req *dto.UserListRequest) ([]model.User, int64, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	CreateFormData(ctx context.Context) (*dto.UserCreateFormData, error)
	EditFormData(ctx context.Context, id string) (*dto.UserEditFormData, error)
	Create(ctx context.Context, req *dto.CreateUserRequest) (*model.User, error)
	// Update also renames the linked employee, in the same transaction
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, id, callerID string) error
}

type userService struct {
	repo   *repository.Repository
	hasher PasswordHasher
	logger *zap.Logger
}

// NewUserService creates a UserService
func NewUserService(repo *repository.Repository, hasher PasswordHasher, logger *zap.Logger) UserService {
	return &userService{repo: repo, hasher: hasher, logger: logger}
}

// ────────────────────── List / Get ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]model.User, int64, error) {
	users, total, err := s.repo.User.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, 0, err
	}
	return users, total, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("get user failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// ────────────────────── form data ──────────────────────

// CreateFormData roles and the employees that have no account yet
func (s *userService) CreateFormData(ctx context.Context) (*dto.UserCreateFormData, error) {
	roles, err := s.roleOptions(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := s.repo.Employee.ListWithoutAccount(ctx)
	if err != nil {
		s.logger.Error("list employees without account failed", zap.Error(err))
		return nil, err
	}
	data := &dto.UserCreateFormData{Roles: roles, Employees: make([]dto.EmployeeSummary, 0, len(employees))}
	for i := range employees {
		data.Employees = append(data.Employees, toEmployeeSummary(&employees[i]))
	}
	return data, nil
}

func (s *userService) EditFormData(ctx context.Context, id string) (*dto.UserEditFormData, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	roles, err := s.roleOptions(ctx)
	if err != nil {
		return nil, err
	}
	data := &dto.UserEditFormData{User: ToUserResponse(user), Roles: roles}
	if user.Employee != nil {
		summary := toEmployeeSummary(user.Employee)
		data.Employee = &summary
	}
	return data, nil
}

func (s *userService) roleOptions(ctx context.Context) ([]dto.Option, error) {
	roles, err := s.repo.Role.ListAll(ctx)
	if err != nil {
		s.logger.Error("list roles failed", zap.Error(err))
		return nil, err
	}
	opts := make([]dto.Option, 0, len(roles))
	for _, r := range roles {
		opts = append(opts, dto.Option{ID: r.ID, Label: r.Name})
	}
	return opts, nil
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, req.Username, ""); err != nil {
		return nil, err
	}
	if _, err := s.lookupRole(ctx, req.RoleID); err != nil {
		return nil, err
	}

	if _, err := s.repo.Employee.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newFieldError("employee_id", ErrInvalidReference)
		}
		return nil, err
	}
	if _, err := s.repo.User.GetByEmployeeID(ctx, req.EmployeeID); err == nil {
		return nil, newFieldError("employee_id", ErrEmployeeHasUser)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	employeeID := req.EmployeeID
	user := &model.User{
		Username:   req.Username,
		Password:   hash,
		RoleID:     req.RoleID,
		EmployeeID: &employeeID,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newFieldError("username", ErrUsernameTaken)
		}
		s.logger.Error("create user failed", zap.Error(err))
		return nil, err
	}
	s.logger.Info("user created", zap.String("id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// ═══════════════════════════════════════════════════════════
// Update
// ═══════════════════════════════════════════════════════════
//
// Username, role and optional new password go to users; first/last name
// go to the linked employee. Both writes share one transaction.

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Username = strings.TrimSpace(req.Username)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, req.Username, user.ID); err != nil {
		return nil, err
	}
	role, err := s.lookupRole(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}
	if user.IsAdministrator() && role.Name != model.RoleAdministrator {
		if err := s.ensureAnotherAdministrator(ctx); err != nil {
			return nil, err
		}
	}

	renameEmployee := user.EmployeeID != nil
	if renameEmployee {
		fields := map[string]string{}
		if req.FirstName == "" {
			fields["first_name"] = "The first name field is required."
		}
		if req.LastName == "" {
			fields["last_name"] = "The last name field is required."
		}
		if len(fields) > 0 {
			return nil, &ValidationError{Fields: fields, cause: ErrNameFieldsRequired}
		}
		existing, err := s.repo.Employee.GetByFullName(ctx, req.FirstName, req.LastName)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != *user.EmployeeID {
			return nil, newFieldError("first_name", ErrEmployeeNameTaken)
		}
	}

	user.Username = req.Username
	user.RoleID = role.ID
	if req.Password != "" {
		hash, err := s.hasher.HashPassword(req.Password)
		if err != nil {
			s.logger.Error("hash password failed", zap.Error(err))
			return nil, err
		}
		user.Password = hash
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("begin transaction failed", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()
	txRepo := s.repo.WithTx(tx)

	employee := user.Employee
	user.Role, user.Employee = nil, nil
	if err := txRepo.User.Update(ctx, user); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newFieldError("username", ErrUsernameTaken)
		}
		s.logger.Error("update user failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if renameEmployee {
		if err := txRepo.Employee.UpdateName(ctx, *user.EmployeeID, req.FirstName, req.LastName); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, newFieldError("first_name", ErrEmployeeNameTaken)
			}
			s.logger.Error("rename linked employee failed", zap.String("id", id), zap.Error(err))
			return nil, err
		}
		if employee != nil {
			employee.FirstName, employee.LastName = req.FirstName, req.LastName
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("commit user update failed", zap.Error(err))
			return nil, err
		}
	}

	user.Role, user.Employee = role, employee
	return user, nil
}

// ────────────────────── Delete ──────────────────────

// Delete removes the account only; the employee record stays
func (s *userService) Delete(ctx context.Context, id, callerID string) error {
	if id == callerID {
		return ErrCannotDeleteSelf
	}
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdministrator() {
		if err := s.ensureAnotherAdministrator(ctx); err != nil {
			return err
		}
	}
	if err := s.repo.User.Delete(ctx, user.ID); err != nil {
		s.logger.Error("delete user failed", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("user deleted", zap.String("id", id), zap.String("username", user.Username), zap.String("by", callerID))
	return nil
}

// ── helpers ──

func (s *userService) ensureUsernameFree(ctx context.Context, username, selfID string) error {
	existing, err := s.repo.User.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup user by username failed", zap.Error(err))
		return err
	}
	if existing != nil && existing.ID != selfID {
		return newFieldError("username", ErrUsernameTaken)
	}
	return nil
}

func (s *userService) lookupRole(ctx context.Context, roleID string) (*model.Role, error) {
	role, err := s.repo.Role.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newFieldError("role_id", ErrInvalidReference)
		}
		return nil, err
	}
	return role, nil
}

// ensureAnotherAdministrator fails when the only Administrator would be lost
func (s *userService) ensureAnotherAdministrator(ctx context.Context) error {
	admins, err := s.repo.User.CountByRoleName(ctx, model.RoleAdministrator)
	if err != nil {
		s.logger.Error("count administrators failed", zap.Error(err))
		return err
	}
	if admins <= 1 {
		return ErrLastAdministrator
	}
	return nil
}

// ToUserResponse account view without the password hash
func ToUserResponse(user *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		RoleID:     user.RoleID,
		Role:       user.RoleName(),
		EmployeeID: user.EmployeeID,
		Name:       user.DisplayName(),
	}
	return resp
}

func toEmployeeSummary(e *model.Employee) dto.EmployeeSummary {
	summary := dto.EmployeeSummary{ID: e.ID, FirstName: e.FirstName, LastName: e.LastName}
	if e.Position != nil {
		summary.Position = e.Position.Name
	}
	return summary
}
