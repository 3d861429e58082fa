package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/repository"
)

var (
	ErrEmployeeNotFound        = errors.New("Employee not found.")
	ErrEmployeeNameTaken       = errors.New("An employee with this name already exists.")
	ErrEmployeeHasTravelOrders = errors.New("Cannot delete employee with travel orders")
	ErrEmployeeHasAccount      = errors.New("Cannot delete employee with a user account")
)

// EmployeeService employee directory, spreadsheet export and import
type EmployeeService interface {
	List(ctx context.Context, req *dto.EmployeeListRequest) ([]model.Employee, int64, error)
	ListAll(ctx context.Context) ([]model.Employee, error)
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	FormData(ctx context.Context) (*dto.EmployeeFormData, error)
	Create(ctx context.Context, req *dto.EmployeeInput) (*model.Employee, error)
	Update(ctx context.Context, id string, req *dto.EmployeeInput) (*model.Employee, error)
	Delete(ctx context.Context, id string) error
	// Export writes the filtered list to an .xlsx workbook
	Export(ctx context.Context, req *dto.EmployeeListRequest) (*bytes.Buffer, string, error)
	// ParseImportFile reads rows from an .xlsx workbook
	ParseImportFile(reader io.Reader) ([]ImportEmployeeRow, error)
	// Import creates employees from parsed rows in one transaction
	Import(ctx context.Context, rows []ImportEmployeeRow) (*dto.ImportEmployeeResponse, error)
}

type employeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeService creates an EmployeeService
func NewEmployeeService(repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *employeeService) List(ctx context.Context, req *dto.EmployeeListRequest) ([]model.Employee, int64, error) {
	employees, total, err := s.repo.Employee.List(ctx, listFilters(req), req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list employees failed", zap.Error(err))
		return nil, 0, err
	}
	return employees, total, nil
}

func (s *employeeService) ListAll(ctx context.Context) ([]model.Employee, error) {
	return s.repo.Employee.ListAll(ctx)
}

func listFilters(req *dto.EmployeeListRequest) *repository.EmployeeListFilters {
	return &repository.EmployeeListFilters{
		Search:   strings.TrimSpace(req.Search),
		Role:     strings.TrimSpace(req.Role),
		Position: strings.TrimSpace(req.Position),
	}
}

// ────────────────────── GetByID ──────────────────────

func (s *employeeService) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	employee, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("get employee failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return employee, nil
}

// FormData positions, units, statuses and roles for selects and list filters
func (s *employeeService) FormData(ctx context.Context) (*dto.EmployeeFormData, error) {
	return loadEmployeeFormData(ctx, s.repo)
}

func loadEmployeeFormData(ctx context.Context, repo *repository.Repository) (*dto.EmployeeFormData, error) {
	positions, err := repo.Position.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	units, err := repo.DivSecUnit.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	statuses, err := repo.EmploymentStatus.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	roles, err := repo.Role.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	data := &dto.EmployeeFormData{}
	for _, p := range positions {
		data.Positions = append(data.Positions, dto.Option{ID: p.ID, Label: p.Name})
	}
	for _, u := range units {
		data.DivSecUnits = append(data.DivSecUnits, dto.Option{ID: u.ID, Label: u.Name})
	}
	for _, st := range statuses {
		data.EmploymentStatuses = append(data.EmploymentStatuses, dto.Option{ID: st.ID, Label: st.Name})
	}
	for _, r := range roles {
		data.Roles = append(data.Roles, dto.Option{ID: r.ID, Label: r.Name})
	}
	return data, nil
}

// ────────────────────── Create ──────────────────────

func (s *employeeService) Create(ctx context.Context, req *dto.EmployeeInput) (*model.Employee, error) {
	trimEmployeeInput(req)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	employee := &model.Employee{}
	if err := applyEmployeeInput(ctx, s.repo, req, employee); err != nil {
		return nil, err
	}
	if err := s.repo.Employee.Create(ctx, employee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newFieldError("first_name", ErrEmployeeNameTaken)
		}
		s.logger.Error("create employee failed", zap.Error(err))
		return nil, err
	}
	s.logger.Info("employee created", zap.String("id", employee.ID), zap.String("name", employee.FullName()))
	return employee, nil
}

// ────────────────────── Update ──────────────────────

func (s *employeeService) Update(ctx context.Context, id string, req *dto.EmployeeInput) (*model.Employee, error) {
	employee, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	trimEmployeeInput(req)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if err := applyEmployeeInput(ctx, s.repo, req, employee); err != nil {
		return nil, err
	}
	employee.Position, employee.DivSecUnit, employee.EmploymentStatus = nil, nil, nil
	if err := s.repo.Employee.Update(ctx, employee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newFieldError("first_name", ErrEmployeeNameTaken)
		}
		s.logger.Error("update employee failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return employee, nil
}

// ────────────────────── Delete ──────────────────────

// Delete refuses while travel orders or an account still reference the employee
func (s *employeeService) Delete(ctx context.Context, id string) error {
	employee, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	orders, err := s.repo.Employee.CountTravelOrders(ctx, employee.ID)
	if err != nil {
		s.logger.Error("count employee travel orders failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if orders > 0 {
		return ErrEmployeeHasTravelOrders
	}

	if _, err := s.repo.User.GetByEmployeeID(ctx, employee.ID); err == nil {
		return ErrEmployeeHasAccount
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup employee account failed", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Employee.Delete(ctx, employee.ID); err != nil {
		s.logger.Error("delete employee failed", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("employee deleted", zap.String("id", id), zap.String("name", employee.FullName()))
	return nil
}

// ── shared with registration and import ──

func trimEmployeeInput(in *dto.EmployeeInput) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.MiddleName = strings.TrimSpace(in.MiddleName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.Salary = strings.TrimSpace(in.Salary)
}

// applyEmployeeInput checks references and name uniqueness against repo, then
// copies the validated input onto employee. employee.ID, when set, is excluded
// from the uniqueness check.
func applyEmployeeInput(ctx context.Context, repo *repository.Repository, in *dto.EmployeeInput, employee *model.Employee) error {
	existing, err := repo.Employee.GetByFullName(ctx, in.FirstName, in.LastName)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != employee.ID {
		return newFieldError("first_name", ErrEmployeeNameTaken)
	}

	fields := map[string]string{}
	if _, err := repo.Position.GetByID(ctx, in.PositionID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		fields["position_id"] = ErrInvalidReference.Error()
	}
	if _, err := repo.DivSecUnit.GetByID(ctx, in.DivSecUnitID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		fields["div_sec_unit_id"] = ErrInvalidReference.Error()
	}
	if _, err := repo.EmploymentStatus.GetByID(ctx, in.EmploymentStatusID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		fields["employment_status_id"] = ErrInvalidReference.Error()
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields, cause: ErrInvalidReference}
	}

	birthdate, err := parseOptionalDate(in.Birthdate)
	if err != nil {
		return newFieldError("birthdate", errors.New("The birthdate is not a valid date."))
	}
	hired, err := parseOptionalDate(in.DateHired)
	if err != nil {
		return newFieldError("date_hired", errors.New("The date hired is not a valid date."))
	}
	salary, err := parseSalary(in.Salary)
	if err != nil {
		return newFieldError("salary", errors.New("The salary must be a non-negative amount with at most two decimal places."))
	}

	employee.FirstName = in.FirstName
	employee.MiddleName = in.MiddleName
	employee.LastName = in.LastName
	employee.Phone = in.Phone
	employee.Address = in.Address
	employee.Birthdate = birthdate
	employee.Gender = in.Gender
	employee.DateHired = hired
	employee.PositionID = in.PositionID
	employee.DivSecUnitID = in.DivSecUnitID
	employee.EmploymentStatusID = in.EmploymentStatusID
	employee.Salary = salary
	return nil
}
