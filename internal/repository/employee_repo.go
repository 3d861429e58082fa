package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brandon3sican/to-system/internal/model"
)

// EmployeeListFilters employee list filters
type EmployeeListFilters struct {
	Search   string // first/middle/last name or position name
	Role     string // role name of the linked account
	Position string // position name
}

// EmployeeRepository employee data access
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetByFullName(ctx context.Context, firstName, lastName string) (*model.Employee, error)
	List(ctx context.Context, filters *EmployeeListFilters, offset, limit int) ([]model.Employee, int64, error)
	ListAll(ctx context.Context) ([]model.Employee, error)
	ListWithoutAccount(ctx context.Context) ([]model.Employee, error)
	Update(ctx context.Context, employee *model.Employee) error
	UpdateName(ctx context.Context, id, firstName, lastName string) error
	Delete(ctx context.Context, id string) error
	CountTravelOrders(ctx context.Context, employeeID string) (int64, error)
}

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo creates an EmployeeRepository
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(employee).Error
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	if !isUUID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var employee model.Employee
	err := r.withRefs(r.db.WithContext(ctx)).
		Where("employees.id = ?", id).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) GetByFullName(ctx context.Context, firstName, lastName string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Where("first_name = ? AND last_name = ?", firstName, lastName).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) List(ctx context.Context, filters *EmployeeListFilters, offset, limit int) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	db := r.applyFilters(r.db.WithContext(ctx).Model(&model.Employee{}), filters)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(r.withRefs(db), offset, limit).
		Order("employees.last_name ASC, employees.first_name ASC").
		Find(&employees).Error
	if err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepo) ListAll(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.withRefs(r.db.WithContext(ctx)).
		Order("last_name ASC, first_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *employeeRepo) ListWithoutAccount(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM users WHERE users.employee_id = employees.id)").
		Order("last_name ASC, first_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *employeeRepo) Update(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(employee).Error
}

func (r *employeeRepo) UpdateName(ctx context.Context, id, firstName, lastName string) error {
	return r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"first_name": firstName,
			"last_name":  lastName,
		}).Error
}

func (r *employeeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Employee{}).Error
}

func (r *employeeRepo) CountTravelOrders(ctx context.Context, employeeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TravelOrder{}).Where("employee_id = ?", employeeID).Count(&count).Error
	return count, err
}

// ── helpers ──

func (r *employeeRepo) withRefs(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Position").
		Preload("DivSecUnit").
		Preload("EmploymentStatus")
}

func (r *employeeRepo) applyFilters(db *gorm.DB, f *EmployeeListFilters) *gorm.DB {
	if f == nil {
		return db
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := likePattern(strings.ToLower(s))
		db = db.Where(
			"LOWER(employees.first_name) LIKE ? OR LOWER(employees.middle_name) LIKE ? OR LOWER(employees.last_name) LIKE ? "+
				"OR EXISTS (SELECT 1 FROM positions p WHERE p.id = employees.position_id AND LOWER(p.name) LIKE ?)",
			p, p, p, p,
		)
	}
	if f.Role != "" {
		db = db.Where(
			"EXISTS (SELECT 1 FROM users u JOIN roles ro ON ro.id = u.role_id WHERE u.employee_id = employees.id AND ro.name = ?)",
			f.Role,
		)
	}
	if f.Position != "" {
		db = db.Where(
			"EXISTS (SELECT 1 FROM positions p WHERE p.id = employees.position_id AND p.name = ?)",
			f.Position,
		)
	}
	return db
}
