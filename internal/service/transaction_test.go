package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/repository"
	"github.com/brandon3sican/to-system/pkg/jwt"
)

// ═══════════════════════════════════════════════════════════
// Transactional paths against a real (sqlite) database
// ═══════════════════════════════════════════════════════════

func newSQLiteRepository(t *testing.T) (*gorm.DB, *repository.Repository) {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Role{},
		&model.DivSecUnit{},
		&model.Position{},
		&model.EmploymentStatus{},
		&model.OfficialStation{},
		&model.Employee{},
		&model.User{},
		&model.TravelOrder{},
		&model.TravelOrderLog{},
	))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db, repository.NewRepository(db)
}

func seedSQLiteCatalog(t *testing.T, db *gorm.DB) *catalog {
	t.Helper()
	c := &catalog{roles: map[string]*model.Role{}}
	for _, name := range []string{model.RoleEmployee, model.RoleRecommender, model.RoleApprover, model.RoleAdministrator} {
		r := &model.Role{Name: name}
		require.NoError(t, db.Create(r).Error)
		c.roles[name] = r
	}
	c.unit = &model.DivSecUnit{Name: "Finance"}
	require.NoError(t, db.Create(c.unit).Error)
	c.position = &model.Position{Name: "Accountant", DivSecUnitID: c.unit.ID}
	require.NoError(t, db.Create(c.position).Error)
	c.active = &model.EmploymentStatus{Name: model.EmploymentStatusActive}
	require.NoError(t, db.Create(c.active).Error)
	c.station = &model.OfficialStation{Name: "DENR-CAR"}
	require.NoError(t, db.Create(c.station).Error)
	return c
}

func TestRegister_RollsBackEmployeeWhenUserInsertFails(t *testing.T) {
	db, repo := newSQLiteRepository(t)
	c := seedSQLiteCatalog(t, db)

	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_users", func(tx *gorm.DB) {
		if tx.Statement.Table == "users" {
			_ = tx.AddError(errors.New("injected users insert failure"))
		}
	}))

	cfg := testConfig()
	svc := NewAuthService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, zap.NewNop())

	req := registerRequest(c.roles[model.RoleEmployee].ID)
	req.Profile = employeeInput(c, "Maria", "Santos")
	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrRegistrationFailed)

	var employees, users int64
	require.NoError(t, db.Model(&model.Employee{}).Count(&employees).Error)
	require.NoError(t, db.Model(&model.User{}).Count(&users).Error)
	assert.Zero(t, employees, "employee insert must be rolled back")
	assert.Zero(t, users)

	open, err := svc.RegistrationOpen(context.Background())
	require.NoError(t, err)
	assert.True(t, open, "a failed registration keeps the gate open")
}

func TestRegister_PersistsEmployeeAndAccount(t *testing.T) {
	db, repo := newSQLiteRepository(t)
	c := seedSQLiteCatalog(t, db)
	cfg := testConfig()
	mgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, mgr, nil, zap.NewNop())
	ctx := context.Background()

	req := registerRequest(c.roles[model.RoleApprover].ID)
	req.Profile = employeeInput(c, "Maria", "Santos")
	sess, err := svc.Register(ctx, req)
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleApprover, u.RoleName())
	require.NotNil(t, u.Employee)
	assert.Equal(t, "Maria Santos", u.Employee.FullName())
	assert.Equal(t, "32000.50", u.Employee.Salary.StringFixed(2))

	_, err = svc.Register(ctx, registerRequest(c.roles[model.RoleAdministrator].ID))
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestUserUpdate_RenamesEmployeeInDatabase(t *testing.T) {
	db, repo := newSQLiteRepository(t)
	c := seedSQLiteCatalog(t, db)
	cfg := testConfig()
	auth := NewAuthService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, zap.NewNop())
	users := NewUserService(repo, auth, zap.NewNop())
	ctx := context.Background()

	req := registerRequest(c.roles[model.RoleAdministrator].ID)
	_, err := auth.Register(ctx, req)
	require.NoError(t, err)

	emp := &model.Employee{
		FirstName: "Juan", LastName: "Dela Cruz", Gender: model.GenderMale,
		PositionID: c.position.ID, DivSecUnitID: c.unit.ID, EmploymentStatusID: c.active.ID,
	}
	require.NoError(t, db.Create(emp).Error)
	created, err := users.Create(ctx, &dto.CreateUserRequest{
		Username: "juan", Password: "password123", PasswordConfirmation: "password123",
		EmployeeID: emp.ID, RoleID: c.roles[model.RoleEmployee].ID,
	})
	require.NoError(t, err)

	_, err = users.Update(ctx, created.ID, &dto.UpdateUserRequest{
		Username: "juan.dc", RoleID: c.roles[model.RoleEmployee].ID,
		FirstName: "Juan Miguel", LastName: "Dela Cruz",
	})
	require.NoError(t, err)

	var stored model.Employee
	require.NoError(t, db.First(&stored, "id = ?", emp.ID).Error)
	assert.Equal(t, "Juan Miguel", stored.FirstName)

	reloaded, err := users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "juan.dc", reloaded.Username)
}

func TestTravelOrderWorkflow_PersistsVersionAndLog(t *testing.T) {
	db, repo := newSQLiteRepository(t)
	c := seedSQLiteCatalog(t, db)
	ctx := context.Background()

	emp := &model.Employee{
		FirstName: "Fe", LastName: "Filer", Gender: model.GenderFemale,
		PositionID: c.position.ID, DivSecUnitID: c.unit.ID, EmploymentStatusID: c.active.ID,
	}
	require.NoError(t, db.Create(emp).Error)
	filer := &model.User{Username: "filer", Password: "x", RoleID: c.roles[model.RoleEmployee].ID, EmployeeID: &emp.ID}
	require.NoError(t, db.Create(filer).Error)
	filer.Role = c.roles[model.RoleEmployee]
	approver := &model.User{Username: "app", Password: "x", RoleID: c.roles[model.RoleAdministrator].ID}
	require.NoError(t, db.Create(approver).Error)
	approver.Role = c.roles[model.RoleAdministrator]

	svc := newTestTravelOrderService(repo)
	order, err := svc.Create(ctx, filer, tripRequest(c))
	require.NoError(t, err)
	assert.Equal(t, "2026-001", order.TONumber)

	_, err = svc.Transition(ctx, approver, order.ID, TransitionRecommend, &dto.TravelOrderActionRequest{Notes: "fine"})
	require.NoError(t, err)

	detail, err := svc.GetDetail(ctx, filer, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TravelOrderRecommended, detail.Status)
	assert.Equal(t, 2, detail.Version)
	require.Len(t, detail.Logs, 2)
	assert.Equal(t, model.ActionCreated, detail.Logs[0].ActionType)
	assert.Equal(t, "fine", detail.Logs[1].Notes)

	second, err := svc.Create(ctx, filer, tripRequest(c))
	require.NoError(t, err)
	assert.Equal(t, "2026-002", second.TONumber)
}
