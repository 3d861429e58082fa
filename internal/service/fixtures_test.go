package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/brandon3sican/to-system/config"
	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/pkg/jwt"
	"github.com/brandon3sican/to-system/pkg/redis"
)

// ── test fixtures ──

type catalog struct {
	unit     *model.DivSecUnit
	position *model.Position
	active   *model.EmploymentStatus
	station  *model.OfficialStation
	roles    map[string]*model.Role
}

func seedCatalog(m *mocks) *catalog {
	ctx := context.Background()
	c := &catalog{roles: map[string]*model.Role{}}
	for _, name := range []string{model.RoleEmployee, model.RoleRecommender, model.RoleApprover, model.RoleAdministrator} {
		c.roles[name] = m.role.add(name)
	}
	c.unit = &model.DivSecUnit{Name: "Finance"}
	_ = m.unit.Create(ctx, c.unit)
	c.position = &model.Position{Name: "Accountant", DivSecUnitID: c.unit.ID}
	_ = m.position.Create(ctx, c.position)
	c.active = &model.EmploymentStatus{Name: model.EmploymentStatusActive}
	_ = m.status.Create(ctx, c.active)
	c.station = &model.OfficialStation{Name: "DENR-CAR"}
	_ = m.station.Create(ctx, c.station)
	return c
}

func employeeInput(c *catalog, first, last string) dto.EmployeeInput {
	return dto.EmployeeInput{
		FirstName:          first,
		LastName:           last,
		Gender:             model.GenderFemale,
		Birthdate:          "1990-04-12",
		PositionID:         c.position.ID,
		DivSecUnitID:       c.unit.ID,
		EmploymentStatusID: c.active.ID,
		Salary:             "32000.50",
	}
}

func addEmployee(t *testing.T, m *mocks, c *catalog, first, last string) *model.Employee {
	t.Helper()
	e := &model.Employee{
		FirstName:          first,
		LastName:           last,
		Gender:             model.GenderMale,
		PositionID:         c.position.ID,
		DivSecUnitID:       c.unit.ID,
		EmploymentStatusID: c.active.ID,
	}
	if err := m.employee.Create(context.Background(), e); err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return e
}

// addUser account holding roleName, linked to employee when non-nil
func addUser(t *testing.T, m *mocks, c *catalog, username, roleName string, employee *model.Employee) *model.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	u := &model.User{Username: username, Password: string(hash), RoleID: c.roles[roleName].ID, Role: c.roles[roleName]}
	if employee != nil {
		id := employee.ID
		u.EmployeeID = &id
		u.Employee = employee
	}
	if err := m.user.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			SessionSecret:      "test-secret-0123456789",
			SessionTTL:         time.Hour,
			SessionTTLRemember: 24 * time.Hour,
			BcryptCost:         bcrypt.MinCost,
			LoginRateLimit:     3,
			LoginRateWindow:    time.Minute,
		},
	}
}

func newTestAuthService(m *mocks, rdb *redis.Client) (AuthService, *jwt.Manager) {
	cfg := testConfig()
	repo := mocksRepository(m)
	mgr := jwt.NewManager(&cfg.Auth)
	return NewAuthService(cfg, repo, mgr, rdb, zap.NewNop()), mgr
}
