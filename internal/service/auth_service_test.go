package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brandon3sican/to-system/config"
	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/pkg/redis"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := redis.NewClient(&config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	if err != nil {
		t.Fatalf("connect miniredis: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func registerRequest(roleID string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		RoleID:               roleID,
		Username:             "admin",
		Password:             "password123",
		PasswordConfirmation: "password123",
	}
}

// ── registration ──

func TestRegister_AdministratorWithoutProfile(t *testing.T) {
	_, m := newMockRepository()
	c := seedCatalog(m)
	svc, mgr := newTestAuthService(m, nil)

	sess, err := svc.Register(context.Background(), registerRequest(c.roles[model.RoleAdministrator].ID))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if sess.Role != model.RoleAdministrator || sess.Username != "admin" {
		t.Errorf("unexpected session %+v", sess)
	}
	if _, err := mgr.ParseToken(sess.Token); err != nil {
		t.Errorf("issued token should verify: %v", err)
	}

	u, _ := m.user.GetByUsername(context.Background(), "admin")
	if u.EmployeeID != nil {
		t.Error("administrator must not get an employee record")
	}
	if len(m.employee.employees) != 0 {
		t.Errorf("expected no employees, got %d", len(m.employee.employees))
	}
	if u.Password == "password123" {
		t.Error("password stored in clear text")
	}
}

func TestRegister_EmployeeRoleNeedsProfile(t *testing.T) {
	_, m := newMockRepository()
	c := seedCatalog(m)
	svc, _ := newTestAuthService(m, nil)

	req := registerRequest(c.roles[model.RoleEmployee].ID)
	_, err := svc.Register(context.Background(), req)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["first_name"] == "" || verr.Fields["salary"] == "" {
		t.Errorf("expected profile field errors, got %v", verr.Fields)
	}
	if n, _ := m.user.Count(context.Background()); n != 0 {
		t.Errorf("no account may be created, got %d", n)
	}

	req = registerRequest(c.roles[model.RoleEmployee].ID)
	req.Profile = employeeInput(c, "Maria", "Santos")
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("Register with profile failed: %v", err)
	}
	u, _ := m.user.GetByUsername(context.Background(), "admin")
	if u.EmployeeID == nil {
		t.Fatal("account must link its employee")
	}
	e, err := m.employee.GetByID(context.Background(), *u.EmployeeID)
	if err != nil || e.FullName() != "Maria Santos" {
		t.Errorf("linked employee not created: %v %v", e, err)
	}
}

func TestRegister_ClosedOnceAnAccountExists(t *testing.T) {
	_, m := newMockRepository()
	c := seedCatalog(m)
	addUser(t, m, c, "first", model.RoleAdministrator, nil)
	svc, _ := newTestAuthService(m, nil)

	open, err := svc.RegistrationOpen(context.Background())
	if err != nil || open {
		t.Fatalf("registration should be closed, open=%v err=%v", open, err)
	}
	_, err = svc.Register(context.Background(), registerRequest(c.roles[model.RoleAdministrator].ID))
	if !errors.Is(err, ErrRegistrationClosed) {
		t.Errorf("expected ErrRegistrationClosed, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	_, m := newMockRepository()
	c := seedCatalog(m)
	svc, _ := newTestAuthService(m, nil)
	adminID := c.roles[model.RoleAdministrator].ID

	tests := []struct {
		name  string
		edit  func(r *dto.RegisterRequest)
		field string
	}{
		{"missing role", func(r *dto.RegisterRequest) { r.RoleID = "" }, "role_id"},
		{"unknown role", func(r *dto.RegisterRequest) { r.RoleID = uuid.NewString() }, "role_id"},
		{"short password", func(r *dto.RegisterRequest) { r.Password, r.PasswordConfirmation = "short", "short" }, "password"},
		{"confirmation mismatch", func(r *dto.RegisterRequest) { r.PasswordConfirmation = "password124" }, "password_confirmation"},
		{"blank username", func(r *dto.RegisterRequest) { r.Username = "   " }, "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registerRequest(adminID)
			tt.edit(req)
			_, err := svc.Register(context.Background(), req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Fields[tt.field] == "" {
				t.Errorf("expected error on %s, got %v", tt.field, verr.Fields)
			}
		})
	}
}

func TestRegisterFormData(t *testing.T) {
	_, m := newMockRepository()
	seedCatalog(m)
	svc, _ := newTestAuthService(m, nil)

	data, err := svc.RegisterFormData(context.Background())
	if err != nil {
		t.Fatalf("RegisterFormData failed: %v", err)
	}
	if len(data.Roles) != 4 || len(data.Positions) != 1 || len(data.DivSecUnits) != 1 || len(data.EmploymentStatuses) != 1 {
		t.Errorf("unexpected form data %+v", data)
	}
}

// ── login / logout ──

func TestLogin(t *testing.T) {
	_, m := newMockRepository()
	c := seedCatalog(m)
	addUser(t, m, c, "maria", model.RoleEmployee, nil)
	svc, _ := newTestAuthService(m, nil)
	ctx := context.Background()

	sess, err := svc.Login(ctx, &dto.LoginRequest{Username: " maria ", Password: "password123"}, "127.0.0.1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if sess.Role != model.RoleEmployee {
		t.Errorf("expected role Employee, got %s", sess.Role)
	}

	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "maria", Password: "wrong-password"}, "127.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "password123"}, "127.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_RememberMeExtendsSession(t *testing.T) {
	_, m := newMockRepository()
	c := seedCatalog(m)
	addUser(t, m, c, "maria", model.RoleEmployee, nil)
	svc, _ := newTestAuthService(m, nil)

	short, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "maria", Password: "password123"}, "ip")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	long, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "maria", Password: "password123", RememberMe: true}, "ip")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if long.ExpiresAt <= short.ExpiresAt {
		t.Errorf("remember me should outlive a plain session: %d <= %d", long.ExpiresAt, short.ExpiresAt)
	}
}

func TestLogin_RateLimited(t *testing.T) {
	_, m := newMockRepository()
	c := seedCatalog(m)
	addUser(t, m, c, "maria", model.RoleEmployee, nil)
	svc, _ := newTestAuthService(m, newTestRedis(t))
	ctx := context.Background()

	bad := &dto.LoginRequest{Username: "maria", Password: "wrong-password"}
	for i := 0; i < 3; i++ {
		if _, err := svc.Login(ctx, bad, "10.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}
	good := &dto.LoginRequest{Username: "maria", Password: "password123"}
	if _, err := svc.Login(ctx, good, "10.0.0.1"); !errors.Is(err, ErrTooManyAttempts) {
		t.Errorf("expected ErrTooManyAttempts, got %v", err)
	}
	if _, err := svc.Login(ctx, good, "10.0.0.2"); err != nil {
		t.Errorf("another client must not be limited: %v", err)
	}
}

func TestLogout_RevokesSession(t *testing.T) {
	_, m := newMockRepository()
	c := seedCatalog(m)
	addUser(t, m, c, "maria", model.RoleEmployee, nil)
	svc, _ := newTestAuthService(m, newTestRedis(t))
	ctx := context.Background()

	sess, err := svc.Login(ctx, &dto.LoginRequest{Username: "maria", Password: "password123"}, "ip")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	u, err := svc.Authenticate(ctx, sess.Token)
	if err != nil || u.Username != "maria" || u.RoleName() != model.RoleEmployee {
		t.Fatalf("Authenticate before logout: user=%v err=%v", u, err)
	}

	if err := svc.Logout(ctx, sess.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := svc.Authenticate(ctx, sess.Token); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("expected ErrSessionInvalid after logout, got %v", err)
	}
}

func TestAuthenticate_RejectsGarbageAndDeletedAccounts(t *testing.T) {
	_, m := newMockRepository()
	c := seedCatalog(m)
	u := addUser(t, m, c, "maria", model.RoleEmployee, nil)
	svc, _ := newTestAuthService(m, nil)
	ctx := context.Background()

	if _, err := svc.Authenticate(ctx, "not-a-token"); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("expected ErrSessionInvalid, got %v", err)
	}

	sess, _ := svc.Login(ctx, &dto.LoginRequest{Username: "maria", Password: "password123"}, "ip")
	_ = m.user.Delete(ctx, u.ID)
	if _, err := svc.Authenticate(ctx, sess.Token); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("deleted account: expected ErrSessionInvalid, got %v", err)
	}
	if err := svc.Logout(ctx, "not-a-token"); err != nil {
		t.Errorf("logout of an unparseable token should be a no-op: %v", err)
	}
}
