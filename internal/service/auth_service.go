package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/brandon3sican/to-system/config"
	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/repository"
	"github.com/brandon3sican/to-system/pkg/jwt"
	"github.com/brandon3sican/to-system/pkg/redis"
)

var (
	ErrInvalidCredentials = errors.New("Invalid username or password.")
	ErrTooManyAttempts    = errors.New("Too many login attempts. Please try again later.")
	ErrRegistrationClosed = errors.New("Registration is disabled. An account already exists.")
	ErrRegistrationFailed = errors.New("Registration failed. Please try again.")
	ErrUsernameTaken      = errors.New("The username has already been taken.")
	ErrSessionInvalid     = errors.New("Your session has ended. Please log in again.")
)

// ═══════════════════════════════════════════════════════════
// Registration rules
// ═══════════════════════════════════════════════════════════
//
// What the registration form must carry depends on the selected role.
// An Administrator account is not tied to a personnel record; every
// other role registers together with its employee profile.

type registrationRule struct {
	needsEmployee bool
}

var registrationRules = map[string]registrationRule{
	model.RoleAdministrator: {needsEmployee: false},
	model.RoleEmployee:      {needsEmployee: true},
	model.RoleRecommender:   {needsEmployee: true},
	model.RoleApprover:      {needsEmployee: true},
}

// registrationRuleFor roles added later through the catalog register with a profile
func registrationRuleFor(roleName string) registrationRule {
	if rule, ok := registrationRules[roleName]; ok {
		return rule
	}
	return registrationRule{needsEmployee: true}
}

// AuthService registration gate, login, logout and session resolution
type AuthService interface {
	// RegistrationOpen true only while no account exists
	RegistrationOpen(ctx context.Context) (bool, error)
	RegisterFormData(ctx context.Context) (*dto.RegisterFormData, error)
	// Register creates the first account (and its employee) atomically and signs it in
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.SessionResponse, error)
	// Login checks credentials; clientKey scopes the attempt rate limit
	Login(ctx context.Context, req *dto.LoginRequest, clientKey string) (*dto.SessionResponse, error)
	// Logout revokes the session token until its natural expiry
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a session token to its account with role and employee loaded
	Authenticate(ctx context.Context, token string) (*model.User, error)
	// HashPassword bcrypt with the configured cost
	HashPassword(password string) (string, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client // nil disables revocation and rate limiting
	logger *zap.Logger
}

// NewAuthService creates an AuthService
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

// ────────────────────── Registration ──────────────────────

func (s *authService) RegistrationOpen(ctx context.Context) (bool, error) {
	count, err := s.repo.User.Count(ctx)
	if err != nil {
		s.logger.Error("count users failed", zap.Error(err))
		return false, err
	}
	return count == 0, nil
}

func (s *authService) RegisterFormData(ctx context.Context) (*dto.RegisterFormData, error) {
	data, err := loadEmployeeFormData(ctx, s.repo)
	if err != nil {
		s.logger.Error("load registration form data failed", zap.Error(err))
		return nil, err
	}
	return &dto.RegisterFormData{
		Roles:              data.Roles,
		Positions:          data.Positions,
		DivSecUnits:        data.DivSecUnits,
		EmploymentStatuses: data.EmploymentStatuses,
	}, nil
}

// ═══════════════════════════════════════════════════════════
// Register
// ═══════════════════════════════════════════════════════════
//
// 1. gate: refuse once any account exists
// 2. resolve the role and pick its registration rule
// 3. validate (profile fields only when the rule needs an employee)
// 4. one transaction: employee (optional) → user linked via users.employee_id
// 5. sign the new account in

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.SessionResponse, error) {
	open, err := s.RegistrationOpen(ctx)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, ErrRegistrationClosed
	}

	req.Username = strings.TrimSpace(req.Username)
	trimEmployeeInput(&req.Profile)

	if strings.TrimSpace(req.RoleID) == "" {
		return nil, validateStruct(req, "Profile")
	}
	role, err := s.repo.Role.GetByID(ctx, req.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newFieldError("role_id", ErrInvalidReference)
		}
		s.logger.Error("get role failed", zap.Error(err))
		return nil, err
	}
	rule := registrationRuleFor(role.Name)

	if rule.needsEmployee {
		err = validateStruct(req)
	} else {
		err = validateStruct(req, "Profile")
	}
	if err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, ErrRegistrationFailed
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("begin transaction failed", zap.Error(err))
		return nil, ErrRegistrationFailed
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

	rollback := func(cause error) {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("registration rolled back", zap.String("username", req.Username), zap.Error(cause))
	}

	// another registration may have committed since the gate check
	existing, err := txRepo.User.Count(ctx)
	if err != nil {
		rollback(err)
		return nil, ErrRegistrationFailed
	}
	if existing > 0 {
		if tx != nil {
			tx.Rollback()
		}
		return nil, ErrRegistrationClosed
	}

	user := &model.User{Username: req.Username, Password: hash, RoleID: role.ID}

	if rule.needsEmployee {
		employee := &model.Employee{}
		if err := applyEmployeeInput(ctx, txRepo, &req.Profile, employee); err != nil {
			rollback(err)
			var verr *ValidationError
			if errors.As(err, &verr) {
				return nil, err
			}
			return nil, ErrRegistrationFailed
		}
		if err := txRepo.Employee.Create(ctx, employee); err != nil {
			rollback(err)
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, newFieldError("first_name", ErrEmployeeNameTaken)
			}
			return nil, ErrRegistrationFailed
		}
		user.EmployeeID = &employee.ID
	}

	if err := txRepo.User.Create(ctx, user); err != nil {
		rollback(err)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newFieldError("username", ErrUsernameTaken)
		}
		return nil, ErrRegistrationFailed
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("commit registration failed", zap.Error(err))
			return nil, ErrRegistrationFailed
		}
	}

	s.logger.Info("first account registered",
		zap.String("user_id", user.ID),
		zap.String("role", role.Name),
		zap.Bool("with_employee", user.EmployeeID != nil),
	)

	user.Role = role
	return s.issueSession(user, false)
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, clientKey string) (*dto.SessionResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if s.rdb != nil && s.cfg.Auth.LoginRateLimit > 0 {
		key := "login_attempts:" + clientKey + ":" + strings.ToLower(req.Username)
		allowed, err := s.rdb.CheckRateLimit(ctx, key, s.cfg.Auth.LoginRateLimit, s.cfg.Auth.LoginRateWindow)
		if err != nil {
			s.logger.Warn("login rate limit check failed, allowing", zap.Error(err))
		} else if !allowed {
			s.logger.Warn("login rate limited", zap.String("username", req.Username), zap.String("client", clientKey))
			return nil, ErrTooManyAttempts
		}
	}

	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("get user failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.Bool("remember", req.RememberMe))
	return s.issueSession(user, req.RememberMe)
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtMgr.ParseToken(token)
	if err != nil {
		// already expired or forged: nothing to revoke
		return nil
	}
	if s.rdb == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.RevokeSession(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("revoke session failed", zap.String("user_id", claims.UserID), zap.Error(err))
		return err
	}
	s.logger.Info("user logged out", zap.String("user_id", claims.UserID))
	return nil
}

// ────────────────────── Authenticate ──────────────────────

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.jwtMgr.ParseToken(token)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	if s.rdb != nil {
		revoked, err := s.rdb.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("session revocation check failed", zap.Error(err))
		} else if revoked {
			return nil, ErrSessionInvalid
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		s.logger.Error("load session user failed", zap.String("user_id", claims.UserID), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *authService) HashPassword(password string) (string, error) {
	cost := s.cfg.Auth.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) issueSession(user *model.User, rememberMe bool) (*dto.SessionResponse, error) {
	token, expiresAt, err := s.jwtMgr.GenerateSessionToken(user.ID, rememberMe)
	if err != nil {
		s.logger.Error("sign session token failed", zap.Error(err))
		return nil, err
	}
	return &dto.SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.RoleName(),
	}, nil
}
