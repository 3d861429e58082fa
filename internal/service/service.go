package service

import (
	"go.uber.org/zap"

	"github.com/brandon3sican/to-system/config"
	"github.com/brandon3sican/to-system/internal/repository"
	"github.com/brandon3sican/to-system/pkg/jwt"
	"github.com/brandon3sican/to-system/pkg/redis"
)

// Service aggregates every service behind one handle
type Service struct {
	Auth             AuthService
	User             UserService
	Role             RoleService
	DivSecUnit       DivSecUnitService
	Position         PositionService
	EmploymentStatus EmploymentStatusService
	OfficialStation  OfficialStationService
	Employee         EmployeeService
	TravelOrder      TravelOrderService
	Dashboard        DashboardService
}

// NewService builds the aggregate. rdb may be nil.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	auth := NewAuthService(cfg, repo, jwtMgr, rdb, logger)
	return &Service{
		Auth:             auth,
		User:             NewUserService(repo, auth, logger),
		Role:             NewRoleService(repo, logger),
		DivSecUnit:       NewDivSecUnitService(repo, logger),
		Position:         NewPositionService(repo, logger),
		EmploymentStatus: NewEmploymentStatusService(repo, logger),
		OfficialStation:  NewOfficialStationService(repo, logger),
		Employee:         NewEmployeeService(repo, logger),
		TravelOrder:      NewTravelOrderService(repo, logger),
		Dashboard:        NewDashboardService(repo, logger),
	}
}
