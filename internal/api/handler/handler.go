package handler

import (
	"github.com/brandon3sican/to-system/config"
	"github.com/brandon3sican/to-system/internal/service"
)

// Handler aggregates every page handler
type Handler struct {
	Auth             *AuthHandler
	Dashboard        *DashboardHandler
	User             *UserHandler
	Role             *RoleHandler
	DivSecUnit       *DivSecUnitHandler
	Position         *PositionHandler
	EmploymentStatus *EmploymentStatusHandler
	OfficialStation  *OfficialStationHandler
	Employee         *EmployeeHandler
	TravelOrder      *TravelOrderHandler
}

// NewHandler creates the Handler aggregate
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:             NewAuthHandler(svc.Auth, cfg.Auth.Cookie),
		Dashboard:        NewDashboardHandler(svc.Dashboard),
		User:             NewUserHandler(svc.User),
		Role:             NewRoleHandler(svc.Role),
		DivSecUnit:       NewDivSecUnitHandler(svc.DivSecUnit),
		Position:         NewPositionHandler(svc.Position, svc.DivSecUnit),
		EmploymentStatus: NewEmploymentStatusHandler(svc.EmploymentStatus),
		OfficialStation:  NewOfficialStationHandler(svc.OfficialStation),
		Employee:         NewEmployeeHandler(svc.Employee),
		TravelOrder:      NewTravelOrderHandler(svc.TravelOrder),
	}
}
