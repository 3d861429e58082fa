package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/repository"
)

// recentTravelOrders rows in the dashboard activity list
const recentTravelOrders = 5

// DashboardService read-only aggregates for the landing page
type DashboardService interface {
	Get(ctx context.Context, actor *model.User) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService creates a DashboardService
func NewDashboardService(repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, logger: logger, now: time.Now}
}

// Get counters are organization-wide. Approved excludes orders already
// Completed so the status boxes add up to the total.
func (s *dashboardService) Get(ctx context.Context, actor *model.User) (*dto.DashboardResponse, error) {
	now := s.now()
	resp := &dto.DashboardResponse{}

	employees, err := s.repo.Dashboard.CountEmployees(ctx)
	if err != nil {
		s.logger.Error("count employees failed", zap.Error(err))
		return nil, err
	}
	resp.TotalEmployees = employees

	activity, err := s.repo.Dashboard.CountUsersByActivity(ctx)
	if err != nil {
		s.logger.Error("count user activity failed", zap.Error(err))
		return nil, err
	}
	resp.ActiveUsers, resp.InactiveUsers = activity.Active, activity.Inactive

	byStatus, err := s.repo.Dashboard.CountTravelOrdersByStatus(ctx)
	if err != nil {
		s.logger.Error("count travel orders by status failed", zap.Error(err))
		return nil, err
	}
	completed, err := s.repo.Dashboard.CountCompletedTravelOrders(ctx, now)
	if err != nil {
		s.logger.Error("count completed travel orders failed", zap.Error(err))
		return nil, err
	}
	resp.OpenRequests = byStatus[model.TravelOrderPending] + byStatus[model.TravelOrderRecommended]
	resp.Completed = completed
	resp.Approved = byStatus[model.TravelOrderApproved] - completed
	resp.Disapproved = byStatus[model.TravelOrderRejected]
	resp.Cancelled = byStatus[model.TravelOrderCancelled]

	recent, err := s.recent(ctx, actor)
	if err != nil {
		s.logger.Error("list recent travel orders failed", zap.Error(err))
		return nil, err
	}
	for i := range recent {
		o := &recent[i]
		row := dto.RecentTravelOrder{
			ID:          o.ID,
			TONumber:    o.TONumber,
			Destination: o.Destination,
			UpdatedAt:   o.UpdatedAt,
			Display:     StatusDisplayFor(o, now),
		}
		if o.Employee != nil {
			row.EmployeeName = o.Employee.FullName()
		}
		resp.Recent = append(resp.Recent, row)
	}
	return resp, nil
}

// recent privileged roles see the latest activity overall, others their own orders
func (s *dashboardService) recent(ctx context.Context, actor *model.User) ([]model.TravelOrder, error) {
	if actor == nil || actor.HasRole(privilegedRoles...) {
		return s.repo.Dashboard.ListRecentTravelOrders(ctx, recentTravelOrders)
	}
	filters := &repository.TravelOrderListFilters{OwnerUserID: actor.ID}
	if actor.EmployeeID != nil {
		filters.OwnerEmployeeID = *actor.EmployeeID
	}
	orders, _, err := s.repo.TravelOrder.List(ctx, filters, 0, recentTravelOrders)
	return orders, err
}
