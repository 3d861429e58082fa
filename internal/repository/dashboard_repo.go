package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/brandon3sican/to-system/internal/model"
)

// UserActivityCounts accounts split by the linked employee's status
type UserActivityCounts struct {
	Active   int64
	Inactive int64
}

// DashboardRepository read-only aggregates for the dashboard
type DashboardRepository interface {
	CountEmployees(ctx context.Context) (int64, error)
	CountUsersByActivity(ctx context.Context) (*UserActivityCounts, error)
	CountTravelOrdersByStatus(ctx context.Context) (map[model.TravelOrderStatus]int64, error)
	CountCompletedTravelOrders(ctx context.Context, today time.Time) (int64, error)
	ListRecentTravelOrders(ctx context.Context, limit int) ([]model.TravelOrder, error)
}

type dashboardRepo struct {
	db *gorm.DB
}

// NewDashboardRepo creates a DashboardRepository
func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db: db}
}

func (r *dashboardRepo) CountEmployees(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Employee{}).Count(&count).Error
	return count, err
}

// CountUsersByActivity counts accounts whose employee is "Active" (or that have
// no employee record, i.e. administrators) as active; all others as inactive.
func (r *dashboardRepo) CountUsersByActivity(ctx context.Context) (*UserActivityCounts, error) {
	var total, active int64

	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Joins("LEFT JOIN employees ON employees.id = users.employee_id").
		Joins("LEFT JOIN employment_statuses ON employment_statuses.id = employees.employment_status_id").
		Where("users.employee_id IS NULL OR employment_statuses.name = ?", model.EmploymentStatusActive).
		Count(&active).Error
	if err != nil {
		return nil, err
	}

	return &UserActivityCounts{Active: active, Inactive: total - active}, nil
}

func (r *dashboardRepo) CountTravelOrdersByStatus(ctx context.Context) (map[model.TravelOrderStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.TravelOrder{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.TravelOrderStatus]int64, len(model.TravelOrderStatuses))
	for _, s := range model.TravelOrderStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[model.TravelOrderStatus(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *dashboardRepo) CountCompletedTravelOrders(ctx context.Context, today time.Time) (int64, error) {
	var count int64
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	err := r.db.WithContext(ctx).
		Model(&model.TravelOrder{}).
		Where("status = ? AND return_date < ?", model.TravelOrderApproved, day).
		Count(&count).Error
	return count, err
}

func (r *dashboardRepo) ListRecentTravelOrders(ctx context.Context, limit int) ([]model.TravelOrder, error) {
	var orders []model.TravelOrder
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Order("updated_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
