package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brandon3sican/to-system/internal/model"
	pkgerrors "github.com/brandon3sican/to-system/pkg/errors"
)

// TravelOrderListFilters travel order list filters
type TravelOrderListFilters struct {
	Status       model.TravelOrderStatus
	Search       string // TO number, destination, purpose or employee name
	DivSecUnitID string // employee's division/section/unit
	// OwnerUserID/OwnerEmployeeID restrict to orders the caller filed or travels on
	OwnerUserID     string
	OwnerEmployeeID string
}

// TravelOrderRepository travel order and audit log data access
type TravelOrderRepository interface {
	Create(ctx context.Context, order *model.TravelOrder) error
	GetByID(ctx context.Context, id string) (*model.TravelOrder, error)
	GetDetail(ctx context.Context, id string) (*model.TravelOrder, error)
	List(ctx context.Context, filters *TravelOrderListFilters, offset, limit int) ([]model.TravelOrder, int64, error)
	// UpdateWorkflow compare-and-sets status and actor columns on (status, version)
	UpdateWorkflow(ctx context.Context, order *model.TravelOrder, fromStatus model.TravelOrderStatus) error
	NextTONumber(ctx context.Context, year int) (string, error)
	CreateLog(ctx context.Context, log *model.TravelOrderLog) error
	ListLogs(ctx context.Context, orderID string) ([]model.TravelOrderLog, error)
}

type travelOrderRepo struct {
	db *gorm.DB
}

// NewTravelOrderRepo creates a TravelOrderRepository
func NewTravelOrderRepo(db *gorm.DB) TravelOrderRepository {
	return &travelOrderRepo{db: db}
}

func (r *travelOrderRepo) Create(ctx context.Context, order *model.TravelOrder) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *travelOrderRepo) GetByID(ctx context.Context, id string) (*model.TravelOrder, error) {
	if !isUUID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var order model.TravelOrder
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *travelOrderRepo) GetDetail(ctx context.Context, id string) (*model.TravelOrder, error) {
	if !isUUID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var order model.TravelOrder
	err := r.db.WithContext(ctx).
		Preload("Employee.Position").
		Preload("Employee.DivSecUnit").
		Preload("OfficialStation").
		Preload("Creator.Employee").
		Preload("Recommender.Employee").
		Preload("Approver.Employee").
		Preload("Logs", func(db *gorm.DB) *gorm.DB {
			return db.Order("travel_order_logs.created_at ASC")
		}).
		Preload("Logs.Performer.Employee").
		Where("travel_orders.id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *travelOrderRepo) List(ctx context.Context, filters *TravelOrderListFilters, offset, limit int) ([]model.TravelOrder, int64, error) {
	var orders []model.TravelOrder
	var total int64

	db := r.applyFilters(r.db.WithContext(ctx).Model(&model.TravelOrder{}), filters)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(db.Preload("Employee").Preload("OfficialStation"), offset, limit).
		Order("travel_orders.created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *travelOrderRepo) UpdateWorkflow(ctx context.Context, order *model.TravelOrder, fromStatus model.TravelOrderStatus) error {
	oldVersion := order.Version
	result := r.db.WithContext(ctx).
		Model(&model.TravelOrder{}).
		Where("id = ? AND version = ? AND status = ?", order.ID, oldVersion, fromStatus).
		Updates(map[string]interface{}{
			"status":         order.Status,
			"recommended_by": order.RecommendedBy,
			"approved_by":    order.ApprovedBy,
			"remarks":        order.Remarks,
			"version":        oldVersion + 1,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	order.Version = oldVersion + 1
	return nil
}

// NextTONumber returns the next "YYYY-NNN" number for year.
// Concurrent callers can collide; the unique index on to_number rejects the loser.
func (r *travelOrderRepo) NextTONumber(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("%d-", year)

	var last []string
	err := r.db.WithContext(ctx).
		Model(&model.TravelOrder{}).
		Where("to_number LIKE ?", prefix+"%").
		Order("LENGTH(to_number) DESC, to_number DESC").
		Limit(1).
		Pluck("to_number", &last).Error
	if err != nil {
		return "", err
	}

	next := 1
	if len(last) > 0 {
		n, err := strconv.Atoi(strings.TrimPrefix(last[0], prefix))
		if err != nil {
			return "", fmt.Errorf("malformed travel order number %q: %w", last[0], err)
		}
		next = n + 1
	}
	return fmt.Sprintf("%s%03d", prefix, next), nil
}

func (r *travelOrderRepo) CreateLog(ctx context.Context, log *model.TravelOrderLog) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(log).Error
}

func (r *travelOrderRepo) ListLogs(ctx context.Context, orderID string) ([]model.TravelOrderLog, error) {
	var logs []model.TravelOrderLog
	err := r.db.WithContext(ctx).
		Preload("Performer.Employee").
		Where("travel_order_id = ?", orderID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

// ── helpers ──

func (r *travelOrderRepo) applyFilters(db *gorm.DB, f *TravelOrderListFilters) *gorm.DB {
	if f == nil {
		return db
	}
	if f.Status != "" {
		db = db.Where("travel_orders.status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := likePattern(strings.ToLower(s))
		db = db.Where(
			"LOWER(travel_orders.to_number) LIKE ? OR LOWER(travel_orders.destination) LIKE ? OR LOWER(travel_orders.purpose) LIKE ? "+
				"OR EXISTS (SELECT 1 FROM employees e WHERE e.id = travel_orders.employee_id "+
				"AND (LOWER(e.first_name) LIKE ? OR LOWER(e.last_name) LIKE ?))",
			p, p, p, p, p,
		)
	}
	if f.DivSecUnitID != "" {
		if !isUUID(f.DivSecUnitID) {
			return db.Where("1 = 0")
		}
		db = db.Where(
			"EXISTS (SELECT 1 FROM employees e WHERE e.id = travel_orders.employee_id AND e.div_sec_unit_id = ?)",
			f.DivSecUnitID,
		)
	}
	switch {
	case f.OwnerUserID != "" && f.OwnerEmployeeID != "":
		db = db.Where("travel_orders.created_by = ? OR travel_orders.employee_id = ?", f.OwnerUserID, f.OwnerEmployeeID)
	case f.OwnerUserID != "":
		db = db.Where("travel_orders.created_by = ?", f.OwnerUserID)
	}
	return db
}
