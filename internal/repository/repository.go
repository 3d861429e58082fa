package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository aggregates every repository behind one handle
type Repository struct {
	db *gorm.DB

	Role             RoleRepository
	DivSecUnit       DivSecUnitRepository
	Position         PositionRepository
	EmploymentStatus EmploymentStatusRepository
	OfficialStation  OfficialStationRepository
	Employee         EmployeeRepository
	User             UserRepository
	TravelOrder      TravelOrderRepository
	Dashboard        DashboardRepository
}

// NewRepository builds the aggregate on db
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:               db,
		Role:             NewRoleRepo(db),
		DivSecUnit:       NewDivSecUnitRepo(db),
		Position:         NewPositionRepo(db),
		EmploymentStatus: NewEmploymentStatusRepo(db),
		OfficialStation:  NewOfficialStationRepo(db),
		Employee:         NewEmployeeRepo(db),
		User:             NewUserRepo(db),
		TravelOrder:      NewTravelOrderRepo(db),
		Dashboard:        NewDashboardRepo(db),
	}
}

// BeginTx starts a transaction. A Repository assembled without a database
// (in-memory fakes) returns a nil transaction; callers guard with tx != nil.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx returns a Repository whose members all run on tx
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// paginate normalizes offset/limit for list queries
func paginate(db *gorm.DB, offset, limit int) *gorm.DB {
	if offset > 0 {
		db = db.Offset(offset)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	return db
}

// likePattern wraps a keyword for a case-insensitive LIKE
func likePattern(keyword string) string {
	return "%" + keyword + "%"
}

// isUUID primary keys are canonical uuids; anything else cannot match a row
// and Postgres rejects it as a uuid literal
func isUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
