package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TravelOrderStatus persisted workflow state
type TravelOrderStatus string

const (
	TravelOrderPending     TravelOrderStatus = "Pending"
	TravelOrderRecommended TravelOrderStatus = "Recommended"
	TravelOrderApproved    TravelOrderStatus = "Approved"
	TravelOrderRejected    TravelOrderStatus = "Rejected"
	TravelOrderCancelled   TravelOrderStatus = "Cancelled"
)

// TravelOrderStatuses every persisted status, in workflow order
var TravelOrderStatuses = []TravelOrderStatus{
	TravelOrderPending,
	TravelOrderRecommended,
	TravelOrderApproved,
	TravelOrderRejected,
	TravelOrderCancelled,
}

// Valid reports whether s is a persisted status
func (s TravelOrderStatus) Valid() bool {
	for _, v := range TravelOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Log action types
const (
	ActionCreated     = "created"
	ActionRecommended = "recommended"
	ActionApproved    = "approved"
	ActionRejected    = "rejected"
	ActionCancelled   = "cancelled"
)

// TravelOrder travel_orders
type TravelOrder struct {
	VersionedModel
	TONumber          string            `gorm:"column:to_number;type:varchar(20);not null;uniqueIndex" json:"to_number"`
	EmployeeID        string            `gorm:"type:uuid;not null;index"                               json:"employee_id"`
	OfficialStationID string            `gorm:"type:uuid;not null"                                     json:"official_station_id"`
	Destination       string            `gorm:"type:varchar(255);not null"                             json:"destination"`
	Purpose           string            `gorm:"type:text;not null"                                     json:"purpose"`
	DepartureDate     time.Time         `gorm:"type:date;not null"                                     json:"departure_date"`
	ArrivalDate       time.Time         `gorm:"type:date;not null"                                     json:"arrival_date"`
	ReturnDate        time.Time         `gorm:"type:date;not null"                                     json:"return_date"`
	PerDiem           bool              `gorm:"not null;default:false"                                 json:"per_diem"`
	Assistant         int               `gorm:"not null;default:0"                                     json:"assistant"`
	Appropriation     string            `gorm:"type:varchar(255)"                                      json:"appropriation,omitempty"`
	Status            TravelOrderStatus `gorm:"type:varchar(20);not null;default:'Pending';index"      json:"status"`
	Remarks           string            `gorm:"type:text"                                              json:"remarks,omitempty"`
	CreatedBy         *string           `gorm:"type:uuid"                                              json:"created_by,omitempty"`
	RecommendedBy     *string           `gorm:"type:uuid"                                              json:"recommended_by,omitempty"`
	ApprovedBy        *string           `gorm:"type:uuid"                                              json:"approved_by,omitempty"`

	Employee        *Employee        `gorm:"foreignKey:EmployeeID"        json:"employee,omitempty"`
	OfficialStation *OfficialStation `gorm:"foreignKey:OfficialStationID" json:"official_station,omitempty"`
	Creator         *User            `gorm:"foreignKey:CreatedBy"         json:"creator,omitempty"`
	Recommender     *User            `gorm:"foreignKey:RecommendedBy"     json:"recommender,omitempty"`
	Approver        *User            `gorm:"foreignKey:ApprovedBy"        json:"approver,omitempty"`
	Logs            []TravelOrderLog `gorm:"foreignKey:TravelOrderID"     json:"logs,omitempty"`
}

// TableName table name
func (TravelOrder) TableName() string { return "travel_orders" }

// IsCompleted an approved order whose return date has passed.
// Completed is a display state only and never persisted.
func (t *TravelOrder) IsCompleted(now time.Time) bool {
	if t.Status != TravelOrderApproved {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	ret := time.Date(t.ReturnDate.Year(), t.ReturnDate.Month(), t.ReturnDate.Day(), 0, 0, 0, 0, now.Location())
	return ret.Before(today)
}

// TravelOrderLog append-only audit trail (travel_order_logs)
type TravelOrderLog struct {
	ID            string    `gorm:"type:uuid;primaryKey"                                      json:"id"`
	TravelOrderID string    `gorm:"type:uuid;not null;index:idx_travel_order_logs_order_created,priority:1" json:"travel_order_id"`
	ActionType    string    `gorm:"type:varchar(50);not null"                                 json:"action_type"`
	PerformedBy   *string   `gorm:"type:uuid"                                                 json:"performed_by,omitempty"`
	Notes         string    `gorm:"type:text"                                                 json:"notes,omitempty"`
	CreatedAt     time.Time `gorm:"not null;index:idx_travel_order_logs_order_created,priority:2" json:"created_at"`

	Performer *User `gorm:"foreignKey:PerformedBy" json:"performer,omitempty"`
}

// TableName table name
func (TravelOrderLog) TableName() string { return "travel_order_logs" }

// BeforeCreate assigns the log id
func (l *TravelOrderLog) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
