package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Gender values accepted for employees
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Employee employee profile (employees)
//
// The account link lives on users.employee_id; an employee does not point back.
type Employee struct {
	BaseModel
	FirstName          string          `gorm:"type:varchar(100);not null;uniqueIndex:uq_employees_full_name,priority:1" json:"first_name"`
	MiddleName         string          `gorm:"type:varchar(100)"                                                      json:"middle_name,omitempty"`
	LastName           string          `gorm:"type:varchar(100);not null;uniqueIndex:uq_employees_full_name,priority:2" json:"last_name"`
	Phone              string          `gorm:"type:varchar(20)"                                                       json:"phone,omitempty"`
	Address            string          `gorm:"type:text"                                                              json:"address,omitempty"`
	Birthdate          *time.Time      `gorm:"type:date"                                                              json:"birthdate,omitempty"`
	Gender             string          `gorm:"type:varchar(10);not null"                                              json:"gender"`
	DateHired          *time.Time      `gorm:"type:date"                                                              json:"date_hired,omitempty"`
	PositionID         string          `gorm:"type:uuid;not null;index"                                               json:"position_id"`
	DivSecUnitID       string          `gorm:"type:uuid;not null;index"                                               json:"div_sec_unit_id"`
	EmploymentStatusID string          `gorm:"type:uuid;not null;index"                                               json:"employment_status_id"`
	Salary             decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"                                  json:"salary"`

	Position         *Position         `gorm:"foreignKey:PositionID"         json:"position,omitempty"`
	DivSecUnit       *DivSecUnit       `gorm:"foreignKey:DivSecUnitID"       json:"div_sec_unit,omitempty"`
	EmploymentStatus *EmploymentStatus `gorm:"foreignKey:EmploymentStatusID" json:"employment_status,omitempty"`
}

// TableName table name
func (Employee) TableName() string { return "employees" }

// FullName "First M. Last"
func (e *Employee) FullName() string {
	parts := []string{e.FirstName}
	if m := strings.TrimSpace(e.MiddleName); m != "" {
		parts = append(parts, string([]rune(m)[0])+".")
	}
	parts = append(parts, e.LastName)
	return strings.Join(parts, " ")
}
