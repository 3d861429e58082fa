package model

// Role names seeded at initialization
const (
	RoleEmployee      = "Employee"
	RoleRecommender   = "Recommender"
	RoleApprover      = "Approver"
	RoleAdministrator = "Administrator"
)

// Role account role (roles)
type Role struct {
	BaseModel
	Name        string `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text"                             json:"description,omitempty"`
}

// TableName table name
func (Role) TableName() string { return "roles" }
