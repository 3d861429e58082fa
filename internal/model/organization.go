package model

// DivSecUnit division / section / unit (div_sec_units)
type DivSecUnit struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text"                              json:"description,omitempty"`
}

// TableName table name
func (DivSecUnit) TableName() string { return "div_sec_units" }

// Position job position inside a DivSecUnit (positions)
type Position struct {
	BaseModel
	Name         string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	DivSecUnitID string `gorm:"type:uuid;not null;index"               json:"div_sec_unit_id"`

	DivSecUnit *DivSecUnit `gorm:"foreignKey:DivSecUnitID" json:"div_sec_unit,omitempty"`
}

// TableName table name
func (Position) TableName() string { return "positions" }

// EmploymentStatusActive is the status counted as an active account on the dashboard
const EmploymentStatusActive = "Active"

// EmploymentStatus employment_statuses
type EmploymentStatus struct {
	BaseModel
	Name        string `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text"                             json:"description,omitempty"`
}

// TableName table name
func (EmploymentStatus) TableName() string { return "employment_statuses" }

// OfficialStation origin station of a travel order (official_stations)
type OfficialStation struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Address     string `gorm:"type:text"                              json:"address,omitempty"`
	Description string `gorm:"type:text"                              json:"description,omitempty"`
}

// TableName table name
func (OfficialStation) TableName() string { return "official_stations" }
