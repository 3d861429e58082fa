package dto

// CreateTravelOrderRequest travel order form.
// EmployeeID is honoured for administrators; everyone else files for themselves.
type CreateTravelOrderRequest struct {
	EmployeeID        string `form:"employee_id"         validate:"omitempty,uuid"`
	OfficialStationID string `form:"official_station_id" validate:"required,uuid"`
	Destination       string `form:"destination"         validate:"required,max=255"`
	Purpose           string `form:"purpose"             validate:"required,max=2000"`
	DepartureDate     string `form:"departure_date"      validate:"required,datetime=2006-01-02"`
	ArrivalDate       string `form:"arrival_date"        validate:"required,datetime=2006-01-02"`
	ReturnDate        string `form:"return_date"         validate:"required,datetime=2006-01-02"`
	PerDiem           bool   `form:"per_diem"`
	Assistant         int    `form:"assistant"           validate:"min=0,max=99"`
	Appropriation     string `form:"appropriation"       validate:"omitempty,max=255"`
	Remarks           string `form:"remarks"             validate:"omitempty,max=2000"`
}

// TravelOrderActionRequest notes attached to a workflow transition
type TravelOrderActionRequest struct {
	Notes string `form:"notes" validate:"omitempty,max=1000"`
}

// TravelOrderListRequest travel order list query
type TravelOrderListRequest struct {
	PaginationRequest
	Status       string `form:"status"`
	Search       string `form:"search"`
	DivSecUnitID string `form:"div_sec_unit_id"`
}

// TravelOrderFormData reference data for the travel order form
type TravelOrderFormData struct {
	Employees        []Option
	OfficialStations []Option
	DivSecUnits      []Option
	CanPickEmployee  bool
}

// StatusDisplay presentation of a travel order status
type StatusDisplay struct {
	Label   string `json:"label"`
	Class   string `json:"class"`
	Icon    string `json:"icon"`
	Text    string `json:"text"`
	Message string `json:"message"`
}
