package dto

import "time"

// DashboardResponse dashboard counters and recent activity
type DashboardResponse struct {
	TotalEmployees int64
	ActiveUsers    int64
	InactiveUsers  int64
	OpenRequests   int64
	Approved       int64
	Disapproved    int64
	Completed      int64
	Cancelled      int64
	Recent         []RecentTravelOrder
}

// RecentTravelOrder one row of the recent activity list
type RecentTravelOrder struct {
	ID           string
	TONumber     string
	EmployeeName string
	Destination  string
	UpdatedAt    time.Time
	Display      StatusDisplay
}
