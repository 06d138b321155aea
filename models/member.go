package models

import "time"

// TeamMember is a read-only roster row: an active assignment joined with the
// employee's display fields. It is reporting output, not a persisted entity.
type TeamMember struct {
	EmployeeID           string     `json:"employeeId"`
	FirstName            string     `json:"firstName"`
	LastName             string     `json:"lastName"`
	Role                 string     `json:"role"`
	StartDate            time.Time  `json:"startDate"`
	EndDate              *time.Time `json:"endDate,omitempty"`
	AllocationPercentage float64    `json:"allocationPercentage"`
}
