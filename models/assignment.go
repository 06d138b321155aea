package models

import "time"

const (
	DefaultAssignmentRole       = "Team Member"
	DefaultAllocationPercentage = 100
)

// ProjectAssignment is a time-bounded association of an employee to a project.
// Its identity is (ProjectID, EmployeeID, StartDate); expired rows for the same
// pair are kept as history.
type ProjectAssignment struct {
	ProjectID            string     `json:"projectId"`
	EmployeeID           string     `json:"employeeId"`
	Role                 string     `json:"role"`
	StartDate            time.Time  `json:"startDate"`
	EndDate              *time.Time `json:"endDate,omitempty"`
	AllocationPercentage float64    `json:"allocationPercentage"`
}

// SetAllocationPercentage stores the value clamped into [0,100].
func (a *ProjectAssignment) SetAllocationPercentage(percentage float64) {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	a.AllocationPercentage = percentage
}

// IsActive reports whether the current time falls inside the assignment
// window. An assignment with no end date is open-ended.
func (a *ProjectAssignment) IsActive() bool {
	now := time.Now()
	if now.Before(a.StartDate) {
		return false
	}
	return a.EndDate == nil || !a.EndDate.Before(now)
}
