package models

import "time"

// Default values applied when the caller or the stored row leaves a column empty.
const (
	DefaultProjectPriority = "Medium"
	DefaultProjectStatus   = "Planning"

	ProjectStatusCompleted = "Completed"
)

type Project struct {
	ProjectID      string     `json:"projectId"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	StartDate      time.Time  `json:"startDate"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	Budget         float64    `json:"budget"`
	CustomerID     string     `json:"customerId"`
	ProjectManager string     `json:"projectManager"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
}

// Duration returns the whole number of days between the start and end date,
// or nil while the project has no end date.
func (p *Project) Duration() *int {
	if p.EndDate == nil {
		return nil
	}
	days := int(p.EndDate.Sub(p.StartDate).Hours() / 24)
	return &days
}

// IsOverdue reports whether the end date has passed without the project
// reaching the "Completed" status.
func (p *Project) IsOverdue() bool {
	if p.EndDate == nil {
		return false
	}
	return p.EndDate.Before(time.Now()) && p.Status != ProjectStatusCompleted
}
