package models

import "time"

const (
	DefaultTaskPriority = "Medium"
	DefaultTaskStatus   = "Not Started"

	TaskStatusCompleted = "Completed"
)

type Task struct {
	TaskID         string     `json:"taskId"`
	ProjectID      string     `json:"projectId"`
	ParentTaskID   *string    `json:"parentTaskId,omitempty"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	AssignedTo     *string    `json:"assignedTo,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	EstimatedHours float64    `json:"estimatedHours"`
	ActualHours    float64    `json:"actualHours"`
	Progress       float64    `json:"progress"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
}

// SetProgress stores the value clamped into [0,100].
func (t *Task) SetProgress(progress float64) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	t.Progress = progress
}

// IsCompleted reports whether the task is finished, either by status or by
// progress reaching 100 percent.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted || t.Progress >= 100
}

// IsOverdue reports whether the end date has passed without the task completing.
func (t *Task) IsOverdue() bool {
	if t.EndDate == nil {
		return false
	}
	return t.EndDate.Before(time.Now()) && !t.IsCompleted()
}

// Duration returns the whole number of days between the start and end date,
// or nil unless both are set.
func (t *Task) Duration() *int {
	if t.StartDate == nil || t.EndDate == nil {
		return nil
	}
	days := int(t.EndDate.Sub(*t.StartDate).Hours() / 24)
	return &days
}
