package events

import (
	"fmt"
	"time"

	"accounting-platform/plugins/projectmgmt-service/models"

	"github.com/google/uuid"
)

// Kind tags which entity changed and how.
type Kind string

const (
	KindProjectCreated      Kind = "project.created"
	KindTaskCreated         Kind = "task.created"
	KindEmployeeAssigned    Kind = "project.assignment.created"
	KindTaskProgressUpdated Kind = "task.progress.updated"
)

// Event is a passive notification payload dispatched after a successful
// mutation. Exactly one of the entity snapshot fields is set, matching Kind.
type Event struct {
	EventID    string                    `json:"eventId"`
	Kind       Kind                      `json:"kind"`
	OccurredAt time.Time                 `json:"occurredAt"`
	Project    *models.Project           `json:"project,omitempty"`
	Task       *models.Task              `json:"task,omitempty"`
	Assignment *models.ProjectAssignment `json:"assignment,omitempty"`
}

// Publisher delivers events fire-and-forget; implementations must never fail
// the mutation that produced the event.
type Publisher interface {
	Publish(event Event)
}

func newEvent(kind Kind) Event {
	return Event{
		EventID:    uuid.New().String(),
		Kind:       kind,
		OccurredAt: time.Now(),
	}
}

func NewProjectCreated(project *models.Project) Event {
	event := newEvent(KindProjectCreated)
	event.Project = project
	return event
}

func NewTaskCreated(task *models.Task) Event {
	event := newEvent(KindTaskCreated)
	event.Task = task
	return event
}

func NewEmployeeAssigned(assignment *models.ProjectAssignment) Event {
	event := newEvent(KindEmployeeAssigned)
	event.Assignment = assignment
	return event
}

func NewTaskProgressUpdated(task *models.Task) Event {
	event := newEvent(KindTaskProgressUpdated)
	event.Task = task
	return event
}

// ProjectID returns the project the event concerns, regardless of kind.
func (e Event) ProjectID() string {
	switch {
	case e.Project != nil:
		return e.Project.ProjectID
	case e.Task != nil:
		return e.Task.ProjectID
	case e.Assignment != nil:
		return e.Assignment.ProjectID
	}
	return ""
}

// EmployeeID returns the assigned employee for assignment events.
func (e Event) EmployeeID() string {
	if e.Assignment != nil {
		return e.Assignment.EmployeeID
	}
	return ""
}

// Role returns the assignment role for assignment events.
func (e Event) Role() string {
	if e.Assignment != nil {
		return e.Assignment.Role
	}
	return ""
}

// Message renders a human-readable notification line for the event.
func (e Event) Message() string {
	switch e.Kind {
	case KindProjectCreated:
		return fmt.Sprintf("Project %s (%s) created", e.Project.ProjectID, e.Project.Name)
	case KindTaskCreated:
		return fmt.Sprintf("Task %s (%s) created in project %s", e.Task.TaskID, e.Task.Name, e.Task.ProjectID)
	case KindEmployeeAssigned:
		return fmt.Sprintf("Employee %s assigned to project %s as %s", e.EmployeeID(), e.ProjectID(), e.Role())
	case KindTaskProgressUpdated:
		return fmt.Sprintf("Task %s progress updated to %.0f%% (%s)", e.Task.TaskID, e.Task.Progress, e.Task.Status)
	}
	return string(e.Kind)
}
