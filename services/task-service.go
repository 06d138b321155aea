package services

import (
	"context"
	"strings"
	"time"

	"accounting-platform/plugins/projectmgmt-service/db"
	"accounting-platform/plugins/projectmgmt-service/events"
	"accounting-platform/plugins/projectmgmt-service/logging"
	"accounting-platform/plugins/projectmgmt-service/models"
)

// TaskInput is the creation payload for a task. Hierarchy is expressed through
// ParentTaskID; no cycle check is performed.
type TaskInput struct {
	ProjectID      string     `json:"projectId"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	AssignedTo     *string    `json:"assignedTo,omitempty"`
	ParentTaskID   *string    `json:"parentTaskId,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	EstimatedHours float64    `json:"estimatedHours"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
}

// CreateTask validates the references, assigns the next task ID, persists the
// row and publishes a task-created event. Task dates are stored as given; no
// ordering is enforced between them.
func (s *ProjectService) CreateTask(ctx context.Context, input TaskInput) (*models.Task, error) {
	logging.Logger.Infof("Event ID: CREATE_TASK, Description: Creating task '%s' in project '%s'", input.Name, input.ProjectID)

	if strings.TrimSpace(input.ProjectID) == "" {
		return nil, models.NewError("task project ID is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, models.NewError("task name is required")
	}

	if _, err := s.GetProject(ctx, input.ProjectID); err != nil {
		return nil, err
	}
	if input.AssignedTo != nil {
		if _, err := s.Directory.GetEmployee(ctx, *input.AssignedTo); err != nil {
			return nil, err
		}
	}
	if input.ParentTaskID != nil {
		if _, err := s.GetTask(ctx, *input.ParentTaskID); err != nil {
			return nil, err
		}
	}

	taskID, err := s.nextID(ctx, "project_tasks", "task_id")
	if err != nil {
		return nil, models.WrapError("failed to assign task ID", err)
	}

	task := &models.Task{
		TaskID:         taskID,
		ProjectID:      input.ProjectID,
		ParentTaskID:   input.ParentTaskID,
		Name:           input.Name,
		Description:    input.Description,
		AssignedTo:     input.AssignedTo,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		EstimatedHours: input.EstimatedHours,
		Priority:       defaultIfEmpty(input.Priority, models.DefaultTaskPriority),
		Status:         defaultIfEmpty(input.Status, models.DefaultTaskStatus),
	}

	_, err = s.Database.ExecuteWrite(ctx,
		`INSERT INTO project_tasks (task_id, project_id, parent_task_id, name, description, assigned_to, start_date, end_date, estimated_hours, actual_hours, progress, priority, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.TaskID, task.ProjectID, textArg(task.ParentTaskID),
		task.Name, task.Description, textArg(task.AssignedTo),
		timeArg(task.StartDate), timeArg(task.EndDate),
		task.EstimatedHours, task.ActualHours, task.Progress,
		task.Priority, task.Status)
	if err != nil {
		return nil, models.WrapError("failed to create task", err)
	}

	s.Publisher.Publish(events.NewTaskCreated(task))
	return task, nil
}

// GetTask loads a single task by ID, applying column defaults for rows with
// NULL optional columns.
func (s *ProjectService) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	row, err := s.Database.FetchOne(ctx,
		`SELECT task_id, project_id, parent_task_id, name, description, assigned_to, start_date, end_date, estimated_hours, actual_hours, progress, priority, status
		 FROM project_tasks WHERE task_id = ?`, taskID)
	if err != nil {
		return nil, models.WrapError("failed to fetch task", err)
	}
	if row == nil {
		return nil, models.NewError("task not found: %s", taskID)
	}

	return taskFromRow(row), nil
}

// UpdateTaskProgress sets the clamped progress and the raw status on an
// existing task and persists them. The update also writes the task's stored
// actual hours back unchanged; this call never modifies them.
func (s *ProjectService) UpdateTaskProgress(ctx context.Context, taskID string, progress float64, status string) (*models.Task, error) {
	logging.Logger.Infof("Event ID: UPDATE_TASK_PROGRESS, Description: Updating progress of task '%s' to %.1f", taskID, progress)

	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	task.SetProgress(progress)
	task.Status = status

	_, err = s.Database.ExecuteWrite(ctx,
		`UPDATE project_tasks SET progress = ?, status = ?, actual_hours = ? WHERE task_id = ?`,
		task.Progress, task.Status, task.ActualHours, task.TaskID)
	if err != nil {
		return nil, models.WrapError("failed to update task progress", err)
	}

	s.Publisher.Publish(events.NewTaskProgressUpdated(task))
	return task, nil
}

// GetProjectTasks returns every task of a project grouped by parent task and
// ordered by task ID within each group. Building a tree view from the flat
// list is left to the caller.
func (s *ProjectService) GetProjectTasks(ctx context.Context, projectID string) ([]*models.Task, error) {
	rows, err := s.Database.FetchAll(ctx,
		`SELECT task_id, project_id, parent_task_id, name, description, assigned_to, start_date, end_date, estimated_hours, actual_hours, progress, priority, status
		 FROM project_tasks WHERE project_id = ? ORDER BY parent_task_id, task_id`, projectID)
	if err != nil {
		return nil, models.WrapError("failed to fetch project tasks", err)
	}

	tasks := make([]*models.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, taskFromRow(row))
	}
	return tasks, nil
}

func taskFromRow(row db.Row) *models.Task {
	task := &models.Task{
		TaskID:         row.Text("task_id"),
		ProjectID:      row.Text("project_id"),
		Name:           row.Text("name"),
		Description:    row.Text("description"),
		EstimatedHours: row.Float("estimated_hours"),
		ActualHours:    row.Float("actual_hours"),
		Progress:       row.Float("progress"),
		Priority:       defaultIfEmpty(row.Text("priority"), models.DefaultTaskPriority),
		Status:         defaultIfEmpty(row.Text("status"), models.DefaultTaskStatus),
	}
	if parent := row.Text("parent_task_id"); parent != "" {
		task.ParentTaskID = &parent
	}
	if assigned := row.Text("assigned_to"); assigned != "" {
		task.AssignedTo = &assigned
	}
	if start, ok := row.Time("start_date"); ok {
		startDate := start
		task.StartDate = &startDate
	}
	if end, ok := row.Time("end_date"); ok {
		endDate := end
		task.EndDate = &endDate
	}
	return task
}

// textArg renders an optional text column argument, keeping NULL for absent
// values.
func textArg(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
