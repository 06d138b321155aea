package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"accounting-platform/plugins/projectmgmt-service/events"
	"accounting-platform/plugins/projectmgmt-service/models"
)

func validTaskInput(projectID string) TaskInput {
	return TaskInput{
		ProjectID:      projectID,
		Name:           "Chart of accounts import",
		Description:    "Load the opening balances",
		EstimatedHours: 16,
	}
}

func TestCreateTaskAppliesDefaultsAndAllocatesIDs(t *testing.T) {
	service, publisher, _ := newTestService(t)

	project, err := service.CreateProject(context.Background(), validProjectInput())
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	task, err := service.CreateTask(context.Background(), validTaskInput(project.ProjectID))
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	// Task identities run on their own counter, separate from projects.
	if task.TaskID != "1" {
		t.Fatalf("expected first task ID '1', got %q", task.TaskID)
	}
	if task.Priority != models.DefaultTaskPriority || task.Status != models.DefaultTaskStatus {
		t.Fatalf("expected default priority/status, got %q/%q", task.Priority, task.Status)
	}
	if task.Progress != 0 || task.ActualHours != 0 {
		t.Fatalf("fresh task should start at zero progress and actual hours")
	}

	second, err := service.CreateTask(context.Background(), validTaskInput(project.ProjectID))
	if err != nil {
		t.Fatalf("create second task: %v", err)
	}
	if second.TaskID != "2" {
		t.Fatalf("expected second task ID '2', got %q", second.TaskID)
	}

	event := publisher.last(t)
	if event.Kind != events.KindTaskCreated {
		t.Fatalf("expected %q event, got %q", events.KindTaskCreated, event.Kind)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	unknownEmployee := "E999"
	unknownParent := "999"

	cases := []struct {
		name   string
		mutate func(*TaskInput)
	}{
		{"missing project ID", func(in *TaskInput) { in.ProjectID = "" }},
		{"missing name", func(in *TaskInput) { in.Name = "" }},
		{"unknown project", func(in *TaskInput) { in.ProjectID = "999" }},
		{"unknown assignee", func(in *TaskInput) { in.AssignedTo = &unknownEmployee }},
		{"unknown parent task", func(in *TaskInput) { in.ParentTaskID = &unknownParent }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service, _, _ := newTestService(t)

			project, err := service.CreateProject(context.Background(), validProjectInput())
			if err != nil {
				t.Fatalf("create project: %v", err)
			}

			input := validTaskInput(project.ProjectID)
			tc.mutate(&input)

			_, err = service.CreateTask(context.Background(), input)
			if err == nil {
				t.Fatalf("expected a validation error")
			}
			var domainErr *models.ProjectManagementError
			if !errors.As(err, &domainErr) {
				t.Fatalf("expected a domain error, got %T: %v", err, err)
			}
		})
	}
}

func TestCreateTaskWithParentAndAssignee(t *testing.T) {
	service, _, _ := newTestService(t)

	project, err := service.CreateProject(context.Background(), validProjectInput())
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	parent, err := service.CreateTask(context.Background(), validTaskInput(project.ProjectID))
	if err != nil {
		t.Fatalf("create parent task: %v", err)
	}

	assignee := "E2"
	input := validTaskInput(project.ProjectID)
	input.Name = "Validate balances"
	input.ParentTaskID = &parent.TaskID
	input.AssignedTo = &assignee

	child, err := service.CreateTask(context.Background(), input)
	if err != nil {
		t.Fatalf("create child task: %v", err)
	}
	if child.ParentTaskID == nil || *child.ParentTaskID != parent.TaskID {
		t.Fatalf("expected parent %q, got %v", parent.TaskID, child.ParentTaskID)
	}
	if child.AssignedTo == nil || *child.AssignedTo != assignee {
		t.Fatalf("expected assignee %q, got %v", assignee, child.AssignedTo)
	}
}

func TestGetTaskRoundTrip(t *testing.T) {
	service, _, _ := newTestService(t)

	project, err := service.CreateProject(context.Background(), validProjectInput())
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	input := validTaskInput(project.ProjectID)
	input.StartDate = &start
	input.EndDate = &end
	input.Priority = "High"

	created, err := service.CreateTask(context.Background(), input)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	loaded, err := service.GetTask(context.Background(), created.TaskID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if loaded.Name != input.Name || loaded.Description != input.Description {
		t.Fatalf("loaded task text fields differ: %+v", loaded)
	}
	if loaded.StartDate == nil || !loaded.StartDate.Equal(start) {
		t.Fatalf("expected start date %v, got %v", start, loaded.StartDate)
	}
	if loaded.EndDate == nil || !loaded.EndDate.Equal(end) {
		t.Fatalf("expected end date %v, got %v", end, loaded.EndDate)
	}
	if loaded.EstimatedHours != input.EstimatedHours {
		t.Fatalf("expected estimated hours %v, got %v", input.EstimatedHours, loaded.EstimatedHours)
	}
	if loaded.ActualHours != 0 {
		t.Fatalf("actual hours should remain at the default 0 until a progress update, got %v", loaded.ActualHours)
	}
	if loaded.Priority != "High" || loaded.Status != models.DefaultTaskStatus {
		t.Fatalf("unexpected priority/status %q/%q", loaded.Priority, loaded.Status)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.GetTask(context.Background(), "999")
	if err == nil {
		t.Fatalf("expected a not-found error")
	}
	var domainErr *models.ProjectManagementError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected a domain error, got %T", err)
	}
}

func TestUpdateTaskProgressClampsAndKeepsActualHours(t *testing.T) {
	service, publisher, database := newTestService(t)

	project, err := service.CreateProject(context.Background(), validProjectInput())
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	task, err := service.CreateTask(context.Background(), validTaskInput(project.ProjectID))
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	// Simulate hours booked through another channel; the progress update must
	// write this stored value back untouched.
	if _, err := database.ExecuteWrite(context.Background(),
		"UPDATE project_tasks SET actual_hours = ? WHERE task_id = ?", 12.5, task.TaskID); err != nil {
		t.Fatalf("seed actual hours: %v", err)
	}

	updated, err := service.UpdateTaskProgress(context.Background(), task.TaskID, 150, "In Progress")
	if err != nil {
		t.Fatalf("update progress: %v", err)
	}
	if updated.Progress != 100 {
		t.Fatalf("expected progress clamped to 100, got %v", updated.Progress)
	}
	if updated.Status != "In Progress" {
		t.Fatalf("expected status 'In Progress', got %q", updated.Status)
	}

	reloaded, err := service.GetTask(context.Background(), task.TaskID)
	if err != nil {
		t.Fatalf("reload task: %v", err)
	}
	if reloaded.Progress != 100 || reloaded.Status != "In Progress" {
		t.Fatalf("stored progress/status wrong: %v/%q", reloaded.Progress, reloaded.Status)
	}
	if reloaded.ActualHours != 12.5 {
		t.Fatalf("expected actual hours to survive the update, got %v", reloaded.ActualHours)
	}

	event := publisher.last(t)
	if event.Kind != events.KindTaskProgressUpdated {
		t.Fatalf("expected %q event, got %q", events.KindTaskProgressUpdated, event.Kind)
	}
}

func TestUpdateTaskProgressNotFound(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.UpdateTaskProgress(context.Background(), "999", 50, "In Progress")
	if err == nil {
		t.Fatalf("expected a not-found error")
	}
}

func TestGetProjectTasksGroupedByParent(t *testing.T) {
	service, _, _ := newTestService(t)

	project, err := service.CreateProject(context.Background(), validProjectInput())
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	// Two root tasks, then one child under each, created out of order.
	rootA, err := service.CreateTask(context.Background(), validTaskInput(project.ProjectID)) // task 1
	if err != nil {
		t.Fatalf("create root A: %v", err)
	}
	rootB, err := service.CreateTask(context.Background(), validTaskInput(project.ProjectID)) // task 2
	if err != nil {
		t.Fatalf("create root B: %v", err)
	}

	childOfB := validTaskInput(project.ProjectID)
	childOfB.ParentTaskID = &rootB.TaskID
	if _, err := service.CreateTask(context.Background(), childOfB); err != nil { // task 3
		t.Fatalf("create child of B: %v", err)
	}

	childOfA := validTaskInput(project.ProjectID)
	childOfA.ParentTaskID = &rootA.TaskID
	if _, err := service.CreateTask(context.Background(), childOfA); err != nil { // task 4
		t.Fatalf("create child of A: %v", err)
	}

	tasks, err := service.GetProjectTasks(context.Background(), project.ProjectID)
	if err != nil {
		t.Fatalf("get project tasks: %v", err)
	}
	if len(tasks) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(tasks))
	}

	// Roots (NULL parent) come first by task ID, then children grouped by parent.
	wantIDs := []string{"1", "2", "4", "3"}
	for i, want := range wantIDs {
		if tasks[i].TaskID != want {
			t.Fatalf("position %d: expected task %q, got %q", i, want, tasks[i].TaskID)
		}
	}
}
