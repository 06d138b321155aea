package models

import (
	"testing"
	"time"
)

func TestSetProgressClampsIntoRange(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"below range", -10, 0},
		{"above range", 150, 100},
		{"within range", 55, 55},
		{"lower bound", 0, 0},
		{"upper bound", 100, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := &Task{}
			task.SetProgress(tc.in)
			if task.Progress != tc.want {
				t.Fatalf("SetProgress(%v): expected %v, got %v", tc.in, tc.want, task.Progress)
			}
		})
	}
}

func TestTaskIsCompleted(t *testing.T) {
	task := &Task{Status: DefaultTaskStatus}
	if task.IsCompleted() {
		t.Fatalf("fresh task should not be completed")
	}

	task.Status = TaskStatusCompleted
	if !task.IsCompleted() {
		t.Fatalf("task with status %q should be completed", TaskStatusCompleted)
	}

	task = &Task{Status: "In Progress"}
	task.SetProgress(100)
	if !task.IsCompleted() {
		t.Fatalf("task at 100%% progress should be completed regardless of status")
	}
}

func TestTaskIsOverdue(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	future := time.Now().Add(48 * time.Hour)

	task := &Task{Status: "In Progress", EndDate: &past}
	if !task.IsOverdue() {
		t.Fatalf("task past its end date should be overdue")
	}

	task.Status = TaskStatusCompleted
	if task.IsOverdue() {
		t.Fatalf("completed task should not be overdue")
	}

	task = &Task{Status: "In Progress", EndDate: &past}
	task.SetProgress(100)
	if task.IsOverdue() {
		t.Fatalf("task at full progress should not be overdue")
	}

	task = &Task{Status: "In Progress", EndDate: &future}
	if task.IsOverdue() {
		t.Fatalf("task with a future end date should not be overdue")
	}

	task = &Task{Status: "In Progress"}
	if task.IsOverdue() {
		t.Fatalf("task without an end date should not be overdue")
	}
}

func TestTaskDuration(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	task := &Task{StartDate: &start, EndDate: &end}
	duration := task.Duration()
	if duration == nil || *duration != 7 {
		t.Fatalf("expected duration of 7 days, got %v", duration)
	}

	task = &Task{StartDate: &start}
	if task.Duration() != nil {
		t.Fatalf("task without an end date should have no duration")
	}

	task = &Task{EndDate: &end}
	if task.Duration() != nil {
		t.Fatalf("task without a start date should have no duration")
	}
}
