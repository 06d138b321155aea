package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"accounting-platform/plugins/projectmgmt-service/db"
	"accounting-platform/plugins/projectmgmt-service/employees"
	"accounting-platform/plugins/projectmgmt-service/events"
	"accounting-platform/plugins/projectmgmt-service/logging"
	"accounting-platform/plugins/projectmgmt-service/models"
)

// ProjectService orchestrates validation, identity assignment, persistence and
// event dispatch for projects, tasks and assignments. The database row is the
// single source of truth; entities are rehydrated on every read, never cached.
type ProjectService struct {
	Database  *db.Database
	Directory employees.Directory
	Publisher events.Publisher
}

func NewProjectService(database *db.Database, directory employees.Directory, publisher events.Publisher) *ProjectService {
	return &ProjectService{
		Database:  database,
		Directory: directory,
		Publisher: publisher,
	}
}

// ProjectInput is the creation payload for a project. Optional fields left at
// their zero value receive the documented defaults.
type ProjectInput struct {
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

// AssignmentInput is the payload for assigning an employee to a project.
type AssignmentInput struct {
	Role                 string     `json:"role"`
	StartDate            *time.Time `json:"startDate,omitempty"`
	EndDate              *time.Time `json:"endDate,omitempty"`
	AllocationPercentage *float64   `json:"allocationPercentage,omitempty"`
}

// CreateProject validates the input, assigns the next project ID, persists the
// row and publishes a project-created event.
func (s *ProjectService) CreateProject(ctx context.Context, input ProjectInput) (*models.Project, error) {
	logging.Logger.Infof("Event ID: CREATE_PROJECT, Description: Creating project '%s'", input.Name)

	if strings.TrimSpace(input.Name) == "" {
		return nil, models.NewError("project name is required")
	}
	if input.StartDate.IsZero() {
		return nil, models.NewError("project start date is required")
	}
	if strings.TrimSpace(input.ProjectManager) == "" {
		return nil, models.NewError("project manager is required")
	}

	if _, err := s.Directory.GetEmployee(ctx, input.ProjectManager); err != nil {
		return nil, err
	}

	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return nil, models.NewError("project end date must not be before the start date")
	}

	projectID, err := s.nextID(ctx, "projects", "project_id")
	if err != nil {
		return nil, models.WrapError("failed to assign project ID", err)
	}

	project := &models.Project{
		ProjectID:      projectID,
		Name:           input.Name,
		Description:    input.Description,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Budget:         input.Budget,
		CustomerID:     input.CustomerID,
		ProjectManager: input.ProjectManager,
		Priority:       defaultIfEmpty(input.Priority, models.DefaultProjectPriority),
		Status:         defaultIfEmpty(input.Status, models.DefaultProjectStatus),
	}

	_, err = s.Database.ExecuteWrite(ctx,
		`INSERT INTO projects (project_id, name, description, start_date, end_date, budget, customer_id, project_manager, priority, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ProjectID, project.Name, project.Description,
		db.FormatTime(project.StartDate), timeArg(project.EndDate),
		project.Budget, project.CustomerID, project.ProjectManager,
		project.Priority, project.Status)
	if err != nil {
		return nil, models.WrapError("failed to create project", err)
	}

	s.Publisher.Publish(events.NewProjectCreated(project))
	return project, nil
}

// GetProject loads a single project by ID, applying column defaults for
// historic rows with NULL optional columns.
func (s *ProjectService) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	row, err := s.Database.FetchOne(ctx,
		`SELECT project_id, name, description, start_date, end_date, budget, customer_id, project_manager, priority, status
		 FROM projects WHERE project_id = ?`, projectID)
	if err != nil {
		return nil, models.WrapError("failed to fetch project", err)
	}
	if row == nil {
		return nil, models.NewError("project not found: %s", projectID)
	}

	return projectFromRow(row), nil
}

// AssignEmployeeToProject creates an assignment after checking that the
// project and employee exist and that the employee does not already hold an
// active assignment on the project. Expired assignments do not block a new
// one.
func (s *ProjectService) AssignEmployeeToProject(ctx context.Context, projectID, employeeID string, input AssignmentInput) (*models.ProjectAssignment, error) {
	logging.Logger.Infof("Event ID: ASSIGN_EMPLOYEE, Description: Assigning employee '%s' to project '%s'", employeeID, projectID)

	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	if _, err := s.Directory.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	now := time.Now()
	active, err := s.Database.FetchOne(ctx,
		`SELECT start_date FROM project_assignments
		 WHERE project_id = ? AND employee_id = ? AND (end_date IS NULL OR end_date >= ?)`,
		projectID, employeeID, db.FormatTime(now))
	if err != nil {
		return nil, models.WrapError("failed to check existing assignments", err)
	}
	if active != nil {
		return nil, models.NewError("employee %s already has an active assignment on project %s", employeeID, projectID)
	}

	assignment := &models.ProjectAssignment{
		ProjectID:  projectID,
		EmployeeID: employeeID,
		Role:       defaultIfEmpty(input.Role, models.DefaultAssignmentRole),
		StartDate:  now,
		EndDate:    input.EndDate,
	}
	if input.StartDate != nil {
		assignment.StartDate = *input.StartDate
	}
	allocation := float64(models.DefaultAllocationPercentage)
	if input.AllocationPercentage != nil {
		allocation = *input.AllocationPercentage
	}
	assignment.SetAllocationPercentage(allocation)

	_, err = s.Database.ExecuteWrite(ctx,
		`INSERT INTO project_assignments (project_id, employee_id, role, start_date, end_date, allocation_percentage)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		assignment.ProjectID, assignment.EmployeeID, assignment.Role,
		db.FormatTime(assignment.StartDate), timeArg(assignment.EndDate),
		assignment.AllocationPercentage)
	if err != nil {
		return nil, models.WrapError("failed to create assignment", err)
	}

	s.Publisher.Publish(events.NewEmployeeAssigned(assignment))
	return assignment, nil
}

// GetProjectTeam returns the currently active assignments for a project joined
// with employee display fields, ordered by last then first name. This is a
// reporting query, not an entity read.
func (s *ProjectService) GetProjectTeam(ctx context.Context, projectID string) ([]models.TeamMember, error) {
	rows, err := s.Database.FetchAll(ctx,
		`SELECT pa.employee_id, e.first_name, e.last_name, pa.role, pa.start_date, pa.end_date, pa.allocation_percentage
		 FROM project_assignments pa
		 LEFT JOIN employees e ON e.employee_id = pa.employee_id
		 WHERE pa.project_id = ? AND (pa.end_date IS NULL OR pa.end_date >= ?)
		 ORDER BY e.last_name, e.first_name`,
		projectID, db.FormatTime(time.Now()))
	if err != nil {
		return nil, models.WrapError("failed to fetch project team", err)
	}

	team := make([]models.TeamMember, 0, len(rows))
	for _, row := range rows {
		member := models.TeamMember{
			EmployeeID:           row.Text("employee_id"),
			FirstName:            row.Text("first_name"),
			LastName:             row.Text("last_name"),
			Role:                 row.Text("role"),
			AllocationPercentage: row.Float("allocation_percentage"),
		}
		if start, ok := row.Time("start_date"); ok {
			member.StartDate = start
		}
		if end, ok := row.Time("end_date"); ok {
			endDate := end
			member.EndDate = &endDate
		}
		team = append(team, member)
	}

	return team, nil
}

// nextID allocates the next identity as max(existing numeric IDs)+1, starting
// at 1. The read and the subsequent insert are not atomic; concurrent creates
// can collide and surface a duplicate-key error from storage.
func (s *ProjectService) nextID(ctx context.Context, table, column string) (string, error) {
	row, err := s.Database.FetchOne(ctx,
		"SELECT MAX(CAST("+column+" AS INTEGER)) AS max_id FROM "+table)
	if err != nil {
		return "", err
	}

	next := int64(1)
	if row != nil {
		next = int64(row.Float("max_id")) + 1
	}
	return strconv.FormatInt(next, 10), nil
}

func projectFromRow(row db.Row) *models.Project {
	project := &models.Project{
		ProjectID:      row.Text("project_id"),
		Name:           row.Text("name"),
		Description:    row.Text("description"),
		Budget:         row.Float("budget"),
		CustomerID:     row.Text("customer_id"),
		ProjectManager: row.Text("project_manager"),
		Priority:       defaultIfEmpty(row.Text("priority"), models.DefaultProjectPriority),
		Status:         defaultIfEmpty(row.Text("status"), models.DefaultProjectStatus),
	}
	if start, ok := row.Time("start_date"); ok {
		project.StartDate = start
	}
	if end, ok := row.Time("end_date"); ok {
		endDate := end
		project.EndDate = &endDate
	}
	return project
}

func defaultIfEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// timeArg renders an optional timestamp as a query argument, keeping NULL for
// absent values.
func timeArg(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return db.FormatTime(*t)
}
