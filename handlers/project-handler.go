package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"accounting-platform/plugins/projectmgmt-service/models"
	"accounting-platform/plugins/projectmgmt-service/services"

	"github.com/gorilla/mux"
)

type ProjectHandler struct {
	Service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{Service: service}
}

func (h *ProjectHandler) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	var input services.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	project, err := h.Service.CreateProject(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(project)
}

func (h *ProjectHandler) GetProjectHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	project, err := h.Service.GetProject(r.Context(), vars["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(project)
}

type assignEmployeeRequest struct {
	EmployeeID string `json:"employeeId"`
	services.AssignmentInput
}

func (h *ProjectHandler) AssignEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req assignEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.EmployeeID == "" {
		http.Error(w, "Employee ID is required", http.StatusBadRequest)
		return
	}

	assignment, err := h.Service.AssignEmployeeToProject(r.Context(), vars["id"], req.EmployeeID, req.AssignmentInput)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(assignment)
}

func (h *ProjectHandler) GetProjectTeamHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	team, err := h.Service.GetProjectTeam(r.Context(), vars["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(team)
}

// writeServiceError maps a service failure to an HTTP status by its message:
// not-found lookups turn into 404, the duplicate active assignment into 409,
// wrapped storage/collaborator failures into 500, every other domain
// validation into 400.
func writeServiceError(w http.ResponseWriter, err error) {
	var domainErr *models.ProjectManagementError
	if !errors.As(err, &domainErr) {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	switch {
	case strings.Contains(domainErr.Message, "not found"):
		http.Error(w, domainErr.Error(), http.StatusNotFound)
	case strings.Contains(domainErr.Message, "already has an active assignment"):
		http.Error(w, domainErr.Error(), http.StatusConflict)
	case strings.HasPrefix(domainErr.Message, "failed to"):
		http.Error(w, domainErr.Error(), http.StatusInternalServerError)
	default:
		http.Error(w, domainErr.Error(), http.StatusBadRequest)
	}
}
