package handlers

import (
	"encoding/json"
	"net/http"

	"accounting-platform/plugins/projectmgmt-service/services"

	"github.com/gorilla/mux"
)

type TaskHandler struct {
	Service *services.ProjectService
}

func NewTaskHandler(service *services.ProjectService) *TaskHandler {
	return &TaskHandler{Service: service}
}

func (h *TaskHandler) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	var input services.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := h.Service.CreateTask(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) GetTaskHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	task, err := h.Service.GetTask(r.Context(), vars["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

type updateProgressRequest struct {
	Progress float64 `json:"progress"`
	Status   string  `json:"status"`
}

func (h *TaskHandler) UpdateTaskProgressHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req updateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := h.Service.UpdateTaskProgress(r.Context(), vars["id"], req.Progress, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) GetProjectTasksHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	tasks, err := h.Service.GetProjectTasks(r.Context(), vars["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tasks)
}
