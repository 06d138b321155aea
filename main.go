package main

import (
	"net/http"
	"os"

	"accounting-platform/plugins/projectmgmt-service/db"
	"accounting-platform/plugins/projectmgmt-service/employees"
	"accounting-platform/plugins/projectmgmt-service/events"
	"accounting-platform/plugins/projectmgmt-service/handlers"
	"accounting-platform/plugins/projectmgmt-service/logging"
	"accounting-platform/plugins/projectmgmt-service/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Project Management Service...")
	err := godotenv.Load(".env")
	if err != nil {
		logging.Logger.Fatalf("Event ID: ENV_LOAD_ERROR, Description: Error loading .env file: %v", err)
	}

	dbPath := os.Getenv("PROJECTMGMT_DB_PATH")
	employeesURL := os.Getenv("EMPLOYEES_SERVICE_URL")
	notificationsURL := os.Getenv("NOTIFICATIONS_SERVICE_URL")
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	conn, err := db.Open(dbPath)
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection failed: %v", err)
	}
	defer conn.Close()
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully opened database at %s.", dbPath)

	httpClient := employees.NewHTTPClient()
	directory := employees.NewHTTPDirectory(employeesURL, httpClient)
	dispatcher := events.NewDispatcher(notificationsURL, httpClient)

	projectService := services.NewProjectService(db.NewDatabase(conn), directory, dispatcher)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(projectService)

	r := mux.NewRouter()
	r.HandleFunc("/projects", projectHandler.CreateProjectHandler).Methods("POST")
	r.HandleFunc("/projects/{id}", projectHandler.GetProjectHandler).Methods("GET")
	r.HandleFunc("/projects/{id}/assignments", projectHandler.AssignEmployeeHandler).Methods("POST")
	r.HandleFunc("/projects/{id}/team", projectHandler.GetProjectTeamHandler).Methods("GET")
	r.HandleFunc("/projects/{id}/tasks", taskHandler.GetProjectTasksHandler).Methods("GET")
	r.HandleFunc("/tasks", taskHandler.CreateTaskHandler).Methods("POST")
	r.HandleFunc("/tasks/{id}", taskHandler.GetTaskHandler).Methods("GET")
	r.HandleFunc("/tasks/{id}/progress", taskHandler.UpdateTaskProgressHandler).Methods("PATCH")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	}).Methods("GET")

	corsRouter := enableCORS(r)

	logging.Logger.Infof("Event ID: SERVICE_LISTENING, Description: Project Management Service running on port %s", port)
	if err := http.ListenAndServe(":"+port, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FAILED, Description: Server stopped: %v", err)
	}
}
