package app

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/timestudy/timestudy/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Study
	r.HandleFunc("/api/study", deps.StudyHandler.CreateStudy).Methods("POST")
	r.HandleFunc("/api/study/current", deps.StudyHandler.CurrentStudy).Methods("GET")
	r.HandleFunc("/api/study/current", deps.StudyHandler.UpdateStudy).Methods("PUT")

	// Employees
	r.HandleFunc("/api/employee", deps.EmployeeHandler.List).Methods("GET")
	r.HandleFunc("/api/employee", deps.EmployeeHandler.Create).Methods("POST")
	r.HandleFunc("/api/employee/start-all", deps.EmployeeHandler.StartAll).Methods("POST")
	r.HandleFunc("/api/employee/stop-all", deps.EmployeeHandler.StopAll).Methods("POST")
	r.HandleFunc("/api/employee/{employeeId}", deps.EmployeeHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/employee/{employeeId}/start", deps.EmployeeHandler.Start).Methods("POST")
	r.HandleFunc("/api/employee/{employeeId}/pause", deps.EmployeeHandler.Pause).Methods("POST")
	r.HandleFunc("/api/employee/{employeeId}/stop", deps.EmployeeHandler.Stop).Methods("POST")

	// Time log
	r.HandleFunc("/api/timelog", deps.TimeLogHandler.List).Methods("GET")
	r.HandleFunc("/api/timelog", deps.TimeLogHandler.DeleteAll).Methods("DELETE")
	r.HandleFunc("/api/timelog/{entryId}", deps.TimeLogHandler.Annotate).Methods("PATCH")
	r.HandleFunc("/api/timelog/{entryId}", deps.TimeLogHandler.Delete).Methods("DELETE")

	// Stats
	r.HandleFunc("/api/stats/kpi", deps.StatsHandler.GetStats).Methods("GET")
	r.HandleFunc("/api/stats/digest", deps.NarrativeHandler.GetDigest).Methods("GET")
	r.HandleFunc("/api/stats/digest/publish", deps.NarrativeHandler.PublishDigest).Methods("POST")

	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}
}
