package employee

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/timestudy/timestudy/internal/rest"
	"github.com/timestudy/timestudy/internal/utils"
	"github.com/timestudy/timestudy/pkg/study"
)

type EmployeeDTO struct {
	Id           int        `json:"id"`
	Name         string     `json:"name"`
	Status       string     `json:"status"`
	StartTime    *time.Time `json:"startTime,omitempty"`
	LastPausedAt *time.Time `json:"lastPausedAt,omitempty"`
	// live values in seconds, projected to the response time
	ActiveTime int `json:"activeTime"`
	IdleTime   int `json:"idleTime"`
	TotalTime  int `json:"totalTime"`
}

type CreateEmployeeDTO struct {
	Name string `json:"name"`
}

type PauseDTO struct {
	ReasonCode string `json:"reasonCode"`
	Comment    string `json:"comment"`
}

type Handler struct {
	service Service
	clock   utils.Clock
}

func NewHandler(service Service, clock utils.Clock) *Handler {
	return &Handler{service: service, clock: clock}
}

// List godoc
// @Summary List employees
// @Description Employees of the selected study with active, idle and total time projected to now (seconds)
// @Tags Employee
// @Produce json
// @Success 200 {array} EmployeeDTO
// @Failure 400 {object} rest.ErrorResponse "Study not selected"
// @Router /api/employee [get]
// @Security XStudyId
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.writeEmployees(w, employees)
}

// Create godoc
// @Summary Add an employee
// @Tags Employee
// @Accept json
// @Produce json
// @Param employee body CreateEmployeeDTO true "Employee"
// @Success 201 {object} EmployeeDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/employee [post]
// @Security XStudyId
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var request CreateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		rest.WriteBadRequest(w, "Invalid request body format", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), request.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(h.toDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	employeeId, ok := employeeIdFromPath(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), employeeId); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	employeeId, ok := employeeIdFromPath(w, r)
	if !ok {
		return
	}
	updated, err := h.service.Start(r.Context(), employeeId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.writeEmployee(w, updated)
}

// Pause godoc
// @Summary Pause an active employee
// @Description Closes the running interval and opens a pause. Reason code and comment are optional.
// @Tags Employee
// @Accept json
// @Produce json
// @Param employeeId path int true "Employee ID"
// @Param pause body PauseDTO false "Pause reason"
// @Success 200 {object} EmployeeDTO
// @Failure 404 {string} string "Employee not found"
// @Failure 409 {string} string "Transition not allowed"
// @Router /api/employee/{employeeId}/pause [post]
// @Security XStudyId
func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	employeeId, ok := employeeIdFromPath(w, r)
	if !ok {
		return
	}
	var request PauseDTO
	// the body is optional, a pause without a reason is valid
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		rest.WriteBadRequest(w, "Invalid request body format", err.Error())
		return
	}
	updated, err := h.service.Pause(r.Context(), employeeId, request.ReasonCode, request.Comment)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.writeEmployee(w, updated)
}

func (h *Handler) Stop(w http.ResponseWriter, r *http.Request) {
	employeeId, ok := employeeIdFromPath(w, r)
	if !ok {
		return
	}
	updated, err := h.service.Stop(r.Context(), employeeId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.writeEmployee(w, updated)
}

func (h *Handler) StartAll(w http.ResponseWriter, r *http.Request) {
	affected, err := h.service.StartAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.writeEmployees(w, affected)
}

// StopAll godoc
// @Summary Stop every engaged employee at the same instant
// @Tags Employee
// @Produce json
// @Success 200 {array} EmployeeDTO "Employees that were stopped"
// @Router /api/employee/stop-all [post]
// @Security XStudyId
func (h *Handler) StopAll(w http.ResponseWriter, r *http.Request) {
	affected, err := h.service.StopAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.writeEmployees(w, affected)
}

func (h *Handler) writeEmployee(w http.ResponseWriter, e Employee) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.toDTO(e)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) writeEmployees(w http.ResponseWriter, employees []Employee) {
	w.Header().Set("Content-Type", "application/json")
	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, h.toDTO(e))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) toDTO(e Employee) EmployeeDTO {
	live := e.LiveTime(h.clock.Now())
	return EmployeeDTO{
		Id:           e.Id,
		Name:         e.Name,
		Status:       string(e.Status),
		StartTime:    e.StartTime,
		LastPausedAt: e.LastPausedAt,
		ActiveTime:   int(live.Active.Seconds()),
		IdleTime:     int(live.Idle.Seconds()),
		TotalTime:    int(live.Total.Seconds()),
	}
}

func employeeIdFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	employeeId, err := strconv.Atoi(mux.Vars(r)["employeeId"])
	if err != nil {
		rest.WriteBadRequest(w, "Invalid employee id", "employeeId must be a number")
		return 0, false
	}
	return employeeId, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, study.ErrNoStudy):
		rest.WriteBadRequest(w, "Study not selected", "X-Study-Id header is required")
	case errors.Is(err, ErrNameRequired):
		rest.WriteBadRequest(w, "Invalid employee", err.Error())
	case errors.Is(err, ErrEmployeeNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
