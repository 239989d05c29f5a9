package employee

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/timestudy/timestudy/internal/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest(t *testing.T) (*mux.Router, serviceFixture) {
	f := setup(t)
	handler := NewHandler(f.service, f.clock)
	r := mux.NewRouter()
	r.HandleFunc("/api/employee", handler.List).Methods("GET")
	r.HandleFunc("/api/employee", handler.Create).Methods("POST")
	r.HandleFunc("/api/employee/start-all", handler.StartAll).Methods("POST")
	r.HandleFunc("/api/employee/stop-all", handler.StopAll).Methods("POST")
	r.HandleFunc("/api/employee/{employeeId}", handler.Delete).Methods("DELETE")
	r.HandleFunc("/api/employee/{employeeId}/start", handler.Start).Methods("POST")
	r.HandleFunc("/api/employee/{employeeId}/pause", handler.Pause).Methods("POST")
	r.HandleFunc("/api/employee/{employeeId}/stop", handler.Stop).Methods("POST")
	return r, f
}

func serve(r *mux.Router, method string, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBuffer(body)).WithContext(ctx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateAndList(t *testing.T) {
	r, f := setupHandlerTest(t)
	body, _ := json.Marshal(CreateEmployeeDTO{Name: "Anna"})

	w := serve(r, http.MethodPost, "/api/employee", body)
	require.Equal(t, http.StatusCreated, w.Code)
	var created EmployeeDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

	w = serve(r, http.MethodPost, "/api/employee/"+strconv.Itoa(created.Id)+"/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	f.clock.Advance(90 * time.Second)

	w = serve(r, http.MethodGet, "/api/employee", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []EmployeeDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "active", listed[0].Status)
	assert.Equal(t, 90, listed[0].ActiveTime)
	assert.Equal(t, 90, listed[0].TotalTime)
}

func TestHandler_PauseWithReason(t *testing.T) {
	r, f := setupHandlerTest(t)
	anna, _ := f.service.Create(ctx, "Anna")
	_, _ = f.service.Start(ctx, anna.Id)
	body, _ := json.Marshal(PauseDTO{ReasonCode: "Break", Comment: "lunch"})

	w := serve(r, http.MethodPost, "/api/employee/"+strconv.Itoa(anna.Id)+"/pause", body)

	assert.Equal(t, http.StatusOK, w.Code)
	entries, _ := f.timeLog.ListEntries(ctx, studyId)
	require.Len(t, entries, 2)
	assert.Equal(t, "Break", entries[1].ReasonCode)
}

func TestHandler_PauseWithoutBody(t *testing.T) {
	r, f := setupHandlerTest(t)
	anna, _ := f.service.Create(ctx, "Anna")
	_, _ = f.service.Start(ctx, anna.Id)

	w := serve(r, http.MethodPost, "/api/employee/"+strconv.Itoa(anna.Id)+"/pause", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_ErrorMapping(t *testing.T) {
	r, f := setupHandlerTest(t)
	anna, _ := f.service.Create(ctx, "Anna")

	t.Run("invalid transition is a conflict", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/api/employee/"+strconv.Itoa(anna.Id)+"/stop", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown employee is not found", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/api/employee/999/start", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non numeric id is a bad request", func(t *testing.T) {
		w := serve(r, http.MethodDelete, "/api/employee/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		var errResponse rest.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
		assert.Equal(t, "Invalid employee id", errResponse.Error)
	})

	t.Run("delete then delete again", func(t *testing.T) {
		w := serve(r, http.MethodDelete, "/api/employee/"+strconv.Itoa(anna.Id), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		w = serve(r, http.MethodDelete, "/api/employee/"+strconv.Itoa(anna.Id), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_CrewActions(t *testing.T) {
	r, f := setupHandlerTest(t)
	_, _ = f.service.Create(ctx, "Anna")
	_, _ = f.service.Create(ctx, "Bob")

	w := serve(r, http.MethodPost, "/api/employee/start-all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var started []EmployeeDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&started))
	assert.Len(t, started, 2)

	w = serve(r, http.MethodPost, "/api/employee/stop-all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stopped []EmployeeDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stopped))
	assert.Len(t, stopped, 2)
	assert.Equal(t, "idle", stopped[0].Status)
}
