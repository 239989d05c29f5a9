package study

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/timestudy/timestudy/internal/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest(t *testing.T) *Handler {
	repo := NewStubStudyRepository()
	return NewHandler(NewStudyService(repo))
}

func TestHandler_CreateStudy(t *testing.T) {
	handler := setupHandlerTest(t)
	body, err := json.Marshal(StudyDTO{Name: "Assembly", Observer: "A. Observer", Timezone: "Europe/Warsaw"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/study", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.CreateStudy(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var response StudyDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.NotEmpty(t, response.Uid)
	assert.Equal(t, "Assembly", response.Name)
	assert.Equal(t, "A. Observer", response.Observer)
}

func TestHandler_CreateStudy_InvalidTimezone(t *testing.T) {
	handler := setupHandlerTest(t)
	body, _ := json.Marshal(StudyDTO{Name: "Assembly", Timezone: "Invalid/Zone"})

	req := httptest.NewRequest(http.MethodPost, "/api/study", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.CreateStudy(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResponse rest.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
	assert.Equal(t, "Invalid study", errResponse.Error)
}

func TestHandler_CreateStudy_InvalidBody(t *testing.T) {
	handler := setupHandlerTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/study", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	handler.CreateStudy(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CurrentStudy(t *testing.T) {
	t.Run("should return 404 when no study is selected", func(t *testing.T) {
		handler := setupHandlerTest(t)

		req := httptest.NewRequest(http.MethodGet, "/api/study/current", nil)
		w := httptest.NewRecorder()
		handler.CurrentStudy(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("should return the selected study", func(t *testing.T) {
		repo := NewStubStudyRepository()
		created, _ := repo.CreateStudy(context.Background(), Study{Uid: "abc", Name: "Packing", Timezone: "UTC"})
		handler := NewHandler(NewStudyService(repo))

		req := httptest.NewRequest(http.MethodGet, "/api/study/current", nil)
		w := httptest.NewRecorder()
		handler.CurrentStudy(w, req.WithContext(WithStudy(req.Context(), created)))

		assert.Equal(t, http.StatusOK, w.Code)
		var response StudyDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "abc", response.Uid)
	})
}
