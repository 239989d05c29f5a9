package study

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/timestudy/timestudy/internal/rest"
	log "github.com/sirupsen/logrus"
)

type StudyDTO struct {
	Uid       string    `json:"uid"`
	Name      string    `json:"name"`
	Observer  string    `json:"observer"`
	Location  string    `json:"location"`
	Timezone  string    `json:"timezone"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

type Handler struct {
	studyService Service
}

func NewHandler(studyService Service) *Handler {
	return &Handler{studyService}
}

// CreateStudy godoc
// @Summary Create a study
// @Description Creates a study and returns its uid, to be sent in the X-Study-Id header of later calls
// @Tags Study
// @Accept json
// @Produce json
// @Param study body StudyDTO true "Study"
// @Success 201 {object} StudyDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/study [post]
func (h *Handler) CreateStudy(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var request StudyDTO
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		rest.WriteBadRequest(w, "Invalid request body format", err.Error())
		return
	}

	created, err := h.studyService.CreateStudy(r.Context(), dtoToStudy(request))
	if err != nil {
		if errors.Is(err, ErrNameRequired) || errors.Is(err, ErrInvalidTimezone) {
			rest.WriteBadRequest(w, "Invalid study", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Debugf("Study created: %s", created.Uid)

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(studyToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// CurrentStudy godoc
// @Summary Get the selected study
// @Tags Study
// @Produce json
// @Success 200 {object} StudyDTO
// @Failure 404 {string} string "Study not found"
// @Router /api/study/current [get]
// @Security XStudyId
func (h *Handler) CurrentStudy(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	current, err := h.studyService.GetCurrentStudy(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoStudy) || errors.Is(err, ErrStudyNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(studyToDTO(current)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateStudy(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var request StudyDTO
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		rest.WriteBadRequest(w, "Invalid request body format", err.Error())
		return
	}

	updated, err := h.studyService.UpdateStudy(r.Context(), dtoToStudy(request))
	if err != nil {
		switch {
		case errors.Is(err, ErrNameRequired), errors.Is(err, ErrInvalidTimezone):
			rest.WriteBadRequest(w, "Invalid study", err.Error())
		case errors.Is(err, ErrNoStudy), errors.Is(err, ErrStudyNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	if err := json.NewEncoder(w).Encode(studyToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func studyToDTO(s Study) StudyDTO {
	return StudyDTO{
		Uid:       s.Uid,
		Name:      s.Name,
		Observer:  s.Observer,
		Location:  s.Location,
		Timezone:  s.Timezone,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
	}
}

func dtoToStudy(dto StudyDTO) Study {
	return Study{
		Name:     dto.Name,
		Observer: dto.Observer,
		Location: dto.Location,
		Timezone: dto.Timezone,
		Notes:    dto.Notes,
	}
}
