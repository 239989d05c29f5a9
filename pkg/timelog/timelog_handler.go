package timelog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/timestudy/timestudy/internal/rest"
	"github.com/timestudy/timestudy/pkg/study"
)

type EntryDTO struct {
	Id         int       `json:"id"`
	At         time.Time `json:"at"`
	EmployeeId *int      `json:"employeeId"`
	Event      string    `json:"event"`
	ReasonCode string    `json:"reasonCode,omitempty"`
	Comment    string    `json:"comment,omitempty"`
}

type AnnotationDTO struct {
	ReasonCode string `json:"reasonCode"`
	Comment    string `json:"comment"`
}

type DeletedDTO struct {
	Removed int `json:"removed"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	entries, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, EntryToDTO(entry))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Annotate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	entryId, ok := entryIdFromPath(w, r)
	if !ok {
		return
	}
	var request AnnotationDTO
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		rest.WriteBadRequest(w, "Invalid request body format", err.Error())
		return
	}

	entry, err := h.service.Annotate(r.Context(), entryId, Annotation{ReasonCode: request.ReasonCode, Comment: request.Comment})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(EntryToDTO(entry)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	entryId, ok := entryIdFromPath(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), entryId); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	removed, err := h.service.DeleteAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(DeletedDTO{Removed: removed}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func EntryToDTO(entry Entry) EntryDTO {
	return EntryDTO{
		Id:         entry.Id,
		At:         entry.At,
		EmployeeId: entry.EmployeeId,
		Event:      string(entry.Event),
		ReasonCode: entry.ReasonCode,
		Comment:    entry.Comment,
	}
}

func entryIdFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	entryId, err := strconv.Atoi(mux.Vars(r)["entryId"])
	if err != nil {
		rest.WriteBadRequest(w, "Invalid entry id", "entryId must be a number")
		return 0, false
	}
	return entryId, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, study.ErrNoStudy):
		rest.WriteBadRequest(w, "Study not selected", "X-Study-Id header is required")
	case errors.Is(err, ErrEntryNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

