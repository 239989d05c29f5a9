package narrative

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/timestudy/timestudy/internal/rest"
	"github.com/timestudy/timestudy/pkg/study"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetDigest(w http.ResponseWriter, r *http.Request) {
	digest, err := h.service.GetDigest(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(digest); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) PublishDigest(w http.ResponseWriter, r *http.Request) {
	digest, err := h.service.PublishDigest(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(digest); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, study.ErrNoStudy) {
		rest.WriteBadRequest(w, "Study not selected", "X-Study-Id header is required")
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
