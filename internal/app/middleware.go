package app

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/timestudy/timestudy/internal/config"
	"github.com/timestudy/timestudy/pkg/study"
	log "github.com/sirupsen/logrus"
)

const studyIdHeader = "X-Study-Id"

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {
	r.Use(requestLogger)
	r.Use(studyContext(deps.StudyService))
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		log.Tracef("%s %s", req.Method, req.URL.Path)
		next.ServeHTTP(w, req)
	})
}

// studyContext resolves the X-Study-Id header into the selected study. Requests without the
// header pass through and are rejected by handlers that need a study.
func studyContext(studies study.Service) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			uid := req.Header.Get(studyIdHeader)
			ctx := req.Context()

			if uid != "" {
				s, err := studies.GetStudyByUid(ctx, uid)
				if err != nil {
					if errors.Is(err, study.ErrStudyNotFound) {
						log.Debugf("study not found: %s", uid)
						http.Error(w, "study not found", http.StatusNotFound)
						return
					}
					log.Errorf("failed to get study: %v", err)
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
				log.Tracef("study selected: %s", s.Uid)
				ctx = study.WithStudy(ctx, s)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}
