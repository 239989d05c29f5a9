package study

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const StudyKey contextKey = "study"

var ErrNoStudy = errors.New("study not selected")

// CurrentId retrieves the selected study's ID from the context. Returns ErrNoStudy if not present.
func CurrentId(ctx context.Context) (int, error) {
	s, ok := ctx.Value(StudyKey).(Study)
	if !ok {
		log.Trace("study not found in context")
		return 0, ErrNoStudy
	}
	return s.Id, nil
}

func CurrentStudy(ctx context.Context) (Study, error) {
	s, ok := ctx.Value(StudyKey).(Study)
	if !ok {
		log.Trace("study not found in context")
		return Study{}, ErrNoStudy
	}
	return s, nil
}

func WithStudy(ctx context.Context, s Study) context.Context {
	return context.WithValue(ctx, StudyKey, s)
}
