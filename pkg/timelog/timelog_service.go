package timelog

import (
	"context"
	"fmt"
	"strings"

	"github.com/timestudy/timestudy/internal/event_bus"
	"github.com/timestudy/timestudy/pkg/study"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	List(ctx context.Context) ([]Entry, error)
	Annotate(ctx context.Context, entryId int, annotation Annotation) (Entry, error)
	Delete(ctx context.Context, entryId int) error
	DeleteAll(ctx context.Context) (int, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Entry, error) {
	studyId, err := study.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current study: %w", err)
	}
	return s.repo.ListEntries(ctx, studyId)
}

func (s *ServiceImpl) Annotate(ctx context.Context, entryId int, annotation Annotation) (Entry, error) {
	studyId, err := study.CurrentId(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get current study: %w", err)
	}
	annotation.ReasonCode = strings.TrimSpace(annotation.ReasonCode)
	annotation.Comment = strings.TrimSpace(annotation.Comment)

	entry, err := s.repo.AnnotateEntry(ctx, studyId, entryId, annotation)
	if err != nil {
		return Entry{}, err
	}
	s.publishChanged(ctx, 0)
	return entry, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, entryId int) error {
	studyId, err := study.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current study: %w", err)
	}
	if err := s.repo.DeleteEntry(ctx, studyId, entryId); err != nil {
		return err
	}
	s.publishChanged(ctx, 1)
	return nil
}

func (s *ServiceImpl) DeleteAll(ctx context.Context) (int, error) {
	studyId, err := study.CurrentId(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current study: %w", err)
	}
	removed, err := s.repo.DeleteAllEntries(ctx, studyId)
	if err != nil {
		return 0, err
	}
	log.Debugf("removed %d time log entries of study %d", removed, studyId)
	s.publishChanged(ctx, removed)
	return removed, nil
}

func (s *ServiceImpl) publishChanged(ctx context.Context, removed int) {
	if s.eventBus == nil {
		return
	}
	current, err := study.CurrentStudy(ctx)
	if err != nil {
		return
	}
	err = s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.TimeLogChangedType, event_bus.TimeLogChanged{
		StudyId:  current.Id,
		StudyUid: current.Uid,
		Removed:  removed,
	}))
	if err != nil {
		log.Warnf("failed to publish time log change: %v", err)
	}
}
