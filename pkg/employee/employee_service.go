package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/timestudy/timestudy/internal/event_bus"
	"github.com/timestudy/timestudy/internal/utils"
	"github.com/timestudy/timestudy/pkg/study"
	"github.com/timestudy/timestudy/pkg/timelog"
	log "github.com/sirupsen/logrus"
)

var ErrNameRequired = errors.New("employee name is required")

type Service interface {
	Create(ctx context.Context, name string) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
	Start(ctx context.Context, id int) (Employee, error)
	Pause(ctx context.Context, id int, reasonCode string, comment string) (Employee, error)
	Stop(ctx context.Context, id int) (Employee, error)
	Delete(ctx context.Context, id int) error
	// StartAll starts every employee that can be started, at one shared instant.
	StartAll(ctx context.Context) ([]Employee, error)
	// StopAll stops every engaged employee, at one shared instant.
	StopAll(ctx context.Context) ([]Employee, error)
}

type ServiceImpl struct {
	repo     Repository
	clock    utils.Clock
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, clock utils.Clock, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock, eventBus: eventBus}
}

func (s *ServiceImpl) Create(ctx context.Context, name string) (Employee, error) {
	studyId, err := study.CurrentId(ctx)
	if err != nil {
		return Employee{}, fmt.Errorf("failed to get current study: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Employee{}, ErrNameRequired
	}
	return s.repo.CreateEmployee(ctx, studyId, Employee{Name: name, Status: StatusIdle})
}

func (s *ServiceImpl) List(ctx context.Context) ([]Employee, error) {
	studyId, err := study.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current study: %w", err)
	}
	return s.repo.ListEmployees(ctx, studyId, false)
}

func (s *ServiceImpl) Start(ctx context.Context, id int) (Employee, error) {
	return s.transition(ctx, id, timelog.Entry{Event: timelog.EventStart})
}

func (s *ServiceImpl) Pause(ctx context.Context, id int, reasonCode string, comment string) (Employee, error) {
	return s.transition(ctx, id, timelog.Entry{
		Event:      timelog.EventPause,
		ReasonCode: strings.TrimSpace(reasonCode),
		Comment:    strings.TrimSpace(comment),
	})
}

func (s *ServiceImpl) Stop(ctx context.Context, id int) (Employee, error) {
	return s.transition(ctx, id, timelog.Entry{Event: timelog.EventStop})
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) error {
	_, err := s.transition(ctx, id, timelog.Entry{Event: timelog.EventDeleted})
	return err
}

func (s *ServiceImpl) StartAll(ctx context.Context) ([]Employee, error) {
	return s.transitionAll(ctx, timelog.EventStart)
}

func (s *ServiceImpl) StopAll(ctx context.Context) ([]Employee, error) {
	return s.transitionAll(ctx, timelog.EventStop)
}

// now is truncated to the stored precision so accumulators and log instants stay consistent.
func (s *ServiceImpl) now() time.Time {
	return s.clock.Now().Truncate(time.Millisecond)
}

func (s *ServiceImpl) transition(ctx context.Context, id int, entry timelog.Entry) (Employee, error) {
	studyId, err := study.CurrentId(ctx)
	if err != nil {
		return Employee{}, fmt.Errorf("failed to get current study: %w", err)
	}
	entry.At = s.now()
	entry.EmployeeId = &id

	var updated Employee
	err = s.repo.WithTransaction(ctx, func(repo Repository) error {
		current, err := repo.GetEmployee(ctx, studyId, id)
		if err != nil {
			return err
		}
		next, err := current.Apply(entry.Event, entry.At)
		if err != nil {
			return err
		}
		updated, err = repo.UpdateTimer(ctx, studyId, next)
		if err != nil {
			return err
		}
		_, err = repo.AppendLogEntry(ctx, studyId, entry)
		return err
	})
	if err != nil {
		return Employee{}, err
	}

	log.Debugf("employee %d: %s at %s", id, entry.Event, entry.At)
	s.publish(ctx, entry)
	return updated, nil
}

func (s *ServiceImpl) transitionAll(ctx context.Context, event timelog.EventType) ([]Employee, error) {
	studyId, err := study.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current study: %w", err)
	}
	at := s.now()

	var affected []Employee
	var entries []timelog.Entry
	err = s.repo.WithTransaction(ctx, func(repo Repository) error {
		employees, err := repo.ListEmployees(ctx, studyId, false)
		if err != nil {
			return err
		}
		for _, e := range employees {
			next, err := e.Apply(event, at)
			if errors.Is(err, ErrInvalidTransition) {
				log.Tracef("skipping employee %d: %v", e.Id, err)
				continue
			} else if err != nil {
				return err
			}
			updated, err := repo.UpdateTimer(ctx, studyId, next)
			if err != nil {
				return err
			}
			employeeId := updated.Id
			entry := timelog.Entry{At: at, EmployeeId: &employeeId, Event: event}
			if _, err := repo.AppendLogEntry(ctx, studyId, entry); err != nil {
				return err
			}
			affected = append(affected, updated)
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		s.publish(ctx, entry)
	}
	return affected, nil
}

func (s *ServiceImpl) publish(ctx context.Context, entry timelog.Entry) {
	if s.eventBus == nil {
		return
	}
	current, err := study.CurrentStudy(ctx)
	if err != nil {
		return
	}
	err = s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.EmployeeTransitionedType, event_bus.EmployeeTransitioned{
		StudyId:    current.Id,
		StudyUid:   current.Uid,
		EmployeeId: *entry.EmployeeId,
		Event:      string(entry.Event),
		ReasonCode: entry.ReasonCode,
		At:         entry.At,
	}))
	if err != nil {
		log.Warnf("failed to publish employee transition: %v", err)
	}
}
