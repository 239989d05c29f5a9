package employee

import (
	"errors"
	"fmt"
	"time"

	"github.com/timestudy/timestudy/pkg/timelog"
)

var ErrEmployeeNotFound = errors.New("employee not found")
var ErrInvalidTransition = errors.New("invalid employee state transition")

// Apply returns the employee after the given event happened at the given instant.
// The open run is closed into Elapsed or PausedAccum before the status changes.
func (e Employee) Apply(event timelog.EventType, at time.Time) (Employee, error) {
	if e.Deleted {
		return e, ErrEmployeeNotFound
	}

	switch event {
	case timelog.EventStart:
		if e.Status == StatusActive {
			return e, invalidTransition(e, event)
		}
		e = e.closeOpenRun(at)
		e.Status = StatusActive
		e.StartTime = &at
	case timelog.EventPause:
		if e.Status != StatusActive {
			return e, invalidTransition(e, event)
		}
		e = e.closeOpenRun(at)
		e.Status = StatusPaused
		e.LastPausedAt = &at
	case timelog.EventStop:
		if !e.Status.Engaged() {
			return e, invalidTransition(e, event)
		}
		e = e.closeOpenRun(at)
		e.Status = StatusIdle
	case timelog.EventDeleted:
		e = e.closeOpenRun(at)
		e.Status = StatusIdle
		e.Deleted = true
	default:
		return e, invalidTransition(e, event)
	}
	return e, nil
}

// CanApply reports whether Apply would succeed for the event.
func (e Employee) CanApply(event timelog.EventType) bool {
	_, err := e.Apply(event, time.Time{})
	return err == nil
}

func (e Employee) closeOpenRun(at time.Time) Employee {
	switch e.Status {
	case StatusActive:
		e.Elapsed += runningSince(e.StartTime, at)
	case StatusPaused:
		e.PausedAccum += runningSince(e.LastPausedAt, at)
	}
	e.StartTime = nil
	e.LastPausedAt = nil
	return e
}

func invalidTransition(e Employee, event timelog.EventType) error {
	return fmt.Errorf("%w: cannot %s employee %d while %s", ErrInvalidTransition, event, e.Id, e.Status)
}
