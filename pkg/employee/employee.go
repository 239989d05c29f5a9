package employee

import (
	"time"
)

type Status string

const (
	StatusIdle   Status = "idle"
	StatusActive Status = "active"
	StatusPaused Status = "paused"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusIdle, StatusActive, StatusPaused:
		return true
	}
	return false
}

// Engaged reports whether the employee is still part of the running study (working or on a pause).
func (s Status) Engaged() bool {
	return s == StatusActive || s == StatusPaused
}

type Employee struct {
	Id        int
	Name      string
	Status    Status
	StartTime *time.Time // set iff Status == StatusActive
	// Elapsed is the active time of completed runs only.
	Elapsed time.Duration
	// PausedAccum is the paused time of completed pauses only.
	PausedAccum  time.Duration
	LastPausedAt *time.Time // set iff Status == StatusPaused
	Deleted      bool
	CreatedAt    time.Time
}

// LiveTime is the projection of an employee's accumulated times to a given instant.
type LiveTime struct {
	Active time.Duration
	Idle   time.Duration
	Total  time.Duration
}

// LiveTime adds the still-open run (if any) to the frozen accumulators without mutating the employee.
// A missing or future anchor contributes zero.
func (e Employee) LiveTime(now time.Time) LiveTime {
	active := nonNegative(e.Elapsed)
	if e.Status == StatusActive {
		active += runningSince(e.StartTime, now)
	}
	idle := nonNegative(e.PausedAccum)
	if e.Status == StatusPaused {
		idle += runningSince(e.LastPausedAt, now)
	}
	return LiveTime{
		Active: active,
		Idle:   idle,
		Total:  active + idle,
	}
}

func runningSince(anchor *time.Time, now time.Time) time.Duration {
	if anchor == nil {
		return 0
	}
	return nonNegative(now.Sub(*anchor))
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
