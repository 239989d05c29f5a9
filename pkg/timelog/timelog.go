package timelog

import (
	"time"
)

type EventType string

const (
	EventStart   EventType = "start"
	EventPause   EventType = "pause"
	EventStop    EventType = "stop"
	EventDeleted EventType = "deleted"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventStart, EventPause, EventStop, EventDeleted:
		return true
	}
	return false
}

// Entry is an immutable historical fact. Only ReasonCode and Comment may be annotated later.
type Entry struct {
	Id         int
	At         time.Time
	EmployeeId *int // nil for entries not tied to an employee
	Event      EventType
	ReasonCode string
	Comment    string
}

// Annotation holds the only mutable part of an Entry.
type Annotation struct {
	ReasonCode string
	Comment    string
}
