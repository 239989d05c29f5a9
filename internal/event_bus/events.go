package event_bus

import "time"

const (
	EmployeeTransitionedType EventType = "employee.transitioned"
	TimeLogChangedType       EventType = "timelog.changed"
)

// EmployeeTransitioned is published after an employee state change and its log entry are persisted.
type EmployeeTransitioned struct {
	StudyId    int
	StudyUid   string
	EmployeeId int
	// Event is the time log event type: start, pause, stop or deleted.
	Event      string
	ReasonCode string
	At         time.Time
}

// TimeLogChanged is published after log entries were annotated or removed.
type TimeLogChanged struct {
	StudyId  int
	StudyUid string
	Removed  int
}
