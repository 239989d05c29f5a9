// Package kpi derives utilization figures of a time study from the employees' timer state and
// the time log. Everything in this package is a pure function of its input snapshot.
package kpi

import (
	"sort"
	"time"

	"github.com/timestudy/timestudy/pkg/employee"
	"github.com/timestudy/timestudy/pkg/timelog"
)

// DateLayout is the key format of Summary.Daily.
const DateLayout = "2006-01-02"

// Snapshot is the immutable input of one computation pass. Callers own the slices and must not
// modify them while Compute runs.
type Snapshot struct {
	Employees []employee.Employee
	Log       []timelog.Entry
	Now       time.Time
	// Location is the observer's calendar used to split spans at midnight. nil means time.Local.
	Location *time.Location
}

type DailyBucket struct {
	Actual time.Duration
	Touch  time.Duration
	Idle   time.Duration
}

type Summary struct {
	GeneratedAt time.Time

	TotalActive time.Duration
	TotalIdle   time.Duration
	TotalAll    time.Duration

	FirstStartAt  *time.Time
	LastStopAt    *time.Time
	AnyEngagedNow bool
	ActualClock   time.Duration

	Utilization float64
	CrewHours   float64
	IdleRatio   float64

	Headcount    int
	EngagedCount int

	Daily map[string]DailyBucket
}

// SortedDates returns the keys of Daily in calendar order.
func (s Summary) SortedDates() []string {
	dates := make([]string, 0, len(s.Daily))
	for date := range s.Daily {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}
