package kpi

import (
	"testing"
	"time"

	"github.com/timestudy/timestudy/pkg/employee"
	"github.com/timestudy/timestudy/pkg/timelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var location, _ = time.LoadLocation("Europe/Warsaw")
var t0 = time.Date(2024, time.March, 4, 9, 0, 0, 0, location)

func at(offset time.Duration) time.Time {
	return t0.Add(offset)
}

func ptr[T any](v T) *T {
	return &v
}

func entry(employeeId int, event timelog.EventType, offset time.Duration) timelog.Entry {
	return timelog.Entry{EmployeeId: ptr(employeeId), Event: event, At: at(offset)}
}

func idleEmployee(id int, elapsed, paused time.Duration) employee.Employee {
	return employee.Employee{Id: id, Status: employee.StatusIdle, Elapsed: elapsed, PausedAccum: paused}
}

func activeEmployee(id int, elapsed time.Duration, startedAt time.Time) employee.Employee {
	return employee.Employee{Id: id, Status: employee.StatusActive, Elapsed: elapsed, StartTime: &startedAt}
}

func TestCompute_SingleEmployeeWithBreak(t *testing.T) {
	// given
	snapshot := Snapshot{
		Employees: []employee.Employee{idleEmployee(1, 2*time.Hour, 10*time.Minute)},
		Log: []timelog.Entry{
			entry(1, timelog.EventStart, 0),
			{EmployeeId: ptr(1), Event: timelog.EventPause, At: at(time.Hour), ReasonCode: "Break"},
			entry(1, timelog.EventStart, 70*time.Minute),
			entry(1, timelog.EventStop, 130*time.Minute),
		},
		Now:      at(5 * time.Hour),
		Location: location,
	}

	// when
	summary := Compute(snapshot)

	// then
	assert.Equal(t, 7_200_000*time.Millisecond, summary.TotalActive)
	assert.Equal(t, 600_000*time.Millisecond, summary.TotalIdle)
	assert.Equal(t, 7_800_000*time.Millisecond, summary.TotalAll)
	assert.Equal(t, 7_800_000*time.Millisecond, summary.ActualClock)
	assert.InDelta(t, 0.923, summary.Utilization, 0.001)
	assert.InDelta(t, 2.0, summary.CrewHours, 1e-9)
	assert.InDelta(t, 0.0769, summary.IdleRatio, 0.0001)
	assert.False(t, summary.AnyEngagedNow)
	require.NotNil(t, summary.FirstStartAt)
	require.NotNil(t, summary.LastStopAt)
	assert.Equal(t, at(0), *summary.FirstStartAt)
	assert.Equal(t, at(130*time.Minute), *summary.LastStopAt)

	require.Len(t, summary.Daily, 1)
	day := summary.Daily["2024-03-04"]
	assert.Equal(t, 130*time.Minute, day.Actual)
	assert.Equal(t, 120*time.Minute, day.Touch)
	assert.Equal(t, 10*time.Minute, day.Idle)
}

func TestCompute_TwoEmployeesWorkingTogether(t *testing.T) {
	// given
	snapshot := Snapshot{
		Employees: []employee.Employee{
			idleEmployee(1, time.Hour, 0),
			idleEmployee(2, time.Hour, 0),
		},
		Log: []timelog.Entry{
			entry(1, timelog.EventStart, 0),
			entry(2, timelog.EventStart, 0),
			entry(1, timelog.EventStop, time.Hour),
			entry(2, timelog.EventStop, time.Hour),
		},
		Now:      at(3 * time.Hour),
		Location: location,
	}

	// when
	summary := Compute(snapshot)

	// then
	assert.Equal(t, 7_200_000*time.Millisecond, summary.TotalActive)
	assert.Equal(t, 3_600_000*time.Millisecond, summary.ActualClock)
	assert.Equal(t, 2.0, summary.Utilization)
	assert.Equal(t, 2.0, summary.CrewHours)
	assert.Equal(t, 0.0, summary.IdleRatio)
	assert.Equal(t, 2, summary.Headcount)

	day := summary.Daily["2024-03-04"]
	assert.Equal(t, time.Hour, day.Actual)
	assert.Equal(t, 2*time.Hour, day.Touch)
	assert.Equal(t, time.Duration(0), day.Idle)
}

func TestCompute_EmptyInput(t *testing.T) {
	summary := Compute(Snapshot{Now: t0})

	assert.Equal(t, time.Duration(0), summary.TotalActive)
	assert.Equal(t, time.Duration(0), summary.TotalIdle)
	assert.Equal(t, time.Duration(0), summary.TotalAll)
	assert.Equal(t, time.Duration(0), summary.ActualClock)
	assert.Equal(t, 0.0, summary.Utilization)
	assert.Equal(t, 0.0, summary.CrewHours)
	assert.Equal(t, 0.0, summary.IdleRatio)
	assert.Nil(t, summary.FirstStartAt)
	assert.Nil(t, summary.LastStopAt)
	assert.False(t, summary.AnyEngagedNow)
	assert.NotNil(t, summary.Daily)
	assert.Empty(t, summary.Daily)
}

func TestCompute_IsIdempotent(t *testing.T) {
	snapshot := Snapshot{
		Employees: []employee.Employee{
			activeEmployee(1, 30*time.Minute, at(90*time.Minute)),
			{Id: 2, Status: employee.StatusPaused, Elapsed: time.Hour, LastPausedAt: ptr(at(time.Hour))},
		},
		Log: []timelog.Entry{
			entry(2, timelog.EventStart, 0),
			entry(1, timelog.EventStart, 0),
			entry(1, timelog.EventPause, 30*time.Minute),
			entry(2, timelog.EventPause, time.Hour),
			entry(1, timelog.EventStart, 90*time.Minute),
		},
		Now:      at(26 * time.Hour),
		Location: location,
	}

	first := Compute(snapshot)
	second := Compute(snapshot)

	assert.Equal(t, first, second)
}

func TestCompute_LiveClockGrowsWhileSomebodyIsEngaged(t *testing.T) {
	// given one employee stopped and another still working
	employees := []employee.Employee{
		idleEmployee(1, 30*time.Minute, 0),
		activeEmployee(2, 0, at(0)),
	}
	log := []timelog.Entry{
		entry(1, timelog.EventStart, 0),
		entry(2, timelog.EventStart, 0),
		entry(1, timelog.EventStop, 30*time.Minute),
	}

	previous := time.Duration(-1)
	for minutes := 30; minutes <= 240; minutes += 15 {
		// when
		now := at(time.Duration(minutes) * time.Minute)
		summary := Compute(Snapshot{Employees: employees, Log: log, Now: now, Location: location})

		// then
		assert.True(t, summary.AnyEngagedNow)
		assert.Equal(t, now.Sub(t0), summary.ActualClock)
		assert.GreaterOrEqual(t, summary.ActualClock, previous)
		previous = summary.ActualClock
	}
}

func TestCompute_ActualClockFreezesWhenEverybodyStopped(t *testing.T) {
	employees := []employee.Employee{
		idleEmployee(1, 45*time.Minute, 0),
		idleEmployee(2, 80*time.Minute, 0),
	}
	log := []timelog.Entry{
		entry(1, timelog.EventStart, 0),
		entry(2, timelog.EventStart, 10*time.Minute),
		entry(1, timelog.EventStop, 45*time.Minute),
		entry(2, timelog.EventStop, 90*time.Minute),
	}

	for _, later := range []time.Duration{90 * time.Minute, 3 * time.Hour, 72 * time.Hour} {
		summary := Compute(Snapshot{Employees: employees, Log: log, Now: at(later), Location: location})

		assert.False(t, summary.AnyEngagedNow)
		assert.Equal(t, 90*time.Minute, summary.ActualClock)
		assert.Equal(t, 125*time.Minute, summary.TotalActive)
	}
}

func TestCompute_IdleWithoutStopFallsBackToNow(t *testing.T) {
	// nobody engaged but the stop entry was deleted from the log
	summary := Compute(Snapshot{
		Employees: []employee.Employee{idleEmployee(1, time.Hour, 0)},
		Log:       []timelog.Entry{entry(1, timelog.EventStart, 0)},
		Now:       at(2 * time.Hour),
		Location:  location,
	})

	assert.Equal(t, 2*time.Hour, summary.ActualClock)
	assert.Equal(t, 0.5, summary.Utilization)
}

func TestCompute_ActualClockIsNeverNegative(t *testing.T) {
	summary := Compute(Snapshot{
		Employees: []employee.Employee{idleEmployee(1, 0, 0)},
		Log: []timelog.Entry{
			entry(1, timelog.EventStop, 0),
			entry(1, timelog.EventStart, time.Hour),
		},
		Now:      at(2 * time.Hour),
		Location: location,
	})

	assert.Equal(t, time.Duration(0), summary.ActualClock)
	assert.Equal(t, 0.0, summary.Utilization)
}

func TestCompute_InconsistentEmployeeStateCountsOpenRunAsZero(t *testing.T) {
	summary := Compute(Snapshot{
		Employees: []employee.Employee{
			{Id: 1, Status: employee.StatusActive, Elapsed: 20 * time.Minute},
			{Id: 2, Status: employee.StatusPaused, PausedAccum: 5 * time.Minute},
		},
		Now:      at(time.Hour),
		Location: location,
	})

	assert.Equal(t, 20*time.Minute, summary.TotalActive)
	assert.Equal(t, 5*time.Minute, summary.TotalIdle)
	assert.True(t, summary.AnyEngagedNow)
	assert.Equal(t, 2, summary.EngagedCount)
	assert.Equal(t, time.Duration(0), summary.ActualClock)
}

func TestCompute_DeletedEmployeesKeepTheirWorkButLeaveHeadcount(t *testing.T) {
	summary := Compute(Snapshot{
		Employees: []employee.Employee{
			{Id: 1, Status: employee.StatusIdle, Elapsed: 30 * time.Minute, Deleted: true},
			idleEmployee(2, time.Hour, 0),
		},
		Log: []timelog.Entry{
			entry(1, timelog.EventStart, 0),
			entry(2, timelog.EventStart, 0),
			entry(1, timelog.EventDeleted, 30*time.Minute),
			entry(2, timelog.EventStop, time.Hour),
		},
		Now:      at(2 * time.Hour),
		Location: location,
	})

	assert.Equal(t, 1, summary.Headcount)
	assert.Equal(t, 90*time.Minute, summary.TotalActive)
	assert.Equal(t, time.Hour, summary.ActualClock)
	day := summary.Daily["2024-03-04"]
	assert.Equal(t, time.Hour, day.Actual)
	assert.Equal(t, summary.TotalActive, day.Touch)
}

func TestSummary_SortedDates(t *testing.T) {
	summary := Summary{Daily: map[string]DailyBucket{
		"2024-03-05": {},
		"2023-12-31": {},
		"2024-03-04": {},
	}}

	assert.Equal(t, []string{"2023-12-31", "2024-03-04", "2024-03-05"}, summary.SortedDates())
}
