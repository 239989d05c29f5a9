package stats

import (
	"context"
	"testing"
	"time"

	"github.com/timestudy/timestudy/internal/utils"
	"github.com/timestudy/timestudy/pkg/employee"
	"github.com/timestudy/timestudy/pkg/study"
	"github.com/timestudy/timestudy/pkg/timelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var location, _ = time.LoadLocation("Europe/Warsaw")
var t0 = time.Date(2024, time.March, 4, 9, 0, 0, 0, location)

type fixture struct {
	service   *StatsServiceImpl
	employees *employee.RepositoryStub
	timeLog   *timelog.RepositoryStub
	studies   *study.StubStudyRepository
	clock     *utils.MockClock
	study     study.Study
	ctx       context.Context
}

func setup(t *testing.T) fixture {
	timeLog := timelog.NewRepositoryStub()
	employees := employee.NewRepositoryStub(timeLog)
	studies := study.NewStubStudyRepository()
	clock := &utils.MockClock{FixedNow: t0}
	s, err := studies.CreateStudy(context.Background(), study.Study{Uid: "study-uid", Name: "Assembly", Timezone: "Europe/Warsaw"})
	require.NoError(t, err)
	return fixture{
		service:   NewStatsServiceImpl(employees, timeLog, clock),
		employees: employees,
		timeLog:   timeLog,
		studies:   studies,
		clock:     clock,
		study:     s,
		ctx:       study.WithStudy(context.Background(), s),
	}
}

func (f fixture) log(employeeId int, event timelog.EventType, offset time.Duration) {
	_, _ = f.timeLog.AppendEntry(context.Background(), f.study.Id, timelog.Entry{
		EmployeeId: ptr(employeeId),
		Event:      event,
		At:         t0.Add(offset),
	})
}

func TestStatsServiceImpl_GetStats(t *testing.T) {
	// given a single employee who worked 2h with a 10 minute break
	f := setup(t)
	f.employees.Put(f.study.Id, employee.Employee{Id: 1, Name: "Anna", Status: employee.StatusIdle, Elapsed: 2 * time.Hour, PausedAccum: 10 * time.Minute})
	f.log(1, timelog.EventStart, 0)
	f.log(1, timelog.EventPause, time.Hour)
	f.log(1, timelog.EventStart, 70*time.Minute)
	f.log(1, timelog.EventStop, 130*time.Minute)
	f.clock.SetNow(t0.Add(5 * time.Hour))

	// when
	stats, err := f.service.GetStats(f.ctx)

	// then
	require.NoError(t, err)
	assert.Equal(t, "study-uid", stats.Study.Uid)
	summary := stats.Summary
	assert.Equal(t, 2*time.Hour, summary.TotalActive)
	assert.Equal(t, 130*time.Minute, summary.ActualClock)
	assert.InDelta(t, 0.923, summary.Utilization, 0.001)
	assert.Equal(t, t0.Add(5*time.Hour), summary.GeneratedAt)
	assert.Equal(t, 130*time.Minute, summary.Daily["2024-03-04"].Actual)
}

func TestStatsServiceImpl_GetStats_IncludesDeletedEmployees(t *testing.T) {
	f := setup(t)
	f.employees.Put(f.study.Id, employee.Employee{Id: 1, Status: employee.StatusIdle, Elapsed: 30 * time.Minute, Deleted: true})
	f.employees.Put(f.study.Id, employee.Employee{Id: 2, Status: employee.StatusActive, StartTime: ptr(t0)})
	f.log(1, timelog.EventStart, 0)
	f.log(2, timelog.EventStart, 0)
	f.log(1, timelog.EventDeleted, 30*time.Minute)
	f.clock.SetNow(t0.Add(time.Hour))

	stats, err := f.service.GetStats(f.ctx)

	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, stats.Summary.TotalActive)
	assert.Equal(t, 1, stats.Summary.Headcount)
	assert.True(t, stats.Summary.AnyEngagedNow)
	assert.Equal(t, time.Hour, stats.Summary.ActualClock)
}

func TestStatsServiceImpl_GetStats_LiveClockFollowsTheMockClock(t *testing.T) {
	f := setup(t)
	f.employees.Put(f.study.Id, employee.Employee{Id: 1, Status: employee.StatusActive, StartTime: ptr(t0)})
	f.log(1, timelog.EventStart, 0)

	for _, offset := range []time.Duration{time.Minute, time.Hour, 3 * time.Hour} {
		f.clock.SetNow(t0.Add(offset))

		stats, err := f.service.GetStats(f.ctx)

		require.NoError(t, err)
		assert.Equal(t, offset, stats.Summary.ActualClock)
		assert.Equal(t, offset, stats.Summary.TotalActive)
		assert.Equal(t, 1.0, stats.Summary.Utilization)
	}
}

func TestStatsServiceImpl_GetStats_RequiresStudy(t *testing.T) {
	f := setup(t)

	_, err := f.service.GetStats(context.Background())

	assert.ErrorIs(t, err, study.ErrNoStudy)
}
