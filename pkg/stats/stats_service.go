package stats

import (
	"context"
	"fmt"

	"github.com/timestudy/timestudy/internal/utils"
	"github.com/timestudy/timestudy/pkg/employee"
	"github.com/timestudy/timestudy/pkg/kpi"
	"github.com/timestudy/timestudy/pkg/study"
	"github.com/timestudy/timestudy/pkg/timelog"
	log "github.com/sirupsen/logrus"
)

type StatsService interface {
	// GetStats computes the KPIs of the study selected in ctx at the current instant.
	GetStats(ctx context.Context) (StudyStats, error)
	GetStatsForStudy(ctx context.Context, s study.Study) (StudyStats, error)
}

type employeesReader interface {
	ListEmployees(ctx context.Context, studyId int, includeDeleted bool) ([]employee.Employee, error)
}

type timeLogReader interface {
	ListEntries(ctx context.Context, studyId int) ([]timelog.Entry, error)
}

type StatsServiceImpl struct {
	employees employeesReader
	timeLog   timeLogReader
	clock     utils.Clock
}

func NewStatsServiceImpl(employees employeesReader, timeLog timeLogReader, clock utils.Clock) *StatsServiceImpl {
	return &StatsServiceImpl{
		employees: employees,
		timeLog:   timeLog,
		clock:     clock,
	}
}

func (s *StatsServiceImpl) GetStats(ctx context.Context) (StudyStats, error) {
	current, err := study.CurrentStudy(ctx)
	if err != nil {
		return StudyStats{}, fmt.Errorf("failed to get current study: %w", err)
	}
	return s.GetStatsForStudy(ctx, current)
}

func (s *StatsServiceImpl) GetStatsForStudy(ctx context.Context, current study.Study) (StudyStats, error) {
	// deleted employees stay in the snapshot, their finished work is part of the totals
	employees, err := s.employees.ListEmployees(ctx, current.Id, true)
	if err != nil {
		return StudyStats{}, err
	}
	entries, err := s.timeLog.ListEntries(ctx, current.Id)
	if err != nil {
		return StudyStats{}, err
	}
	log.Tracef("computing KPIs of study %s from %d employees and %d log entries", current.Uid, len(employees), len(entries))

	summary := kpi.Compute(kpi.Snapshot{
		Employees: employees,
		Log:       entries,
		Now:       s.clock.Now(),
		Location:  current.TimeLocation(),
	})
	return StudyStats{Study: current, Summary: summary}, nil
}
