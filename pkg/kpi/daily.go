package kpi

import (
	"sort"
	"time"

	"github.com/timestudy/timestudy/pkg/employee"
	"github.com/timestudy/timestudy/pkg/timelog"
)

// replay is the simulated crew state while walking the log. It is independent from the live
// employee state so historical run boundaries are never counted twice.
type replay struct {
	statuses map[int]employee.Status
	loc      *time.Location
	daily    map[string]DailyBucket
}

// dailyBreakdown apportions actual, touch and idle time to local calendar days by replaying the
// log in time order. When extendToNow is set the last span is kept open until now.
func dailyBreakdown(log []timelog.Entry, extendToNow bool, now time.Time, loc *time.Location) map[string]DailyBucket {
	daily := make(map[string]DailyBucket)
	if len(log) == 0 {
		return daily
	}

	entries := make([]timelog.Entry, len(log))
	copy(entries, log)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].At.Before(entries[j].At)
	})

	r := &replay{
		statuses: make(map[int]employee.Status),
		loc:      loc,
		daily:    daily,
	}
	for _, entry := range entries {
		if entry.EmployeeId != nil {
			r.statuses[*entry.EmployeeId] = employee.StatusIdle
		}
	}

	tPrev := entries[0].At
	for _, entry := range entries {
		r.addSpan(tPrev, entry.At)
		r.apply(entry)
		tPrev = entry.At
	}
	if extendToNow {
		r.addSpan(tPrev, now)
	}

	return daily
}

func (r *replay) apply(entry timelog.Entry) {
	if entry.EmployeeId == nil {
		return
	}
	switch entry.Event {
	case timelog.EventStart:
		r.statuses[*entry.EmployeeId] = employee.StatusActive
	case timelog.EventPause:
		r.statuses[*entry.EmployeeId] = employee.StatusPaused
	case timelog.EventStop, timelog.EventDeleted:
		r.statuses[*entry.EmployeeId] = employee.StatusIdle
	}
}

// addSpan credits [t0, t1) to the days it covers, weighted by the current crew snapshot.
func (r *replay) addSpan(t0, t1 time.Time) {
	if !t1.After(t0) {
		return
	}

	activeCnt, pausedCnt := 0, 0
	for _, status := range r.statuses {
		switch status {
		case employee.StatusActive:
			activeCnt++
		case employee.StatusPaused:
			pausedCnt++
		}
	}

	for a := t0; a.Before(t1); {
		b := startOfNextDay(a, r.loc)
		if b.After(t1) {
			b = t1
		}
		dur := b.Sub(a)
		key := a.In(r.loc).Format(DateLayout)

		bucket := r.daily[key]
		bucket.Actual += dur
		bucket.Touch += dur * time.Duration(activeCnt)
		bucket.Idle += dur * time.Duration(pausedCnt)
		r.daily[key] = bucket

		a = b
	}
}

func startOfNextDay(t time.Time, location *time.Location) time.Time {
	day := t.In(location)
	return time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, location)
}
