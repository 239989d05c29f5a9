package kpi

import (
	"time"

	"github.com/timestudy/timestudy/pkg/timelog"
)

// Compute reduces a snapshot into a Summary for snapshot.Now.
//
// The actual clock keeps growing while anybody is active or paused and freezes at the last
// stop once everybody is idle. Compute never fails: an empty snapshot yields zero aggregates
// and an empty daily breakdown.
func Compute(snapshot Snapshot) Summary {
	now := snapshot.Now
	loc := snapshot.Location
	if loc == nil {
		loc = time.Local
	}

	summary := Summary{GeneratedAt: now}

	for _, e := range snapshot.Employees {
		live := e.LiveTime(now)
		summary.TotalActive += live.Active
		summary.TotalIdle += live.Idle
		if e.Status.Engaged() {
			summary.AnyEngagedNow = true
			summary.EngagedCount++
		}
		if !e.Deleted {
			summary.Headcount++
		}
	}
	summary.TotalAll = summary.TotalActive + summary.TotalIdle

	summary.FirstStartAt, summary.LastStopAt = anchors(snapshot.Log)
	summary.ActualClock = actualClock(summary.FirstStartAt, summary.LastStopAt, summary.AnyEngagedNow, now)

	if summary.ActualClock > 0 {
		summary.Utilization = float64(summary.TotalActive) / float64(summary.ActualClock)
	}
	summary.CrewHours = summary.TotalActive.Hours()
	if summary.TotalAll > 0 {
		summary.IdleRatio = float64(summary.TotalIdle) / float64(summary.TotalAll)
	}

	summary.Daily = dailyBreakdown(snapshot.Log, summary.LastStopAt == nil, now, loc)

	return summary
}

// anchors returns the earliest start and the latest stop-or-delete of the log.
func anchors(log []timelog.Entry) (firstStart *time.Time, lastStop *time.Time) {
	for i := range log {
		at := log[i].At
		switch log[i].Event {
		case timelog.EventStart:
			if firstStart == nil || at.Before(*firstStart) {
				firstStart = &at
			}
		case timelog.EventStop, timelog.EventDeleted:
			if lastStop == nil || at.After(*lastStop) {
				lastStop = &at
			}
		}
	}
	return firstStart, lastStop
}

func actualClock(firstStart, lastStop *time.Time, anyEngaged bool, now time.Time) time.Duration {
	if firstStart == nil {
		return 0
	}
	end := now
	if !anyEngaged && lastStop != nil {
		end = *lastStop
	}
	d := end.Sub(*firstStart)
	if d < 0 {
		return 0
	}
	return d
}
