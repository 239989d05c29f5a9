// Package narrative builds the compact study digest handed to the summarization consumer.
// The digest only formats already computed KPIs, it never derives them again.
package narrative

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/timestudy/timestudy/pkg/stats"
)

type DigestDay struct {
	Date   string `json:"date"`
	Actual string `json:"actual"`
	Touch  string `json:"touch"`
	Idle   string `json:"idle"`
}

type Digest struct {
	StudyUid      string     `json:"studyUid"`
	StudyName     string     `json:"studyName"`
	Observer      string     `json:"observer"`
	Location      string     `json:"location"`
	Timezone      string     `json:"timezone"`
	Notes         string     `json:"notes"`
	GeneratedAt   time.Time  `json:"generatedAt"`
	FirstStartAt  *time.Time `json:"firstStartAt"`
	LastStopAt    *time.Time `json:"lastStopAt"`
	Headcount     int        `json:"headcount"`
	EngagedCount  int        `json:"engagedCount"`
	AnyEngagedNow bool       `json:"anyEngagedNow"`

	TotalActiveMs int64 `json:"totalActiveMs"`
	TotalIdleMs   int64 `json:"totalIdleMs"`
	ActualClockMs int64 `json:"actualClockMs"`

	TouchTime  string `json:"touchTime"`
	IdleTime   string `json:"idleTime"`
	ActualTime string `json:"actualTime"`

	Utilization        float64 `json:"utilization"`
	UtilizationPercent string  `json:"utilizationPercent"`
	CrewHours          float64 `json:"crewHours"`
	IdleRatio          float64 `json:"idleRatio"`

	Days []DigestDay `json:"days"`
}

var hundred = decimal.NewFromInt(100)

// BuildDigest formats the KPIs of one study for a prose summary. Ratios keep three decimals,
// crew hours two.
func BuildDigest(studyStats stats.StudyStats) Digest {
	summary := studyStats.Summary
	s := studyStats.Study

	utilization := decimal.NewFromFloat(summary.Utilization)
	days := make([]DigestDay, 0, len(summary.Daily))
	for _, date := range summary.SortedDates() {
		day := summary.Daily[date]
		days = append(days, DigestDay{
			Date:   date,
			Actual: durationString(day.Actual),
			Touch:  durationString(day.Touch),
			Idle:   durationString(day.Idle),
		})
	}

	return Digest{
		StudyUid:      s.Uid,
		StudyName:     s.Name,
		Observer:      s.Observer,
		Location:      s.Location,
		Timezone:      s.TimeLocation().String(),
		Notes:         s.Notes,
		GeneratedAt:   summary.GeneratedAt,
		FirstStartAt:  summary.FirstStartAt,
		LastStopAt:    summary.LastStopAt,
		Headcount:     summary.Headcount,
		EngagedCount:  summary.EngagedCount,
		AnyEngagedNow: summary.AnyEngagedNow,

		TotalActiveMs: summary.TotalActive.Milliseconds(),
		TotalIdleMs:   summary.TotalIdle.Milliseconds(),
		ActualClockMs: summary.ActualClock.Milliseconds(),

		TouchTime:  durationString(summary.TotalActive),
		IdleTime:   durationString(summary.TotalIdle),
		ActualTime: durationString(summary.ActualClock),

		Utilization:        utilization.Round(3).InexactFloat64(),
		UtilizationPercent: utilization.Mul(hundred).StringFixed(1) + "%",
		CrewHours:          decimal.NewFromFloat(summary.CrewHours).Round(2).InexactFloat64(),
		IdleRatio:          decimal.NewFromFloat(summary.IdleRatio).Round(3).InexactFloat64(),

		Days: days,
	}
}

func durationString(d time.Duration) string {
	return d.Round(time.Second).String()
}
