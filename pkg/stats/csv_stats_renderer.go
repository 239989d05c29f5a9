package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

type StatsRenderer interface {
	RenderStats(stats StudyStats) (string, error)
}

type CsvStatsRendererImpl struct {
}

func NewCsvStatsRenderer() *CsvStatsRendererImpl {
	return &CsvStatsRendererImpl{}
}

// RenderStats writes the summary as metric/value rows followed by the daily breakdown table.
func (t *CsvStatsRendererImpl) RenderStats(stats StudyStats) (string, error) {
	summary := stats.Summary
	loc := stats.Study.TimeLocation()

	data := [][]string{
		{"Study", stats.Study.Name},
		{"Observer", stats.Study.Observer},
		{"Generated at", summary.GeneratedAt.In(loc).Format(time.RFC3339)},
		{"First start", timeToString(summary.FirstStartAt, loc)},
		{"Last stop", timeToString(summary.LastStopAt, loc)},
		{"Headcount", strconv.Itoa(summary.Headcount)},
		{"Engaged now", strconv.Itoa(summary.EngagedCount)},
		{"Touch time", durationToString(summary.TotalActive)},
		{"Idle time", durationToString(summary.TotalIdle)},
		{"Total time", durationToString(summary.TotalAll)},
		{"Actual time", durationToString(summary.ActualClock)},
		{"Utilization", ratioToString(summary.Utilization)},
		{"Crew hours", ratioToString(summary.CrewHours)},
		{"Idle ratio", ratioToString(summary.IdleRatio)},
		{},
		{"Date", "Actual", "Touch", "Idle"},
	}

	var sumActual, sumTouch, sumIdle time.Duration
	for _, date := range summary.SortedDates() {
		day := summary.Daily[date]
		data = append(data, []string{
			date,
			durationToString(day.Actual),
			durationToString(day.Touch),
			durationToString(day.Idle),
		})
		sumActual += day.Actual
		sumTouch += day.Touch
		sumIdle += day.Idle
	}
	data = append(data, []string{"SUM", durationToString(sumActual), durationToString(sumTouch), durationToString(sumIdle)})

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func timeToString(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(time.RFC3339)
}

func ratioToString(ratio float64) string {
	return strconv.FormatFloat(ratio, 'f', 3, 64)
}

func durationToString(duration time.Duration) string {
	hours := strconv.Itoa(int(duration.Hours()))
	if len(hours) == 1 {
		hours = "0" + hours
	}
	minutes := strconv.Itoa(int(duration.Minutes()) % 60)
	if len(minutes) == 1 {
		minutes = "0" + minutes
	}
	seconds := strconv.Itoa(int(duration.Seconds()) % 60)
	if len(seconds) == 1 {
		seconds = "0" + seconds
	}
	return hours + ":" + minutes + ":" + seconds
}
