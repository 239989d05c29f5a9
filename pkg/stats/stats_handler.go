package stats

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/timestudy/timestudy/internal/rest"
	"github.com/timestudy/timestudy/pkg/study"
)

type DailyStatsDTO struct {
	Date   string `json:"date"`
	Actual int    `json:"actual"`
	Touch  int    `json:"touch"`
	Idle   int    `json:"idle"`
}

// StatsSummaryDTO carries durations in seconds.
type StatsSummaryDTO struct {
	StudyUid      string          `json:"studyUid"`
	StudyName     string          `json:"studyName"`
	GeneratedAt   time.Time       `json:"generatedAt"`
	TotalActive   int             `json:"totalActive"`
	TotalIdle     int             `json:"totalIdle"`
	TotalAll      int             `json:"totalAll"`
	FirstStartAt  *time.Time      `json:"firstStartAt"`
	LastStopAt    *time.Time      `json:"lastStopAt"`
	AnyEngagedNow bool            `json:"anyEngagedNow"`
	ActualClock   int             `json:"actualClock"`
	Utilization   float64         `json:"utilization"`
	CrewHours     float64         `json:"crewHours"`
	IdleRatio     float64         `json:"idleRatio"`
	Headcount     int             `json:"headcount"`
	EngagedCount  int             `json:"engagedCount"`
	Days          []DailyStatsDTO `json:"days"`
}

type StatsHandler struct {
	statsService     StatsService
	csvStatsRenderer StatsRenderer
}

func NewStatsHandler(statsService StatsService, csvStatsRenderer StatsRenderer) *StatsHandler {
	return &StatsHandler{statsService, csvStatsRenderer}
}

func (handler *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := handler.statsService.GetStats(r.Context())
	if err != nil {
		if errors.Is(err, study.ErrNoStudy) {
			rest.WriteBadRequest(w, "Study not selected", "X-Study-Id header is required")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		csv, err := handler.csvStatsRenderer.RenderStats(stats)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write([]byte(csv)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ConvertToJsonResponse(stats)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func ConvertToJsonResponse(stats StudyStats) StatsSummaryDTO {
	summary := stats.Summary
	days := make([]DailyStatsDTO, 0, len(summary.Daily))
	for _, date := range summary.SortedDates() {
		day := summary.Daily[date]
		days = append(days, DailyStatsDTO{
			Date:   date,
			Actual: int(day.Actual.Seconds()),
			Touch:  int(day.Touch.Seconds()),
			Idle:   int(day.Idle.Seconds()),
		})
	}

	return StatsSummaryDTO{
		StudyUid:      stats.Study.Uid,
		StudyName:     stats.Study.Name,
		GeneratedAt:   summary.GeneratedAt,
		TotalActive:   int(summary.TotalActive.Seconds()),
		TotalIdle:     int(summary.TotalIdle.Seconds()),
		TotalAll:      int(summary.TotalAll.Seconds()),
		FirstStartAt:  summary.FirstStartAt,
		LastStopAt:    summary.LastStopAt,
		AnyEngagedNow: summary.AnyEngagedNow,
		ActualClock:   int(summary.ActualClock.Seconds()),
		Utilization:   summary.Utilization,
		CrewHours:     summary.CrewHours,
		IdleRatio:     summary.IdleRatio,
		Headcount:     summary.Headcount,
		EngagedCount:  summary.EngagedCount,
		Days:          days,
	}
}
