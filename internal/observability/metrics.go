// Package observability exposes study KPIs and time log activity as Prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	utilizationGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "timestudy",
		Subsystem: "kpi",
		Name:      "utilization_ratio",
		Help:      "Touch labor divided by actual time for the study.",
	}, []string{"study"})

	idleRatioGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "timestudy",
		Subsystem: "kpi",
		Name:      "idle_ratio",
		Help:      "Idle time divided by touch plus idle time for the study.",
	}, []string{"study"})

	crewHoursGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "timestudy",
		Subsystem: "kpi",
		Name:      "crew_hours",
		Help:      "Touch labor of the study in hours.",
	}, []string{"study"})

	actualClockGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "timestudy",
		Subsystem: "kpi",
		Name:      "actual_clock_seconds",
		Help:      "Wall-clock time from the first start to the live or frozen end of the study.",
	}, []string{"study"})

	engagedGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "timestudy",
		Subsystem: "crew",
		Name:      "engaged_employees",
		Help:      "Number of employees currently active or paused.",
	}, []string{"study"})

	timeLogEventsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timestudy",
		Subsystem: "timelog",
		Name:      "events_total",
		Help:      "Number of time log events appended, by event type.",
	}, []string{"event"})

	digestsPublishedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timestudy",
		Subsystem: "narrative",
		Name:      "digests_published_total",
		Help:      "Number of narrative digests handed to the broker, by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(
		utilizationGauge,
		idleRatioGauge,
		crewHoursGauge,
		actualClockGauge,
		engagedGauge,
		timeLogEventsCounter,
		digestsPublishedCounter,
	)
}

// StudyKPI is the subset of a KPI summary exported as gauges.
type StudyKPI struct {
	Utilization   float64
	IdleRatio     float64
	CrewHours     float64
	ActualSeconds float64
	Engaged       int
}

// RecordStudyKPI updates all gauges of one study.
func RecordStudyKPI(studyUid string, kpi StudyKPI) {
	utilizationGauge.WithLabelValues(studyUid).Set(kpi.Utilization)
	idleRatioGauge.WithLabelValues(studyUid).Set(kpi.IdleRatio)
	crewHoursGauge.WithLabelValues(studyUid).Set(kpi.CrewHours)
	actualClockGauge.WithLabelValues(studyUid).Set(kpi.ActualSeconds)
	engagedGauge.WithLabelValues(studyUid).Set(float64(kpi.Engaged))
}

func RecordTimeLogEvent(event string) {
	timeLogEventsCounter.WithLabelValues(event).Inc()
}

func RecordDigestPublished(err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	digestsPublishedCounter.WithLabelValues(outcome).Inc()
}
