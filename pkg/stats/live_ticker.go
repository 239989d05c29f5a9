package stats

import (
	"context"
	"sync"
	"time"

	"github.com/timestudy/timestudy/internal/event_bus"
	"github.com/timestudy/timestudy/internal/observability"
	"github.com/timestudy/timestudy/pkg/kpi"
	"github.com/timestudy/timestudy/pkg/study"
	log "github.com/sirupsen/logrus"
)

type studiesReader interface {
	GetStudy(ctx context.Context, id int) (study.Study, error)
	GetAllStudies(ctx context.Context) ([]study.Study, error)
}

// LiveTicker keeps the KPI gauges of running studies current. While anybody is engaged the actual
// clock grows with every tick; a study whose crew is all idle is refreshed once more and then left frozen.
type LiveTicker struct {
	statsService StatsService
	studies      studiesReader
	interval     time.Duration

	mu sync.Mutex
	// uid -> engaged at the last refresh
	running map[string]bool
}

func NewLiveTicker(statsService StatsService, studies studiesReader, interval time.Duration) *LiveTicker {
	if interval <= 0 {
		interval = time.Second
	}
	return &LiveTicker{
		statsService: statsService,
		studies:      studies,
		interval:     interval,
		running:      make(map[string]bool),
	}
}

// Run refreshes gauges on every tick until ctx is cancelled. It should be called in a goroutine.
func (t *LiveTicker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	log.Infof("KPI live ticker started with interval %s", t.interval)

	t.RefreshAll(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info("KPI live ticker stopped")
			return
		case <-ticker.C:
			t.RefreshAll(ctx)
		}
	}
}

// RefreshAll recomputes every study that was engaged at the previous tick or is engaged now.
func (t *LiveTicker) RefreshAll(ctx context.Context) {
	studies, err := t.studies.GetAllStudies(ctx)
	if err != nil {
		log.Warnf("live ticker: unable to list studies: %v", err)
		return
	}
	for _, s := range studies {
		t.mu.Lock()
		wasRunning, known := t.running[s.Uid]
		t.mu.Unlock()
		if known && !wasRunning {
			continue
		}
		if err := t.refresh(ctx, s); err != nil {
			log.Warnf("live ticker: unable to refresh study %s: %v", s.Uid, err)
		}
	}
}

// RefreshStudy recomputes one study, typically after one of its employees changed state.
func (t *LiveTicker) RefreshStudy(ctx context.Context, studyId int) error {
	s, err := t.studies.GetStudy(ctx, studyId)
	if err != nil {
		return err
	}
	return t.refresh(ctx, s)
}

func (t *LiveTicker) refresh(ctx context.Context, s study.Study) error {
	stats, err := t.statsService.GetStatsForStudy(ctx, s)
	if err != nil {
		return err
	}
	RecordGauges(s.Uid, stats.Summary)
	t.mu.Lock()
	t.running[s.Uid] = stats.Summary.AnyEngagedNow
	t.mu.Unlock()
	return nil
}

// SubscribeToChanges refreshes a study's gauges whenever its employees or time log change.
func (t *LiveTicker) SubscribeToChanges(bus *event_bus.EventBus) (unsubscribe func()) {
	unsubTransitions := event_bus.SubscribeTyped(bus, event_bus.EmployeeTransitionedType,
		func(e event_bus.EventT[event_bus.EmployeeTransitioned]) error {
			return t.RefreshStudy(e.Context(), e.Data.StudyId)
		})
	unsubTimeLog := event_bus.SubscribeTyped(bus, event_bus.TimeLogChangedType,
		func(e event_bus.EventT[event_bus.TimeLogChanged]) error {
			return t.RefreshStudy(e.Context(), e.Data.StudyId)
		})
	return func() {
		unsubTransitions()
		unsubTimeLog()
	}
}

func RecordGauges(studyUid string, summary kpi.Summary) {
	observability.RecordStudyKPI(studyUid, observability.StudyKPI{
		Utilization:   summary.Utilization,
		IdleRatio:     summary.IdleRatio,
		CrewHours:     summary.CrewHours,
		ActualSeconds: summary.ActualClock.Seconds(),
		Engaged:       summary.EngagedCount,
	})
}
