package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/timestudy/timestudy/internal/config"
	"github.com/timestudy/timestudy/internal/event_bus"
	"github.com/timestudy/timestudy/internal/messaging"
	"github.com/timestudy/timestudy/internal/utils"
	"github.com/timestudy/timestudy/pkg/employee"
	"github.com/timestudy/timestudy/pkg/narrative"
	"github.com/timestudy/timestudy/pkg/stats"
	"github.com/timestudy/timestudy/pkg/study"
	"github.com/timestudy/timestudy/pkg/timelog"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	// Publisher is a Kafka producer when kafka.enabled, a no-op otherwise.
	Publisher     messaging.Publisher
	KafkaProducer *messaging.KafkaProducer

	StudyRepo    study.Repo
	StudyService study.Service
	StudyHandler *study.Handler

	EmployeeRepo    employee.Repository
	EmployeeService employee.Service
	EmployeeHandler *employee.Handler

	TimeLogRepo    timelog.Repository
	TimeLogService timelog.Service
	TimeLogHandler *timelog.Handler

	StatsService     *stats.StatsServiceImpl
	CsvStatsRenderer *stats.CsvStatsRendererImpl
	StatsHandler     *stats.StatsHandler
	LiveTicker       *stats.LiveTicker

	NarrativeService narrative.Service
	NarrativeHandler *narrative.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	return newDependencies(cfg, &utils.SystemClock{},
		study.NewStudyRepo(db),
		employee.NewRepository(db),
		timelog.NewRepository(db),
	)
}

func newDependencies(
	cfg config.Application,
	clock utils.Clock,
	studyRepo study.Repo,
	employeeRepo employee.Repository,
	timeLogRepo timelog.Repository,
) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = clock
	deps.EventBus = event_bus.NewEventBus()

	if cfg.Kafka.Enabled {
		deps.KafkaProducer = messaging.NewKafkaProducer(cfg.Kafka.Brokers)
		deps.Publisher = messaging.NewJSONPublisher(deps.KafkaProducer)
	} else {
		deps.Publisher = messaging.NoopPublisher{}
	}

	deps.StudyRepo = studyRepo
	deps.StudyService = study.NewStudyService(deps.StudyRepo)
	deps.StudyHandler = study.NewHandler(deps.StudyService)

	deps.TimeLogRepo = timeLogRepo
	deps.TimeLogService = timelog.NewService(deps.TimeLogRepo, deps.EventBus)
	deps.TimeLogHandler = timelog.NewHandler(deps.TimeLogService)

	deps.EmployeeRepo = employeeRepo
	deps.EmployeeService = employee.NewService(deps.EmployeeRepo, deps.Clock, deps.EventBus)
	deps.EmployeeHandler = employee.NewHandler(deps.EmployeeService, deps.Clock)

	deps.StatsService = stats.NewStatsServiceImpl(deps.EmployeeRepo, deps.TimeLogRepo, deps.Clock)
	deps.CsvStatsRenderer = stats.NewCsvStatsRenderer()
	deps.StatsHandler = stats.NewStatsHandler(deps.StatsService, deps.CsvStatsRenderer)
	deps.LiveTicker = stats.NewLiveTicker(deps.StatsService, deps.StudyRepo, cfg.Study.Ticker.Interval)

	deps.NarrativeService = narrative.NewService(deps.StatsService, deps.Publisher, cfg.Kafka.Topics.Digest)
	deps.NarrativeHandler = narrative.NewHandler(deps.NarrativeService)

	return deps
}
