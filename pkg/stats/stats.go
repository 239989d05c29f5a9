package stats

import (
	"github.com/timestudy/timestudy/pkg/kpi"
	"github.com/timestudy/timestudy/pkg/study"
)

// StudyStats is a KPI summary together with the study it was computed for.
type StudyStats struct {
	Study   study.Study
	Summary kpi.Summary
}
