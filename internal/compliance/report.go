package compliance

import (
	"sort"
	"time"

	"github.com/fieldscope/fieldscope/pkg/models"
)

// AssembleInput carries everything the report assembler needs. All fields are
// immutable once handed over; assembly is a pure function of this input.
type AssembleInput struct {
	Classified []models.ClassifiedJob
	Skipped    int
	Directory  map[string]models.Worker

	// Full known vocabularies, independent of any applied filter.
	KnownTeams      []string
	KnownCategories []string

	CategoriesFetched int
	TotalCategories   int
	UnassignedJobs    int
	Partial           bool

	Window  models.DateRange
	Scoring ScoringConfig

	GeneratedAt time.Time
}

// Assemble runs both folds over the classified set, scores every comparison
// set independently, and produces the final report. Output ordering is fully
// deterministic: the same classified set in any permutation yields the same
// report.
func Assemble(in AssembleInput) *models.ComplianceReport {
	users := AggregateWorkers(in.Classified, in.Directory)
	teams := AggregateTeams(in.Classified, in.Directory)
	categories := AggregateCategories(in.Classified)

	globalAvg := ScoreWorkers(users, in.Scoring)
	ScoreGroups(teams, in.Scoring)
	ScoreGroups(categories, in.Scoring)

	sort.Slice(users, func(i, j int) bool {
		if users[i].AdjustedScore != users[j].AdjustedScore {
			return users[i].AdjustedScore > users[j].AdjustedScore
		}
		return users[i].WorkerID < users[j].WorkerID
	})
	sortGroups(teams)
	sortGroups(categories)

	knownTeams := append([]string(nil), in.KnownTeams...)
	sort.Strings(knownTeams)
	knownCategories := append([]string(nil), in.KnownCategories...)
	sort.Strings(knownCategories)

	return &models.ComplianceReport{
		Users:              users,
		TeamComparison:     teams,
		CategoryComparison: categories,
		Summary:            summarize(in.Classified, len(users)),
		Filters: models.Filters{
			Teams:      knownTeams,
			Categories: knownCategories,
		},
		Scoring: models.ScoringInfo{
			MinJobs:        in.Scoring.MinJobs,
			BayesianC:      in.Scoring.ShrinkageC,
			GlobalAvgScore: globalAvg,
		},
		DateRange: in.Window,
		DataQuality: models.DataQuality{
			JobsFetched:       len(in.Classified) + in.Skipped,
			SkippedJobs:       in.Skipped,
			UnassignedJobs:    in.UnassignedJobs,
			CategoriesFetched: in.CategoriesFetched,
			TotalCategories:   in.TotalCategories,
			Partial:           in.Partial,
		},
		GeneratedAt: in.GeneratedAt,
	}
}

func sortGroups(groups []models.GroupMetrics) {
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].AdjustedScore != groups[j].AdjustedScore {
			return groups[i].AdjustedScore > groups[j].AdjustedScore
		}
		return groups[i].Name < groups[j].Name
	})
}

// summarize counts each classified job once, independent of how many workers
// it was attributed to.
func summarize(classified []models.ClassifiedJob, workerCount int) models.Summary {
	s := models.Summary{TotalJobs: len(classified), WorkerCount: workerCount}
	for _, cj := range classified {
		switch cj.State {
		case models.StateCompletedOnTime:
			s.CompletedJobs++
			s.OnTimeCompletions++
		case models.StateCompletedLate:
			s.CompletedJobs++
			s.LateCompletions++
		case models.StateStuck:
			s.StuckJobs++
		case models.StateNeverStarted:
			s.NeverStartedJobs++
		}
	}
	if s.CompletedJobs > 0 {
		s.OnTimePercent = roundPercent(s.OnTimeCompletions, s.CompletedJobs)
	}
	return s
}
