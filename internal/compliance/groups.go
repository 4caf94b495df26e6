package compliance

import (
	"sort"

	"github.com/fieldscope/fieldscope/pkg/models"
)

// groupState pairs an accumulator with the set of distinct workers that
// contributed to it.
type groupState struct {
	acc     *accumulator
	workers map[string]struct{}
}

func newGroupState() *groupState {
	return &groupState{acc: newAccumulator(), workers: make(map[string]struct{})}
}

// AggregateTeams re-folds classified jobs by team. Team labels attach to
// workers, so every (job, assignee) pair folds into every team the assignee
// belongs to. Summed team totals can therefore exceed the unique job count in
// the window: the number answers "how much work touched this team", not "how
// many unique jobs".
func AggregateTeams(jobs []models.ClassifiedJob, directory map[string]models.Worker) []models.GroupMetrics {
	groups := make(map[string]*groupState)
	for _, cj := range jobs {
		for _, workerID := range cj.Job.WorkerIDs {
			w, ok := directory[workerID]
			if !ok {
				continue
			}
			for _, team := range w.Teams {
				gs, ok := groups[team]
				if !ok {
					gs = newGroupState()
					groups[team] = gs
				}
				gs.acc.add(cj)
				gs.workers[workerID] = struct{}{}
			}
		}
	}
	return finalizeGroups(groups)
}

// AggregateCategories re-folds classified jobs by category. Each job carries
// exactly one category, so category totals partition the fold (modulo the
// per-assignee attribution shared with the worker fold).
func AggregateCategories(jobs []models.ClassifiedJob) []models.GroupMetrics {
	groups := make(map[string]*groupState)
	for _, cj := range jobs {
		if cj.Job.Category == "" {
			continue
		}
		for _, workerID := range cj.Job.WorkerIDs {
			gs, ok := groups[cj.Job.Category]
			if !ok {
				gs = newGroupState()
				groups[cj.Job.Category] = gs
			}
			gs.acc.add(cj)
			gs.workers[workerID] = struct{}{}
		}
	}
	return finalizeGroups(groups)
}

func finalizeGroups(groups map[string]*groupState) []models.GroupMetrics {
	out := make([]models.GroupMetrics, 0, len(groups))
	for name, gs := range groups {
		gs.acc.sortLists()
		f := gs.acc.finalize()
		out = append(out, models.GroupMetrics{
			Name:               name,
			UserCount:          len(gs.workers),
			TotalJobs:          gs.acc.total,
			CompletedJobs:      gs.acc.completed,
			OnTimeCompletions:  gs.acc.onTime,
			LateCompletions:    gs.acc.late,
			StuckJobs:          gs.acc.stuck,
			NeverStartedJobs:   gs.acc.neverStarted,
			OnTimePercent:      f.onTimePercent,
			OnOurWayOnTime:     gs.acc.oowOnTime,
			OnOurWayLate:       gs.acc.oowLate,
			OnOurWayPercent:    f.onOurWayPercent,
			StatusUsagePercent: f.statusUsagePercent,
			AvgDaysToComplete:  f.avgDaysToComplete,
			AvgDaysLate:        f.avgDaysLate,
			StuckList:          gs.acc.stuckList,
			LateList:           gs.acc.lateList,
			NeverStartedList:   gs.acc.neverStartedList,
			CompletedList:      gs.acc.completedList,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
