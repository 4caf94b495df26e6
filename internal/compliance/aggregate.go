package compliance

import (
	"math"
	"sort"

	"github.com/fieldscope/fieldscope/pkg/models"
)

// accumulator is the running state of one fold, shared by the worker and
// group aggregations. Folding is commutative and associative, so input order
// never affects the finalized metrics.
type accumulator struct {
	total        int
	completed    int
	onTime       int
	late         int
	stuck        int
	neverStarted int

	oowOnTime   int
	oowLate     int
	oowUsed     int
	startedUsed int

	daysToCompleteSum int
	daysToCompleteN   int
	daysLateSum       int
	daysLateN         int

	byCategory map[string]int

	stuckList        []models.JobRef
	lateList         []models.JobRef
	neverStartedList []models.JobRef
	completedList    []models.JobRef
}

func newAccumulator() *accumulator {
	return &accumulator{byCategory: make(map[string]int)}
}

func (a *accumulator) add(cj models.ClassifiedJob) {
	a.total++
	if cj.Job.Category != "" {
		a.byCategory[cj.Job.Category]++
	}

	ref := models.JobRef{ID: cj.Job.ID, Title: cj.Job.Title}

	switch cj.State {
	case models.StateCompletedOnTime, models.StateCompletedLate:
		a.completed++
		a.completedList = append(a.completedList, ref)
		if cj.State == models.StateCompletedOnTime {
			a.onTime++
		} else {
			a.late++
			a.lateList = append(a.lateList, ref)
			a.daysLateSum += cj.DaysLate
			a.daysLateN++
		}
		if cj.HasDaysToComplete {
			a.daysToCompleteSum += cj.DaysToComplete
			a.daysToCompleteN++
		}
		if cj.OnOurWayOnTime != nil {
			if *cj.OnOurWayOnTime {
				a.oowOnTime++
			} else {
				a.oowLate++
			}
		}
		if cj.UsedOnOurWay {
			a.oowUsed++
		}
		if cj.UsedStarted {
			a.startedUsed++
		}
	case models.StateStuck:
		a.stuck++
		a.stuckList = append(a.stuckList, ref)
	case models.StateNeverStarted:
		a.neverStarted++
		a.neverStartedList = append(a.neverStartedList, ref)
	}
}

// finalized holds the derived percentages and averages of one accumulator.
type finalized struct {
	onTimePercent      int
	onOurWayPercent    int
	statusUsagePercent int
	avgDaysToComplete  int
	avgDaysLate        int
}

// finalize computes the guarded percentages. statusUsagePercent is the
// average of the on-our-way and started usage rates over completed jobs:
// round(100 * (oowUsed + startedUsed) / (2 * completed)).
func (a *accumulator) finalize() finalized {
	var f finalized
	if a.completed > 0 {
		f.onTimePercent = roundPercent(a.onTime, a.completed)
		f.statusUsagePercent = roundPercent(a.oowUsed+a.startedUsed, 2*a.completed)
	}
	if oowTotal := a.oowOnTime + a.oowLate; oowTotal > 0 {
		f.onOurWayPercent = roundPercent(a.oowOnTime, oowTotal)
	}
	if a.daysToCompleteN > 0 {
		f.avgDaysToComplete = roundDiv(a.daysToCompleteSum, a.daysToCompleteN)
	}
	if a.daysLateN > 0 {
		f.avgDaysLate = roundDiv(a.daysLateSum, a.daysLateN)
	}
	return f
}

func (a *accumulator) sortLists() {
	byID := func(refs []models.JobRef) {
		sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	}
	byID(a.stuckList)
	byID(a.lateList)
	byID(a.neverStartedList)
	byID(a.completedList)
}

// AggregateWorkers folds classified jobs into one metrics record per assigned
// worker. A job with k assignees is attributed k times, once per assignee.
// Workers with no jobs in the window produce no record at all.
func AggregateWorkers(jobs []models.ClassifiedJob, directory map[string]models.Worker) []models.WorkerMetrics {
	accs := make(map[string]*accumulator)
	for _, cj := range jobs {
		for _, workerID := range cj.Job.WorkerIDs {
			acc, ok := accs[workerID]
			if !ok {
				acc = newAccumulator()
				accs[workerID] = acc
			}
			acc.add(cj)
		}
	}

	users := make([]models.WorkerMetrics, 0, len(accs))
	for workerID, acc := range accs {
		acc.sortLists()
		f := acc.finalize()

		name := workerID
		var teams []string
		if w, ok := directory[workerID]; ok {
			name = w.Name
			teams = append([]string(nil), w.Teams...)
			sort.Strings(teams)
		}

		users = append(users, models.WorkerMetrics{
			WorkerID:           workerID,
			Name:               name,
			Teams:              teams,
			TotalJobs:          acc.total,
			CompletedJobs:      acc.completed,
			OnTimeCompletions:  acc.onTime,
			LateCompletions:    acc.late,
			StuckJobs:          acc.stuck,
			NeverStartedJobs:   acc.neverStarted,
			OnTimePercent:      f.onTimePercent,
			OnOurWayOnTime:     acc.oowOnTime,
			OnOurWayLate:       acc.oowLate,
			OnOurWayPercent:    f.onOurWayPercent,
			StatusUsagePercent: f.statusUsagePercent,
			AvgDaysToComplete:  f.avgDaysToComplete,
			AvgDaysLate:        f.avgDaysLate,
			ByCategory:         acc.byCategory,
			StuckList:          acc.stuckList,
			LateList:           acc.lateList,
			NeverStartedList:   acc.neverStartedList,
			CompletedList:      acc.completedList,
		})
	}

	return users
}

func roundPercent(n, d int) int {
	return int(math.Round(100 * float64(n) / float64(d)))
}

func roundDiv(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}
