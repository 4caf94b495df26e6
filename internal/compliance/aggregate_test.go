package compliance

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/fieldscope/fieldscope/pkg/models"
)

// cjob builds a classified job for fold tests.
func cjob(id string, state models.LifecycleState, workers ...string) models.ClassifiedJob {
	return models.ClassifiedJob{
		Job:   models.JobRecord{ID: id, Title: "job " + id, WorkerIDs: workers},
		State: state,
	}
}

func testDirectory() map[string]models.Worker {
	return map[string]models.Worker{
		"w1": {ID: "w1", Name: "Alex", Teams: []string{"North"}},
		"w2": {ID: "w2", Name: "Dana", Teams: []string{"North", "Install"}},
		"w3": {ID: "w3", Name: "Sam", Teams: nil},
	}
}

func findWorker(t *testing.T, users []models.WorkerMetrics, id string) models.WorkerMetrics {
	t.Helper()
	for _, u := range users {
		if u.WorkerID == id {
			return u
		}
	}
	t.Fatalf("worker %s not in result", id)
	return models.WorkerMetrics{}
}

func findGroup(t *testing.T, groups []models.GroupMetrics, name string) models.GroupMetrics {
	t.Helper()
	for _, g := range groups {
		if g.Name == name {
			return g
		}
	}
	t.Fatalf("group %s not in result", name)
	return models.GroupMetrics{}
}

func TestAggregateWorkers_CountersPartitionTotal(t *testing.T) {
	jobs := []models.ClassifiedJob{
		cjob("j1", models.StateCompletedOnTime, "w1"),
		cjob("j2", models.StateCompletedLate, "w1"),
		cjob("j3", models.StateStuck, "w1"),
		cjob("j4", models.StateNeverStarted, "w1"),
		cjob("j5", models.StateOther, "w1"),
	}

	users := AggregateWorkers(jobs, testDirectory())
	if len(users) != 1 {
		t.Fatalf("expected 1 worker, got %d", len(users))
	}
	u := users[0]

	if u.TotalJobs != 5 {
		t.Errorf("totalJobs = %d, want 5", u.TotalJobs)
	}
	// completed + stuck + neverStarted + other == total
	other := u.TotalJobs - u.CompletedJobs - u.StuckJobs - u.NeverStartedJobs
	if other != 1 {
		t.Errorf("other = %d, want 1", other)
	}
	if u.CompletedJobs != 2 || u.OnTimeCompletions != 1 || u.LateCompletions != 1 {
		t.Errorf("completed/onTime/late = %d/%d/%d, want 2/1/1",
			u.CompletedJobs, u.OnTimeCompletions, u.LateCompletions)
	}
	if u.OnTimePercent != 50 {
		t.Errorf("onTimePercent = %d, want 50", u.OnTimePercent)
	}
	if u.Name != "Alex" {
		t.Errorf("name = %q, want Alex", u.Name)
	}
}

func TestAggregateWorkers_MultiAssigneeDoubleCounts(t *testing.T) {
	jobs := []models.ClassifiedJob{
		cjob("j1", models.StateCompletedOnTime, "w1", "w2"),
	}

	users := AggregateWorkers(jobs, testDirectory())
	if len(users) != 2 {
		t.Fatalf("expected 2 workers, got %d", len(users))
	}
	for _, u := range users {
		if u.TotalJobs != 1 || u.CompletedJobs != 1 {
			t.Errorf("worker %s: total/completed = %d/%d, want 1/1", u.WorkerID, u.TotalJobs, u.CompletedJobs)
		}
	}
}

func TestAggregateWorkers_OmitsZeroJobWorkers(t *testing.T) {
	jobs := []models.ClassifiedJob{
		cjob("j1", models.StateCompletedOnTime, "w1"),
	}

	users := AggregateWorkers(jobs, testDirectory())
	if len(users) != 1 {
		t.Fatalf("expected 1 worker, got %d", len(users))
	}
	if users[0].WorkerID != "w1" {
		t.Errorf("worker = %s, want w1", users[0].WorkerID)
	}
}

func TestAggregateWorkers_UnknownWorkerKeepsID(t *testing.T) {
	jobs := []models.ClassifiedJob{
		cjob("j1", models.StateCompletedOnTime, "w-ghost"),
	}

	users := AggregateWorkers(jobs, testDirectory())
	if len(users) != 1 {
		t.Fatalf("expected 1 worker, got %d", len(users))
	}
	if users[0].Name != "w-ghost" {
		t.Errorf("name = %q, want raw ID fallback", users[0].Name)
	}
	if len(users[0].Teams) != 0 {
		t.Errorf("teams = %v, want none", users[0].Teams)
	}
}

func TestAggregateWorkers_GuardedDenominators(t *testing.T) {
	// No completed jobs: every percent with a completed denominator stays 0.
	jobs := []models.ClassifiedJob{
		cjob("j1", models.StateStuck, "w1"),
		cjob("j2", models.StateNeverStarted, "w1"),
	}

	u := AggregateWorkers(jobs, testDirectory())[0]
	if u.OnTimePercent != 0 || u.OnOurWayPercent != 0 || u.StatusUsagePercent != 0 {
		t.Errorf("percents = %d/%d/%d, want all 0",
			u.OnTimePercent, u.OnOurWayPercent, u.StatusUsagePercent)
	}
	if u.AvgDaysToComplete != 0 || u.AvgDaysLate != 0 {
		t.Errorf("averages = %d/%d, want 0/0", u.AvgDaysToComplete, u.AvgDaysLate)
	}
}

func TestAggregateWorkers_StatusUsagePercent(t *testing.T) {
	oow := true
	jobs := []models.ClassifiedJob{
		{
			Job:            models.JobRecord{ID: "j1", WorkerIDs: []string{"w1"}},
			State:          models.StateCompletedOnTime,
			UsedOnOurWay:   true,
			UsedStarted:    true,
			OnOurWayOnTime: &oow,
		},
		{
			Job:   models.JobRecord{ID: "j2", WorkerIDs: []string{"w1"}},
			State: models.StateCompletedOnTime,
		},
	}

	u := AggregateWorkers(jobs, testDirectory())[0]
	// 2 usage hits over 2*2 completed slots = 50%.
	if u.StatusUsagePercent != 50 {
		t.Errorf("statusUsagePercent = %d, want 50", u.StatusUsagePercent)
	}
	if u.OnOurWayOnTime != 1 || u.OnOurWayPercent != 100 {
		t.Errorf("oowOnTime/oowPercent = %d/%d, want 1/100", u.OnOurWayOnTime, u.OnOurWayPercent)
	}
}

func TestAggregateWorkers_TimingAverages(t *testing.T) {
	jobs := []models.ClassifiedJob{
		{
			Job:               models.JobRecord{ID: "j1", WorkerIDs: []string{"w1"}},
			State:             models.StateCompletedOnTime,
			DaysToComplete:    1,
			HasDaysToComplete: true,
		},
		{
			Job:               models.JobRecord{ID: "j2", WorkerIDs: []string{"w1"}},
			State:             models.StateCompletedLate,
			DaysLate:          3,
			DaysToComplete:    4,
			HasDaysToComplete: true,
		},
	}

	u := AggregateWorkers(jobs, testDirectory())[0]
	// (1+4)/2 rounds to 3 via math.Round(2.5).
	if u.AvgDaysToComplete != 3 {
		t.Errorf("avgDaysToComplete = %d, want 3", u.AvgDaysToComplete)
	}
	if u.AvgDaysLate != 3 {
		t.Errorf("avgDaysLate = %d, want 3", u.AvgDaysLate)
	}
}

func TestAggregateWorkers_DrillDownListsSortedByID(t *testing.T) {
	jobs := []models.ClassifiedJob{
		cjob("j9", models.StateStuck, "w1"),
		cjob("j1", models.StateStuck, "w1"),
		cjob("j5", models.StateStuck, "w1"),
	}

	u := AggregateWorkers(jobs, testDirectory())[0]
	wantIDs := []string{"j1", "j5", "j9"}
	if len(u.StuckList) != 3 {
		t.Fatalf("stuckList len = %d, want 3", len(u.StuckList))
	}
	for i, ref := range u.StuckList {
		if ref.ID != wantIDs[i] {
			t.Errorf("stuckList[%d].ID = %s, want %s", i, ref.ID, wantIDs[i])
		}
	}
}

func TestAggregateWorkers_OrderInvariance(t *testing.T) {
	base := []models.ClassifiedJob{
		cjob("j1", models.StateCompletedOnTime, "w1", "w2"),
		cjob("j2", models.StateCompletedLate, "w1"),
		cjob("j3", models.StateStuck, "w2"),
		cjob("j4", models.StateNeverStarted, "w1", "w3"),
		cjob("j5", models.StateOther, "w3"),
	}

	ref := Assemble(assembleFixture(base))

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 5; trial++ {
		shuffled := append([]models.ClassifiedJob(nil), base...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Assemble(assembleFixture(shuffled))
		if !reflect.DeepEqual(ref, got) {
			t.Fatalf("trial %d: report differs under input permutation", trial)
		}
	}
}

func TestAggregateTeams(t *testing.T) {
	jobs := []models.ClassifiedJob{
		cjob("j1", models.StateCompletedOnTime, "w1", "w2"),
		cjob("j2", models.StateStuck, "w2"),
		cjob("j3", models.StateCompletedLate, "w-ghost"), // not in directory
	}

	teams := AggregateTeams(jobs, testDirectory())
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(teams))
	}

	north := findGroup(t, teams, "North")
	// j1 folds twice into North (w1 and w2 are both members), j2 once.
	if north.TotalJobs != 3 {
		t.Errorf("North totalJobs = %d, want 3", north.TotalJobs)
	}
	if north.UserCount != 2 {
		t.Errorf("North userCount = %d, want 2", north.UserCount)
	}

	install := findGroup(t, teams, "Install")
	if install.TotalJobs != 2 || install.UserCount != 1 {
		t.Errorf("Install total/users = %d/%d, want 2/1", install.TotalJobs, install.UserCount)
	}
}

func TestAggregateTeams_SortedByName(t *testing.T) {
	jobs := []models.ClassifiedJob{
		cjob("j1", models.StateCompletedOnTime, "w2"),
	}

	teams := AggregateTeams(jobs, testDirectory())
	if len(teams) != 2 || teams[0].Name != "Install" || teams[1].Name != "North" {
		t.Errorf("team order = %v, want [Install North]", []string{teams[0].Name, teams[1].Name})
	}
}

func TestAggregateCategories(t *testing.T) {
	jobs := []models.ClassifiedJob{
		{Job: models.JobRecord{ID: "j1", Category: "HVAC", WorkerIDs: []string{"w1", "w2"}}, State: models.StateCompletedOnTime},
		{Job: models.JobRecord{ID: "j2", Category: "Plumbing", WorkerIDs: []string{"w1"}}, State: models.StateStuck},
		{Job: models.JobRecord{ID: "j3", Category: "", WorkerIDs: []string{"w1"}}, State: models.StateOther},
	}

	categories := AggregateCategories(jobs)
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}

	hvac := findGroup(t, categories, "HVAC")
	if hvac.TotalJobs != 2 || hvac.UserCount != 2 {
		t.Errorf("HVAC total/users = %d/%d, want 2/2", hvac.TotalJobs, hvac.UserCount)
	}

	plumbing := findGroup(t, categories, "Plumbing")
	if plumbing.TotalJobs != 1 || plumbing.StuckJobs != 1 {
		t.Errorf("Plumbing total/stuck = %d/%d, want 1/1", plumbing.TotalJobs, plumbing.StuckJobs)
	}
}
