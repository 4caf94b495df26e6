package compliance

import "github.com/fieldscope/fieldscope/pkg/models"

// Score weights and grade cuts. The on-time rate dominates; stuck and
// never-started jobs erode the remaining half.
const (
	weightOnTime   = 0.5
	weightNonStuck = 0.3
	weightStarted  = 0.2

	gradeACut = 90
	gradeBCut = 75
	gradeCCut = 60
	gradeDCut = 45
)

// ScoringConfig holds the tunable scoring parameters.
type ScoringConfig struct {
	GraceDays  int
	ShrinkageC float64
	MinJobs    int
}

// DefaultScoringConfig returns the reference scoring parameters.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{GraceDays: 1, ShrinkageC: 10, MinJobs: 10}
}

// rawScore computes the composite 0-100 score from fold counters.
// Only called for records with totalJobs > 0.
func rawScore(totalJobs, completedJobs, onTime, stuck, neverStarted int) float64 {
	completedDenom := completedJobs
	if completedDenom < 1 {
		completedDenom = 1
	}
	onTimeRate := float64(onTime) / float64(completedDenom)
	nonStuckRate := float64(totalJobs-stuck) / float64(totalJobs)
	startedRate := float64(totalJobs-neverStarted) / float64(totalJobs)

	return 100 * (weightOnTime*onTimeRate + weightNonStuck*nonStuckRate + weightStarted*startedRate)
}

// adjustScore shrinks a raw score toward the population mean, weighted by
// sample size: high-volume records keep their raw score, low-volume records
// are pulled toward the mean so they are not ranked on noise.
func adjustScore(raw, globalAvg float64, totalJobs int, c float64) float64 {
	n := float64(totalJobs)
	return (n*raw + c*globalAvg) / (n + c)
}

// Grade maps a 0-100 score to a letter grade. Applied identically to raw and
// adjusted scores.
func Grade(score float64) string {
	switch {
	case score >= gradeACut:
		return "A"
	case score >= gradeBCut:
		return "B"
	case score >= gradeCCut:
		return "C"
	case score >= gradeDCut:
		return "D"
	default:
		return "F"
	}
}

// ScoreWorkers assigns raw and adjusted scores plus grades to every worker
// record, using the mean raw score of the worker comparison set as the
// shrinkage target. Returns that mean. Zero-job records never reach this
// function: aggregation omits workers with no jobs in the window.
func ScoreWorkers(users []models.WorkerMetrics, cfg ScoringConfig) float64 {
	if len(users) == 0 {
		return 0
	}

	var sum float64
	for i := range users {
		users[i].RawScore = rawScore(users[i].TotalJobs, users[i].CompletedJobs,
			users[i].OnTimeCompletions, users[i].StuckJobs, users[i].NeverStartedJobs)
		sum += users[i].RawScore
	}
	globalAvg := sum / float64(len(users))

	for i := range users {
		users[i].AdjustedScore = adjustScore(users[i].RawScore, globalAvg, users[i].TotalJobs, cfg.ShrinkageC)
		users[i].Grade = Grade(users[i].RawScore)
		users[i].AdjustedGrade = Grade(users[i].AdjustedScore)
		users[i].BelowThreshold = users[i].TotalJobs < cfg.MinJobs
	}

	return globalAvg
}

// ScoreGroups does the same for a team or category comparison set. Teams and
// categories shrink toward their own population means, never toward the
// worker mean.
func ScoreGroups(groups []models.GroupMetrics, cfg ScoringConfig) float64 {
	if len(groups) == 0 {
		return 0
	}

	var sum float64
	for i := range groups {
		groups[i].RawScore = rawScore(groups[i].TotalJobs, groups[i].CompletedJobs,
			groups[i].OnTimeCompletions, groups[i].StuckJobs, groups[i].NeverStartedJobs)
		sum += groups[i].RawScore
	}
	globalAvg := sum / float64(len(groups))

	for i := range groups {
		groups[i].AdjustedScore = adjustScore(groups[i].RawScore, globalAvg, groups[i].TotalJobs, cfg.ShrinkageC)
		groups[i].Grade = Grade(groups[i].RawScore)
		groups[i].AdjustedGrade = Grade(groups[i].AdjustedScore)
		groups[i].BelowThreshold = groups[i].TotalJobs < cfg.MinJobs
	}

	return globalAvg
}
