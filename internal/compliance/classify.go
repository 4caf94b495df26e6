// Package compliance implements the compliance scoring engine: lifecycle
// classification, per-worker and per-group aggregation, raw and
// shrinkage-adjusted scoring, and report assembly. Everything in this package
// is a pure, deterministic computation over an already-fetched job list.
package compliance

import (
	"errors"
	"math"
	"time"

	"github.com/fieldscope/fieldscope/pkg/models"
	"github.com/fieldscope/fieldscope/pkg/vocab"
)

// ErrMalformedRecord marks a job record that cannot be classified. Callers
// skip the record and keep folding; a single bad record never aborts a report.
var ErrMalformedRecord = errors.New("malformed job record")

const defaultGraceDays = 1

// Classifier maps one job record plus an evaluation instant into exactly one
// lifecycle state and its timing facts.
type Classifier struct {
	Vocab     *vocab.Vocabulary
	GraceDays int
}

// NewClassifier returns a Classifier with the given vocabulary and grace
// period in days. Non-positive grace falls back to the default of one day.
func NewClassifier(v *vocab.Vocabulary, graceDays int) *Classifier {
	if graceDays <= 0 {
		graceDays = defaultGraceDays
	}
	return &Classifier{Vocab: v, GraceDays: graceDays}
}

// Classify assigns the lifecycle state for one job as of now.
//
// Rules in priority order: completed status wins regardless of schedule;
// an in-progress job past its scheduled end is stuck; a not-started job past
// its scheduled start never started; everything else is Other. A missing
// scheduled end disables lateness and stuck detection for that job — missing
// schedule data is never penalized.
func (c *Classifier) Classify(job models.JobRecord, now time.Time) (models.ClassifiedJob, error) {
	if job.ID == "" || job.Status == "" {
		return models.ClassifiedJob{}, ErrMalformedRecord
	}

	cj := models.ClassifiedJob{
		Job:          job,
		State:        models.StateOther,
		UsedOnOurWay: job.OnOurWayAt != nil,
		UsedStarted:  job.StartedSignal,
	}

	grace := time.Duration(c.GraceDays) * 24 * time.Hour

	switch c.Vocab.Classify(job.Status) {
	case vocab.ClassCompleted:
		cj.State = models.StateCompletedOnTime
		if job.CompletedAt != nil && job.ScheduledEnd != nil &&
			job.CompletedAt.After(job.ScheduledEnd.Add(grace)) {
			cj.State = models.StateCompletedLate
			cj.DaysLate = ceilDays(job.CompletedAt.Sub(*job.ScheduledEnd))
		}
		if job.CompletedAt != nil && job.ScheduledStart != nil {
			cj.DaysToComplete = floorDays(job.CompletedAt.Sub(*job.ScheduledStart))
			if cj.DaysToComplete < 0 {
				cj.DaysToComplete = 0
			}
			cj.HasDaysToComplete = true
		}
		if job.CompletedAt != nil && job.OnOurWayAt != nil && job.ScheduledEnd != nil {
			onTime := !job.OnOurWayAt.After(*job.ScheduledEnd)
			cj.OnOurWayOnTime = &onTime
		}

	case vocab.ClassInProgress:
		if job.ScheduledEnd != nil && now.After(*job.ScheduledEnd) {
			cj.State = models.StateStuck
		}

	case vocab.ClassNotStarted:
		if job.ScheduledStart != nil && now.After(*job.ScheduledStart) {
			cj.State = models.StateNeverStarted
		}
	}

	return cj, nil
}

// ClassifyAll classifies every record, skipping malformed ones. The second
// return value is the number of records skipped.
func (c *Classifier) ClassifyAll(jobs []models.JobRecord, now time.Time) ([]models.ClassifiedJob, int) {
	classified := make([]models.ClassifiedJob, 0, len(jobs))
	skipped := 0
	for _, job := range jobs {
		cj, err := c.Classify(job, now)
		if err != nil {
			skipped++
			continue
		}
		classified = append(classified, cj)
	}
	return classified, skipped
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}

func floorDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}
