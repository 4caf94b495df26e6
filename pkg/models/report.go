package models

import (
	"time"

	"github.com/google/uuid"
)

// ComplianceReport is the engine's sole output.
type ComplianceReport struct {
	Users              []WorkerMetrics `json:"users"`
	TeamComparison     []GroupMetrics  `json:"team_comparison"`
	CategoryComparison []GroupMetrics  `json:"category_comparison"`
	Summary            Summary         `json:"summary"`
	Filters            Filters         `json:"filters"`
	Scoring            ScoringInfo     `json:"scoring"`
	DateRange          DateRange       `json:"date_range"`
	DataQuality        DataQuality     `json:"data_quality"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

// Summary holds window-wide totals across all classified jobs.
type Summary struct {
	TotalJobs         int `json:"total_jobs"`
	CompletedJobs     int `json:"completed_jobs"`
	OnTimeCompletions int `json:"on_time_completions"`
	LateCompletions   int `json:"late_completions"`
	StuckJobs         int `json:"stuck_jobs"`
	NeverStartedJobs  int `json:"never_started_jobs"`
	OnTimePercent     int `json:"on_time_percent"`
	WorkerCount       int `json:"worker_count"`
}

// Filters lists the full known team/category vocabularies regardless of the
// filter applied to the current report.
type Filters struct {
	Teams      []string `json:"teams"`
	Categories []string `json:"categories"`
}

// ScoringInfo echoes the scoring configuration a report was computed with.
type ScoringInfo struct {
	MinJobs        int     `json:"min_jobs"`
	BayesianC      float64 `json:"bayesian_c"`
	GlobalAvgScore float64 `json:"global_avg_score"`
}

// DateRange is the resolved reporting window.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	Days int       `json:"days"`
}

// DataQuality is the manifest of fetch coverage and skipped input.
type DataQuality struct {
	JobsFetched       int  `json:"jobs_fetched"`
	SkippedJobs       int  `json:"skipped_jobs"`
	UnassignedJobs    int  `json:"unassigned_jobs"`
	CategoriesFetched int  `json:"categories_fetched"`
	TotalCategories   int  `json:"total_categories"`
	Partial           bool `json:"partial"`
}

// ReportSnapshot is a persisted report run: the manifest columns are stored
// alongside the full payload so runs can be listed without decoding jsonb.
type ReportSnapshot struct {
	ID          uuid.UUID `db:"id"           json:"id"`
	TenantID    uuid.UUID `db:"tenant_id"    json:"tenant_id"`
	Days        int       `db:"days"         json:"days"`
	Team        string    `db:"team"         json:"team,omitempty"`
	Category    string    `db:"category"     json:"category,omitempty"`
	JobsFetched int       `db:"jobs_fetched" json:"jobs_fetched"`
	Partial     bool      `db:"partial"      json:"partial"`
	GeneratedAt time.Time `db:"generated_at" json:"generated_at"`
	Payload     []byte    `db:"payload"      json:"payload,omitempty"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
}
