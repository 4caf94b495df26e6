package models

// WorkerMetrics is the per-worker aggregate over one reporting window.
// A job with k assignees contributes to k workers; that double-count is
// intentional and mirrored in team totals.
type WorkerMetrics struct {
	WorkerID string   `json:"worker_id"`
	Name     string   `json:"name"`
	Teams    []string `json:"teams"`

	TotalJobs         int `json:"total_jobs"`
	CompletedJobs     int `json:"completed_jobs"`
	OnTimeCompletions int `json:"on_time_completions"`
	LateCompletions   int `json:"late_completions"`
	StuckJobs         int `json:"stuck_jobs"`
	NeverStartedJobs  int `json:"never_started_jobs"`

	OnTimePercent      int `json:"on_time_percent"`
	OnOurWayOnTime     int `json:"on_our_way_on_time"`
	OnOurWayLate       int `json:"on_our_way_late"`
	OnOurWayPercent    int `json:"on_our_way_percent"`
	StatusUsagePercent int `json:"status_usage_percent"`
	AvgDaysToComplete  int `json:"avg_days_to_complete"`
	AvgDaysLate        int `json:"avg_days_late"`

	ByCategory map[string]int `json:"by_category"`

	RawScore       float64 `json:"raw_score"`
	AdjustedScore  float64 `json:"adjusted_score"`
	Grade          string  `json:"grade"`
	AdjustedGrade  string  `json:"adjusted_grade"`
	BelowThreshold bool    `json:"below_threshold"`

	StuckList        []JobRef `json:"stuck_list"`
	LateList         []JobRef `json:"late_list"`
	NeverStartedList []JobRef `json:"never_started_list"`
	CompletedList    []JobRef `json:"completed_list"`
}

// GroupMetrics is the same aggregate keyed by team or category.
// Team totals can exceed the unique job count in the window because every
// team label a worker carries receives that worker's jobs.
type GroupMetrics struct {
	Name      string `json:"name"`
	UserCount int    `json:"user_count"`

	TotalJobs         int `json:"total_jobs"`
	CompletedJobs     int `json:"completed_jobs"`
	OnTimeCompletions int `json:"on_time_completions"`
	LateCompletions   int `json:"late_completions"`
	StuckJobs         int `json:"stuck_jobs"`
	NeverStartedJobs  int `json:"never_started_jobs"`

	OnTimePercent      int `json:"on_time_percent"`
	OnOurWayOnTime     int `json:"on_our_way_on_time"`
	OnOurWayLate       int `json:"on_our_way_late"`
	OnOurWayPercent    int `json:"on_our_way_percent"`
	StatusUsagePercent int `json:"status_usage_percent"`
	AvgDaysToComplete  int `json:"avg_days_to_complete"`
	AvgDaysLate        int `json:"avg_days_late"`

	RawScore       float64 `json:"raw_score"`
	AdjustedScore  float64 `json:"adjusted_score"`
	Grade          string  `json:"grade"`
	AdjustedGrade  string  `json:"adjusted_grade"`
	BelowThreshold bool    `json:"below_threshold"`

	StuckList        []JobRef `json:"stuck_list"`
	LateList         []JobRef `json:"late_list"`
	NeverStartedList []JobRef `json:"never_started_list"`
	CompletedList    []JobRef `json:"completed_list"`
}
