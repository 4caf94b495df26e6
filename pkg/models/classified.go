package models

// LifecycleState is the single state assigned to a job by classification.
type LifecycleState string

const (
	StateCompletedOnTime LifecycleState = "completed_on_time"
	StateCompletedLate   LifecycleState = "completed_late"
	StateStuck           LifecycleState = "stuck"
	StateNeverStarted    LifecycleState = "never_started"
	StateOther           LifecycleState = "other"
)

// ClassifiedJob is one job plus the timing facts derived from it.
// Day figures are only meaningful when their Has* flag is set.
type ClassifiedJob struct {
	Job   JobRecord      `json:"job"`
	State LifecycleState `json:"state"`

	DaysToComplete    int  `json:"days_to_complete"`
	HasDaysToComplete bool `json:"has_days_to_complete"`
	DaysLate          int  `json:"days_late"`

	// OnOurWayOnTime is nil when the job carries no on-our-way signal.
	OnOurWayOnTime *bool `json:"on_our_way_on_time,omitempty"`

	UsedOnOurWay bool `json:"used_on_our_way"`
	UsedStarted  bool `json:"used_started"`
}
