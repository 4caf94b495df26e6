// Package models contains shared data models used across the FieldScope codebase.
package models

import "time"

// JobRecord is one raw job as returned by the FSM platform.
// Schedule and signal timestamps are nullable: field techs and dispatchers
// leave them blank often enough that absence has to be a first-class value.
type JobRecord struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	Category       string     `json:"category"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	OnOurWayAt     *time.Time `json:"on_our_way_at,omitempty"`
	StartedSignal  bool       `json:"started_signal"`
	WorkerIDs      []string   `json:"worker_ids"`
}

// Worker is one entry in the FSM worker directory. Team labels attach to the
// worker, not to jobs; a worker may belong to several teams.
type Worker struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Teams []string `json:"teams"`
}

// JobRef is a lightweight job reference used in drill-down lists.
type JobRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
