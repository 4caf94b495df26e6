// Package fsm defines the Job Fetcher boundary: the client interface over the
// field-service-management platform, its error taxonomy, and the provider
// factory. The compliance engine never talks to an FSM platform directly.
package fsm

import (
	"context"
	"errors"
	"time"

	"github.com/fieldscope/fieldscope/pkg/models"
)

// Sentinel errors for FSM client failures.
var (
	ErrFSMUnreachable = errors.New("fsm platform unreachable")
	ErrFSMQueryError  = errors.New("fsm query error")
	ErrFSMTimeout     = errors.New("fsm query timeout")
)

// Client is the interface for fetching job data from an FSM platform.
type Client interface {
	// FetchJobs retrieves every job in the window, optionally narrowed to a
	// single team or category server-side. Paginated calls are coalesced
	// before the result is returned; a per-category failure reduces
	// CategoriesFetched instead of failing the whole fetch.
	FetchJobs(ctx context.Context, params FetchParams) (*FetchResult, error)
	// Workers retrieves the worker directory, including team labels.
	Workers(ctx context.Context) ([]models.Worker, error)
	// Teams retrieves the full known team vocabulary.
	Teams(ctx context.Context) ([]string, error)
	// Categories retrieves the full known category vocabulary.
	Categories(ctx context.Context) ([]string, error)
	// Ready reports whether the platform is reachable.
	Ready(ctx context.Context) error
	// Name returns the provider identifier (e.g., "workiz").
	Name() string
}

// FetchParams defines one job fetch. AllowPartial turns a fetch cut short by
// cancellation into a best-effort result instead of an error; without it a
// cancelled fetch fails so no report is computed over incomplete data.
type FetchParams struct {
	From         time.Time
	To           time.Time
	Team         string
	Category     string
	AllowPartial bool
}

// FetchResult is the coalesced output of one fetch. Partial is set only when
// a best-effort fetch stopped before covering the window.
type FetchResult struct {
	Jobs              []models.JobRecord
	CategoriesFetched int
	TotalCategories   int
	UnassignedCount   int
	Partial           bool
}
