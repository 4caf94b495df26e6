package fsm

import (
	"context"

	"github.com/fieldscope/fieldscope/pkg/models"
)

// MockClient satisfies Client for testing and local development.
type MockClient struct {
	Name_          string
	FetchJobsFunc  func(ctx context.Context, params FetchParams) (*FetchResult, error)
	WorkersFunc    func(ctx context.Context) ([]models.Worker, error)
	TeamsFunc      func(ctx context.Context) ([]string, error)
	CategoriesFunc func(ctx context.Context) ([]string, error)
	ReadyFunc      func(ctx context.Context) error
}

func (m *MockClient) Name() string { return m.Name_ }

func (m *MockClient) FetchJobs(ctx context.Context, params FetchParams) (*FetchResult, error) {
	if m.FetchJobsFunc != nil {
		return m.FetchJobsFunc(ctx, params)
	}
	return &FetchResult{}, nil
}

func (m *MockClient) Workers(ctx context.Context) ([]models.Worker, error) {
	if m.WorkersFunc != nil {
		return m.WorkersFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) Teams(ctx context.Context) ([]string, error) {
	if m.TeamsFunc != nil {
		return m.TeamsFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) Categories(ctx context.Context) ([]string, error) {
	if m.CategoriesFunc != nil {
		return m.CategoriesFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) Ready(ctx context.Context) error {
	if m.ReadyFunc != nil {
		return m.ReadyFunc(ctx)
	}
	return nil
}

// NewMockClient returns a MockClient serving a small fixed dataset: one crew
// of two workers sharing a team and a handful of jobs across two categories.
func NewMockClient() *MockClient {
	workers := []models.Worker{
		{ID: "w-100", Name: "Alex Romero", Teams: []string{"North Crew"}},
		{ID: "w-101", Name: "Dana Okafor", Teams: []string{"North Crew", "Install"}},
	}
	teams := []string{"North Crew", "Install"}
	categories := []string{"HVAC", "Plumbing"}

	return &MockClient{
		Name_: "mock",
		FetchJobsFunc: func(_ context.Context, params FetchParams) (*FetchResult, error) {
			end := params.To
			start := params.From
			mid := start.Add(end.Sub(start) / 2)
			jobs := []models.JobRecord{
				{
					ID: "job-1", Title: "AC repair", Status: "Completed", Category: "HVAC",
					ScheduledStart: &start, ScheduledEnd: &mid, CompletedAt: &mid,
					StartedSignal: true, WorkerIDs: []string{"w-100"},
				},
				{
					ID: "job-2", Title: "Water heater install", Status: "In Progress", Category: "Plumbing",
					ScheduledStart: &start, ScheduledEnd: &mid,
					WorkerIDs: []string{"w-100", "w-101"},
				},
				{
					ID: "job-3", Title: "Duct inspection", Status: "Scheduled", Category: "HVAC",
					ScheduledStart: &mid, ScheduledEnd: &end,
					WorkerIDs: []string{"w-101"},
				},
			}
			return &FetchResult{
				Jobs:              jobs,
				CategoriesFetched: len(categories),
				TotalCategories:   len(categories),
			}, nil
		},
		WorkersFunc:    func(_ context.Context) ([]models.Worker, error) { return workers, nil },
		TeamsFunc:      func(_ context.Context) ([]string, error) { return teams, nil },
		CategoriesFunc: func(_ context.Context) ([]string, error) { return categories, nil },
	}
}

// NewFailingClient returns a MockClient whose every call fails with err.
func NewFailingClient(err error) *MockClient {
	return &MockClient{
		Name_: "mock-failing",
		FetchJobsFunc: func(_ context.Context, _ FetchParams) (*FetchResult, error) {
			return nil, err
		},
		WorkersFunc:    func(_ context.Context) ([]models.Worker, error) { return nil, err },
		TeamsFunc:      func(_ context.Context) ([]string, error) { return nil, err },
		CategoriesFunc: func(_ context.Context) ([]string, error) { return nil, err },
		ReadyFunc:      func(_ context.Context) error { return err },
	}
}

// Compile-time check that MockClient implements Client.
var _ Client = (*MockClient)(nil)
