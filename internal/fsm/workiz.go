package fsm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fieldscope/fieldscope/internal/config"
	"github.com/fieldscope/fieldscope/pkg/models"
)

// WorkizClient implements Client using the Workiz-style FSM HTTP API.
// Job listings are paginated per category; the client coalesces every page
// before returning so downstream computation never interleaves with I/O.
type WorkizClient struct {
	baseURL   string
	apiToken  string
	accountID string
	pageSize  int
	client    *http.Client
}

// NewWorkizClient creates a new Workiz FSM client.
func NewWorkizClient(cfg config.WorkizConfig, timeout time.Duration) *WorkizClient {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	return &WorkizClient{
		baseURL:   cfg.BaseURL,
		apiToken:  cfg.APIToken,
		accountID: cfg.AccountID,
		pageSize:  pageSize,
		client:    &http.Client{Timeout: timeout},
	}
}

func (c *WorkizClient) Name() string { return "workiz" }

// FetchJobs pulls jobs category by category. A category whose pages cannot be
// retrieved is skipped and reflected in CategoriesFetched; only a failure to
// list the categories themselves (or an explicit category filter failing)
// fails the fetch.
func (c *WorkizClient) FetchJobs(ctx context.Context, params FetchParams) (*FetchResult, error) {
	categories, err := c.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	wanted := categories
	if params.Category != "" {
		wanted = []string{params.Category}
	}

	result := &FetchResult{TotalCategories: len(categories)}
	for _, category := range wanted {
		jobs, err := c.fetchCategory(ctx, params, category)
		if err != nil {
			if ctx.Err() != nil {
				if params.AllowPartial {
					result.Partial = true
					break
				}
				return nil, err
			}
			if params.Category != "" {
				return nil, err
			}
			slog.Warn("skipping category after fetch failure",
				"category", category, "error", err)
			continue
		}
		result.CategoriesFetched++
		result.Jobs = append(result.Jobs, jobs...)
	}

	if params.Category != "" {
		// A single-category fetch covers exactly what it asked for.
		result.TotalCategories = 1
	}

	for _, job := range result.Jobs {
		if len(job.WorkerIDs) == 0 {
			result.UnassignedCount++
		}
	}

	return result, nil
}

func (c *WorkizClient) fetchCategory(ctx context.Context, params FetchParams, category string) ([]models.JobRecord, error) {
	var jobs []models.JobRecord
	for page := 1; ; page++ {
		q := url.Values{
			"from":      {params.From.UTC().Format(time.RFC3339)},
			"to":        {params.To.UTC().Format(time.RFC3339)},
			"category":  {category},
			"page":      {strconv.Itoa(page)},
			"page_size": {strconv.Itoa(c.pageSize)},
		}
		if params.Team != "" {
			q.Set("team", params.Team)
		}

		var resp workizJobsResponse
		if err := c.get(ctx, "/api/v1/jobs", q, &resp); err != nil {
			return nil, err
		}

		for _, j := range resp.Jobs {
			jobs = append(jobs, j.toRecord())
		}
		if !resp.HasMore {
			return jobs, nil
		}
	}
}

func (c *WorkizClient) Workers(ctx context.Context) ([]models.Worker, error) {
	var resp workizWorkersResponse
	if err := c.get(ctx, "/api/v1/workers", nil, &resp); err != nil {
		return nil, err
	}

	workers := make([]models.Worker, 0, len(resp.Workers))
	for _, w := range resp.Workers {
		workers = append(workers, models.Worker{ID: w.ID, Name: w.Name, Teams: w.Teams})
	}
	return workers, nil
}

func (c *WorkizClient) Teams(ctx context.Context) ([]string, error) {
	var resp workizLabelsResponse
	if err := c.get(ctx, "/api/v1/teams", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Labels, nil
}

func (c *WorkizClient) Categories(ctx context.Context) ([]string, error) {
	var resp workizLabelsResponse
	if err := c.get(ctx, "/api/v1/job-categories", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Labels, nil
}

func (c *WorkizClient) Ready(ctx context.Context) error {
	u := fmt.Sprintf("%s/api/v1/ping", c.baseURL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFSMUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: platform not ready (status %d)", ErrFSMUnreachable, resp.StatusCode)
	}

	return nil
}

func (c *WorkizClient) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrFSMQueryError, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding fsm response: %w", err)
	}
	return nil
}

func (c *WorkizClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	if c.accountID != "" {
		req.Header.Set("X-Account-ID", c.accountID)
	}
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrFSMTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %v", ErrFSMTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrFSMUnreachable, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrFSMUnreachable, err)
	}

	return fmt.Errorf("%w: %v", ErrFSMUnreachable, err)
}

// --- Workiz response types ---

type workizJobsResponse struct {
	Jobs    []workizJob `json:"jobs"`
	HasMore bool        `json:"has_more"`
}

type workizJob struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	Category       string     `json:"category"`
	ScheduledStart *time.Time `json:"scheduled_start"`
	ScheduledEnd   *time.Time `json:"scheduled_end"`
	CompletedAt    *time.Time `json:"completed_at"`
	OnOurWayAt     *time.Time `json:"on_our_way_at"`
	StartedSignal  bool       `json:"started_signal"`
	WorkerIDs      []string   `json:"worker_ids"`
}

func (j workizJob) toRecord() models.JobRecord {
	return models.JobRecord{
		ID:             j.ID,
		Title:          j.Title,
		Status:         j.Status,
		Category:       j.Category,
		ScheduledStart: j.ScheduledStart,
		ScheduledEnd:   j.ScheduledEnd,
		CompletedAt:    j.CompletedAt,
		OnOurWayAt:     j.OnOurWayAt,
		StartedSignal:  j.StartedSignal,
		WorkerIDs:      j.WorkerIDs,
	}
}

type workizWorkersResponse struct {
	Workers []workizWorker `json:"workers"`
}

type workizWorker struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Teams []string `json:"teams"`
}

type workizLabelsResponse struct {
	Labels []string `json:"labels"`
}

// Compile-time check that WorkizClient implements Client.
var _ Client = (*WorkizClient)(nil)
