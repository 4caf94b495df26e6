package compliance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fieldscope/fieldscope/internal/cache"
	"github.com/fieldscope/fieldscope/internal/fsm"
	"github.com/fieldscope/fieldscope/internal/store"
	"github.com/fieldscope/fieldscope/pkg/models"
	"github.com/fieldscope/fieldscope/pkg/vocab"
)

// ReportParams holds validated parameters for one report generation.
type ReportParams struct {
	TenantID     uuid.UUID
	Days         int
	Team         string
	Category     string
	AllowPartial bool
}

// Service orchestrates report generation: cache lookup, upstream fetch, the
// pure computation, snapshot persistence, and cache fill. The computation
// itself holds no state between invocations.
type Service struct {
	fsm      fsm.Client
	store    store.Store
	cache    cache.Cache
	vocab    *vocab.Vocabulary
	scoring  ScoringConfig
	cacheTTL time.Duration

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

// NewService creates a new report Service.
func NewService(client fsm.Client, st store.Store, ca cache.Cache, v *vocab.Vocabulary, scoring ScoringConfig, cacheTTL time.Duration) *Service {
	return &Service{
		fsm:      client,
		store:    st,
		cache:    ca,
		vocab:    v,
		scoring:  scoring,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// GenerateReport produces the compliance report for one window. Cached
// payloads are returned as-is; cache misses fetch, compute, persist a
// snapshot, and fill the cache. Partial-data reports bypass the cache so a
// shortfall never masquerades as a full report later.
func (s *Service) GenerateReport(ctx context.Context, params ReportParams) (*models.ComplianceReport, error) {
	cacheKey := cache.ReportKey(params.TenantID, params.Days, params.Team, params.Category)

	if !params.AllowPartial {
		if payload, ok, err := s.cache.Get(ctx, cacheKey); err == nil && ok {
			var report models.ComplianceReport
			if err := json.Unmarshal(payload, &report); err == nil {
				return &report, nil
			}
			// A corrupt cache entry falls through to recompute.
			_ = s.cache.Delete(ctx, cacheKey)
		}
	}

	now := s.now().UTC()
	window := models.DateRange{
		From: now.AddDate(0, 0, -params.Days),
		To:   now,
		Days: params.Days,
	}

	fetched, err := s.fsm.FetchJobs(ctx, fsm.FetchParams{
		From:         window.From,
		To:           window.To,
		Team:         params.Team,
		Category:     params.Category,
		AllowPartial: params.AllowPartial,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching jobs: %w", err)
	}

	workers, err := s.fsm.Workers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching workers: %w", err)
	}
	directory := make(map[string]models.Worker, len(workers))
	for _, w := range workers {
		directory[w.ID] = w
	}

	knownTeams, err := s.fsm.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching teams: %w", err)
	}
	knownCategories, err := s.fsm.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching categories: %w", err)
	}

	classifier := NewClassifier(s.vocab, s.scoring.GraceDays)
	classified, skipped := classifier.ClassifyAll(fetched.Jobs, now)

	report := Assemble(AssembleInput{
		Classified:        classified,
		Skipped:           skipped,
		Directory:         directory,
		KnownTeams:        knownTeams,
		KnownCategories:   knownCategories,
		CategoriesFetched: fetched.CategoriesFetched,
		TotalCategories:   fetched.TotalCategories,
		UnassignedJobs:    fetched.UnassignedCount,
		Partial:           fetched.Partial,
		Window:            window,
		Scoring:           s.scoring,
		GeneratedAt:       now,
	})

	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}

	// Snapshot persistence happens off the request path; a failed write
	// costs an audit row, not the report.
	go s.persistSnapshot(params, report, payload)

	if !report.DataQuality.Partial {
		if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL); err != nil {
			slog.Warn("report cache fill failed", "error", err)
		}
	}

	return report, nil
}

func (s *Service) persistSnapshot(params ReportParams, report *models.ComplianceReport, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snapshot := &models.ReportSnapshot{
		ID:          uuid.New(),
		TenantID:    params.TenantID,
		Days:        params.Days,
		Team:        params.Team,
		Category:    params.Category,
		JobsFetched: report.DataQuality.JobsFetched,
		Partial:     report.DataQuality.Partial,
		GeneratedAt: report.GeneratedAt,
		Payload:     payload,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.SaveReportSnapshot(ctx, snapshot); err != nil {
		slog.Error("report snapshot persist failed", "error", err, "snapshot_id", snapshot.ID)
	}
}
