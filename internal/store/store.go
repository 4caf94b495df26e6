package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/fieldscope/fieldscope/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error
	GetDefaultTenant(ctx context.Context) (*models.Tenant, error)

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	ListAPIKeys(ctx context.Context, tenantID uuid.UUID) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error

	SaveReportSnapshot(ctx context.Context, snapshot *models.ReportSnapshot) error
	ListReportSnapshots(ctx context.Context, tenantID uuid.UUID, limit int) ([]*models.ReportSnapshot, error)
	GetReportSnapshot(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.ReportSnapshot, error)
}
