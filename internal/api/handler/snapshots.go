package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/fieldscope/fieldscope/internal/api/middleware"
	"github.com/fieldscope/fieldscope/internal/api/response"
	"github.com/fieldscope/fieldscope/internal/store"
)

// NewListSnapshotsHandler returns an http.HandlerFunc for
// GET /api/v1/compliance/snapshots.
func NewListSnapshotsHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"limit must be a positive integer", nil)
				return
			}
			limit = parsed
		}

		snapshots, err := s.ListReportSnapshots(r.Context(), tenantID, limit)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to list report snapshots", nil)
			return
		}

		response.JSON(w, snapshots)
	}
}

// NewGetSnapshotHandler returns an http.HandlerFunc for
// GET /api/v1/compliance/snapshots/{snapshotID}. The stored payload is
// returned verbatim, so a snapshot replays exactly as it was generated.
func NewGetSnapshotHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "snapshotID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"snapshotID must be a valid UUID", nil)
			return
		}

		snapshot, err := s.GetReportSnapshot(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Snapshot not found", nil)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load report snapshot", nil)
			return
		}

		response.JSON(w, snapshotResponse{
			ID:          snapshot.ID,
			Days:        snapshot.Days,
			Team:        snapshot.Team,
			Category:    snapshot.Category,
			GeneratedAt: snapshot.GeneratedAt,
			Report:      json.RawMessage(snapshot.Payload),
		})
	}
}

type snapshotResponse struct {
	ID          uuid.UUID       `json:"id"`
	Days        int             `json:"days"`
	Team        string          `json:"team,omitempty"`
	Category    string          `json:"category,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
	Report      json.RawMessage `json:"report"`
}
