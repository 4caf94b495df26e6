// Package handler contains the HTTP handlers for the FieldScope API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	mw "github.com/fieldscope/fieldscope/internal/api/middleware"
	"github.com/fieldscope/fieldscope/internal/api/response"
	"github.com/fieldscope/fieldscope/internal/compliance"
	"github.com/fieldscope/fieldscope/internal/fsm"
	"github.com/fieldscope/fieldscope/pkg/models"
)

// dayPresets is the allowed set of reporting window sizes.
var dayPresets = map[int]bool{7: true, 14: true, 30: true, 60: true, 90: true}

const defaultDays = 30

// ReportGenerator defines the interface the report handlers depend on.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, params compliance.ReportParams) (*models.ComplianceReport, error)
}

// NewReportHandler returns an http.HandlerFunc for GET /api/v1/compliance/report.
func NewReportHandler(svc ReportGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, ok := reportParams(w, r)
		if !ok {
			return
		}

		report, err := svc.GenerateReport(r.Context(), params)
		if err != nil {
			writeReportError(w, err)
			return
		}

		response.JSON(w, report)
	}
}

// reportParams validates the shared report query parameters. On failure it
// writes the error response and returns ok=false.
func reportParams(w http.ResponseWriter, r *http.Request) (compliance.ReportParams, bool) {
	tenantID, ok := mw.GetTenantID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
		return compliance.ReportParams{}, false
	}

	days := defaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || !dayPresets[parsed] {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"days must be one of 7, 14, 30, 60, 90", nil)
			return compliance.ReportParams{}, false
		}
		days = parsed
	}

	allowPartial := false
	if raw := r.URL.Query().Get("partial"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"partial must be a boolean", nil)
			return compliance.ReportParams{}, false
		}
		allowPartial = parsed
	}

	return compliance.ReportParams{
		TenantID:     tenantID,
		Days:         days,
		Team:         r.URL.Query().Get("team"),
		Category:     r.URL.Query().Get("category"),
		AllowPartial: allowPartial,
	}, true
}

func writeReportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fsm.ErrFSMTimeout):
		response.Error(w, http.StatusGatewayTimeout, "FSM_TIMEOUT",
			"The FSM platform took too long to respond", nil)
	case errors.Is(err, fsm.ErrFSMUnreachable):
		response.Error(w, http.StatusBadGateway, "FSM_UNAVAILABLE",
			"The FSM platform is not reachable", nil)
	case errors.Is(err, fsm.ErrFSMQueryError):
		response.Error(w, http.StatusBadGateway, "FSM_QUERY_FAILED",
			"The FSM platform rejected the query", nil)
	default:
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
