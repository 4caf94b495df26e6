package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fieldscope/fieldscope/internal/api/response"
	"github.com/fieldscope/fieldscope/pkg/export"
)

// NewExportHandler returns an http.HandlerFunc for GET /api/v1/compliance/export.
// It regenerates (or cache-hits) the report and streams the flat worker table.
func NewExportHandler(svc ReportGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, ok := reportParams(w, r)
		if !ok {
			return
		}

		format := r.URL.Query().Get("format")
		if format == "" {
			format = "csv"
		}
		if format != "csv" && format != "xlsx" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"format must be csv or xlsx", nil)
			return
		}

		report, err := svc.GenerateReport(r.Context(), params)
		if err != nil {
			writeReportError(w, err)
			return
		}

		// Render to a buffer first so a failed render still gets a clean
		// JSON error instead of a truncated download.
		var buf bytes.Buffer
		var contentType string
		switch format {
		case "csv":
			contentType = "text/csv"
			err = export.WriteCSV(&buf, report.Users)
		case "xlsx":
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
			err = export.WriteXLSX(&buf, report.Users)
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to render export", nil)
			return
		}

		filename := fmt.Sprintf("compliance-%s-%dd.%s",
			report.GeneratedAt.UTC().Format(time.DateOnly), params.Days, format)
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))

		if _, err := buf.WriteTo(w); err != nil {
			slog.Warn("export download aborted",
				"format", format,
				"error", err,
			)
		}
	}
}
