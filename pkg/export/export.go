// Package export renders worker metrics as flat tabular files. Rows are
// emitted in the order given and every cell is scalar, so regenerating an
// export from the same report produces an identical file.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fieldscope/fieldscope/pkg/models"
)

// Columns is the fixed export column order.
var Columns = []string{
	"worker_id",
	"name",
	"teams",
	"total_jobs",
	"completed_jobs",
	"on_time_completions",
	"late_completions",
	"stuck_jobs",
	"never_started_jobs",
	"on_time_percent",
	"on_our_way_on_time",
	"on_our_way_late",
	"on_our_way_percent",
	"status_usage_percent",
	"avg_days_to_complete",
	"avg_days_late",
	"raw_score",
	"adjusted_score",
	"grade",
	"adjusted_grade",
	"below_threshold",
}

const sheetName = "Workers"

// Row flattens one worker record into export cells, in Columns order.
func Row(u models.WorkerMetrics) []string {
	return []string{
		u.WorkerID,
		u.Name,
		strings.Join(u.Teams, ";"),
		strconv.Itoa(u.TotalJobs),
		strconv.Itoa(u.CompletedJobs),
		strconv.Itoa(u.OnTimeCompletions),
		strconv.Itoa(u.LateCompletions),
		strconv.Itoa(u.StuckJobs),
		strconv.Itoa(u.NeverStartedJobs),
		strconv.Itoa(u.OnTimePercent),
		strconv.Itoa(u.OnOurWayOnTime),
		strconv.Itoa(u.OnOurWayLate),
		strconv.Itoa(u.OnOurWayPercent),
		strconv.Itoa(u.StatusUsagePercent),
		strconv.Itoa(u.AvgDaysToComplete),
		strconv.Itoa(u.AvgDaysLate),
		formatScore(u.RawScore),
		formatScore(u.AdjustedScore),
		u.Grade,
		u.AdjustedGrade,
		strconv.FormatBool(u.BelowThreshold),
	}
}

// WriteCSV writes the worker export as CSV with a header row.
func WriteCSV(w io.Writer, users []models.WorkerMetrics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, u := range users {
		if err := cw.Write(Row(u)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the worker export as a single-sheet XLSX workbook.
func WriteXLSX(w io.Writer, users []models.WorkerMetrics) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if err := writeSheetRow(f, 1, Columns); err != nil {
		return err
	}
	for i, u := range users {
		if err := writeSheetRow(f, i+2, Row(u)); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", rowNum, err)
	}
	row := make([]any, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}

// formatScore renders a score with one decimal place so exports stay
// diff-stable across regenerations.
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 1, 64)
}
