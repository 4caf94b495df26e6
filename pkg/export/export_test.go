package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/fieldscope/fieldscope/pkg/models"
)

func sampleUsers() []models.WorkerMetrics {
	return []models.WorkerMetrics{
		{
			WorkerID:          "w1",
			Name:              "Alex Romero",
			Teams:             []string{"Install", "North"},
			TotalJobs:         12,
			CompletedJobs:     10,
			OnTimeCompletions: 8,
			LateCompletions:   2,
			OnTimePercent:     80,
			RawScore:          87.5,
			AdjustedScore:     84.16,
			Grade:             "B",
			AdjustedGrade:     "B",
		},
		{
			WorkerID:       "w2",
			Name:           "Dana Okafor",
			TotalJobs:      3,
			StuckJobs:      1,
			RawScore:       43.333,
			AdjustedScore:  61.2,
			Grade:          "F",
			AdjustedGrade:  "C",
			BelowThreshold: true,
		},
	}
}

func TestRow(t *testing.T) {
	row := Row(sampleUsers()[0])
	if len(row) != len(Columns) {
		t.Fatalf("row has %d cells, want %d", len(row), len(Columns))
	}
	if row[0] != "w1" || row[1] != "Alex Romero" {
		t.Errorf("identity cells = %q/%q", row[0], row[1])
	}
	if row[2] != "Install;North" {
		t.Errorf("teams cell = %q, want semicolon-joined", row[2])
	}
	if row[16] != "87.5" {
		t.Errorf("raw score cell = %q, want 87.5", row[16])
	}
	// Scores are rendered with exactly one decimal place.
	if row[17] != "84.2" {
		t.Errorf("adjusted score cell = %q, want 84.2", row[17])
	}
	if row[20] != "false" {
		t.Errorf("below threshold cell = %q, want false", row[20])
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleUsers()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(Columns, ",") {
		t.Errorf("header = %v, want Columns order", records[0])
	}
	if records[1][0] != "w1" || records[2][0] != "w2" {
		t.Errorf("rows out of order: %q, %q", records[1][0], records[2][0])
	}
	// 43.333 rounds to one decimal.
	if records[2][16] != "43.3" {
		t.Errorf("w2 raw score = %q, want 43.3", records[2][16])
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("expected header only, got %d records", len(records))
	}
}

func TestWriteCSV_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	if err := WriteCSV(&a, sampleUsers()); err != nil {
		t.Fatal(err)
	}
	if err := WriteCSV(&b, sampleUsers()); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("same input produced different CSV bytes")
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleUsers()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Workers" {
		t.Fatalf("sheets = %v, want [Workers]", sheets)
	}

	rows, err := f.GetRows("Workers")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "worker_id" {
		t.Errorf("header[0] = %q, want worker_id", rows[0][0])
	}
	if rows[1][0] != "w1" || rows[2][0] != "w2" {
		t.Errorf("rows out of order: %q, %q", rows[1][0], rows[2][0])
	}
	if rows[1][18] != "B" {
		t.Errorf("grade cell = %q, want B", rows[1][18])
	}
}
