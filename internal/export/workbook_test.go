package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/dosely/internal/adherence"
	"github.com/julianstephens/dosely/internal/models"
)

func TestWriteAdherenceWorkbook(t *testing.T) {
	yes := true
	ts := time.Date(2026, 10, 14, 8, 5, 0, 0, time.UTC)
	prescriptions := []models.Prescription{
		{
			ID: "rx-1", MedicationName: "Metformin", Dosage: "500mg", Frequency: models.FrequencyTwice,
			Schedule: models.Schedule{Times: []string{"08:00", "20:00"}}, CurrentStock: 12,
		},
		{
			ID: "rx-2", MedicationName: "Vitamin D", Dosage: "1000IU", Frequency: models.FrequencyOnce,
			Schedule: models.Schedule{Times: []string{"09:00"}, Days: []string{"Mon", "Thu"}}, CurrentStock: 40,
		},
	}
	entries := []models.AdherenceLogEntry{
		{ID: "1", PrescriptionID: "rx-1", Action: models.ActionTook, Timestamp: ts, WithFoodConfirmed: &yes},
		{ID: "2", PrescriptionID: "gone", Action: models.ActionMissed, Timestamp: ts.Add(time.Hour), Note: "asleep"},
	}
	stats := []adherence.PrescriptionStats{
		{PrescriptionID: "rx-1", Stats: models.AdherenceStats{Took: 5, Missed: 2, AdherenceRate: 71}},
	}

	var buf bytes.Buffer
	if err := WriteAdherenceWorkbook(&buf, prescriptions, entries, stats); err != nil {
		t.Fatalf("WriteAdherenceWorkbook failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to read workbook back: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != SummarySheet || sheets[1] != HistorySheet {
		t.Fatalf("sheets = %v", sheets)
	}

	summary, err := f.GetRows(SummarySheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary) != 3 {
		t.Fatalf("expected header + 2 summary rows, got %d", len(summary))
	}
	if summary[0][0] != "Medication" || summary[0][9] != "Adherence %" {
		t.Errorf("summary header = %v", summary[0])
	}
	want := []string{"Metformin", "500mg", "Twice", "08:00, 20:00", "Every day", "12", "5", "2", "0", "71"}
	for i, v := range want {
		if summary[1][i] != v {
			t.Errorf("summary[1][%d] = %q, want %q", i, summary[1][i], v)
		}
	}
	if summary[2][4] != "Mon, Thu" || summary[2][9] != "0" {
		t.Errorf("prescription without stats = %v", summary[2])
	}

	history, err := f.GetRows(HistorySheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 {
		t.Fatalf("expected header + 2 history rows, got %d", len(history))
	}
	if history[1][0] != "2026-10-14T08:05:00Z" || history[1][1] != "Metformin" || history[1][2] != "took" || history[1][3] != "Yes" {
		t.Errorf("history[1] = %v", history[1])
	}
	if history[2][1] != "gone" || history[2][4] != "asleep" {
		t.Errorf("history[2] = %v", history[2])
	}

	styleID, err := f.GetCellStyle(SummarySheet, "A1")
	if err != nil {
		t.Fatal(err)
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		t.Fatal(err)
	}
	if style.Font == nil || !style.Font.Bold {
		t.Error("header should be bold")
	}

	panes, err := f.GetPanes(HistorySheet)
	if err != nil {
		t.Fatal(err)
	}
	if !panes.Freeze || panes.YSplit != 1 {
		t.Errorf("header row not frozen: %+v", panes)
	}
}

func TestWriteAdherenceWorkbook_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAdherenceWorkbook(&buf, nil, nil, nil); err != nil {
		t.Fatalf("WriteAdherenceWorkbook failed: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(HistorySheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("expected only the header row, got %d rows", len(rows))
	}
}
