package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/dosely/internal/adherence"
	"github.com/julianstephens/dosely/internal/models"
)

const (
	SummarySheet = "Summary"
	HistorySheet = "History"
)

var SummaryHeader = []string{
	"Medication",
	"Dosage",
	"Frequency",
	"Times",
	"Days",
	"Stock",
	"Took",
	"Missed",
	"Snoozed",
	"Adherence %",
}

var HistoryHeader = []string{
	"Timestamp",
	"Medication",
	"Action",
	"With Food",
	"Note",
}

// WriteAdherenceWorkbook writes a per-prescription summary sheet and a log
// history sheet to w. Prescriptions missing from stats get zero counts.
func WriteAdherenceWorkbook(w io.Writer, prescriptions []models.Prescription, entries []models.AdherenceLogEntry, stats []adherence.PrescriptionStats) error {
	f := excelize.NewFile()
	defer f.Close()

	summaryIndex, err := f.NewSheet(SummarySheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(HistorySheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(summaryIndex)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeHeader(f, SummarySheet, SummaryHeader, headerStyle); err != nil {
		return err
	}
	if err := writeHeader(f, HistorySheet, HistoryHeader, headerStyle); err != nil {
		return err
	}

	byID := make(map[string]models.AdherenceStats, len(stats))
	for _, s := range stats {
		byID[s.PrescriptionID] = s.Stats
	}
	names := make(map[string]string, len(prescriptions))
	for i, p := range prescriptions {
		names[p.ID] = p.MedicationName
		s := byID[p.ID]
		row := []interface{}{
			p.MedicationName,
			p.Dosage,
			string(p.Frequency),
			strings.Join(p.Schedule.Times, ", "),
			days(p.Schedule),
			p.CurrentStock,
			s.Took,
			s.Missed,
			s.Snoozed,
			s.AdherenceRate,
		}
		if err := writeRow(f, SummarySheet, i+2, row); err != nil {
			return err
		}
	}

	for i, e := range entries {
		name, ok := names[e.PrescriptionID]
		if !ok {
			name = e.PrescriptionID
		}
		withFood := ""
		if e.WithFoodConfirmed != nil {
			withFood = "No"
			if *e.WithFoodConfirmed {
				withFood = "Yes"
			}
		}
		row := []interface{}{
			e.Timestamp.Format(time.RFC3339),
			name,
			string(e.Action),
			withFood,
			e.Note,
		}
		if err := writeRow(f, HistorySheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) error {
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := writeRow(f, sheet, 1, row); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("failed to convert column number: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	// Keep the header visible while scrolling.
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func days(s models.Schedule) string {
	if s.EveryDay() {
		return "Every day"
	}
	return strings.Join(s.Days, ", ")
}
