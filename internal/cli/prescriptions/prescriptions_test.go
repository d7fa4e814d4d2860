package prescriptions

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/julianstephens/dosely/internal/cli"
	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	settings, _ := store.GetSettings()
	settings.PatientID = "patient-1"
	settings.Timezone = "UTC"
	settings.NotificationsEnabled = true
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}
	return &cli.Context{Store: store}, store
}

func addTwice(t *testing.T, ctx *cli.Context) models.Prescription {
	t.Helper()
	cmd := &AddCmd{
		Name:      "Amoxicillin",
		Dosage:    "500mg",
		Frequency: "twice",
		Times:     []string{"08:00", "20:00"},
		Stock:     5,
		Refill:    30,
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	ps, err := ctx.Store.FetchPrescriptionsForPatient(context.Background(), "patient-1")
	if err != nil || len(ps) == 0 {
		t.Fatalf("expected a stored prescription, got %v (%v)", ps, err)
	}
	return ps[len(ps)-1]
}

func alertsFor(t *testing.T, store *sqlite.Store, prescriptionID string) []models.ScheduledAlert {
	t.Helper()
	all, err := store.GetAllScheduledAlerts(context.Background())
	if err != nil {
		t.Fatalf("failed to list alerts: %v", err)
	}
	var out []models.ScheduledAlert
	for _, a := range all {
		if a.Tag.PrescriptionID == prescriptionID {
			out = append(out, a)
		}
	}
	return out
}

func TestAddCmd_RegistersReminders(t *testing.T) {
	ctx, store := setupTestDB(t)
	p := addTwice(t, ctx)

	if p.Frequency != models.FrequencyTwice || p.StartDate == "" || p.PatientID != "patient-1" {
		t.Errorf("unexpected stored prescription: %+v", p)
	}
	if got := len(alertsFor(t, store, p.ID)); got != 2 {
		t.Errorf("expected 2 reminders, got %d", got)
	}
}

func TestAddCmd_Validation(t *testing.T) {
	tests := []struct {
		name string
		cmd  AddCmd
	}{
		{"unknown frequency", AddCmd{Name: "A", Dosage: "1", Frequency: "hourly", Times: []string{"08:00"}}},
		{"too few times", AddCmd{Name: "A", Dosage: "1", Frequency: "Thrice", Times: []string{"08:00", "14:00"}}},
		{"bad time", AddCmd{Name: "A", Dosage: "1", Frequency: "Once", Times: []string{"8am"}}},
		{"bad day", AddCmd{Name: "A", Dosage: "1", Frequency: "Once", Times: []string{"08:00"}, Days: []string{"Funday"}}},
		{"end before start", AddCmd{Name: "A", Dosage: "1", Frequency: "Once", Times: []string{"08:00"}, Start: "2026-10-10", End: "2026-10-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestDB(t)
			err := tt.cmd.Run(ctx)
			if !apperrors.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			ps, _ := ctx.Store.FetchPrescriptionsForPatient(context.Background(), "patient-1")
			if len(ps) != 0 {
				t.Errorf("nothing should be stored, got %d prescriptions", len(ps))
			}
		})
	}
}

func TestAddCmd_Override(t *testing.T) {
	ctx, store := setupTestDB(t)

	cmd := &AddCmd{
		Name:      "Ibuprofen",
		Dosage:    "200mg",
		Frequency: "Once",
		Times:     []string{"08:00", "12:00", "18:00"},
		Override:  true,
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add with override failed: %v", err)
	}
	ps, _ := store.FetchPrescriptionsForPatient(context.Background(), "patient-1")
	if len(ps) != 1 || len(ps[0].Schedule.Times) != 3 {
		t.Fatalf("expected the overridden schedule stored, got %+v", ps)
	}
	if got := len(alertsFor(t, store, ps[0].ID)); got != 3 {
		t.Errorf("expected 3 reminders, got %d", got)
	}
}

func TestScheduleCmd_ReplacesReminders(t *testing.T) {
	ctx, store := setupTestDB(t)
	p := addTwice(t, ctx)

	cmd := &ScheduleCmd{
		ID:        p.ID[:8],
		Frequency: "Thrice",
		Times:     []string{"07:00", "13:00", "19:00"},
		Days:      []string{"wed", "Mon"},
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("schedule failed: %v", err)
	}

	updated, err := store.GetPrescription(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("failed to get prescription: %v", err)
	}
	if updated.Frequency != models.FrequencyThrice {
		t.Errorf("expected Thrice, got %s", updated.Frequency)
	}
	if len(updated.Schedule.Days) != 2 || updated.Schedule.Days[0] != "Mon" || updated.Schedule.Days[1] != "Wed" {
		t.Errorf("expected canonical days [Mon Wed], got %v", updated.Schedule.Days)
	}
	// three times on two weekdays
	if got := len(alertsFor(t, store, p.ID)); got != 6 {
		t.Errorf("expected 6 reminders, got %d", got)
	}
}

func TestScheduleCmd_KeepsFrequency(t *testing.T) {
	ctx, store := setupTestDB(t)
	p := addTwice(t, ctx)

	if err := (&ScheduleCmd{ID: p.ID, Times: []string{"09:00", "21:00"}}).Run(ctx); err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	updated, _ := store.GetPrescription(context.Background(), p.ID)
	if updated.Frequency != models.FrequencyTwice || updated.Schedule.Times[0] != "09:00" {
		t.Errorf("unexpected schedule: %+v", updated)
	}

	err := (&ScheduleCmd{ID: p.ID, Times: []string{"09:00"}}).Run(ctx)
	if !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for a short schedule, got %v", err)
	}
}

func TestEditCmd(t *testing.T) {
	ctx, store := setupTestDB(t)
	p := addTwice(t, ctx)

	name := "Amoxil"
	withFood := true
	end := "2026-12-31"
	if err := (&EditCmd{ID: p.ID, Name: &name, WithFood: &withFood, End: &end}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	updated, _ := store.GetPrescription(context.Background(), p.ID)
	if updated.MedicationName != "Amoxil" || !updated.WithFood || updated.EndDate != end {
		t.Errorf("edit not applied: %+v", updated)
	}
	if updated.Dosage != "500mg" {
		t.Errorf("untouched fields must survive, got dosage %q", updated.Dosage)
	}

	empty := ""
	if err := (&EditCmd{ID: p.ID, Dosage: &empty}).Run(ctx); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for empty dosage, got %v", err)
	}
}

func TestStockCmd(t *testing.T) {
	ctx, store := setupTestDB(t)
	p := addTwice(t, ctx)

	if err := (&StockCmd{ID: p.ID, Refill: true}).Run(ctx); err != nil {
		t.Fatalf("refill failed: %v", err)
	}
	updated, _ := store.GetPrescription(context.Background(), p.ID)
	if updated.CurrentStock != 35 {
		t.Errorf("expected 5+30=35, got %d", updated.CurrentStock)
	}

	set := 12
	if err := (&StockCmd{ID: p.ID, Set: &set}).Run(ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	updated, _ = store.GetPrescription(context.Background(), p.ID)
	if updated.CurrentStock != 12 {
		t.Errorf("expected 12, got %d", updated.CurrentStock)
	}

	negative := -1
	if err := (&StockCmd{ID: p.ID, Set: &negative}).Run(ctx); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for negative stock, got %v", err)
	}
	if err := (&StockCmd{ID: p.ID}).Run(ctx); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error without --set or --refill, got %v", err)
	}
}

func TestDeleteCmd_CancelsReminders(t *testing.T) {
	ctx, store := setupTestDB(t)
	p := addTwice(t, ctx)

	if err := (&DeleteCmd{ID: p.ID}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.GetPrescription(context.Background(), p.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	if got := len(alertsFor(t, store, p.ID)); got != 0 {
		t.Errorf("expected reminders cancelled, got %d", got)
	}

	if err := (&DeleteCmd{ID: p.ID}).Run(ctx); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found deleting twice, got %v", err)
	}
}

func TestReadOnlyCommands(t *testing.T) {
	ctx, _ := setupTestDB(t)
	p := addTwice(t, ctx)

	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}
	if err := (&ShowCmd{ID: p.ID[:6]}).Run(ctx); err != nil {
		t.Errorf("show by prefix failed: %v", err)
	}
	if err := (&TodayCmd{}).Run(ctx); err != nil {
		t.Errorf("today failed: %v", err)
	}
	if err := (&LowStockCmd{}).Run(ctx); err != nil {
		t.Errorf("low-stock failed: %v", err)
	}
	if err := (&ShowCmd{ID: "zzzz"}).Run(ctx); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found for unknown ID, got %v", err)
	}
}
