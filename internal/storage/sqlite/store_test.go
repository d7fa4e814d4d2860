package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "dosely.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testPrescription(patientID string) models.Prescription {
	return models.Prescription{
		PatientID:      patientID,
		MedicationName: "Metformin",
		Dosage:         "500mg",
		Frequency:      models.FrequencyTwice,
		Schedule:       models.Schedule{Times: []string{"20:00", "08:00"}, Days: []string{"Mon", "Wed"}},
		CurrentStock:   30,
		TotalPerRefill: 60,
		WithFood:       true,
		StartDate:      "2026-10-01",
	}
}

func TestInit_SeedsDefaultSettings(t *testing.T) {
	store := setupTestStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if !settings.NotificationsEnabled {
		t.Error("notifications should default to enabled")
	}
	if settings.StatsWindowDays != 7 {
		t.Errorf("StatsWindowDays = %d, want 7", settings.StatsWindowDays)
	}
	if settings.Timezone != "Local" {
		t.Errorf("Timezone = %q, want Local", settings.Timezone)
	}
}

func TestInit_KeepsExistingSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dosely.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	settings, _ := store.GetSettings()
	settings.PatientID = "patient-7"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}
	store.Close()

	again := NewStore(path)
	if err := again.Init(); err != nil {
		t.Fatalf("re-init failed: %v", err)
	}
	defer again.Close()

	got, err := again.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if got.PatientID != "patient-7" {
		t.Errorf("PatientID = %q after re-init", got.PatientID)
	}
}

func TestLoad_Uninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("expected error loading uninitialized store")
	}
}

func TestPrescriptionCRUD(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	added, err := store.AddPrescription(ctx, testPrescription("patient-1"))
	if err != nil {
		t.Fatalf("AddPrescription failed: %v", err)
	}
	if added.ID == "" || added.CreatedAt.IsZero() {
		t.Fatalf("expected generated ID and timestamp, got %+v", added)
	}

	got, err := store.GetPrescription(ctx, added.ID)
	if err != nil {
		t.Fatalf("GetPrescription failed: %v", err)
	}
	if got.MedicationName != "Metformin" || !got.WithFood || got.Frequency != models.FrequencyTwice {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.Schedule.Times) != 2 || got.Schedule.Times[0] != "20:00" {
		t.Errorf("schedule times = %v, order must be preserved", got.Schedule.Times)
	}
	if len(got.Schedule.Days) != 2 || got.Schedule.Days[1] != "Wed" {
		t.Errorf("schedule days = %v", got.Schedule.Days)
	}

	got.Dosage = "1000mg"
	got.Schedule = models.Schedule{Times: []string{"09:00", "21:00"}}
	updated, err := store.UpdatePrescription(ctx, got)
	if err != nil {
		t.Fatalf("UpdatePrescription failed: %v", err)
	}
	if updated.Dosage != "1000mg" || updated.Schedule.Days != nil {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := store.UpdateStock(ctx, added.ID, 12); err != nil {
		t.Fatalf("UpdateStock failed: %v", err)
	}
	got, _ = store.GetPrescription(ctx, added.ID)
	if got.CurrentStock != 12 {
		t.Errorf("CurrentStock = %d, want 12", got.CurrentStock)
	}

	if err := store.DeletePrescription(ctx, added.ID); err != nil {
		t.Fatalf("DeletePrescription failed: %v", err)
	}
	if _, err := store.GetPrescription(ctx, added.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected NotFoundError after delete, got %v", err)
	}
}

func TestPrescriptionNotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if _, err := store.GetPrescription(ctx, "nope"); !apperrors.IsNotFound(err) {
		t.Errorf("GetPrescription: expected NotFoundError, got %v", err)
	}
	if err := store.UpdateStock(ctx, "nope", 3); !apperrors.IsNotFound(err) {
		t.Errorf("UpdateStock: expected NotFoundError, got %v", err)
	}
	if err := store.DeletePrescription(ctx, "nope"); !apperrors.IsNotFound(err) {
		t.Errorf("DeletePrescription: expected NotFoundError, got %v", err)
	}
	p := testPrescription("patient-1")
	p.ID = "nope"
	if _, err := store.UpdatePrescription(ctx, p); !apperrors.IsNotFound(err) {
		t.Errorf("UpdatePrescription: expected NotFoundError, got %v", err)
	}
}

func TestUpdateStock_Negative(t *testing.T) {
	store := setupTestStore(t)
	added, err := store.AddPrescription(context.Background(), testPrescription("patient-1"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.UpdateStock(context.Background(), added.ID, -1); !apperrors.IsValidation(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestFetchPrescriptionsForPatient(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for _, patient := range []string{"a", "a", "b"} {
		if _, err := store.AddPrescription(ctx, testPrescription(patient)); err != nil {
			t.Fatal(err)
		}
	}

	ps, err := store.FetchPrescriptionsForPatient(ctx, "a")
	if err != nil {
		t.Fatalf("FetchPrescriptionsForPatient failed: %v", err)
	}
	if len(ps) != 2 {
		t.Errorf("got %d prescriptions for a, want 2", len(ps))
	}

	ps, err = store.FetchPrescriptionsForPatient(ctx, "nobody")
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 0 {
		t.Errorf("expected none, got %d", len(ps))
	}
}

func TestAdherenceLogs(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Now()
	yes := true

	entries := []models.AdherenceLogEntry{
		{ID: "old", PrescriptionID: "p1", PatientID: "a", Action: models.ActionMissed, Timestamp: now.AddDate(0, 0, -20)},
		{ID: "recent", PrescriptionID: "p1", PatientID: "a", Action: models.ActionTook, Timestamp: now.Add(-time.Hour), WithFoodConfirmed: &yes},
		{ID: "other", PrescriptionID: "p2", PatientID: "b", Action: models.ActionSnoozed, Timestamp: now.Add(-time.Hour)},
	}
	for _, e := range entries {
		if _, err := store.AppendAdherenceLog(ctx, e); err != nil {
			t.Fatalf("AppendAdherenceLog failed: %v", err)
		}
	}

	got, err := store.FetchAdherenceLogs(ctx, "a", 7)
	if err != nil {
		t.Fatalf("FetchAdherenceLogs failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "recent" {
		t.Fatalf("windowed logs = %+v", got)
	}
	if got[0].WithFoodConfirmed == nil || !*got[0].WithFoodConfirmed {
		t.Errorf("WithFoodConfirmed not round-tripped")
	}
	if got[0].Action != models.ActionTook {
		t.Errorf("Action = %q", got[0].Action)
	}

	all, err := store.FetchAdherenceLogs(ctx, "a", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != "old" {
		t.Errorf("full history = %+v", all)
	}
	if all[0].WithFoodConfirmed != nil {
		t.Errorf("missed entry should have no food confirmation")
	}
}

func TestAdherenceLogs_RejectsUnknownAction(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.AppendAdherenceLog(context.Background(), models.AdherenceLogEntry{
		PrescriptionID: "p1", PatientID: "a", Action: "skipped",
	})
	if err == nil {
		t.Error("expected CHECK constraint failure for unknown action")
	}
}

func TestScheduledAlerts(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	wed := time.Wednesday

	alerts := []models.ScheduledAlert{
		{
			ID:      "a2",
			Tag:     models.AlertTag{PrescriptionID: "p1", MedicationName: "Metformin"},
			Trigger: models.AlertTrigger{Hour: 20, Minute: 0, Repeats: true},
			Payload: models.AlertPayload{Body: "Time to take Metformin"},
		},
		{
			ID:      "a1",
			Tag:     models.AlertTag{PrescriptionID: "p2", MedicationName: "Vitamin D"},
			Trigger: models.AlertTrigger{Hour: 8, Minute: 30, Repeats: true, Weekday: &wed},
		},
	}
	for _, a := range alerts {
		if err := store.AddScheduledAlert(ctx, a); err != nil {
			t.Fatalf("AddScheduledAlert failed: %v", err)
		}
	}

	got, err := store.GetAllScheduledAlerts(ctx)
	if err != nil {
		t.Fatalf("GetAllScheduledAlerts failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d alerts, want 2", len(got))
	}
	if got[0].ID != "a1" || got[0].Trigger.Weekday == nil || *got[0].Trigger.Weekday != time.Wednesday {
		t.Errorf("first alert = %+v", got[0])
	}
	if got[1].Payload.MedicationName != "Metformin" || got[1].Payload.Body != "Time to take Metformin" {
		t.Errorf("payload = %+v", got[1].Payload)
	}

	fired := time.Date(2026, 10, 14, 20, 1, 0, 0, time.UTC)
	if err := store.MarkAlertFired(ctx, "a2", fired); err != nil {
		t.Fatalf("MarkAlertFired failed: %v", err)
	}
	got, _ = store.GetAllScheduledAlerts(ctx)
	if got[1].LastFired == nil || !got[1].LastFired.Equal(fired) {
		t.Errorf("LastFired = %v, want %v", got[1].LastFired, fired)
	}

	if err := store.DeleteScheduledAlert(ctx, "a1"); err != nil {
		t.Fatalf("DeleteScheduledAlert failed: %v", err)
	}
	if err := store.DeleteScheduledAlert(ctx, "a1"); !apperrors.IsNotFound(err) {
		t.Errorf("second delete: expected NotFoundError, got %v", err)
	}
	if err := store.MarkAlertFired(ctx, "missing", fired); !apperrors.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}
