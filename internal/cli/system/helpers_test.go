package system

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/storage/sqlite"
)

// wednesday is 2026-10-14 08:05 UTC.
var wednesday = time.Date(2026, 10, 14, 8, 5, 0, 0, time.UTC)

func setupTestContext(t *testing.T) (*cli.Context, *sqlite.Store) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	settings.PatientID = "patient-1"
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	ctx := &cli.Context{
		Store: store,
		Now:   func() time.Time { return wednesday },
	}
	return ctx, store
}

func testPrescription(id string) models.Prescription {
	return models.Prescription{
		ID:             id,
		PatientID:      "patient-1",
		MedicationName: "Amoxicillin",
		Dosage:         "500mg",
		Frequency:      models.FrequencyTwice,
		Schedule:       models.Schedule{Times: []string{"08:00", "20:00"}},
		CurrentStock:   20,
		TotalPerRefill: 30,
		StartDate:      "2026-10-01",
	}
}
