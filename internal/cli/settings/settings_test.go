package settings

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/dosely/internal/cli"
	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	return &cli.Context{Store: store}
}

func TestSettingsCmd_List(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&SettingsCmd{List: true}).Run(ctx); err != nil {
		t.Errorf("settings list failed: %v", err)
	}
}

func TestSettingsCmd_Update(t *testing.T) {
	ctx := setupTestDB(t)

	patient := "patient-7"
	backend := "https://api.example.com/"
	tz := "America/New_York"
	enabled := false
	grace := 5
	window := 14
	threshold := 4

	cmd := &SettingsCmd{
		PatientID:            &patient,
		BackendURL:           &backend,
		Timezone:             &tz,
		NotificationsEnabled: &enabled,
		GracePeriod:          &grace,
		StatsWindow:          &window,
		LowStockThreshold:    &threshold,
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.PatientID != "patient-7" {
		t.Errorf("expected patient-7, got %q", settings.PatientID)
	}
	if settings.BackendURL != "https://api.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", settings.BackendURL)
	}
	if settings.Timezone != tz {
		t.Errorf("expected timezone %s, got %s", tz, settings.Timezone)
	}
	if settings.NotificationsEnabled {
		t.Error("expected notifications disabled")
	}
	if settings.NotificationGracePeriodMin != 5 || settings.StatsWindowDays != 14 || settings.LowStockThreshold != 4 {
		t.Errorf("numeric settings not saved: %+v", settings)
	}
}

func TestSettingsCmd_Invalid(t *testing.T) {
	badTZ := "Mars/Olympus"
	badURL := "ftp://example.com"
	emptyPatient := "  "
	negative := -1
	zero := 0

	tests := []struct {
		name string
		cmd  SettingsCmd
	}{
		{"timezone", SettingsCmd{Timezone: &badTZ}},
		{"backend url", SettingsCmd{BackendURL: &badURL}},
		{"empty patient", SettingsCmd{PatientID: &emptyPatient}},
		{"negative grace period", SettingsCmd{GracePeriod: &negative}},
		{"zero stats window", SettingsCmd{StatsWindow: &zero}},
		{"negative threshold", SettingsCmd{LowStockThreshold: &negative}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestDB(t)
			before, _ := ctx.Store.GetSettings()

			err := tt.cmd.Run(ctx)
			if !apperrors.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}

			after, _ := ctx.Store.GetSettings()
			if before != after {
				t.Errorf("settings changed despite invalid input: %+v -> %+v", before, after)
			}
		})
	}
}

func TestSettingsCmd_ClearBackend(t *testing.T) {
	ctx := setupTestDB(t)

	url := "http://localhost:8080"
	if err := (&SettingsCmd{BackendURL: &url}).Run(ctx); err != nil {
		t.Fatalf("set backend failed: %v", err)
	}
	empty := ""
	if err := (&SettingsCmd{BackendURL: &empty}).Run(ctx); err != nil {
		t.Fatalf("clear backend failed: %v", err)
	}

	settings, _ := ctx.Store.GetSettings()
	if settings.BackendURL != "" {
		t.Errorf("expected backend cleared, got %q", settings.BackendURL)
	}
}
