package system

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/dosely/internal/cli"
	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/keyring"
	"github.com/julianstephens/dosely/internal/notifier"
	"github.com/julianstephens/dosely/internal/utils"
	"github.com/julianstephens/dosely/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name     string
	needsDB  bool
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var doctorChecks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Settings", needsDB: true, run: checkSettings},
	{name: "Prescription schedules", needsDB: true, run: checkPrescriptions},
	{name: "Scheduled reminders", needsDB: true, warnOnly: true, run: checkOrphanedAlerts},
	{name: "Clock/timezone", run: checkClock},
	{name: "OS keyring", warnOnly: true, run: checkKeyring},
	{name: "Tray app", warnOnly: true, run: checkTrayApp},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range doctorChecks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersions()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'dosely migrate')", current, latest)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	if settings.PatientID == "" {
		return errors.New("no patient configured (run 'dosely settings --patient-id <id>')")
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("invalid timezone %q", settings.Timezone)
	}
	if settings.NotificationGracePeriodMin < 0 {
		return fmt.Errorf("notification grace period cannot be negative (got %d)", settings.NotificationGracePeriodMin)
	}
	if settings.StatsWindowDays < 1 {
		return fmt.Errorf("stats window must be at least 1 day (got %d)", settings.StatsWindowDays)
	}
	return nil
}

// checkPrescriptions re-validates every stored prescription. Time counts are
// not compared to the frequency since overridden schedules are legitimate.
func checkPrescriptions(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	if settings.PatientID == "" {
		return nil
	}

	ps, err := ctx.Store.FetchPrescriptionsForPatient(ctx.Context(), settings.PatientID)
	if err != nil {
		return fmt.Errorf("failed to get prescriptions: %w", err)
	}

	var invalid []error
	for i := range ps {
		p := ps[i]
		if err := validation.ValidatePrescription(&p, true); err != nil {
			invalid = append(invalid, fmt.Errorf("%s (%s): %s", p.MedicationName, cli.ShortID(p.ID), apperrors.Format(err)))
		}
	}
	return errors.Join(invalid...)
}

func checkOrphanedAlerts(ctx *cli.Context) error {
	scheduled, err := ctx.Store.GetAllScheduledAlerts(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to list scheduled alerts: %w", err)
	}

	orphaned := 0
	for _, a := range scheduled {
		if _, err := ctx.Store.GetPrescription(ctx.Context(), a.Tag.PrescriptionID); err != nil {
			if apperrors.IsNotFound(err) {
				orphaned++
				continue
			}
			return fmt.Errorf("failed to look up prescription %s: %w", a.Tag.PrescriptionID, err)
		}
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d reminders for deleted prescriptions (run 'dosely reminders sync')", orphaned)
	}
	return nil
}

func checkClock(ctx *cli.Context) error {
	now := ctx.Clock()()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkTrayApp(ctx *cli.Context) error {
	dir, err := notifier.GetTrayAppConfigDir()
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("tray app not installed (%s missing); notifications cannot be delivered", dir)
	}
	return nil
}
