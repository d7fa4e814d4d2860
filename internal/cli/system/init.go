package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/dosely/internal/backup"
	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/storage"
	"github.com/julianstephens/dosely/internal/storage/sqlite"
)

type InitCmd struct {
	Force     bool   `help:"Force reset by deleting existing database before initialization."`
	PatientID string `help:"Patient whose prescriptions this installation manages." name:"patient-id"`
	Source    string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force && isSQLite(ctx.Store) {
		dbPath := ctx.Store.GetConfigPath()
		if c.Source != "" {
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			snapshot, err := backup.NewManager(dbPath).Create("pre-reset")
			if err != nil {
				return fmt.Errorf("failed to back up existing database: %w", err)
			}
			fmt.Printf("Backed up existing database to: %s\n", snapshot)
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized dosely storage at: %s\n", ctx.Store.GetConfigPath())

	if c.PatientID != "" {
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		settings.PatientID = c.PatientID
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Printf("Patient set to: %s\n", c.PatientID)
	}

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		fmt.Println("Copy completed successfully!")
	}

	return nil
}

func isSQLite(store storage.Provider) bool {
	_, ok := store.(*sqlite.Store)
	return ok
}

// copyData copies settings, prescriptions and the adherence history of the
// source's patient into the freshly initialized store.
func (c *InitCmd) copyData(ctx *cli.Context) error {
	source, err := storage.New(c.Source)
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	fmt.Println("  Copying settings...")
	settings, err := source.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if c.PatientID != "" {
		settings.PatientID = c.PatientID
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	bg := ctx.Context()
	fmt.Println("  Copying prescriptions...")
	prescriptions, err := source.FetchPrescriptionsForPatient(bg, settings.PatientID)
	if err != nil {
		return fmt.Errorf("failed to get prescriptions from source: %w", err)
	}
	for _, p := range prescriptions {
		if _, err := ctx.Store.AddPrescription(bg, p); err != nil {
			return fmt.Errorf("failed to add prescription %s: %w", p.ID, err)
		}
	}
	fmt.Printf("    Copied %d prescriptions\n", len(prescriptions))

	fmt.Println("  Copying adherence logs...")
	entries, err := source.FetchAdherenceLogs(bg, settings.PatientID, 0)
	if err != nil {
		return fmt.Errorf("failed to get adherence logs from source: %w", err)
	}
	for _, e := range entries {
		if _, err := ctx.Store.AppendAdherenceLog(bg, e); err != nil {
			return fmt.Errorf("failed to add adherence log %s: %w", e.ID, err)
		}
	}
	fmt.Printf("    Copied %d adherence logs\n", len(entries))

	fmt.Println("  Run 'dosely reminders sync' to register reminders for the copied prescriptions.")
	return nil
}
