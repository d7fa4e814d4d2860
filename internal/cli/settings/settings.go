package settings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dosely/internal/cli"
	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	PatientID  *string `help:"Patient whose prescriptions are managed." name:"patient-id"`
	BackendURL *string `help:"Remote API base URL; pass an empty string for local storage only." name:"backend-url"`
	Timezone   *string `help:"IANA timezone name, or Local for the system timezone."`

	NotificationsEnabled *bool `help:"Enable or disable reminder notifications."`
	GracePeriod          *int  `help:"Minutes a reminder may still be delivered after its time." name:"grace-period"`
	StatsWindow          *int  `help:"Default trailing window for adherence statistics, in days." name:"stats-window"`
	LowStockThreshold    *int  `help:"Stock below this count is reported as low." name:"low-stock-threshold"`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		backend := settings.BackendURL
		if backend == "" {
			backend = "(local storage)"
		}
		fmt.Println("Current Settings:")
		fmt.Printf("  Patient:               %s\n", settings.PatientID)
		fmt.Printf("  Backend:               %s\n", backend)
		fmt.Printf("  Timezone:              %s\n", settings.Timezone)
		fmt.Printf("  Stats Window:          %d days\n", settings.StatsWindowDays)
		fmt.Printf("  Low Stock Threshold:   %d\n", settings.LowStockThreshold)
		fmt.Println("\nNotification Settings:")
		fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		fmt.Printf("  Grace Period:          %d min\n", settings.NotificationGracePeriodMin)
		return nil
	}

	updated := false
	if c.PatientID != nil {
		if strings.TrimSpace(*c.PatientID) == "" {
			return apperrors.Validationf("patient_id", "cannot be empty")
		}
		settings.PatientID = strings.TrimSpace(*c.PatientID)
		updated = true
	}
	if c.BackendURL != nil {
		url := strings.TrimRight(strings.TrimSpace(*c.BackendURL), "/")
		if url != "" && !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return apperrors.Validationf("backend_url", "%q must start with http:// or https://", url)
		}
		settings.BackendURL = url
		updated = true
	}
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return apperrors.Validationf("timezone", "%q is not a valid IANA timezone", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.GracePeriod != nil {
		if *c.GracePeriod < 0 {
			return apperrors.Validationf("grace_period", "cannot be negative (got %d)", *c.GracePeriod)
		}
		settings.NotificationGracePeriodMin = *c.GracePeriod
		updated = true
	}
	if c.StatsWindow != nil {
		if *c.StatsWindow < 1 {
			return apperrors.Validationf("stats_window", "must be at least 1 (got %d)", *c.StatsWindow)
		}
		settings.StatsWindowDays = *c.StatsWindow
		updated = true
	}
	if c.LowStockThreshold != nil {
		if *c.LowStockThreshold < 0 {
			return apperrors.Validationf("low_stock_threshold", "cannot be negative (got %d)", *c.LowStockThreshold)
		}
		settings.LowStockThreshold = *c.LowStockThreshold
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	if c.NotificationsEnabled != nil && *c.NotificationsEnabled {
		fmt.Println("Run 'dosely reminders sync' to register reminders for existing prescriptions.")
	}
	return nil
}
