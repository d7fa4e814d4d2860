package models

import (
	"fmt"

	"github.com/julianstephens/dosely/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingPatientID:
			settings.PatientID = value
		case constants.SettingBackendURL:
			settings.BackendURL = value
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingNotificationGracePeriodMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.NotificationGracePeriodMin); err != nil {
				return Settings{}, fmt.Errorf("parsing notification_grace_period_min: %w", err)
			}
		case constants.SettingStatsWindowDays:
			if _, err := fmt.Sscanf(value, "%d", &settings.StatsWindowDays); err != nil {
				return Settings{}, fmt.Errorf("parsing stats_window_days: %w", err)
			}
		case constants.SettingLowStockThreshold:
			if _, err := fmt.Sscanf(value, "%d", &settings.LowStockThreshold); err != nil {
				return Settings{}, fmt.Errorf("parsing low_stock_threshold: %w", err)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingPatientID:                  settings.PatientID,
		constants.SettingBackendURL:                 settings.BackendURL,
		constants.SettingTimezone:                   settings.Timezone,
		constants.SettingNotificationsEnabled:       fmt.Sprintf("%v", settings.NotificationsEnabled),
		constants.SettingNotificationGracePeriodMin: fmt.Sprintf("%d", settings.NotificationGracePeriodMin),
		constants.SettingStatsWindowDays:            fmt.Sprintf("%d", settings.StatsWindowDays),
		constants.SettingLowStockThreshold:          fmt.Sprintf("%d", settings.LowStockThreshold),
	}
}

// DefaultSettings returns the settings written on first init.
func DefaultSettings() Settings {
	s := Settings{NotificationsEnabled: constants.DefaultNotificationsEnabled}
	ApplyDefaultSettings(&s)
	return s
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.NotificationGracePeriodMin == 0 {
		settings.NotificationGracePeriodMin = constants.DefaultNotificationGracePeriodMin
	}
	if settings.StatsWindowDays == 0 {
		settings.StatsWindowDays = constants.DefaultStatsWindowDays
	}
	if settings.LowStockThreshold == 0 {
		settings.LowStockThreshold = constants.DefaultLowStockThreshold
	}
}
