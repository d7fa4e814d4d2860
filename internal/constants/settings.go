package constants

const (
	// General Settings
	SettingPatientID                  = "patient_id"
	SettingBackendURL                 = "backend_url"
	SettingTimezone                   = "timezone"
	SettingNotificationsEnabled       = "notifications_enabled"
	SettingNotificationGracePeriodMin = "notification_grace_period_min"
	SettingStatsWindowDays            = "stats_window_days"
	SettingLowStockThreshold          = "low_stock_threshold"

	// Default Settings Values
	DefaultNotificationsEnabled       = true
	DefaultNotificationGracePeriodMin = 10
	DefaultTimezone                   = "Local" // Use system local timezone by default
)
