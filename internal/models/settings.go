package models

// Settings represents application-wide settings
type Settings struct {
	PatientID                  string `json:"patient_id"`                    // patient whose prescriptions are managed
	BackendURL                 string `json:"backend_url"`                   // remote API base URL; empty means local storage only
	Timezone                   string `json:"timezone"`                      // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
	NotificationsEnabled       bool   `json:"notifications_enabled"`         // whether reminder alerts may be registered and delivered
	NotificationGracePeriodMin int    `json:"notification_grace_period_min"` // how late a reminder may still be delivered, in minutes
	StatsWindowDays            int    `json:"stats_window_days"`             // trailing window for adherence statistics
	LowStockThreshold          int    `json:"low_stock_threshold"`           // stock below this count is flagged as low
}
