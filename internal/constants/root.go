package constants

import "time"

const (
	AppName             = "dosely"
	DefaultKeyringUser  = "database-connection"
	APITokenKeyringUser = "api-token"
	DefaultConfigPath   = "~/.config/dosely/dosely.db"
	Version             = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Environment overrides
	EnvDBConnection = "DOSELY_DB_CONNECTION"
	EnvAPIToken     = "DOSELY_API_TOKEN"

	// Notify constants
	NotifierLockfileName   = "dosely-notifier.lock"
	NotificationDurationMs = 8000
	TrayAppIdentifier      = "com.julianstephens.dosely"
	TrayProcessPrefix      = "dosely-tray"
	NotifySecretHeader     = "X-Dosely-Secret"
	NotifyTimeout          = 5 * time.Second

	// Backend constants
	BackendAPIPrefix  = "/api"
	BackendTimeout    = 15 * time.Second
	BackendRetryCount = 2

	// Adherence
	DefaultStatsWindowDays   = 7
	DefaultHistoryWindowDays = 30
	DefaultLowStockThreshold = 10

	// Default reference times used only as form placeholders, never to fill missing slots
	PlaceholderMorning   = "08:00"
	PlaceholderAfternoon = "14:00"
	PlaceholderNight     = "20:00"
)
