package storage

import (
	"context"
	"time"

	"github.com/julianstephens/dosely/internal/models"
)

// Repository is the prescription and adherence data source. It is served by
// the local stores and by the remote backend client.
type Repository interface {
	FetchPrescriptionsForPatient(ctx context.Context, patientID string) ([]models.Prescription, error)
	GetPrescription(ctx context.Context, id string) (models.Prescription, error)
	AddPrescription(ctx context.Context, p models.Prescription) (models.Prescription, error)
	UpdatePrescription(ctx context.Context, p models.Prescription) (models.Prescription, error)
	UpdateStock(ctx context.Context, id string, newStock int) error
	DeletePrescription(ctx context.Context, id string) error

	// Adherence logs are append-only.
	FetchAdherenceLogs(ctx context.Context, patientID string, windowDays int) ([]models.AdherenceLogEntry, error)
	AppendAdherenceLog(ctx context.Context, entry models.AdherenceLogEntry) (models.AdherenceLogEntry, error)
}

// AlertRegistry persists the reminders registered with the alert capability.
type AlertRegistry interface {
	AddScheduledAlert(ctx context.Context, alert models.ScheduledAlert) error
	GetAllScheduledAlerts(ctx context.Context) ([]models.ScheduledAlert, error)
	DeleteScheduledAlert(ctx context.Context, id string) error
	MarkAlertFired(ctx context.Context, id string, at time.Time) error
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Schema
	Migrate() (int, error)
	SchemaVersions() (current, latest int, err error)

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	Repository
	AlertRegistry

	// Utils
	GetConfigPath() string
}
