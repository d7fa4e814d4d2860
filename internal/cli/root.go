package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/dosely/internal/alerts"
	"github.com/julianstephens/dosely/internal/backend"
	"github.com/julianstephens/dosely/internal/constants"
	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/reminders"
	"github.com/julianstephens/dosely/internal/service"
	"github.com/julianstephens/dosely/internal/storage"
)

type Context struct {
	Store    storage.Provider
	Patient  string // --patient override for settings.PatientID
	APIToken string // bearer token for the remote backend
	Now      func() time.Time
	Base     context.Context
}

// Context returns the context commands pass to blocking calls.
func (c *Context) Context() context.Context {
	if c.Base == nil {
		return context.Background()
	}
	return c.Base
}

// Clock returns the configured clock, defaulting to time.Now.
func (c *Context) Clock() func() time.Time {
	if c.Now == nil {
		return time.Now
	}
	return c.Now
}

// Settings returns the stored settings with the --patient override applied.
func (c *Context) Settings() (models.Settings, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	if c.Patient != "" {
		settings.PatientID = c.Patient
	}
	return settings, nil
}

// Repository returns the remote backend when one is configured and the local
// store otherwise.
func (c *Context) Repository(settings models.Settings) storage.Repository {
	if settings.BackendURL == "" {
		return c.Store
	}
	return backend.New(backend.Config{
		BaseURL:    settings.BackendURL,
		Token:      c.APIToken,
		RetryCount: constants.BackendRetryCount,
	})
}

// AlertService is the local alert capability backed by the store.
func (c *Context) AlertService() *alerts.StoreService {
	return alerts.NewStoreService(c.Store, c.Store, c.Clock())
}

func (c *Context) Service() (*service.Service, error) {
	settings, err := c.Settings()
	if err != nil {
		return nil, err
	}
	return service.New(c.Repository(settings), c.AlertService(), settings, c.Clock())
}

// PrintReminderReport prints a warning line when the alert capability failed.
// Reminder failures never fail the command.
func PrintReminderReport(report reminders.Report) {
	if report.OK() {
		return
	}
	fmt.Println("⚠ " + apperrors.Warning(fmt.Errorf("reminders were not updated: %w", report.Err)))
	fmt.Println("  Run 'dosely reminders sync' once notifications are available.")
}

// FormatSchedule renders a schedule as "08:00, 20:00 every day".
func FormatSchedule(s models.Schedule) string {
	times := strings.Join(s.Times, ", ")
	if s.EveryDay() {
		return times + " every day"
	}
	return times + " on " + strings.Join(s.Days, ",")
}

// ShortID trims a UUID for table output.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ResolvePrescriptionID accepts a full ID or a unique prefix of one of the
// patient's prescriptions.
func ResolvePrescriptionID(ctx *Context, svc *service.Service, ref string) (string, error) {
	ps, err := svc.ListPrescriptions(ctx.Context())
	if err != nil {
		return "", err
	}

	var matches []string
	for _, p := range ps {
		if p.ID == ref {
			return p.ID, nil
		}
		if strings.HasPrefix(p.ID, ref) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", apperrors.NotFound("prescription", ref)
	case 1:
		return matches[0], nil
	default:
		return "", apperrors.Validationf("id", "%q matches %d prescriptions, use more characters", ref, len(matches))
	}
}
