package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/storage"
)

// ErrNotificationsDisabled is returned by every StoreService operation while
// notifications are turned off in settings.
var ErrNotificationsDisabled = errors.New("notifications are disabled in settings")

type SettingsSource interface {
	GetSettings() (models.Settings, error)
}

// StoreService is the local alert capability: reminders are persisted in the
// store's alert registry and delivered later by a Dispatcher.
type StoreService struct {
	registry storage.AlertRegistry
	settings SettingsSource
	now      func() time.Time
}

// NewStoreService builds the capability. A nil settings source means
// notifications are always allowed.
func NewStoreService(registry storage.AlertRegistry, settings SettingsSource, now func() time.Time) *StoreService {
	if now == nil {
		now = time.Now
	}
	return &StoreService{registry: registry, settings: settings, now: now}
}

func (s *StoreService) permitted() error {
	if s.settings == nil {
		return nil
	}
	settings, err := s.settings.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to read notification settings: %w", err)
	}
	if !settings.NotificationsEnabled {
		return ErrNotificationsDisabled
	}
	return nil
}

func (s *StoreService) ListAlerts(ctx context.Context) ([]models.ScheduledAlert, error) {
	if err := s.permitted(); err != nil {
		return nil, err
	}
	return s.registry.GetAllScheduledAlerts(ctx)
}

func (s *StoreService) CancelAlert(ctx context.Context, id string) error {
	if err := s.permitted(); err != nil {
		return err
	}
	return s.registry.DeleteScheduledAlert(ctx, id)
}

func (s *StoreService) RegisterAlert(ctx context.Context, tag models.AlertTag, trigger models.AlertTrigger, payload models.AlertPayload) (string, error) {
	if err := s.permitted(); err != nil {
		return "", err
	}

	alert := models.ScheduledAlert{
		ID:        uuid.New().String(),
		Tag:       tag,
		Trigger:   trigger,
		Payload:   payload,
		CreatedAt: s.now(),
	}
	if err := s.registry.AddScheduledAlert(ctx, alert); err != nil {
		return "", err
	}
	return alert.ID, nil
}
