package alerts

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/dosely/internal/logger"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/storage"
)

// Sender delivers a reminder to the user.
type Sender interface {
	Notify(ctx context.Context, text string) error
}

type Dispatcher struct {
	registry storage.AlertRegistry
	sender   Sender
	grace    time.Duration
}

// NewDispatcher returns a dispatcher that still delivers an alert up to grace
// after its scheduled minute.
func NewDispatcher(registry storage.AlertRegistry, sender Sender, grace time.Duration) *Dispatcher {
	if grace < 0 {
		grace = 0
	}
	return &Dispatcher{registry: registry, sender: sender, grace: grace}
}

type FireResult struct {
	Delivered []models.ScheduledAlert
	Failed    int
}

// Due filters alerts to those scheduled for now's weekday, whose trigger time
// has passed by no more than the grace period and which have not fired
// today. The result is ordered by trigger time.
func (d *Dispatcher) Due(alerts []models.ScheduledAlert, now time.Time) []models.ScheduledAlert {
	var due []models.ScheduledAlert
	for _, a := range alerts {
		if !a.Trigger.Matches(now) || a.FiredOn(now) {
			continue
		}
		scheduled := time.Date(now.Year(), now.Month(), now.Day(), a.Trigger.Hour, a.Trigger.Minute, 0, 0, now.Location())
		if now.Before(scheduled) || now.Sub(scheduled) >= d.grace+time.Minute {
			continue
		}
		due = append(due, a)
	}

	sort.SliceStable(due, func(i, j int) bool {
		ti, tj := due[i].Trigger, due[j].Trigger
		return ti.Hour*60+ti.Minute < tj.Hour*60+tj.Minute
	})
	return due
}

// Fire delivers every due alert and records it as fired. A failed delivery is
// logged and retried on the next run within the grace period.
func (d *Dispatcher) Fire(ctx context.Context, now time.Time) (FireResult, error) {
	alerts, err := d.registry.GetAllScheduledAlerts(ctx)
	if err != nil {
		return FireResult{}, fmt.Errorf("failed to list scheduled alerts: %w", err)
	}

	var result FireResult
	for _, a := range d.Due(alerts, now) {
		if err := d.sender.Notify(ctx, Message(a)); err != nil {
			logger.Warn("Failed to deliver reminder", "alert_id", a.ID, "prescription_id", a.Tag.PrescriptionID, "error", err)
			result.Failed++
			continue
		}
		if err := d.registry.MarkAlertFired(ctx, a.ID, now); err != nil {
			return result, fmt.Errorf("failed to mark alert %s fired: %w", a.ID, err)
		}
		result.Delivered = append(result.Delivered, a)
	}

	logger.Debug("Reminder dispatch finished", "delivered", len(result.Delivered), "failed", result.Failed)
	return result, nil
}

// Message is the notification text for an alert.
func Message(a models.ScheduledAlert) string {
	body := a.Payload.Body
	if body == "" {
		body = "Time to take " + a.Tag.MedicationName
	}
	return fmt.Sprintf("%s (%02d:%02d)", body, a.Trigger.Hour, a.Trigger.Minute)
}
