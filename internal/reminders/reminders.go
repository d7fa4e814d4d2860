package reminders

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/logger"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/validation"
)

// AlertService is the device alert capability reminders are registered with.
type AlertService interface {
	ListAlerts(ctx context.Context) ([]models.ScheduledAlert, error)
	CancelAlert(ctx context.Context, id string) error
	RegisterAlert(ctx context.Context, tag models.AlertTag, trigger models.AlertTrigger, payload models.AlertPayload) (string, error)
}

// Report describes what a reschedule or cancel did. Err is set when the alert
// capability failed part way; it is never returned as an error value.
type Report struct {
	Cancelled  int
	Registered []string
	Err        error
}

// OK reports whether the alert capability completed every step.
func (r Report) OK() bool {
	return r.Err == nil
}

type Scheduler struct {
	alerts AlertService
}

func New(alerts AlertService) *Scheduler {
	return &Scheduler{alerts: alerts}
}

// Reschedule replaces every alert tagged with prescriptionID by one repeating
// daily alert per time. Calling it repeatedly with the same input leaves
// exactly len(times) alerts for the prescription.
func (s *Scheduler) Reschedule(ctx context.Context, prescriptionID, medicationName string, times []string) (Report, error) {
	triggers, err := dailyTriggers(times)
	if err != nil {
		return Report{}, err
	}
	return s.replace(ctx, prescriptionID, medicationName, triggers), nil
}

// RescheduleSchedule is the weekday-aware form of Reschedule. A schedule
// restricted to specific days gets one weekly trigger per day and time.
func (s *Scheduler) RescheduleSchedule(ctx context.Context, p models.Prescription) (Report, error) {
	if p.Schedule.EveryDay() {
		return s.Reschedule(ctx, p.ID, p.MedicationName, p.Schedule.Times)
	}

	daily, err := dailyTriggers(p.Schedule.Times)
	if err != nil {
		return Report{}, err
	}

	triggers := make([]models.AlertTrigger, 0, len(daily)*len(p.Schedule.Days))
	for _, day := range p.Schedule.Days {
		weekday, ok := weekdayOf(day)
		if !ok {
			return Report{}, apperrors.Validationf("days", "%q is not a weekday abbreviation (Mon..Sun)", day)
		}
		for _, t := range daily {
			wd := weekday
			t.Weekday = &wd
			triggers = append(triggers, t)
		}
	}
	return s.replace(ctx, p.ID, p.MedicationName, triggers), nil
}

// Cancel removes every alert tagged with prescriptionID.
func (s *Scheduler) Cancel(ctx context.Context, prescriptionID string) Report {
	var report Report
	report.Cancelled, report.Err = s.cancelTagged(ctx, prescriptionID)
	if report.Err != nil {
		s.warn("cancel", prescriptionID, report.Err)
	}
	return report
}

// CancelOrphans removes every alert whose prescription is not in known.
func (s *Scheduler) CancelOrphans(ctx context.Context, known []string) Report {
	keep := make(map[string]bool, len(known))
	for _, id := range known {
		keep[id] = true
	}

	var report Report
	report.Cancelled, report.Err = s.cancelWhere(ctx, func(a models.ScheduledAlert) bool {
		return !keep[a.Tag.PrescriptionID]
	})
	if report.Err != nil {
		s.warn("cancel orphans", "", report.Err)
		return report
	}
	if report.Cancelled > 0 {
		logger.Info("Cancelled reminders of deleted prescriptions", "cancelled", report.Cancelled)
	}
	return report
}

func (s *Scheduler) replace(ctx context.Context, prescriptionID, medicationName string, triggers []models.AlertTrigger) Report {
	var report Report

	report.Cancelled, report.Err = s.cancelTagged(ctx, prescriptionID)
	if report.Err != nil {
		s.warn("reschedule", prescriptionID, report.Err)
		return report
	}

	tag := models.AlertTag{PrescriptionID: prescriptionID, MedicationName: medicationName}
	payload := models.AlertPayload{
		PrescriptionID: prescriptionID,
		MedicationName: medicationName,
		Body:           fmt.Sprintf("Time to take %s", medicationName),
	}
	for _, trigger := range triggers {
		id, err := s.alerts.RegisterAlert(ctx, tag, trigger, payload)
		if err != nil {
			report.Err = apperrors.CapabilityUnavailable("register", err)
			s.warn("reschedule", prescriptionID, report.Err)
			return report
		}
		report.Registered = append(report.Registered, id)
	}

	logger.Debug("Reminders rescheduled",
		"prescription_id", prescriptionID,
		"cancelled", report.Cancelled,
		"registered", len(report.Registered))
	return report
}

func (s *Scheduler) cancelTagged(ctx context.Context, prescriptionID string) (int, error) {
	return s.cancelWhere(ctx, func(a models.ScheduledAlert) bool {
		return a.Tag.PrescriptionID == prescriptionID
	})
}

func (s *Scheduler) cancelWhere(ctx context.Context, match func(models.ScheduledAlert) bool) (int, error) {
	existing, err := s.alerts.ListAlerts(ctx)
	if err != nil {
		return 0, apperrors.CapabilityUnavailable("list", err)
	}

	cancelled := 0
	for _, alert := range existing {
		if !match(alert) {
			continue
		}
		if err := s.alerts.CancelAlert(ctx, alert.ID); err != nil {
			return cancelled, apperrors.CapabilityUnavailable("cancel", err)
		}
		cancelled++
	}
	return cancelled, nil
}

func (s *Scheduler) warn(op, prescriptionID string, err error) {
	logger.Warn("Alert capability unavailable", "op", op, "prescription_id", prescriptionID, "error", err)
}

func dailyTriggers(times []string) ([]models.AlertTrigger, error) {
	triggers := make([]models.AlertTrigger, 0, len(times))
	for _, t := range times {
		hour, minute, err := validation.ParseTimeOfDay(t)
		if err != nil {
			return nil, err
		}
		triggers = append(triggers, models.AlertTrigger{Hour: hour, Minute: minute, Repeats: true})
	}
	return triggers, nil
}

func weekdayOf(day string) (time.Weekday, bool) {
	for i, d := range validation.Weekdays {
		if d == day {
			// Weekdays starts on Monday; time.Weekday starts on Sunday.
			return time.Weekday((i + 1) % 7), true
		}
	}
	return 0, false
}
