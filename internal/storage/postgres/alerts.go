package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/dosely/internal/models"
)

func (s *Store) AddScheduledAlert(ctx context.Context, alert models.ScheduledAlert) error {
	var weekday sql.NullInt64
	if alert.Trigger.Weekday != nil {
		weekday = sql.NullInt64{Int64: int64(*alert.Trigger.Weekday), Valid: true}
	}

	createdAt := alert.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scheduled_alerts (
			id, prescription_id, medication_name,
			hour, minute, repeats, weekday,
			body, created_at, last_fired
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		alert.ID, alert.Tag.PrescriptionID, alert.Tag.MedicationName,
		alert.Trigger.Hour, alert.Trigger.Minute, alert.Trigger.Repeats, weekday,
		alert.Payload.Body, createdAt, alert.LastFired,
	)
	if err != nil {
		return fmt.Errorf("failed to insert scheduled alert: %w", err)
	}

	return nil
}

func (s *Store) GetAllScheduledAlerts(ctx context.Context) ([]models.ScheduledAlert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, prescription_id, medication_name,
			hour, minute, repeats, weekday,
			body, created_at, last_fired
		FROM scheduled_alerts
		ORDER BY hour ASC, minute ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.ScheduledAlert
	for rows.Next() {
		var a models.ScheduledAlert
		var weekday sql.NullInt64
		var lastFired sql.NullTime

		err := rows.Scan(
			&a.ID, &a.Tag.PrescriptionID, &a.Tag.MedicationName,
			&a.Trigger.Hour, &a.Trigger.Minute, &a.Trigger.Repeats, &weekday,
			&a.Payload.Body, &a.CreatedAt, &lastFired,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled alert: %w", err)
		}

		a.Payload.PrescriptionID = a.Tag.PrescriptionID
		a.Payload.MedicationName = a.Tag.MedicationName
		if weekday.Valid {
			wd := time.Weekday(weekday.Int64)
			a.Trigger.Weekday = &wd
		}
		if lastFired.Valid {
			t := lastFired.Time
			a.LastFired = &t
		}

		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scheduled alerts: %w", err)
	}

	return alerts, nil
}

func (s *Store) DeleteScheduledAlert(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM scheduled_alerts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scheduled alert: %w", err)
	}
	return requireRow(result, "alert", id)
}

func (s *Store) MarkAlertFired(ctx context.Context, id string, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `UPDATE scheduled_alerts SET last_fired = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark alert fired: %w", err)
	}
	return requireRow(result, "alert", id)
}
