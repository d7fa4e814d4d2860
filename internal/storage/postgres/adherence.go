package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/dosely/internal/models"
)

func (s *Store) FetchAdherenceLogs(ctx context.Context, patientID string, windowDays int) ([]models.AdherenceLogEntry, error) {
	query := `
		SELECT id, prescription_id, patient_id, action, created_at, with_food_confirmed, note
		FROM adherence_logs
		WHERE patient_id = $1`
	args := []any{patientID}
	if windowDays > 0 {
		query += ` AND created_at >= $2`
		args = append(args, time.Now().AddDate(0, 0, -windowDays))
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query adherence logs: %w", err)
	}
	defer rows.Close()

	var entries []models.AdherenceLogEntry
	for rows.Next() {
		var e models.AdherenceLogEntry
		var action string
		var withFood sql.NullBool

		if err := rows.Scan(&e.ID, &e.PrescriptionID, &e.PatientID, &action, &e.Timestamp, &withFood, &e.Note); err != nil {
			return nil, fmt.Errorf("failed to scan adherence log: %w", err)
		}
		e.Action = models.Action(action)
		if withFood.Valid {
			v := withFood.Bool
			e.WithFoodConfirmed = &v
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating adherence logs: %w", err)
	}

	return entries, nil
}

func (s *Store) AppendAdherenceLog(ctx context.Context, entry models.AdherenceLogEntry) (models.AdherenceLogEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	var withFood sql.NullBool
	if entry.WithFoodConfirmed != nil {
		withFood = sql.NullBool{Bool: *entry.WithFoodConfirmed, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO adherence_logs (id, prescription_id, patient_id, action, created_at, with_food_confirmed, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		entry.ID, entry.PrescriptionID, entry.PatientID, string(entry.Action),
		entry.Timestamp, withFood, entry.Note,
	)
	if err != nil {
		return models.AdherenceLogEntry{}, fmt.Errorf("failed to insert adherence log: %w", err)
	}

	return entry, nil
}
