package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/models"
)

const prescriptionColumns = `id, patient_id, medication_name, dosage, description, instructions,
	frequency, schedule_times, schedule_days, current_stock, total_per_refill,
	with_food, start_date, end_date, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrescription(row rowScanner) (models.Prescription, error) {
	var p models.Prescription
	var frequency string
	var timesJSON, daysJSON []byte

	err := row.Scan(
		&p.ID, &p.PatientID, &p.MedicationName, &p.Dosage, &p.Description, &p.Instructions,
		&frequency, &timesJSON, &daysJSON, &p.CurrentStock, &p.TotalPerRefill,
		&p.WithFood, &p.StartDate, &p.EndDate, &p.CreatedAt,
	)
	if err != nil {
		return models.Prescription{}, err
	}

	p.Frequency = models.Frequency(frequency)
	if err := json.Unmarshal(timesJSON, &p.Schedule.Times); err != nil {
		return models.Prescription{}, fmt.Errorf("failed to unmarshal schedule times: %w", err)
	}
	if err := json.Unmarshal(daysJSON, &p.Schedule.Days); err != nil {
		return models.Prescription{}, fmt.Errorf("failed to unmarshal schedule days: %w", err)
	}
	if len(p.Schedule.Days) == 0 {
		p.Schedule.Days = nil
	}

	return p, nil
}

func marshalList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Store) FetchPrescriptionsForPatient(ctx context.Context, patientID string) ([]models.Prescription, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prescriptionColumns+`
		FROM prescriptions
		WHERE patient_id = $1
		ORDER BY created_at ASC, id ASC
	`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query prescriptions: %w", err)
	}
	defer rows.Close()

	var prescriptions []models.Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prescription: %w", err)
		}
		prescriptions = append(prescriptions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prescriptions: %w", err)
	}

	return prescriptions, nil
}

func (s *Store) GetPrescription(ctx context.Context, id string) (models.Prescription, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+prescriptionColumns+`
		FROM prescriptions
		WHERE id = $1
	`, id)

	p, err := scanPrescription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Prescription{}, apperrors.NotFound("prescription", id)
	}
	if err != nil {
		return models.Prescription{}, fmt.Errorf("failed to get prescription: %w", err)
	}
	return p, nil
}

func (s *Store) AddPrescription(ctx context.Context, p models.Prescription) (models.Prescription, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	timesJSON, err := marshalList(p.Schedule.Times)
	if err != nil {
		return models.Prescription{}, fmt.Errorf("failed to marshal schedule times: %w", err)
	}
	daysJSON, err := marshalList(p.Schedule.Days)
	if err != nil {
		return models.Prescription{}, fmt.Errorf("failed to marshal schedule days: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO prescriptions (`+prescriptionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		p.ID, p.PatientID, p.MedicationName, p.Dosage, p.Description, p.Instructions,
		string(p.Frequency), timesJSON, daysJSON, p.CurrentStock, p.TotalPerRefill,
		p.WithFood, p.StartDate, p.EndDate, p.CreatedAt,
	)
	if err != nil {
		return models.Prescription{}, fmt.Errorf("failed to insert prescription: %w", err)
	}

	return p, nil
}

func (s *Store) UpdatePrescription(ctx context.Context, p models.Prescription) (models.Prescription, error) {
	timesJSON, err := marshalList(p.Schedule.Times)
	if err != nil {
		return models.Prescription{}, fmt.Errorf("failed to marshal schedule times: %w", err)
	}
	daysJSON, err := marshalList(p.Schedule.Days)
	if err != nil {
		return models.Prescription{}, fmt.Errorf("failed to marshal schedule days: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE prescriptions SET
			patient_id = $1, medication_name = $2, dosage = $3, description = $4, instructions = $5,
			frequency = $6, schedule_times = $7, schedule_days = $8,
			current_stock = $9, total_per_refill = $10, with_food = $11,
			start_date = $12, end_date = $13
		WHERE id = $14
	`,
		p.PatientID, p.MedicationName, p.Dosage, p.Description, p.Instructions,
		string(p.Frequency), timesJSON, daysJSON,
		p.CurrentStock, p.TotalPerRefill, p.WithFood,
		p.StartDate, p.EndDate, p.ID,
	)
	if err != nil {
		return models.Prescription{}, fmt.Errorf("failed to update prescription: %w", err)
	}
	if err := requireRow(result, "prescription", p.ID); err != nil {
		return models.Prescription{}, err
	}

	return s.GetPrescription(ctx, p.ID)
}

func (s *Store) UpdateStock(ctx context.Context, id string, newStock int) error {
	if newStock < 0 {
		return apperrors.Validationf("current_stock", "cannot be negative (got %d)", newStock)
	}

	result, err := s.db.ExecContext(ctx, `UPDATE prescriptions SET current_stock = $1 WHERE id = $2`, newStock, id)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	return requireRow(result, "prescription", id)
}

func (s *Store) DeletePrescription(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prescription: %w", err)
	}
	return requireRow(result, "prescription", id)
}

func requireRow(result sql.Result, resource, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NotFound(resource, id)
	}
	return nil
}
