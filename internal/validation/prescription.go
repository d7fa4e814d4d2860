package validation

import (
	"strings"
	"time"

	"github.com/julianstephens/dosely/internal/constants"
	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/models"
)

// ValidatePrescription checks a prescription before it is persisted and
// normalizes its schedule in place. overrideCount relaxes the
// frequency/time-count match the same way ScheduleInput.OverrideCount does.
func ValidatePrescription(p *models.Prescription, overrideCount bool) error {
	if strings.TrimSpace(p.MedicationName) == "" {
		return apperrors.Validationf("medication_name", "cannot be empty")
	}
	if strings.TrimSpace(p.Dosage) == "" {
		return apperrors.Validationf("dosage", "cannot be empty")
	}
	if p.CurrentStock < 0 {
		return apperrors.Validationf("current_stock", "cannot be negative (got %d)", p.CurrentStock)
	}
	if p.TotalPerRefill < 0 {
		return apperrors.Validationf("total_per_refill", "cannot be negative (got %d)", p.TotalPerRefill)
	}

	if p.StartDate == "" {
		return apperrors.Validationf("start_date", "cannot be empty")
	}
	start, err := time.Parse(constants.DateFormat, p.StartDate)
	if err != nil {
		return apperrors.Validationf("start_date", "%q is not YYYY-MM-DD", p.StartDate)
	}
	if p.EndDate != "" {
		end, err := time.Parse(constants.DateFormat, p.EndDate)
		if err != nil {
			return apperrors.Validationf("end_date", "%q is not YYYY-MM-DD", p.EndDate)
		}
		if end.Before(start) {
			return apperrors.Validationf("end_date", "%s is before start date %s", p.EndDate, p.StartDate)
		}
	}

	schedule, err := NormalizeSchedule(ScheduleInput{
		Frequency: p.Frequency,
		Times:     p.Schedule.Times,
		Days:      p.Schedule.Days,

		OverrideCount: overrideCount,
	})
	if err != nil {
		return err
	}
	p.Schedule = schedule
	return nil
}
