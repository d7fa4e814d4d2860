package models

import "time"

type Frequency string

const (
	FrequencyOnce   Frequency = "Once"
	FrequencyTwice  Frequency = "Twice"
	FrequencyThrice Frequency = "Thrice"
)

// ExpectedTimes returns how many daily doses the frequency class implies.
// Unknown frequencies return 0.
func (f Frequency) ExpectedTimes() int {
	switch f {
	case FrequencyOnce:
		return 1
	case FrequencyTwice:
		return 2
	case FrequencyThrice:
		return 3
	default:
		return 0
	}
}

// Schedule is the recurrence rule of a prescription.
type Schedule struct {
	Times []string `json:"times"`          // HH:MM, dose order
	Days  []string `json:"days,omitempty"` // Mon..Sun; empty means every day
}

// EveryDay reports whether the schedule has no weekday restriction.
func (s Schedule) EveryDay() bool {
	return len(s.Days) == 0
}

// IncludesDay reports whether the schedule is active on the given weekday abbreviation.
func (s Schedule) IncludesDay(day string) bool {
	if s.EveryDay() {
		return true
	}
	for _, d := range s.Days {
		if d == day {
			return true
		}
	}
	return false
}

type Prescription struct {
	ID             string    `json:"id"`
	PatientID      string    `json:"patient_id"`
	MedicationName string    `json:"medication_name"`
	Dosage         string    `json:"dosage"`
	Description    string    `json:"description,omitempty"`
	Instructions   string    `json:"instructions,omitempty"`
	Frequency      Frequency `json:"frequency"`
	Schedule       Schedule  `json:"schedule"`
	CurrentStock   int       `json:"current_stock"`
	TotalPerRefill int       `json:"total_per_refill"`
	WithFood       bool      `json:"with_food"`
	StartDate      string    `json:"start_date"`         // YYYY-MM-DD
	EndDate        string    `json:"end_date,omitempty"` // YYYY-MM-DD, expiry
	CreatedAt      time.Time `json:"created_at"`
}

// IsLowStock reports whether the remaining stock is under the threshold.
func (p *Prescription) IsLowStock(threshold int) bool {
	return p.CurrentStock < threshold
}

// IsExpired reports whether the prescription's end date is before the given day.
// Prescriptions without an end date, or with an unparseable one, never expire.
func (p *Prescription) IsExpired(today time.Time) bool {
	if p.EndDate == "" {
		return false
	}
	end, err := time.ParseInLocation("2006-01-02", p.EndDate, today.Location())
	if err != nil {
		return false
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	return end.Before(day)
}

// DecrementStock removes one dose from stock without going negative.
// It returns false when there was nothing to remove.
func (p *Prescription) DecrementStock() bool {
	if p.CurrentStock <= 0 {
		return false
	}
	p.CurrentStock--
	return true
}
