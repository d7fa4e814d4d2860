package backend

import (
	"strings"
	"time"

	"github.com/julianstephens/dosely/internal/logger"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/validation"
)

// The API serializes naive UTC datetimes, sometimes without a zone suffix.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

type wireTime struct {
	time.Time
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	var err error
	for _, layout := range timestampLayouts {
		var parsed time.Time
		if parsed, err = time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return err
}

func (t wireTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}

type wireSchedule struct {
	Times []string `json:"times"`
	Days  []string `json:"days,omitempty"`
}

type wirePrescription struct {
	ID             string       `json:"id,omitempty"`
	PatientID      string       `json:"patient_id"`
	MedicationName string       `json:"medication_name"`
	Dosage         string       `json:"dosage"`
	Frequency      string       `json:"frequency"`
	Schedule       wireSchedule `json:"schedule"`
	Instructions   *string      `json:"instructions"`
	Description    string       `json:"description,omitempty"`
	StartDate      string       `json:"start_date"`
	EndDate        *string      `json:"end_date"`
	CurrentStock   int          `json:"current_stock"`
	TotalPerRefill int          `json:"total_per_refill"`
	WithFood       bool         `json:"with_food"`
	CreatedAt      *wireTime    `json:"created_at,omitempty"`
}

func toWirePrescription(p models.Prescription) wirePrescription {
	w := wirePrescription{
		ID:             p.ID,
		PatientID:      p.PatientID,
		MedicationName: p.MedicationName,
		Dosage:         p.Dosage,
		Frequency:      strings.ToLower(string(p.Frequency)),
		Schedule:       wireSchedule{Times: p.Schedule.Times, Days: p.Schedule.Days},
		Description:    p.Description,
		StartDate:      p.StartDate,
		CurrentStock:   p.CurrentStock,
		TotalPerRefill: p.TotalPerRefill,
		WithFood:       p.WithFood,
	}
	if p.Instructions != "" {
		w.Instructions = &p.Instructions
	}
	if p.EndDate != "" {
		w.EndDate = &p.EndDate
	}
	return w
}

func (w wirePrescription) model() models.Prescription {
	p := models.Prescription{
		ID:             w.ID,
		PatientID:      w.PatientID,
		MedicationName: w.MedicationName,
		Dosage:         w.Dosage,
		Frequency:      frequencyFromWire(w.Frequency),
		Schedule:       models.Schedule{Times: w.Schedule.Times, Days: w.Schedule.Days},
		Description:    w.Description,
		StartDate:      w.StartDate,
		CurrentStock:   w.CurrentStock,
		TotalPerRefill: w.TotalPerRefill,
		WithFood:       w.WithFood,
	}
	if w.Instructions != nil {
		p.Instructions = *w.Instructions
	}
	if w.EndDate != nil {
		p.EndDate = *w.EndDate
	}
	if w.CreatedAt != nil {
		p.CreatedAt = w.CreatedAt.Time
	}
	if days, err := validation.NormalizeDays(w.Schedule.Days); err == nil {
		p.Schedule.Days = days
	} else {
		logger.Warn("Keeping unrecognized schedule days from backend", "prescription_id", w.ID, "days", w.Schedule.Days, "error", err)
	}
	if len(p.Schedule.Days) == 0 {
		p.Schedule.Days = nil
	}
	return p
}

// frequencyFromWire maps the API's lowercase classes onto the model's.
// Unknown classes such as "custom" pass through title-cased.
func frequencyFromWire(s string) models.Frequency {
	switch strings.ToLower(s) {
	case "once":
		return models.FrequencyOnce
	case "twice":
		return models.FrequencyTwice
	case "thrice":
		return models.FrequencyThrice
	case "":
		return ""
	default:
		return models.Frequency(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
	}
}

type wireLog struct {
	ID                string    `json:"id"`
	PrescriptionID    string    `json:"prescription_id"`
	PatientID         string    `json:"patient_id"`
	Action            string    `json:"action"`
	Note              *string   `json:"note"`
	WithFoodConfirmed *bool     `json:"with_food_confirmed,omitempty"`
	CreatedAt         *wireTime `json:"created_at"`
	ActionAt          *wireTime `json:"action_at"`
}

func (w wireLog) model() models.AdherenceLogEntry {
	e := models.AdherenceLogEntry{
		ID:                w.ID,
		PrescriptionID:    w.PrescriptionID,
		PatientID:         w.PatientID,
		Action:            models.Action(w.Action),
		WithFoodConfirmed: w.WithFoodConfirmed,
	}
	if w.Note != nil {
		e.Note = *w.Note
	}
	switch {
	case w.ActionAt != nil && !w.ActionAt.IsZero():
		e.Timestamp = w.ActionAt.Time
	case w.CreatedAt != nil:
		e.Timestamp = w.CreatedAt.Time
	}
	return e
}

type logRequest struct {
	PrescriptionID    string  `json:"prescription_id"`
	PatientID         string  `json:"patient_id"`
	Action            string  `json:"action"`
	Note              *string `json:"note,omitempty"`
	WithFoodConfirmed *bool   `json:"with_food_confirmed,omitempty"`
}

type stockRequest struct {
	PrescriptionID string `json:"prescription_id"`
	NewStock       int    `json:"new_stock"`
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

type prescriptionsResponse struct {
	envelope
	Prescriptions []wirePrescription `json:"prescriptions"`
}

type prescriptionResponse struct {
	envelope
	Prescription wirePrescription `json:"prescription"`
}

type logsResponse struct {
	envelope
	Logs []wireLog `json:"logs"`
}

type logResponse struct {
	envelope
	Log wireLog `json:"log"`
}
