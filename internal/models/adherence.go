package models

import "time"

type Action string

const (
	ActionTook    Action = "took"
	ActionMissed  Action = "missed"
	ActionSnoozed Action = "snoozed"
)

// Valid reports whether a is one of the recognized adherence actions.
func (a Action) Valid() bool {
	switch a {
	case ActionTook, ActionMissed, ActionSnoozed:
		return true
	default:
		return false
	}
}

// AdherenceLogEntry is an immutable record of a single dose event.
type AdherenceLogEntry struct {
	ID                string    `json:"id"`
	PrescriptionID    string    `json:"prescription_id"`
	PatientID         string    `json:"patient_id"`
	Action            Action    `json:"action"`
	Timestamp         time.Time `json:"created_at"`
	WithFoodConfirmed *bool     `json:"with_food_confirmed,omitempty"`
	Note              string    `json:"note,omitempty"`
}

type AdherenceStats struct {
	WindowDays    int `json:"window_days"`
	Total         int `json:"total"`
	Took          int `json:"took"`
	Missed        int `json:"missed"`
	Snoozed       int `json:"snoozed"`
	AdherenceRate int `json:"adherence_rate"` // percent, 0 when nothing was taken or missed
}
