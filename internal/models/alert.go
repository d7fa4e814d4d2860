package models

import (
	"fmt"
	"time"
)

// AlertTag identifies which prescription a scheduled alert belongs to.
type AlertTag struct {
	PrescriptionID string `json:"prescription_id"`
	MedicationName string `json:"medication_name"`
}

// AlertTrigger fires at Hour:Minute. A nil Weekday fires every day.
type AlertTrigger struct {
	Hour    int           `json:"hour"`
	Minute  int           `json:"minute"`
	Repeats bool          `json:"repeats"`
	Weekday *time.Weekday `json:"weekday,omitempty"`
}

func (t AlertTrigger) String() string {
	s := fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
	if t.Weekday != nil {
		s = t.Weekday.String()[:3] + " " + s
	} else if t.Repeats {
		s = "daily " + s
	}
	return s
}

// Matches reports whether the trigger is scheduled for the weekday of now.
func (t AlertTrigger) Matches(now time.Time) bool {
	return t.Weekday == nil || *t.Weekday == now.Weekday()
}

type AlertPayload struct {
	PrescriptionID string `json:"prescription_id"`
	MedicationName string `json:"medication_name"`
	Body           string `json:"body,omitempty"`
}

type ScheduledAlert struct {
	ID        string       `json:"id"`
	Tag       AlertTag     `json:"tag"`
	Trigger   AlertTrigger `json:"trigger"`
	Payload   AlertPayload `json:"payload"`
	CreatedAt time.Time    `json:"created_at"`
	LastFired *time.Time   `json:"last_fired,omitempty"`
}

// FiredOn reports whether the alert was already delivered on the calendar day of now.
func (a *ScheduledAlert) FiredOn(now time.Time) bool {
	if a.LastFired == nil {
		return false
	}
	last := a.LastFired.In(now.Location())
	return last.Year() == now.Year() && last.YearDay() == now.YearDay()
}
