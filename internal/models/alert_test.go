package models

import (
	"testing"
	"time"
)

func TestAlertTriggerMatches(t *testing.T) {
	wed := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC) // Wednesday
	monday := time.Monday
	wednesday := time.Wednesday

	tests := []struct {
		name    string
		trigger AlertTrigger
		want    bool
	}{
		{"daily", AlertTrigger{Hour: 8, Repeats: true}, true},
		{"matching weekday", AlertTrigger{Hour: 8, Repeats: true, Weekday: &wednesday}, true},
		{"other weekday", AlertTrigger{Hour: 8, Repeats: true, Weekday: &monday}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.trigger.Matches(wed); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAlertTriggerString(t *testing.T) {
	monday := time.Monday
	if got := (AlertTrigger{Hour: 8, Minute: 5, Repeats: true}).String(); got != "daily 08:05" {
		t.Errorf("String() = %q, want %q", got, "daily 08:05")
	}
	if got := (AlertTrigger{Hour: 20, Repeats: true, Weekday: &monday}).String(); got != "Mon 20:00" {
		t.Errorf("String() = %q, want %q", got, "Mon 20:00")
	}
}

func TestScheduledAlertFiredOn(t *testing.T) {
	now := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	earlier := now.Add(-time.Hour)

	a := ScheduledAlert{}
	if a.FiredOn(now) {
		t.Error("expected never-fired alert to report false")
	}

	a.LastFired = &yesterday
	if a.FiredOn(now) {
		t.Error("expected alert fired yesterday to report false")
	}

	a.LastFired = &earlier
	if !a.FiredOn(now) {
		t.Error("expected alert fired earlier today to report true")
	}
}
