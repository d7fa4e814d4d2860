package models

import (
	"testing"
	"time"
)

func TestFrequencyExpectedTimes(t *testing.T) {
	tests := []struct {
		freq Frequency
		want int
	}{
		{FrequencyOnce, 1},
		{FrequencyTwice, 2},
		{FrequencyThrice, 3},
		{Frequency("Hourly"), 0},
	}
	for _, tt := range tests {
		if got := tt.freq.ExpectedTimes(); got != tt.want {
			t.Errorf("%s.ExpectedTimes() = %d, want %d", tt.freq, got, tt.want)
		}
	}
}

func TestScheduleIncludesDay(t *testing.T) {
	everyDay := Schedule{Times: []string{"08:00"}}
	for _, day := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		if !everyDay.IncludesDay(day) {
			t.Errorf("empty days should include %s", day)
		}
	}

	mondays := Schedule{Times: []string{"08:00"}, Days: []string{"Mon"}}
	if !mondays.IncludesDay("Mon") {
		t.Error("expected Mon to be included")
	}
	if mondays.IncludesDay("Tue") {
		t.Error("expected Tue to be excluded")
	}
}

func TestPrescriptionStock(t *testing.T) {
	p := Prescription{CurrentStock: 1}
	if !p.IsLowStock(10) {
		t.Error("expected stock 1 to be low at threshold 10")
	}
	if !p.DecrementStock() {
		t.Fatal("expected decrement from 1 to succeed")
	}
	if p.CurrentStock != 0 {
		t.Errorf("expected stock 0, got %d", p.CurrentStock)
	}
	if p.DecrementStock() {
		t.Error("expected decrement at 0 to report false")
	}
	if p.CurrentStock != 0 {
		t.Errorf("stock went negative: %d", p.CurrentStock)
	}

	full := Prescription{CurrentStock: 10}
	if full.IsLowStock(10) {
		t.Error("stock equal to threshold is not low")
	}
}

func TestPrescriptionIsExpired(t *testing.T) {
	today := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		endDate string
		want    bool
	}{
		{"no end date", "", false},
		{"ended yesterday", "2026-10-13", true},
		{"ends today", "2026-10-14", false},
		{"ends later", "2026-12-01", false},
		{"malformed", "soon", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Prescription{EndDate: tt.endDate}
			if got := p.IsExpired(today); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}
