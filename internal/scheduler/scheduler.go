package scheduler

import (
	"sort"
	"strings"

	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/utils"
	"github.com/julianstephens/dosely/internal/validation"
)

// Slot groups a dose time into a coarse part of the day.
type Slot string

const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
	SlotEvening   Slot = "evening"
	SlotNight     Slot = "night"
)

// Dose is one scheduled intake of a prescription on a given day.
type Dose struct {
	Prescription models.Prescription
	Time         string // HH:MM
	Slot         Slot
	// Logged holds the actions recorded today for this dose, oldest first.
	Logged []models.AdherenceLogEntry

	minutes int
}

// LastAction returns the most recent action logged today, or "" if none.
func (d Dose) LastAction() models.Action {
	if len(d.Logged) == 0 {
		return ""
	}
	return d.Logged[len(d.Logged)-1].Action
}

// DueToday returns the prescriptions whose schedule includes today, preserving
// input order. today is a weekday abbreviation (Mon..Sun, any case).
// Expired prescriptions are not filtered out.
func DueToday(today string, ps []models.Prescription) ([]models.Prescription, error) {
	day, err := canonicalDay(today)
	if err != nil {
		return nil, err
	}

	due := make([]models.Prescription, 0, len(ps))
	for _, p := range ps {
		if p.Schedule.IncludesDay(day) {
			due = append(due, p)
		}
	}
	return due, nil
}

// DosesFor expands the prescriptions due today into individual doses sorted by
// time of day. Callers pass the entries recorded today. A prescription's
// entries fill its doses in time order: a snooze stays on the current dose,
// a took or missed closes it and later entries move to the next one. Entries
// beyond the last dose stay on the last dose.
func DosesFor(today string, ps []models.Prescription, logs []models.AdherenceLogEntry) ([]Dose, error) {
	due, err := DueToday(today, ps)
	if err != nil {
		return nil, err
	}

	byPrescription := make(map[string][]models.AdherenceLogEntry)
	for _, entry := range logs {
		byPrescription[entry.PrescriptionID] = append(byPrescription[entry.PrescriptionID], entry)
	}

	var doses []Dose
	for _, p := range due {
		own, err := dosesOf(p)
		if err != nil {
			return nil, err
		}
		assignLogs(own, byPrescription[p.ID])
		doses = append(doses, own...)
	}

	sort.SliceStable(doses, func(i, j int) bool {
		return doses[i].minutes < doses[j].minutes
	})
	return doses, nil
}

func dosesOf(p models.Prescription) ([]Dose, error) {
	doses := make([]Dose, 0, len(p.Schedule.Times))
	for _, t := range p.Schedule.Times {
		minutes, err := utils.ParseTimeToMinutes(t)
		if err != nil || !validation.IsTimeOfDay(t) {
			return nil, apperrors.Validationf("time", "%q does not match HH:MM (00-23:00-59)", t)
		}
		doses = append(doses, Dose{
			Prescription: p,
			Time:         t,
			Slot:         SlotFor(minutes / 60),
			minutes:      minutes,
		})
	}
	sort.SliceStable(doses, func(i, j int) bool {
		return doses[i].minutes < doses[j].minutes
	})
	return doses, nil
}

func assignLogs(doses []Dose, entries []models.AdherenceLogEntry) {
	if len(doses) == 0 || len(entries) == 0 {
		return
	}
	sorted := append([]models.AdherenceLogEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	k := 0
	for _, entry := range sorted {
		doses[k].Logged = append(doses[k].Logged, entry)
		if entry.Action != models.ActionSnoozed && k < len(doses)-1 {
			k++
		}
	}
}

// SlotFor maps an hour (0-23) to its part of the day.
func SlotFor(hour int) Slot {
	switch {
	case hour >= 5 && hour < 12:
		return SlotMorning
	case hour >= 12 && hour < 17:
		return SlotAfternoon
	case hour >= 17 && hour < 21:
		return SlotEvening
	default:
		return SlotNight
	}
}

func canonicalDay(today string) (string, error) {
	day := strings.TrimSpace(today)
	for _, d := range validation.Weekdays {
		if strings.EqualFold(d, day) {
			return d, nil
		}
	}
	return "", apperrors.Validationf("today", "%q is not a weekday abbreviation (Mon..Sun)", today)
}
