package validation

import (
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/models"
)

var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// Weekdays lists the recognized weekday abbreviations in canonical order.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var weekdayIndex = map[string]int{
	"mon": 0, "tue": 1, "wed": 2, "thu": 3, "fri": 4, "sat": 5, "sun": 6,
}

// ScheduleInput is the raw dosing recurrence supplied by a caller.
// Missing slots are never filled in: an incomplete input is rejected.
type ScheduleInput struct {
	Frequency models.Frequency
	Times     []string
	Days      []string
	// OverrideCount accepts any non-empty Times list regardless of Frequency.
	OverrideCount bool
}

// NormalizeSchedule validates in and returns the canonical Schedule.
// Times keep the caller's dose order; days are canonicalized, deduplicated
// and ordered Mon..Sun.
func NormalizeSchedule(in ScheduleInput) (models.Schedule, error) {
	expected := in.Frequency.ExpectedTimes()
	if expected == 0 && !in.OverrideCount {
		return models.Schedule{}, apperrors.Validationf("frequency", "%q is not one of Once, Twice, Thrice", in.Frequency)
	}

	times := make([]string, 0, len(in.Times))
	for _, raw := range in.Times {
		t := strings.TrimSpace(raw)
		if !IsTimeOfDay(t) {
			return models.Schedule{}, apperrors.Validationf("time", "%q does not match HH:MM (00-23:00-59)", raw)
		}
		times = append(times, t)
	}

	switch {
	case len(times) == 0:
		return models.Schedule{}, apperrors.Validationf("times", "at least one time of day is required")
	case !in.OverrideCount && len(times) < expected:
		return models.Schedule{}, apperrors.Validationf("times", "%s requires %d time(s), got %d", in.Frequency, expected, len(times))
	case !in.OverrideCount && len(times) > expected:
		return models.Schedule{}, apperrors.Validationf("times", "%s allows exactly %d time(s), got %d", in.Frequency, expected, len(times))
	}

	days, err := NormalizeDays(in.Days)
	if err != nil {
		return models.Schedule{}, err
	}

	return models.Schedule{Times: times, Days: days}, nil
}

// NormalizeDays validates weekday abbreviations case-insensitively. An empty
// input stays empty, meaning every day.
func NormalizeDays(days []string) ([]string, error) {
	if len(days) == 0 {
		return nil, nil
	}

	var seen [7]bool
	for _, raw := range days {
		idx, ok := weekdayIndex[strings.ToLower(strings.TrimSpace(raw))]
		if !ok {
			return nil, apperrors.Validationf("days", "%q is not a weekday abbreviation (Mon..Sun)", raw)
		}
		seen[idx] = true
	}

	out := make([]string, 0, len(days))
	for i, ok := range seen {
		if ok {
			out = append(out, Weekdays[i])
		}
	}
	return out, nil
}

// IsTimeOfDay reports whether s is a zero-padded 24-hour HH:MM value.
func IsTimeOfDay(s string) bool {
	return timeOfDayPattern.MatchString(s)
}

// ParseTimeOfDay splits an HH:MM string into hour and minute.
func ParseTimeOfDay(s string) (int, int, error) {
	m := timeOfDayPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, apperrors.Validationf("time", "%q does not match HH:MM (00-23:00-59)", s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return hour, minute, nil
}

// ParseFrequency accepts once, twice or thrice in any case.
func ParseFrequency(s string) (models.Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "once":
		return models.FrequencyOnce, nil
	case "twice":
		return models.FrequencyTwice, nil
	case "thrice":
		return models.FrequencyThrice, nil
	default:
		return "", apperrors.Validationf("frequency", "%q is not one of Once, Twice, Thrice", s)
	}
}
