package adherence

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/dosely/internal/constants"
	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/models"
)

// Compute summarizes the entries whose timestamp falls within
// [now - windowDays days, now], both ends inclusive. Snoozed entries are
// counted but do not affect the adherence rate.
func Compute(entries []models.AdherenceLogEntry, now time.Time, windowDays int) (models.AdherenceStats, error) {
	if windowDays < 1 {
		return models.AdherenceStats{}, apperrors.Validationf("window_days", "must be at least 1 (got %d)", windowDays)
	}

	start := now.AddDate(0, 0, -windowDays)
	stats := models.AdherenceStats{WindowDays: windowDays}
	for _, e := range entries {
		if e.Timestamp.Before(start) || e.Timestamp.After(now) {
			continue
		}
		switch e.Action {
		case models.ActionTook:
			stats.Took++
		case models.ActionMissed:
			stats.Missed++
		case models.ActionSnoozed:
			stats.Snoozed++
		default:
			continue
		}
		stats.Total++
	}

	stats.AdherenceRate = Rate(stats.Took, stats.Missed)
	return stats, nil
}

// Rate is round(100 * took / (took + missed)), or 0 when both are zero.
func Rate(took, missed int) int {
	if took+missed == 0 {
		return 0
	}
	return int(math.Round(100 * float64(took) / float64(took+missed)))
}

// DefaultWindow returns windowDays, or the default trailing window when it is unset.
func DefaultWindow(windowDays int) int {
	if windowDays == 0 {
		return constants.DefaultStatsWindowDays
	}
	return windowDays
}

// PrescriptionStats pairs a prescription ID with its windowed stats.
type PrescriptionStats struct {
	PrescriptionID string
	Stats          models.AdherenceStats
}

// ComputeByPrescription runs Compute separately for every prescription that
// appears in entries, ordered by prescription ID.
func ComputeByPrescription(entries []models.AdherenceLogEntry, now time.Time, windowDays int) ([]PrescriptionStats, error) {
	if windowDays < 1 {
		return nil, apperrors.Validationf("window_days", "must be at least 1 (got %d)", windowDays)
	}

	grouped := make(map[string][]models.AdherenceLogEntry)
	for _, e := range entries {
		grouped[e.PrescriptionID] = append(grouped[e.PrescriptionID], e)
	}

	ids := make([]string, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]PrescriptionStats, 0, len(ids))
	for _, id := range ids {
		stats, err := Compute(grouped[id], now, windowDays)
		if err != nil {
			return nil, err
		}
		out = append(out, PrescriptionStats{PrescriptionID: id, Stats: stats})
	}
	return out, nil
}
