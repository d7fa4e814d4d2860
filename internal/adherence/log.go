package adherence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/logger"
	"github.com/julianstephens/dosely/internal/models"
)

// Appender persists a finished log entry. Entries are never updated or deleted.
type Appender interface {
	AppendAdherenceLog(ctx context.Context, entry models.AdherenceLogEntry) (models.AdherenceLogEntry, error)
}

type AppendRequest struct {
	PrescriptionID    string
	PatientID         string
	Action            models.Action
	WithFoodConfirmed *bool // only meaningful with ActionTook
	Note              string
}

// Log records dose events. It does not check WithFoodConfirmed against the
// prescription's with-food flag.
type Log struct {
	store Appender
	now   func() time.Time
}

func NewLog(store Appender, now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{store: store, now: now}
}

// Append validates req, stamps it with a new ID and the current time and
// persists it.
func (l *Log) Append(ctx context.Context, req AppendRequest) (models.AdherenceLogEntry, error) {
	if strings.TrimSpace(req.PrescriptionID) == "" {
		return models.AdherenceLogEntry{}, apperrors.Validationf("prescription_id", "cannot be empty")
	}
	if !req.Action.Valid() {
		return models.AdherenceLogEntry{}, apperrors.Validationf("action", "%q is not one of took, missed, snoozed", req.Action)
	}
	if req.WithFoodConfirmed != nil && req.Action != models.ActionTook {
		return models.AdherenceLogEntry{}, apperrors.Validationf("with_food_confirmed", "only applies to took, not %s", req.Action)
	}

	entry := models.AdherenceLogEntry{
		ID:                uuid.New().String(),
		PrescriptionID:    req.PrescriptionID,
		PatientID:         req.PatientID,
		Action:            req.Action,
		Timestamp:         l.now(),
		WithFoodConfirmed: req.WithFoodConfirmed,
		Note:              strings.TrimSpace(req.Note),
	}

	stored, err := l.store.AppendAdherenceLog(ctx, entry)
	if err != nil {
		return models.AdherenceLogEntry{}, fmt.Errorf("failed to append adherence log: %w", err)
	}

	logger.Debug("Dose logged", "prescription_id", stored.PrescriptionID, "action", stored.Action)
	return stored, nil
}
