// Package service runs the medication workflows on top of a repository, the
// reminder scheduler and the adherence log.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/dosely/internal/adherence"
	"github.com/julianstephens/dosely/internal/constants"
	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/logger"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/reminders"
	"github.com/julianstephens/dosely/internal/scheduler"
	"github.com/julianstephens/dosely/internal/storage"
	"github.com/julianstephens/dosely/internal/utils"
	"github.com/julianstephens/dosely/internal/validation"
)

// stockDecrementer is implemented by repositories that lower stock on their
// own when a took entry is appended.
type stockDecrementer interface {
	DecrementsStockOnTook() bool
}

type Service struct {
	repo      storage.Repository
	reminders *reminders.Scheduler
	log       *adherence.Log
	settings  models.Settings
	loc       *time.Location
	now       func() time.Time
}

// New builds a service for settings.PatientID. now defaults to time.Now and
// is read in the configured timezone.
func New(repo storage.Repository, alerts reminders.AlertService, settings models.Settings, now func() time.Time) (*Service, error) {
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, apperrors.Validationf("timezone", "%q is not a valid IANA timezone", settings.Timezone)
	}
	if now == nil {
		now = time.Now
	}

	s := &Service{
		repo:      repo,
		reminders: reminders.New(alerts),
		settings:  settings,
		loc:       loc,
		now:       now,
	}
	s.log = adherence.NewLog(repo, s.Now)
	return s, nil
}

// Now is the current time in the configured timezone.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

func (s *Service) Settings() models.Settings {
	return s.settings
}

func (s *Service) patientID(override string) (string, error) {
	id := strings.TrimSpace(override)
	if id == "" {
		id = s.settings.PatientID
	}
	if id == "" {
		return "", apperrors.Validationf("patient_id", "no patient configured; set one with 'dosely settings --patient-id'")
	}
	return id, nil
}

func (s *Service) ListPrescriptions(ctx context.Context) ([]models.Prescription, error) {
	patientID, err := s.patientID("")
	if err != nil {
		return nil, err
	}
	return s.repo.FetchPrescriptionsForPatient(ctx, patientID)
}

func (s *Service) GetPrescription(ctx context.Context, id string) (models.Prescription, error) {
	return s.repo.GetPrescription(ctx, id)
}

// AddPrescription validates and stores p, then registers its reminders. A
// reminder failure is reported in the returned Report, never as an error.
func (s *Service) AddPrescription(ctx context.Context, p models.Prescription, overrideCount bool) (models.Prescription, reminders.Report, error) {
	patientID, err := s.patientID(p.PatientID)
	if err != nil {
		return models.Prescription{}, reminders.Report{}, err
	}
	p.PatientID = patientID
	if p.StartDate == "" {
		p.StartDate = s.Now().Format(constants.DateFormat)
	}

	if err := validation.ValidatePrescription(&p, overrideCount); err != nil {
		return models.Prescription{}, reminders.Report{}, err
	}

	stored, err := s.repo.AddPrescription(ctx, p)
	if err != nil {
		return models.Prescription{}, reminders.Report{}, fmt.Errorf("failed to add prescription: %w", err)
	}

	report, err := s.reminders.RescheduleSchedule(ctx, stored)
	if err != nil {
		return stored, report, err
	}

	logger.Info("Prescription added", "prescription_id", stored.ID, "medication", stored.MedicationName)
	return stored, report, nil
}

// EditSchedule replaces a prescription's frequency and schedule and
// re-registers its reminders. An empty in.Frequency keeps the current one.
func (s *Service) EditSchedule(ctx context.Context, id string, in validation.ScheduleInput) (models.Prescription, reminders.Report, error) {
	p, err := s.repo.GetPrescription(ctx, id)
	if err != nil {
		return models.Prescription{}, reminders.Report{}, err
	}

	if in.Frequency == "" {
		in.Frequency = p.Frequency
	}
	schedule, err := validation.NormalizeSchedule(in)
	if err != nil {
		return models.Prescription{}, reminders.Report{}, err
	}
	p.Frequency = in.Frequency
	p.Schedule = schedule

	return s.UpdatePrescription(ctx, p, in.OverrideCount)
}

// UpdatePrescription validates and stores p and re-registers its reminders.
func (s *Service) UpdatePrescription(ctx context.Context, p models.Prescription, overrideCount bool) (models.Prescription, reminders.Report, error) {
	if err := validation.ValidatePrescription(&p, overrideCount); err != nil {
		return models.Prescription{}, reminders.Report{}, err
	}

	stored, err := s.repo.UpdatePrescription(ctx, p)
	if err != nil {
		return models.Prescription{}, reminders.Report{}, err
	}

	report, err := s.reminders.RescheduleSchedule(ctx, stored)
	if err != nil {
		return stored, report, err
	}
	return stored, report, nil
}

func (s *Service) UpdateStock(ctx context.Context, id string, newStock int) error {
	if newStock < 0 {
		return apperrors.Validationf("current_stock", "cannot be negative (got %d)", newStock)
	}
	return s.repo.UpdateStock(ctx, id, newStock)
}

// DeletePrescription removes the prescription first and its reminders second.
func (s *Service) DeletePrescription(ctx context.Context, id string) (reminders.Report, error) {
	if err := s.repo.DeletePrescription(ctx, id); err != nil {
		return reminders.Report{}, err
	}
	logger.Info("Prescription deleted", "prescription_id", id)
	return s.reminders.Cancel(ctx, id), nil
}

// LogDose appends an adherence entry. A took entry also lowers the stock by
// one when any is left; failing to do so is logged and does not fail the call.
func (s *Service) LogDose(ctx context.Context, req adherence.AppendRequest) (models.AdherenceLogEntry, error) {
	if strings.TrimSpace(req.PrescriptionID) == "" {
		return models.AdherenceLogEntry{}, apperrors.Validationf("prescription_id", "cannot be empty")
	}
	p, err := s.repo.GetPrescription(ctx, req.PrescriptionID)
	if err != nil {
		return models.AdherenceLogEntry{}, err
	}
	if req.PatientID == "" {
		req.PatientID = p.PatientID
	}

	entry, err := s.log.Append(ctx, req)
	if err != nil {
		return models.AdherenceLogEntry{}, err
	}

	if entry.Action == models.ActionTook && !s.repoDecrementsStock() && p.DecrementStock() {
		if err := s.repo.UpdateStock(ctx, p.ID, p.CurrentStock); err != nil {
			logger.Warn("Failed to decrement stock", "prescription_id", p.ID, "error", err)
		}
	}
	return entry, nil
}

func (s *Service) repoDecrementsStock() bool {
	d, ok := s.repo.(stockDecrementer)
	return ok && d.DecrementsStockOnTook()
}

// DueToday returns the patient's prescriptions scheduled for today's weekday.
func (s *Service) DueToday(ctx context.Context) ([]models.Prescription, error) {
	ps, err := s.ListPrescriptions(ctx)
	if err != nil {
		return nil, err
	}
	return scheduler.DueToday(utils.WeekdayAbbrev(s.Now()), ps)
}

// TodayDoses lists today's individual doses with whatever was logged for
// them since midnight.
func (s *Service) TodayDoses(ctx context.Context) ([]scheduler.Dose, error) {
	patientID, err := s.patientID("")
	if err != nil {
		return nil, err
	}
	ps, err := s.repo.FetchPrescriptionsForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	entries, err := s.repo.FetchAdherenceLogs(ctx, patientID, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch today's logs: %w", err)
	}
	midnight := utils.StartOfDay(now)
	var today []models.AdherenceLogEntry
	for _, e := range entries {
		if !e.Timestamp.Before(midnight) && !e.Timestamp.After(now) {
			today = append(today, e)
		}
	}

	return scheduler.DosesFor(utils.WeekdayAbbrev(now), ps, today)
}

// StatsWindow resolves windowDays against settings and the default.
func (s *Service) StatsWindow(windowDays int) int {
	if windowDays == 0 {
		windowDays = s.settings.StatsWindowDays
	}
	return adherence.DefaultWindow(windowDays)
}

// Stats computes the trailing-window stats overall and per prescription.
// windowDays 0 means the configured window.
func (s *Service) Stats(ctx context.Context, windowDays int) (models.AdherenceStats, []adherence.PrescriptionStats, error) {
	windowDays = s.StatsWindow(windowDays)
	if windowDays < 1 {
		return models.AdherenceStats{}, nil, apperrors.Validationf("window_days", "must be at least 1 (got %d)", windowDays)
	}

	patientID, err := s.patientID("")
	if err != nil {
		return models.AdherenceStats{}, nil, err
	}
	// One extra day so the inclusive lower bound is never cut by the store.
	entries, err := s.repo.FetchAdherenceLogs(ctx, patientID, windowDays+1)
	if err != nil {
		return models.AdherenceStats{}, nil, fmt.Errorf("failed to fetch adherence logs: %w", err)
	}

	now := s.Now()
	overall, err := adherence.Compute(entries, now, windowDays)
	if err != nil {
		return models.AdherenceStats{}, nil, err
	}
	perPrescription, err := adherence.ComputeByPrescription(entries, now, windowDays)
	if err != nil {
		return models.AdherenceStats{}, nil, err
	}
	return overall, perPrescription, nil
}

// History returns the log entries of the trailing window, newest first.
// windowDays <= 0 returns the full history.
func (s *Service) History(ctx context.Context, windowDays int) ([]models.AdherenceLogEntry, error) {
	patientID, err := s.patientID("")
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.FetchAdherenceLogs(ctx, patientID, windowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch adherence logs: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

// LowStock returns the prescriptions whose stock is under the configured threshold.
func (s *Service) LowStock(ctx context.Context) ([]models.Prescription, error) {
	threshold := s.settings.LowStockThreshold
	if threshold <= 0 {
		threshold = constants.DefaultLowStockThreshold
	}

	ps, err := s.ListPrescriptions(ctx)
	if err != nil {
		return nil, err
	}
	var low []models.Prescription
	for _, p := range ps {
		if p.IsLowStock(threshold) {
			low = append(low, p)
		}
	}
	return low, nil
}

// SyncResult is the reminder outcome for one prescription.
type SyncResult struct {
	Prescription models.Prescription
	Report       reminders.Report
}

// SyncSummary is the outcome of SyncReminders. Orphans reports the alerts
// removed because their prescription no longer exists.
type SyncSummary struct {
	Orphans reminders.Report
	Results []SyncResult
}

// Err returns the first capability failure, or nil.
func (s SyncSummary) Err() error {
	if !s.Orphans.OK() {
		return s.Orphans.Err
	}
	for _, r := range s.Results {
		if !r.Report.OK() {
			return r.Report.Err
		}
	}
	return nil
}

// Registered counts the alerts registered across all prescriptions.
func (s SyncSummary) Registered() int {
	n := 0
	for _, r := range s.Results {
		n += len(r.Report.Registered)
	}
	return n
}

// SyncReminders cancels the alerts of deleted prescriptions, then re-registers
// the reminders of every remaining one. It stops at the first capability
// failure since later ones would fail the same way.
func (s *Service) SyncReminders(ctx context.Context) (SyncSummary, error) {
	var summary SyncSummary
	ps, err := s.ListPrescriptions(ctx)
	if err != nil {
		return summary, err
	}

	known := make([]string, len(ps))
	for i, p := range ps {
		known[i] = p.ID
	}
	summary.Orphans = s.reminders.CancelOrphans(ctx, known)
	if !summary.Orphans.OK() {
		return summary, nil
	}

	summary.Results = make([]SyncResult, 0, len(ps))
	for _, p := range ps {
		report, err := s.reminders.RescheduleSchedule(ctx, p)
		if err != nil {
			return summary, fmt.Errorf("prescription %s has an invalid schedule: %w", p.ID, err)
		}
		summary.Results = append(summary.Results, SyncResult{Prescription: p, Report: report})
		if !report.OK() {
			break
		}
	}
	return summary, nil
}
