package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/reminders"
)

type memoryRegistry struct {
	alerts map[string]models.ScheduledAlert
	order  []string
}

func newMemoryRegistry() *memoryRegistry {
	return &memoryRegistry{alerts: make(map[string]models.ScheduledAlert)}
}

func (m *memoryRegistry) AddScheduledAlert(ctx context.Context, a models.ScheduledAlert) error {
	m.alerts[a.ID] = a
	m.order = append(m.order, a.ID)
	return nil
}

func (m *memoryRegistry) GetAllScheduledAlerts(ctx context.Context) ([]models.ScheduledAlert, error) {
	var out []models.ScheduledAlert
	for _, id := range m.order {
		if a, ok := m.alerts[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryRegistry) DeleteScheduledAlert(ctx context.Context, id string) error {
	if _, ok := m.alerts[id]; !ok {
		return apperrors.NotFound("alert", id)
	}
	delete(m.alerts, id)
	return nil
}

func (m *memoryRegistry) MarkAlertFired(ctx context.Context, id string, at time.Time) error {
	a, ok := m.alerts[id]
	if !ok {
		return apperrors.NotFound("alert", id)
	}
	a.LastFired = &at
	m.alerts[id] = a
	return nil
}

type staticSettings struct {
	settings models.Settings
}

func (s staticSettings) GetSettings() (models.Settings, error) {
	return s.settings, nil
}

type recordingSender struct {
	sent []string
	err  error
}

func (r *recordingSender) Notify(ctx context.Context, text string) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, text)
	return nil
}

func TestStoreService_RegisterListCancel(t *testing.T) {
	registry := newMemoryRegistry()
	now := time.Date(2026, 10, 14, 7, 0, 0, 0, time.UTC)
	svc := NewStoreService(registry, staticSettings{models.Settings{NotificationsEnabled: true}}, func() time.Time { return now })
	ctx := context.Background()

	id, err := svc.RegisterAlert(ctx,
		models.AlertTag{PrescriptionID: "p1", MedicationName: "Metformin"},
		models.AlertTrigger{Hour: 8, Repeats: true},
		models.AlertPayload{PrescriptionID: "p1", MedicationName: "Metformin"})
	if err != nil {
		t.Fatalf("RegisterAlert failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected alert ID")
	}

	alerts, err := svc.ListAlerts(ctx)
	if err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if len(alerts) != 1 || !alerts[0].CreatedAt.Equal(now) {
		t.Fatalf("alerts = %+v", alerts)
	}

	if err := svc.CancelAlert(ctx, id); err != nil {
		t.Fatalf("CancelAlert failed: %v", err)
	}
	if alerts, _ := svc.ListAlerts(ctx); len(alerts) != 0 {
		t.Errorf("expected no alerts after cancel, got %d", len(alerts))
	}
}

func TestStoreService_Disabled(t *testing.T) {
	svc := NewStoreService(newMemoryRegistry(), staticSettings{models.Settings{NotificationsEnabled: false}}, nil)
	ctx := context.Background()

	if _, err := svc.ListAlerts(ctx); !errors.Is(err, ErrNotificationsDisabled) {
		t.Errorf("ListAlerts: expected ErrNotificationsDisabled, got %v", err)
	}
	if err := svc.CancelAlert(ctx, "x"); !errors.Is(err, ErrNotificationsDisabled) {
		t.Errorf("CancelAlert: expected ErrNotificationsDisabled, got %v", err)
	}
	if _, err := svc.RegisterAlert(ctx, models.AlertTag{}, models.AlertTrigger{}, models.AlertPayload{}); !errors.Is(err, ErrNotificationsDisabled) {
		t.Errorf("RegisterAlert: expected ErrNotificationsDisabled, got %v", err)
	}
}

func TestStoreService_DisabledSurfacesAsCapabilityUnavailable(t *testing.T) {
	svc := NewStoreService(newMemoryRegistry(), staticSettings{models.Settings{NotificationsEnabled: false}}, nil)
	scheduler := reminders.New(svc)

	report, err := scheduler.Reschedule(context.Background(), "p1", "Metformin", []string{"08:00"})
	if err != nil {
		t.Fatalf("Reschedule returned error: %v", err)
	}
	if !apperrors.IsCapabilityUnavailable(report.Err) {
		t.Errorf("expected CapabilityUnavailableError, got %v", report.Err)
	}
	if !errors.Is(report.Err, ErrNotificationsDisabled) {
		t.Errorf("expected cause ErrNotificationsDisabled, got %v", report.Err)
	}
}

func TestStoreService_RescheduleIdempotent(t *testing.T) {
	registry := newMemoryRegistry()
	scheduler := reminders.New(NewStoreService(registry, nil, nil))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := scheduler.Reschedule(ctx, "p1", "Metformin", []string{"08:00", "20:00"}); err != nil {
			t.Fatal(err)
		}
	}
	if len(registry.alerts) != 2 {
		t.Errorf("expected 2 stored alerts, got %d", len(registry.alerts))
	}
}

func alertAt(id string, hour, minute int, weekday *time.Weekday) models.ScheduledAlert {
	return models.ScheduledAlert{
		ID:      id,
		Tag:     models.AlertTag{PrescriptionID: "p-" + id, MedicationName: "Med " + id},
		Trigger: models.AlertTrigger{Hour: hour, Minute: minute, Repeats: true, Weekday: weekday},
	}
}

func TestDispatcher_Due(t *testing.T) {
	d := NewDispatcher(newMemoryRegistry(), &recordingSender{}, 10*time.Minute)
	// Wednesday 08:05
	now := time.Date(2026, 10, 14, 8, 5, 0, 0, time.UTC)
	wed, thu := time.Wednesday, time.Thursday
	yesterday := now.AddDate(0, 0, -1)
	earlier := now.Add(-time.Minute)

	alerts := []models.ScheduledAlert{
		alertAt("exact", 8, 5, nil),
		alertAt("in-grace", 7, 56, nil),
		alertAt("too-late", 7, 50, nil),
		alertAt("future", 8, 6, nil),
		alertAt("wed", 8, 0, &wed),
		alertAt("thu", 8, 0, &thu),
	}
	firedToday := alertAt("fired-today", 8, 0, nil)
	firedToday.LastFired = &earlier
	firedYesterday := alertAt("fired-yesterday", 8, 1, nil)
	firedYesterday.LastFired = &yesterday
	alerts = append(alerts, firedToday, firedYesterday)

	due := d.Due(alerts, now)
	var ids []string
	for _, a := range due {
		ids = append(ids, a.ID)
	}
	want := []string{"in-grace", "wed", "fired-yesterday", "exact"}
	if len(ids) != len(want) {
		t.Fatalf("due = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("due[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}

func TestDispatcher_ZeroGraceIsExactMinute(t *testing.T) {
	d := NewDispatcher(newMemoryRegistry(), &recordingSender{}, 0)
	alerts := []models.ScheduledAlert{alertAt("a", 8, 0, nil)}

	if got := d.Due(alerts, time.Date(2026, 10, 14, 8, 0, 59, 0, time.UTC)); len(got) != 1 {
		t.Errorf("expected alert due within its minute, got %d", len(got))
	}
	if got := d.Due(alerts, time.Date(2026, 10, 14, 8, 1, 0, 0, time.UTC)); len(got) != 0 {
		t.Errorf("expected alert not due after its minute, got %d", len(got))
	}
}

func TestDispatcher_Fire(t *testing.T) {
	registry := newMemoryRegistry()
	sender := &recordingSender{}
	d := NewDispatcher(registry, sender, 5*time.Minute)
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 8, 2, 0, 0, time.UTC)

	a := alertAt("a", 8, 0, nil)
	a.Payload.Body = "Time to take Metformin"
	_ = registry.AddScheduledAlert(ctx, a)
	_ = registry.AddScheduledAlert(ctx, alertAt("b", 20, 0, nil))

	result, err := d.Fire(ctx, now)
	if err != nil {
		t.Fatalf("Fire failed: %v", err)
	}
	if len(result.Delivered) != 1 || result.Failed != 0 {
		t.Fatalf("result = %+v", result)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "Time to take Metformin (08:00)" {
		t.Errorf("sent = %v", sender.sent)
	}
	if registry.alerts["a"].LastFired == nil {
		t.Error("alert not marked fired")
	}

	result, err = d.Fire(ctx, now.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Delivered) != 0 {
		t.Errorf("alert delivered twice on the same day")
	}
}

func TestDispatcher_FireSendFailure(t *testing.T) {
	registry := newMemoryRegistry()
	sender := &recordingSender{err: errors.New("tray not running")}
	d := NewDispatcher(registry, sender, 5*time.Minute)
	ctx := context.Background()

	_ = registry.AddScheduledAlert(ctx, alertAt("a", 8, 0, nil))

	result, err := d.Fire(ctx, time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("send failure should not abort Fire: %v", err)
	}
	if result.Failed != 1 || len(result.Delivered) != 0 {
		t.Errorf("result = %+v", result)
	}
	if registry.alerts["a"].LastFired != nil {
		t.Error("failed delivery must not be marked fired")
	}
}

func TestMessage(t *testing.T) {
	a := alertAt("a", 7, 5, nil)
	if got := Message(a); got != "Time to take Med a (07:05)" {
		t.Errorf("Message() = %q", got)
	}
}
