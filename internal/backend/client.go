package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/julianstephens/dosely/internal/constants"
	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/logger"
	"github.com/julianstephens/dosely/internal/models"
)

// ErrUnsupported is returned when the server has no route for an operation.
var ErrUnsupported = errors.New("operation not supported by the backend")

type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RetryCount int
	RetryWait  time.Duration
}

// Client talks to the remote prescription API. It satisfies
// storage.Repository.
type Client struct {
	http *resty.Client
}

func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = constants.BackendTimeout
	}
	if cfg.RetryWait == 0 {
		cfg.RetryWait = 500 * time.Millisecond
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if !strings.HasSuffix(base, constants.BackendAPIPrefix) {
		base += constants.BackendAPIPrefix
	}

	httpClient := resty.New().
		SetBaseURL(base).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(4*cfg.RetryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		}).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		httpClient.SetAuthToken(cfg.Token)
	}

	return &Client{http: httpClient}
}

// DecrementsStockOnTook reports that the server lowers stock itself when a
// took entry is logged.
func (c *Client) DecrementsStockOnTook() bool {
	return true
}

func (c *Client) FetchPrescriptionsForPatient(ctx context.Context, patientID string) ([]models.Prescription, error) {
	var out prescriptionsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("patient_id", patientID).
		SetResult(&out).
		Get("/prescriptions/patient/{patient_id}")
	if err := check(resp, err, &out.envelope, "patient", patientID); err != nil {
		return nil, err
	}

	prescriptions := make([]models.Prescription, 0, len(out.Prescriptions))
	for _, w := range out.Prescriptions {
		prescriptions = append(prescriptions, w.model())
	}
	return prescriptions, nil
}

func (c *Client) GetPrescription(ctx context.Context, id string) (models.Prescription, error) {
	var out prescriptionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&out).
		Get("/prescriptions/{id}")
	if err := check(resp, err, &out.envelope, "prescription", id); err != nil {
		return models.Prescription{}, err
	}
	return out.Prescription.model(), nil
}

func (c *Client) AddPrescription(ctx context.Context, p models.Prescription) (models.Prescription, error) {
	var out prescriptionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(toWirePrescription(p)).
		SetResult(&out).
		Post("/prescriptions")
	if err := check(resp, err, &out.envelope, "prescription", p.ID); err != nil {
		return models.Prescription{}, err
	}
	return out.Prescription.model(), nil
}

func (c *Client) UpdatePrescription(ctx context.Context, p models.Prescription) (models.Prescription, error) {
	var out prescriptionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", p.ID).
		SetBody(toWirePrescription(p)).
		SetResult(&out).
		Put("/prescriptions/{id}")
	if err := check(resp, err, &out.envelope, "prescription", p.ID); err != nil {
		if errors.Is(err, ErrUnsupported) {
			return models.Prescription{}, fmt.Errorf("%w: the API has no PUT /prescriptions/{id}; delete and re-add the prescription to change it", err)
		}
		return models.Prescription{}, err
	}
	return out.Prescription.model(), nil
}

func (c *Client) UpdateStock(ctx context.Context, id string, newStock int) error {
	if newStock < 0 {
		return apperrors.Validationf("current_stock", "cannot be negative (got %d)", newStock)
	}

	var out envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetBody(stockRequest{PrescriptionID: id, NewStock: newStock}).
		SetResult(&out).
		Put("/prescriptions/{id}/stock")
	err = check(resp, err, &out, "prescription", id)
	if !apperrors.IsNotFound(err) {
		return err
	}

	// The server answers 404 whenever nothing was modified, including when
	// the stock already had the requested value.
	current, getErr := c.GetPrescription(ctx, id)
	if getErr == nil && current.CurrentStock == newStock {
		return nil
	}
	return err
}

func (c *Client) DeletePrescription(ctx context.Context, id string) error {
	var out envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&out).
		Delete("/prescriptions/{id}")
	return check(resp, err, &out, "prescription", id)
}

// FetchAdherenceLogs asks the server for the trailing windowDays days.
// windowDays <= 0 leaves the window to the server default.
func (c *Client) FetchAdherenceLogs(ctx context.Context, patientID string, windowDays int) ([]models.AdherenceLogEntry, error) {
	var out logsResponse
	req := c.http.R().
		SetContext(ctx).
		SetPathParam("patient_id", patientID).
		SetResult(&out)
	if windowDays > 0 {
		req.SetQueryParam("days", strconv.Itoa(windowDays))
	}

	resp, err := req.Get("/reminders/logs/patient/{patient_id}")
	if err := check(resp, err, &out.envelope, "patient", patientID); err != nil {
		return nil, err
	}

	entries := make([]models.AdherenceLogEntry, 0, len(out.Logs))
	for _, w := range out.Logs {
		entries = append(entries, w.model())
	}
	return entries, nil
}

// AppendAdherenceLog posts the entry. The server assigns its own ID and
// timestamp; the returned entry carries them.
func (c *Client) AppendAdherenceLog(ctx context.Context, entry models.AdherenceLogEntry) (models.AdherenceLogEntry, error) {
	body := logRequest{
		PrescriptionID:    entry.PrescriptionID,
		PatientID:         entry.PatientID,
		Action:            string(entry.Action),
		WithFoodConfirmed: entry.WithFoodConfirmed,
	}
	if entry.Note != "" {
		body.Note = &entry.Note
	}

	var out logResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/reminders/log")
	if err := check(resp, err, &out.envelope, "prescription", entry.PrescriptionID); err != nil {
		return models.AdherenceLogEntry{}, err
	}

	stored := out.Log.model()
	if stored.WithFoodConfirmed == nil {
		stored.WithFoodConfirmed = entry.WithFoodConfirmed
	}
	if stored.Timestamp.IsZero() {
		stored.Timestamp = entry.Timestamp
	}
	return stored, nil
}

func check(resp *resty.Response, err error, env *envelope, resource, id string) error {
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}

	logger.Debug("Backend response",
		"method", resp.Request.Method,
		"url", resp.Request.URL,
		"status", resp.StatusCode(),
		"duration", resp.Time())

	switch resp.StatusCode() {
	case http.StatusNotFound:
		return apperrors.NotFound(resource, id)
	case http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return fmt.Errorf("%w: %s %s returned %s", ErrUnsupported, resp.Request.Method, resp.Request.URL, resp.Status())
	}
	if resp.IsError() {
		return fmt.Errorf("backend %s %s returned %s", resp.Request.Method, resp.Request.URL, resp.Status())
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = env.Detail
		}
		if msg == "" {
			msg = "request was not successful"
		}
		return fmt.Errorf("backend %s %s: %s", resp.Request.Method, resp.Request.URL, msg)
	}
	return nil
}
