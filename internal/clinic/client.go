// Package clinic is the REST client for the clinic backend, the external
// owner of slots and appointments. The backend stays the single source of
// truth for conflicts; this client only classifies its failures.
package clinic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/brightsmile/scheduling-api/internal/model"
	"github.com/brightsmile/scheduling-api/internal/payment"
	"github.com/brightsmile/scheduling-api/pkg/circuitbreaker"
	"github.com/brightsmile/scheduling-api/pkg/errors"
	"github.com/brightsmile/scheduling-api/pkg/metrics"
	"github.com/brightsmile/scheduling-api/pkg/timefmt"
)

const defaultTimeout = 15 * time.Second

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	http    *http.Client
	cb      *circuitbreaker.CircuitBreaker
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	return newClient(cfg, nil, logger)
}

// NewClientWithMetrics also records per-operation call counts and latency.
func NewClientWithMetrics(cfg Config, m *metrics.Metrics, logger zerolog.Logger) *Client {
	return newClient(cfg, m, logger)
}

func newClient(cfg Config, m *metrics.Metrics, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:         "clinic-backend",
			MaxFailures:  5,
			ResetTimeout: 10 * time.Second,
		}),
		logger:  logger,
		metrics: m,
	}
}

type slotsResponse struct {
	Success        bool         `json:"success"`
	AvailableSlots []model.Slot `json:"availableSlots"`
	Message        string       `json:"message"`
}

type appointmentResponse struct {
	Success     bool                     `json:"success"`
	Appointment *model.AppointmentRecord `json:"appointment"`
	Message     string                   `json:"message"`
}

type appointmentsResponse struct {
	Success      bool                      `json:"success"`
	Appointments []model.AppointmentRecord `json:"appointments"`
	Message      string                    `json:"message"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DaySlots fetches the candidate slot list for one doctor and date. An empty
// list is a legitimate outcome (no published schedule), not an error.
func (c *Client) DaySlots(ctx context.Context, creds CredentialProvider, doctorID string, date timefmt.DateOnly) ([]model.Slot, error) {
	path := fmt.Sprintf("/appointments/doctor/%s/slots/%s", url.PathEscape(doctorID), date.String())
	var resp slotsResponse
	if err := c.do(ctx, creds, "slots", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errors.NewTransient("slot lookup failed", fmt.Errorf("backend: %s", resp.Message))
	}
	return normalizeSlots(resp.AvailableSlots)
}

type bookRequest struct {
	model.AppointmentDraft
	Payment *payment.Proof `json:"payment,omitempty"`
}

// Book submits a validated draft, with proof of payment when a fee applied.
// A backend rejection here is a submit conflict: validation and payment have
// already passed, so another patient most likely took the slot first.
func (c *Client) Book(ctx context.Context, creds CredentialProvider, draft model.AppointmentDraft, proof *payment.Proof) (*model.AppointmentRecord, error) {
	var resp appointmentResponse
	body := bookRequest{AppointmentDraft: draft, Payment: proof}
	if err := c.do(ctx, creds, "book", http.MethodPost, "/appointments/book", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Appointment == nil {
		return nil, errors.NewSubmitConflict(resp.Message, nil)
	}
	return resp.Appointment, nil
}

// Reschedule moves an existing appointment to a new validated slot.
func (c *Client) Reschedule(ctx context.Context, creds CredentialProvider, appointmentID string, req model.RescheduleRequest) (*model.AppointmentRecord, error) {
	path := fmt.Sprintf("/appointments/reschedule/%s", url.PathEscape(appointmentID))
	var resp appointmentResponse
	if err := c.do(ctx, creds, "reschedule", http.MethodPatch, path, req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Appointment == nil {
		return nil, errors.NewSubmitConflict(resp.Message, nil)
	}
	return resp.Appointment, nil
}

func (c *Client) Cancel(ctx context.Context, creds CredentialProvider, appointmentID string) error {
	path := fmt.Sprintf("/appointments/cancel/%s", url.PathEscape(appointmentID))
	var resp statusResponse
	if err := c.do(ctx, creds, "cancel", http.MethodPatch, path, nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return errors.NewBadRequest(resp.Message, nil)
	}
	return nil
}

func (c *Client) MyAppointments(ctx context.Context, creds CredentialProvider, limit int) ([]model.AppointmentRecord, error) {
	path := "/appointments/my-appointments"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var resp appointmentsResponse
	if err := c.do(ctx, creds, "list", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errors.NewTransient("appointment lookup failed", fmt.Errorf("backend: %s", resp.Message))
	}
	return resp.Appointments, nil
}

func (c *Client) do(ctx context.Context, creds CredentialProvider, operation, method, path string, body, out interface{}) error {
	token, err := creds.Token(ctx)
	if err != nil {
		return errors.Unauthorized(err)
	}

	if c.metrics != nil {
		started := time.Now()
		defer func() {
			c.metrics.BackendLatency.WithLabelValues(operation).Observe(time.Since(started).Seconds())
		}()
	}

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.NewInternal(err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return errors.NewInternal(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	var resp *http.Response
	cbErr := c.cb.Execute(func() error {
		var doErr error
		resp, doErr = c.http.Do(req)
		if doErr != nil {
			return doErr
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("backend returned %d", resp.StatusCode)
		}
		return nil
	})
	if cbErr != nil {
		if resp != nil {
			resp.Body.Close()
		}
		c.countRequest(operation, "error")
		c.logger.Warn().Err(cbErr).Str("path", path).Msg("clinic backend call failed")
		return errors.NewTransient("clinic backend is unreachable, please try again", cbErr)
	}
	defer resp.Body.Close()
	c.countRequest(operation, fmt.Sprintf("%d", resp.StatusCode))

	if err := classifyStatus(resp.StatusCode); err != nil {
		io.Copy(io.Discard, resp.Body)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewTransient("malformed backend response", err)
	}
	return nil
}

func (c *Client) countRequest(operation, status string) {
	if c.metrics != nil {
		c.metrics.BackendRequests.WithLabelValues(operation, status).Inc()
	}
}

// classifyStatus maps HTTP failures per the availability contract: 401 means
// the session is gone and the user must log in; everything else unexpected is
// transient and retryable, never "no availability".
func classifyStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return errors.Unauthorized(nil)
	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		return nil
	default:
		return errors.NewTransient("clinic backend request failed", fmt.Errorf("status %d", status))
	}
}

// normalizeSlots derives whichever of the display and canonical time forms
// the backend omitted, so both are always populated 1:1.
func normalizeSlots(slots []model.Slot) ([]model.Slot, error) {
	out := make([]model.Slot, 0, len(slots))
	for _, s := range slots {
		if s.StartTime24 == "" && s.StartTime != "" {
			t24, err := timefmt.To24Hour(s.StartTime)
			if err != nil {
				return nil, err
			}
			s.StartTime24 = t24
		}
		if s.EndTime24 == "" && s.EndTime != "" {
			t24, err := timefmt.To24Hour(s.EndTime)
			if err != nil {
				return nil, err
			}
			s.EndTime24 = t24
		}
		if s.StartTime == "" && s.StartTime24 != "" {
			t12, err := timefmt.To12Hour(s.StartTime24)
			if err != nil {
				return nil, err
			}
			s.StartTime = t12
		}
		if s.EndTime == "" && s.EndTime24 != "" {
			t12, err := timefmt.To12Hour(s.EndTime24)
			if err != nil {
				return nil, err
			}
			s.EndTime = t12
		}
		out = append(out, s)
	}
	return out, nil
}
