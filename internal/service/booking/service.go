// Package booking sequences one booking or reschedule attempt: validate the
// draft, run the payment step when a fee applies, submit to the clinic
// backend, and report one terminal outcome. The service is stateless per
// call; callers hold the busy flag that keeps attempts from overlapping.
package booking

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/brightsmile/scheduling-api/internal/clinic"
	"github.com/brightsmile/scheduling-api/internal/model"
	"github.com/brightsmile/scheduling-api/internal/payment"
	"github.com/brightsmile/scheduling-api/internal/repository"
	"github.com/brightsmile/scheduling-api/internal/schedule"
	"github.com/brightsmile/scheduling-api/pkg/errors"
	"github.com/brightsmile/scheduling-api/pkg/messaging"
	"github.com/brightsmile/scheduling-api/pkg/metrics"
)

// State is the terminal (or, for payment_pending, handed-back) state of one
// attempt.
type State string

const (
	StateInvalid        State = "invalid"
	StatePaymentPending State = "payment_pending"
	StatePaymentFailed  State = "payment_failed"
	StateSubmitted      State = "submitted"
	StateSubmitFailed   State = "submit_failed"
)

// Result is what one attempt produced. Exactly one of the payload fields is
// meaningful per state: Errors for invalid, Order for payment_pending,
// Appointment for submitted.
type Result struct {
	State       State                    `json:"state"`
	Errors      []string                 `json:"errors,omitempty"`
	Order       *payment.Order           `json:"order,omitempty"`
	Appointment *model.AppointmentRecord `json:"appointment,omitempty"`
	Reason      string                   `json:"reason,omitempty"`
	Message     string                   `json:"message,omitempty"`
}

// ConfirmReport is what the UI reports back after the checkout flow closes.
// Either the user completed payment (Proof set) or backed out / never got a
// working checkout (Cancelled with a reason).
type ConfirmReport struct {
	Cancelled bool           `json:"cancelled"`
	Reason    string         `json:"reason,omitempty"`
	Proof     *payment.Proof `json:"proof,omitempty"`
}

type Config struct {
	FeeMinorUnits    int64
	MaxDurationHours float64
	SymptomsLimit    int
}

type Service struct {
	clinic  *clinic.Client
	gateway *payment.Gateway
	policy  *schedule.Policy
	journal repository.AttemptJournal
	broker  messaging.Broker
	metrics *metrics.Metrics
	logger  zerolog.Logger
	cfg     Config
	now     func() time.Time
}

func NewService(
	clinicClient *clinic.Client,
	gateway *payment.Gateway,
	policy *schedule.Policy,
	journal repository.AttemptJournal,
	broker messaging.Broker,
	m *metrics.Metrics,
	logger zerolog.Logger,
	cfg Config,
) *Service {
	return &Service{
		clinic:  clinicClient,
		gateway: gateway,
		policy:  policy,
		journal: journal,
		broker:  broker,
		metrics: m,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Validate checks a draft against the window for the given purpose without
// touching the network.
func (s *Service) Validate(draft model.AppointmentDraft, purpose schedule.Purpose) []string {
	now := s.now()
	return ValidateDraft(draft, ValidationContext{
		Window:           s.policy.WindowFor(purpose, now),
		Today:            s.policy.Today(now),
		MaxDurationHours: s.cfg.MaxDurationHours,
		SymptomsLimit:    s.cfg.SymptomsLimit,
	})
}

// Book starts one booking attempt. With no fee configured the draft is
// submitted immediately; otherwise a gateway order is opened and the attempt
// pauses in payment_pending until Confirm is called with the checkout result.
// Invalid drafts terminate before any network call is made.
func (s *Service) Book(ctx context.Context, creds clinic.CredentialProvider, draft model.AppointmentDraft) (*Result, error) {
	started := s.now()
	defer s.observeLatency(started)

	if violations := s.Validate(draft, schedule.PurposeBook); len(violations) > 0 {
		s.countAttempt("book", StateInvalid)
		return &Result{State: StateInvalid, Errors: violations}, nil
	}

	if s.cfg.FeeMinorUnits <= 0 {
		return s.submit(ctx, creds, "book", "", draft, nil)
	}

	order, err := s.gateway.CreateOrder(ctx, s.cfg.FeeMinorUnits, draft.DoctorID+"/"+draft.AppointmentDate.String())
	if err != nil {
		// Infrastructure down is its own outcome, never conflated with the
		// user abandoning checkout.
		if errors.HasCode(err, errors.ErrPaymentUnavailable) {
			s.countAttempt("book", StatePaymentFailed)
			s.countOrder("unavailable")
			s.record(ctx, "book", draft, repository.AttemptStatePaymentFailed, errors.ReasonOrderFailed, "", "", "")
			return nil, err
		}
		return nil, err
	}

	s.countOrder("created")
	return &Result{State: StatePaymentPending, Order: order}, nil
}

// Confirm resumes a paused attempt with the checkout outcome. Payment
// confirmation strictly precedes submission: the booking endpoint is never
// called when the user cancelled or the proof does not verify. Once a proof
// verifies, the attempt can only end submitted or submit_failed; it never
// downgrades to invalid.
func (s *Service) Confirm(ctx context.Context, creds clinic.CredentialProvider, draft model.AppointmentDraft, report ConfirmReport) (*Result, error) {
	started := s.now()
	defer s.observeLatency(started)

	if report.Cancelled {
		reason := report.Reason
		if reason != errors.ReasonSDKUnavailable {
			reason = errors.ReasonUserCancelled
		}
		s.countAttempt("book", StatePaymentFailed)
		s.countOrder(reason)
		s.record(ctx, "book", draft, repository.AttemptStatePaymentFailed, reason, "", "", "")
		return &Result{State: StatePaymentFailed, Reason: reason}, nil
	}

	if report.Proof == nil {
		return nil, errors.NewBadRequest("payment proof is required to confirm a booking", nil)
	}

	if err := s.gateway.VerifyProof(*report.Proof); err != nil {
		s.countAttempt("book", StatePaymentFailed)
		s.countOrder(errors.ReasonSignatureMismatch)
		s.record(ctx, "book", draft, repository.AttemptStatePaymentFailed,
			errors.ReasonSignatureMismatch, report.Proof.OrderID, report.Proof.PaymentID, "")
		return &Result{State: StatePaymentFailed, Reason: errors.ReasonSignatureMismatch}, nil
	}

	s.countOrder("verified")

	// The booking window may have moved while checkout was open. Money has
	// already moved, so a draft that no longer validates is journaled as a
	// failed submission for reconciliation, never dropped as invalid.
	if violations := s.Validate(draft, schedule.PurposeBook); len(violations) > 0 {
		s.countAttempt("book", StateSubmitFailed)
		s.recordWithProof(ctx, "book", draft, repository.AttemptStateSubmitFailed,
			"window_moved", report.Proof, "")
		return &Result{
			State:   StateSubmitFailed,
			Errors:  violations,
			Message: "the appointment could no longer be booked after payment, please contact support",
		}, nil
	}

	return s.submit(ctx, creds, "book", "", draft, report.Proof)
}

// Reschedule validates and submits a move of an existing appointment. The
// window rule is stricter than booking: same-day is never allowed. No payment
// step runs, the original booking's fee stays in place.
func (s *Service) Reschedule(ctx context.Context, creds clinic.CredentialProvider, appointmentID string, doctorID string, req model.RescheduleRequest) (*Result, error) {
	started := s.now()
	defer s.observeLatency(started)

	draft := req.Draft(doctorID)
	if violations := s.Validate(draft, schedule.PurposeReschedule); len(violations) > 0 {
		s.countAttempt("reschedule", StateInvalid)
		return &Result{State: StateInvalid, Errors: violations}, nil
	}

	return s.submit(ctx, creds, "reschedule", appointmentID, draft, nil)
}

// Cancel proxies a cancellation and announces it.
func (s *Service) Cancel(ctx context.Context, creds clinic.CredentialProvider, appointmentID string) error {
	if err := s.clinic.Cancel(ctx, creds, appointmentID); err != nil {
		return err
	}
	s.publish(ctx, messaging.ChannelBookingCancelled, map[string]string{"appointmentId": appointmentID})
	return nil
}

// MyAppointments fetches the caller's appointments and partitions them
// against the clinic-timezone "today".
func (s *Service) MyAppointments(ctx context.Context, creds clinic.CredentialProvider, limit int) (*model.AppointmentList, error) {
	records, err := s.clinic.MyAppointments(ctx, creds, limit)
	if err != nil {
		return nil, err
	}

	today := s.policy.Today(s.now())
	list := &model.AppointmentList{
		Upcoming: []model.AppointmentRecord{},
		Past:     []model.AppointmentRecord{},
	}
	for _, rec := range records {
		if rec.AppointmentDate.Before(today) {
			list.Past = append(list.Past, rec)
		} else {
			list.Upcoming = append(list.Upcoming, rec)
		}
	}
	return list, nil
}

// Unreconciled lists paid-but-unsubmitted attempts for support follow-up.
func (s *Service) Unreconciled(ctx context.Context, limit int) ([]*repository.BookingAttempt, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.journal.ListUnreconciled(ctx, limit)
}

func (s *Service) submit(ctx context.Context, creds clinic.CredentialProvider, operation, appointmentID string, draft model.AppointmentDraft, proof *payment.Proof) (*Result, error) {
	var (
		appointment *model.AppointmentRecord
		err         error
	)
	if operation == "reschedule" {
		appointment, err = s.clinic.Reschedule(ctx, creds, appointmentID, model.RescheduleRequest{
			NewDate:      draft.AppointmentDate,
			NewStartTime: draft.StartTime,
			NewEndTime:   draft.EndTime,
			NewSlotType:  draft.SlotType,
		})
	} else {
		appointment, err = s.clinic.Book(ctx, creds, draft, proof)
	}

	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) && appErr.Code == errors.ErrSubmitConflict {
			s.countAttempt(operation, StateSubmitFailed)
			s.recordWithProof(ctx, operation, draft, repository.AttemptStateSubmitFailed, "backend_rejected", proof, "")
			return &Result{State: StateSubmitFailed, Message: appErr.Message}, nil
		}
		// Auth and transient failures propagate; when money already moved the
		// unknown outcome still lands in the journal for reconciliation.
		if proof != nil {
			s.recordWithProof(ctx, operation, draft, repository.AttemptStateSubmitFailed, "submit_error", proof, "")
		}
		return nil, err
	}

	s.countAttempt(operation, StateSubmitted)
	s.recordWithProof(ctx, operation, draft, repository.AttemptStateSubmitted, "", proof, appointment.ID)

	channel := messaging.ChannelBookingSubmitted
	if operation == "reschedule" {
		channel = messaging.ChannelBookingRescheduled
	}
	s.publish(ctx, channel, appointment)

	return &Result{State: StateSubmitted, Appointment: appointment}, nil
}

// record failures never fail the attempt; the journal is an audit trail, not
// a gate.
func (s *Service) record(ctx context.Context, operation string, draft model.AppointmentDraft, state, reason, orderID, paymentID, appointmentID string) {
	if s.journal == nil {
		return
	}
	attempt := &repository.BookingAttempt{
		Operation:        operation,
		DoctorID:         draft.DoctorID,
		AppointmentDate:  draft.AppointmentDate,
		StartTime:        draft.StartTime,
		EndTime:          draft.EndTime,
		SlotType:         draft.SlotType,
		State:            state,
		Reason:           reason,
		GatewayOrderID:   orderID,
		GatewayPaymentID: paymentID,
		AmountMinor:      s.cfg.FeeMinorUnits,
		AppointmentID:    appointmentID,
	}
	if err := s.journal.Record(ctx, attempt); err != nil {
		s.logger.Error().Err(err).Str("operation", operation).Str("state", state).
			Msg("failed to journal booking attempt")
	}
}

func (s *Service) recordWithProof(ctx context.Context, operation string, draft model.AppointmentDraft, state, reason string, proof *payment.Proof, appointmentID string) {
	orderID, paymentID := "", ""
	if proof != nil {
		orderID, paymentID = proof.OrderID, proof.PaymentID
	}
	s.record(ctx, operation, draft, state, reason, orderID, paymentID, appointmentID)
}

func (s *Service) publish(ctx context.Context, channel string, payload interface{}) {
	if s.broker == nil {
		return
	}
	msg := messaging.Message{Type: channel, Payload: payload}
	if err := s.broker.Publish(ctx, channel, msg); err != nil {
		s.logger.Warn().Err(err).Str("channel", channel).Msg("failed to publish booking event")
	}
}

func (s *Service) countAttempt(operation string, state State) {
	if s.metrics != nil {
		s.metrics.BookingAttempts.WithLabelValues(operation, string(state)).Inc()
	}
}

func (s *Service) countOrder(outcome string) {
	if s.metrics != nil {
		s.metrics.PaymentOrders.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) observeLatency(started time.Time) {
	if s.metrics != nil {
		s.metrics.BookingLatency.Observe(time.Since(started).Seconds())
	}
}
