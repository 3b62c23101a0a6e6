package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brightsmile/scheduling-api/pkg/timefmt"
)

// Attempt states journaled per booking/reschedule attempt. Only terminal
// states that left the process are recorded; drafts rejected by validation
// never reach the journal.
const (
	AttemptStateSubmitted     = "submitted"
	AttemptStateSubmitFailed  = "submit_failed"
	AttemptStatePaymentFailed = "payment_failed"
)

// BookingAttempt is one journaled attempt. Rows with a payment ID but no
// submitted appointment are the reconciliation backlog: money moved without
// a guaranteed booking, and support has to follow up.
type BookingAttempt struct {
	ID               uuid.UUID        `db:"id"`
	Operation        string           `db:"operation"` // book or reschedule
	DoctorID         string           `db:"doctor_id"`
	AppointmentDate  timefmt.DateOnly `db:"appointment_date"`
	StartTime        string           `db:"start_time"`
	EndTime          string           `db:"end_time"`
	SlotType         string           `db:"slot_type"`
	State            string           `db:"state"`
	Reason           string           `db:"reason"`
	GatewayOrderID   string           `db:"gateway_order_id"`
	GatewayPaymentID string           `db:"gateway_payment_id"`
	AmountMinor      int64            `db:"amount_minor"`
	AppointmentID    string           `db:"appointment_id"`
	CreatedAt        time.Time        `db:"created_at"`
}

// AttemptJournal records terminal booking outcomes.
type AttemptJournal interface {
	Record(ctx context.Context, attempt *BookingAttempt) error
	ListUnreconciled(ctx context.Context, limit int) ([]*BookingAttempt, error)
}
