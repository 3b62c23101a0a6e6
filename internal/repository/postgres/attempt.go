package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/brightsmile/scheduling-api/internal/repository"
)

type attemptJournal struct {
	db *sqlx.DB
}

func NewAttemptJournal(db *sqlx.DB) repository.AttemptJournal {
	return &attemptJournal{db: db}
}

func (j *attemptJournal) Record(ctx context.Context, attempt *repository.BookingAttempt) error {
	query := `
		INSERT INTO booking_attempts (
			id, operation, doctor_id, appointment_date,
			start_time, end_time, slot_type, state, reason,
			gateway_order_id, gateway_payment_id, amount_minor,
			appointment_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	attempt.CreatedAt = time.Now()

	_, err := j.db.ExecContext(ctx, query,
		attempt.ID,
		attempt.Operation,
		attempt.DoctorID,
		attempt.AppointmentDate,
		attempt.StartTime,
		attempt.EndTime,
		attempt.SlotType,
		attempt.State,
		attempt.Reason,
		attempt.GatewayOrderID,
		attempt.GatewayPaymentID,
		attempt.AmountMinor,
		attempt.AppointmentID,
		attempt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record booking attempt: %w", err)
	}
	return nil
}

// ListUnreconciled returns attempts where a payment was captured but the
// backend never confirmed a booking. These rows drive support-side refunds.
func (j *attemptJournal) ListUnreconciled(ctx context.Context, limit int) ([]*repository.BookingAttempt, error) {
	query := `
		SELECT id, operation, doctor_id, appointment_date,
			   start_time, end_time, slot_type, state, reason,
			   gateway_order_id, gateway_payment_id, amount_minor,
			   appointment_id, created_at
		FROM booking_attempts
		WHERE state = $1 AND gateway_payment_id <> ''
		ORDER BY created_at DESC
		LIMIT $2
	`
	var attempts []*repository.BookingAttempt
	err := j.db.SelectContext(ctx, &attempts, query, repository.AttemptStateSubmitFailed, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unreconciled attempts: %w", err)
	}
	return attempts, nil
}
