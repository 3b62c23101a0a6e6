package booking

import (
	"fmt"
	"unicode/utf8"

	"github.com/brightsmile/scheduling-api/internal/model"
	"github.com/brightsmile/scheduling-api/internal/schedule"
	"github.com/brightsmile/scheduling-api/pkg/timefmt"
)

const (
	DefaultMaxDurationHours = 8.0
	DefaultSymptomsLimit    = 500
)

// ValidationContext carries the facts a draft is checked against.
type ValidationContext struct {
	Window           schedule.Window
	Today            timefmt.DateOnly
	MaxDurationHours float64
	SymptomsLimit    int
}

// ValidateDraft evaluates every rule independently and returns all violations
// in rule order. The UI shows only the first message, but the full list is
// the contract: no short-circuiting on the first failure. A well-typed draft
// never causes an error here, only violations.
func ValidateDraft(draft model.AppointmentDraft, vc ValidationContext) []string {
	if vc.MaxDurationHours <= 0 {
		vc.MaxDurationHours = DefaultMaxDurationHours
	}
	if vc.SymptomsLimit <= 0 {
		vc.SymptomsLimit = DefaultSymptomsLimit
	}

	var violations []string

	if draft.DoctorID == "" {
		violations = append(violations, "doctor is required")
	}

	switch {
	case draft.AppointmentDate.IsZero():
		violations = append(violations, "appointment date is required")
	case draft.AppointmentDate.Before(vc.Today):
		violations = append(violations, "appointment date cannot be in the past")
	case !vc.Window.Contains(draft.AppointmentDate):
		violations = append(violations, fmt.Sprintf(
			"appointment date must be between %s and %s",
			vc.Window.MinDate, vc.Window.MaxDate))
	}

	if draft.StartTime == "" {
		violations = append(violations, "start time is required")
	}
	if draft.EndTime == "" {
		violations = append(violations, "end time is required")
	}

	if draft.StartTime != "" && draft.EndTime != "" {
		duration, err := timefmt.DurationHours(draft.StartTime, draft.EndTime)
		switch {
		case err != nil:
			violations = append(violations, "start and end times must be valid HH:MM values")
		case duration <= 0:
			violations = append(violations, "end time must be after start time")
		case duration > vc.MaxDurationHours:
			violations = append(violations, fmt.Sprintf(
				"appointment cannot be longer than %g hours", vc.MaxDurationHours))
		}
	}

	if draft.SlotType == "" {
		violations = append(violations, "slot type is required")
	}

	// Logical characters, not bytes: multibyte symptoms text counts per rune.
	if draft.Symptoms != "" && utf8.RuneCountInString(draft.Symptoms) > vc.SymptomsLimit {
		violations = append(violations, fmt.Sprintf(
			"symptoms cannot exceed %d characters", vc.SymptomsLimit))
	}

	return violations
}
