package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsmile/scheduling-api/internal/model"
	"github.com/brightsmile/scheduling-api/internal/schedule"
	"github.com/brightsmile/scheduling-api/pkg/timefmt"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func testContext(t *testing.T, purpose schedule.Purpose) ValidationContext {
	t.Helper()
	policy, err := schedule.NewPolicy(schedule.PolicyConfig{Timezone: "UTC"})
	require.NoError(t, err)
	return ValidationContext{
		Window: policy.WindowFor(purpose, testNow),
		Today:  policy.Today(testNow),
	}
}

func date(t *testing.T, s string) timefmt.DateOnly {
	t.Helper()
	d, err := timefmt.ParseDateOnly(s, time.UTC)
	require.NoError(t, err)
	return d
}

func validDraft(t *testing.T) model.AppointmentDraft {
	return model.AppointmentDraft{
		DoctorID:        "doc-1",
		AppointmentDate: date(t, "2025-06-05"),
		StartTime:       "09:00",
		EndTime:         "10:00",
		SlotType:        "Morning Consultations",
		Symptoms:        "toothache",
	}
}

func TestValidDraftPasses(t *testing.T) {
	violations := ValidateDraft(validDraft(t), testContext(t, schedule.PurposeBook))
	assert.Empty(t, violations)
}

func TestAllViolationsCollected(t *testing.T) {
	// A draft that breaks four independent rules at once must report all of
	// them, not just the first encountered.
	draft := model.AppointmentDraft{
		AppointmentDate: date(t, "2025-05-20"), // past
		StartTime:       "10:00",
		EndTime:         "09:00", // before start
		SlotType:        "Surgery",
		Symptoms:        strings.Repeat("x", 600),
	}

	violations := ValidateDraft(draft, testContext(t, schedule.PurposeBook))
	require.Len(t, violations, 4)
	assert.Contains(t, violations[0], "doctor")
	assert.Contains(t, violations[1], "past")
	assert.Contains(t, violations[2], "after start")
	assert.Contains(t, violations[3], "500")
}

func TestMissingEverything(t *testing.T) {
	violations := ValidateDraft(model.AppointmentDraft{}, testContext(t, schedule.PurposeBook))
	require.Len(t, violations, 5)
	assert.Contains(t, violations[0], "doctor")
	assert.Contains(t, violations[1], "date is required")
	assert.Contains(t, violations[2], "start time")
	assert.Contains(t, violations[3], "end time")
	assert.Contains(t, violations[4], "slot type")
}

func TestDurationBoundary(t *testing.T) {
	draft := validDraft(t)

	draft.StartTime, draft.EndTime = "09:00", "17:00" // exactly 8 hours
	assert.Empty(t, ValidateDraft(draft, testContext(t, schedule.PurposeBook)))

	draft.EndTime = "17:01" // one minute over
	violations := ValidateDraft(draft, testContext(t, schedule.PurposeBook))
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "8 hours")
}

func TestZeroDurationRejected(t *testing.T) {
	draft := validDraft(t)
	draft.EndTime = draft.StartTime

	violations := ValidateDraft(draft, testContext(t, schedule.PurposeBook))
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "after start")
}

func TestMalformedTimesAreViolationsNotPanics(t *testing.T) {
	draft := validDraft(t)
	draft.StartTime, draft.EndTime = "9am", "10am"

	violations := ValidateDraft(draft, testContext(t, schedule.PurposeBook))
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "HH:MM")
}

func TestSymptomsCountedInRunes(t *testing.T) {
	draft := validDraft(t)

	draft.Symptoms = strings.Repeat("ä", 500)
	assert.Empty(t, ValidateDraft(draft, testContext(t, schedule.PurposeBook)))

	draft.Symptoms = strings.Repeat("ä", 501)
	violations := ValidateDraft(draft, testContext(t, schedule.PurposeBook))
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "500")
}

func TestBeyondHorizonRejected(t *testing.T) {
	draft := validDraft(t)
	draft.AppointmentDate = date(t, "2025-07-02") // horizon ends 2025-07-01

	violations := ValidateDraft(draft, testContext(t, schedule.PurposeBook))
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "between")
}

func TestSameDayBookVersusReschedule(t *testing.T) {
	draft := validDraft(t)
	draft.AppointmentDate = date(t, "2025-06-01") // today, before cutoff

	assert.Empty(t, ValidateDraft(draft, testContext(t, schedule.PurposeBook)),
		"fresh booking allows same-day before the cutoff")

	violations := ValidateDraft(draft, testContext(t, schedule.PurposeReschedule))
	require.Len(t, violations, 1, "reschedule never allows same-day")
	assert.Contains(t, violations[0], "between")
}
