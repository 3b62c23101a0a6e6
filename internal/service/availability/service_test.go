package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsmile/scheduling-api/internal/clinic"
	"github.com/brightsmile/scheduling-api/internal/model"
	"github.com/brightsmile/scheduling-api/pkg/errors"
	"github.com/brightsmile/scheduling-api/pkg/timefmt"
)

type fakeBackend struct {
	slots    []model.Slot
	status   int
	requests int
}

func (f *fakeBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.requests++
		if f.status != 0 {
			w.WriteHeader(f.status)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":        true,
			"availableSlots": f.slots,
		})
	}
}

func newTestService(t *testing.T, backend *fakeBackend) (*Service, func()) {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	client := clinic.NewClient(clinic.Config{BaseURL: srv.URL}, zerolog.Nop())
	svc := NewService(client, time.Minute, nil, zerolog.Nop())
	return svc, srv.Close
}

func testDate(t *testing.T) timefmt.DateOnly {
	t.Helper()
	d, err := timefmt.ParseDateOnly("2025-06-15", time.UTC)
	require.NoError(t, err)
	return d
}

func slot(id, start12, end12, slotType string, available bool) model.Slot {
	return model.Slot{
		ID:          id,
		StartTime:   start12,
		EndTime:     end12,
		Type:        slotType,
		IsAvailable: available,
	}
}

func TestEmptyScheduleIsNotFullyBooked(t *testing.T) {
	backend := &fakeBackend{slots: nil}
	svc, stop := newTestService(t, backend)
	defer stop()

	got, err := svc.GetDaySchedule(context.Background(), clinic.StaticCredentials("tok"), "doc-1", testDate(t))
	require.NoError(t, err)
	assert.Equal(t, VerdictNoSchedule, got.Verdict)
	assert.Empty(t, got.Slots)
	assert.Contains(t, got.Message, "not scheduled")
}

func TestFullyBooked(t *testing.T) {
	backend := &fakeBackend{slots: []model.Slot{
		slot("s1", "9:00 AM", "10:00 AM", "Morning Consultations", false),
		slot("s2", "10:00 AM", "11:00 AM", "Morning Consultations", false),
		slot("s3", "2:00 PM", "3:00 PM", "Surgery", false),
	}}
	svc, stop := newTestService(t, backend)
	defer stop()

	got, err := svc.GetDaySchedule(context.Background(), clinic.StaticCredentials("tok"), "doc-1", testDate(t))
	require.NoError(t, err)
	assert.Equal(t, VerdictFullyBooked, got.Verdict)
	assert.Len(t, got.Slots, 3)
}

func TestOpenScheduleNormalizesTimes(t *testing.T) {
	backend := &fakeBackend{slots: []model.Slot{
		slot("s1", "9:00 AM", "10:00 AM", "Morning Consultations", false),
		slot("s2", "2:30 PM", "3:30 PM", "Surgery", true),
	}}
	svc, stop := newTestService(t, backend)
	defer stop()

	got, err := svc.GetDaySchedule(context.Background(), clinic.StaticCredentials("tok"), "doc-1", testDate(t))
	require.NoError(t, err)
	assert.Equal(t, VerdictOpen, got.Verdict)

	// Canonical 24-hour fields are derived from the display form 1:1.
	assert.Equal(t, "14:30", got.Slots[1].StartTime24)
	assert.Equal(t, "15:30", got.Slots[1].EndTime24)
	assert.Equal(t, "🔬", got.Slots[1].Icon)
	assert.Equal(t, "🌅", got.Slots[0].Icon)
}

func TestClassificationIsIdempotentAndCached(t *testing.T) {
	backend := &fakeBackend{slots: []model.Slot{
		slot("s1", "9:00 AM", "10:00 AM", "Morning Consultations", true),
	}}
	svc, stop := newTestService(t, backend)
	defer stop()

	creds := clinic.StaticCredentials("tok")
	first, err := svc.GetDaySchedule(context.Background(), creds, "doc-1", testDate(t))
	require.NoError(t, err)
	second, err := svc.GetDaySchedule(context.Background(), creds, "doc-1", testDate(t))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, backend.requests, "second lookup within TTL must not hit the backend")

	// A different date is a different cache entry.
	_, err = svc.GetDaySchedule(context.Background(), creds, "doc-1", testDate(t).AddDays(1))
	require.NoError(t, err)
	assert.Equal(t, 2, backend.requests)
}

func TestUnauthenticatedIsDistinct(t *testing.T) {
	backend := &fakeBackend{status: http.StatusUnauthorized}
	svc, stop := newTestService(t, backend)
	defer stop()

	_, err := svc.GetDaySchedule(context.Background(), clinic.StaticCredentials("expired"), "doc-1", testDate(t))
	require.Error(t, err)
	assert.Equal(t, errors.ErrUnauthorized, errors.CodeOf(err))
}

func TestServerErrorIsTransient(t *testing.T) {
	backend := &fakeBackend{status: http.StatusInternalServerError}
	svc, stop := newTestService(t, backend)
	defer stop()

	_, err := svc.GetDaySchedule(context.Background(), clinic.StaticCredentials("tok"), "doc-1", testDate(t))
	require.Error(t, err)
	assert.Equal(t, errors.ErrTransient, errors.CodeOf(err),
		"a backend failure must never read as no availability")
}

func TestIconFor(t *testing.T) {
	assert.Equal(t, "🌅", IconFor("Morning Consultations"))
	assert.Equal(t, "🚨", IconFor("Emergency"))

	// Unknown labels resolve to one stable default.
	for i := 0; i < 3; i++ {
		assert.Equal(t, defaultIcon, IconFor(fmt.Sprintf("Mystery Session %d", i)))
	}
}
