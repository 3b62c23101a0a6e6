package clinic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsmile/scheduling-api/internal/model"
	"github.com/brightsmile/scheduling-api/pkg/errors"
	"github.com/brightsmile/scheduling-api/pkg/timefmt"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client := NewClient(Config{BaseURL: srv.URL, Timeout: 2 * time.Second}, zerolog.Nop())
	return client, srv
}

func TestDaySlotsForwardsBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":        true,
			"availableSlots": []model.Slot{},
		})
	})

	date, err := timefmt.ParseDateOnly("2025-06-05", time.UTC)
	require.NoError(t, err)

	slots, err := client.DaySlots(context.Background(), StaticCredentials("tok-123"), "doc-1", date)
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "/appointments/doctor/doc-1/slots/2025-06-05", gotPath)
}

func TestDaySlotsDerivesMissingTimeForms(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"availableSlots": []map[string]interface{}{
				{"id": "s1", "startTime": "2:30 PM", "endTime": "3:30 PM", "isAvailable": true},
				{"id": "s2", "startTime24": "09:00", "endTime24": "10:00", "isAvailable": true},
			},
		})
	})

	date, _ := timefmt.ParseDateOnly("2025-06-05", time.UTC)
	slots, err := client.DaySlots(context.Background(), StaticCredentials("tok"), "doc-1", date)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, "14:30", slots[0].StartTime24)
	assert.Equal(t, "15:30", slots[0].EndTime24)
	assert.Equal(t, "9:00 AM", slots[1].StartTime)
	assert.Equal(t, "10:00 AM", slots[1].EndTime)
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   errors.ErrorCode
	}{
		{"expired session", http.StatusUnauthorized, errors.ErrUnauthorized},
		{"server error", http.StatusInternalServerError, errors.ErrTransient},
		{"bad gateway", http.StatusBadGateway, errors.ErrTransient},
		{"unexpected not found", http.StatusNotFound, errors.ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			date, _ := timefmt.ParseDateOnly("2025-06-05", time.UTC)
			_, err := client.DaySlots(context.Background(), StaticCredentials("tok"), "doc-1", date)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code))
		})
	}
}

func TestBookRejectionIsSubmitConflict(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "slot is no longer available",
		})
	})

	date, _ := timefmt.ParseDateOnly("2025-06-05", time.UTC)
	draft := model.AppointmentDraft{
		DoctorID:        "doc-1",
		AppointmentDate: date,
		StartTime:       "09:00",
		EndTime:         "10:00",
		SlotType:        "Morning Consultations",
	}

	_, err := client.Book(context.Background(), StaticCredentials("tok"), draft, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrSubmitConflict))
	assert.Contains(t, err.Error(), "slot is no longer available")
}

func TestUnreachableBackendIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second}, zerolog.Nop())
	date, _ := timefmt.ParseDateOnly("2025-06-05", time.UTC)
	_, err := client.DaySlots(context.Background(), StaticCredentials("tok"), "doc-1", date)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrTransient))
}
