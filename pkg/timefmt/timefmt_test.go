package timefmt

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsmile/scheduling-api/pkg/errors"
)

func TestTo24Hour(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12:00 AM", "00:00"},
		{"12:30 AM", "00:30"},
		{"1:05 AM", "01:05"},
		{"11:59 AM", "11:59"},
		{"12:00 PM", "12:00"},
		{"12:30 PM", "12:30"},
		{"1:00 PM", "13:00"},
		{"2:30 PM", "14:30"},
		{"11:59 PM", "23:59"},
	}
	for _, tt := range tests {
		got, err := To24Hour(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestTo24HourRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"2:30PM",    // missing space
		"2:30 pm",   // lowercase modifier
		"2:30 XM",   // unknown modifier
		"13:00 PM",  // hour out of 1-12
		"0:30 AM",   // hour zero
		"2:3 PM",    // one-digit minute
		"2:61 PM",   // minute out of range
		"two:30 PM", // non-numeric hour
		"14:30",     // already 24-hour
	}
	for _, in := range bad {
		_, err := To24Hour(in)
		require.Error(t, err, in)
		assert.Equal(t, errors.ErrFormat, errors.CodeOf(err), in)
	}
}

func TestTo12Hour(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"00:00", "12:00 AM"},
		{"00:30", "12:30 AM"},
		{"01:05", "1:05 AM"},
		{"11:59", "11:59 AM"},
		{"12:00", "12:00 PM"},
		{"13:00", "1:00 PM"},
		{"14:30", "2:30 PM"},
		{"23:59", "11:59 PM"},
	}
	for _, tt := range tests {
		got, err := To12Hour(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestTo12HourRejectsMalformed(t *testing.T) {
	bad := []string{"", "24:00", "9:30", "12:60", "2:30 PM", "1200"}
	for _, in := range bad {
		_, err := To12Hour(in)
		require.Error(t, err, in)
		assert.Equal(t, errors.ErrFormat, errors.CodeOf(err), in)
	}
}

func TestRoundTrip(t *testing.T) {
	// Every valid 24-hour string must survive a trip through display form,
	// including the midnight/noon boundaries.
	for hour := 0; hour < 24; hour++ {
		for _, minute := range []int{0, 1, 30, 59} {
			canonical := fmt.Sprintf("%02d:%02d", hour, minute)
			display, err := To12Hour(canonical)
			require.NoError(t, err)
			back, err := To24Hour(display)
			require.NoError(t, err)
			assert.Equal(t, canonical, back)
		}
	}
}

func TestDurationHours(t *testing.T) {
	tests := []struct {
		start, end string
		want       float64
	}{
		{"09:00", "10:00", 1},
		{"09:00", "09:30", 0.5},
		{"09:00", "17:00", 8},
		{"10:00", "09:00", -1}, // signed, caller checks
		{"14:00", "14:00", 0},
	}
	for _, tt := range tests {
		got, err := DurationHours(tt.start, tt.end)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9)
	}

	_, err := DurationHours("9:00", "10:00")
	assert.Error(t, err)
}

func TestFormatISODate(t *testing.T) {
	// The local wall-clock day must be preserved regardless of offset.
	east := time.FixedZone("UTC+12", 12*60*60)
	late := time.Date(2025, 6, 1, 23, 30, 0, 0, east)
	assert.Equal(t, "2025-06-01", FormatISODate(late))

	west := time.FixedZone("UTC-11", -11*60*60)
	early := time.Date(2025, 6, 1, 0, 30, 0, 0, west)
	assert.Equal(t, "2025-06-01", FormatISODate(early))
}

func TestDateOnlyRoundTrip(t *testing.T) {
	d, err := ParseDateOnly("2025-06-01", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", d.String())

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-06-01"`, string(raw))

	var back DateOnly
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, d.Equal(back))
}

func TestDateOnlyComparisons(t *testing.T) {
	a, _ := ParseDateOnly("2025-06-01", time.UTC)
	b, _ := ParseDateOnly("2025-06-02", time.UTC)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Equal(b))
	assert.True(t, a.AddDays(1).Equal(b))

	_, err := ParseDateOnly("06/01/2025", time.UTC)
	assert.Error(t, err)
}

func TestNewDateOnlyTruncates(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 45, 12, 0, time.UTC)
	d := NewDateOnly(now)
	assert.Equal(t, "2025-06-01", d.String())
	assert.Equal(t, 0, d.Time().Hour())
}
