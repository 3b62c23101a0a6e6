// Package schedule owns the booking-window policy: which calendar dates are
// eligible for a new booking or a reschedule, relative to "now" in the
// clinic's timezone.
package schedule

import (
	"time"

	"github.com/brightsmile/scheduling-api/pkg/timefmt"
)

// Purpose selects which window rule applies. Fresh bookings allow same-day
// until the cutoff hour; reschedules never allow same-day. The asymmetry is
// deliberate and encoded only here.
type Purpose string

const (
	PurposeBook       Purpose = "book"
	PurposeReschedule Purpose = "reschedule"
)

const (
	DefaultCutoffHour  = 23
	DefaultHorizonDays = 30
)

// Window is the inclusive date range within which an appointment may land.
type Window struct {
	MinDate timefmt.DateOnly `json:"minDate"`
	MaxDate timefmt.DateOnly `json:"maxDate"`
}

// Contains is an inclusive range check.
func (w Window) Contains(d timefmt.DateOnly) bool {
	return !d.Before(w.MinDate) && !d.After(w.MaxDate)
}

// Policy computes booking windows. Zero values fall back to the defaults:
// cutoff at 23:00, a 30-day horizon, and the host's local timezone.
type Policy struct {
	location    *time.Location
	cutoffHour  int
	horizonDays int
}

type PolicyConfig struct {
	CutoffHour  int
	HorizonDays int
	Timezone    string
}

func NewPolicy(cfg PolicyConfig) (*Policy, error) {
	p := &Policy{
		location:    time.Local,
		cutoffHour:  DefaultCutoffHour,
		horizonDays: DefaultHorizonDays,
	}
	if cfg.CutoffHour > 0 {
		p.cutoffHour = cfg.CutoffHour
	}
	if cfg.HorizonDays > 0 {
		p.horizonDays = cfg.HorizonDays
	}
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, err
		}
		p.location = loc
	}
	return p, nil
}

// Location is the clinic timezone all day-boundary math runs in.
func (p *Policy) Location() *time.Location {
	return p.location
}

// Today returns the current clinic-timezone calendar day.
func (p *Policy) Today(now time.Time) timefmt.DateOnly {
	return timefmt.NewDateOnly(now.In(p.location))
}

// MinBookableDate returns today while now is before the cutoff hour, else
// tomorrow. Reschedules always start tomorrow.
func (p *Policy) MinBookableDate(purpose Purpose, now time.Time) timefmt.DateOnly {
	today := p.Today(now)
	if purpose == PurposeReschedule {
		return today.AddDays(1)
	}
	if now.In(p.location).Hour() >= p.cutoffHour {
		return today.AddDays(1)
	}
	return today
}

// MaxBookableDate returns the horizon bound, today + N days.
func (p *Policy) MaxBookableDate(now time.Time) timefmt.DateOnly {
	return p.Today(now).AddDays(p.horizonDays)
}

// WindowFor computes the full window for one purpose.
func (p *Policy) WindowFor(purpose Purpose, now time.Time) Window {
	return Window{
		MinDate: p.MinBookableDate(purpose, now),
		MaxDate: p.MaxBookableDate(now),
	}
}
