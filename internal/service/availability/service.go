// Package availability classifies a doctor's day schedule for display: open
// slots, no published schedule, or fully booked. The three verdicts reach the
// caller distinctly because the UI words each one differently.
package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/brightsmile/scheduling-api/internal/clinic"
	"github.com/brightsmile/scheduling-api/internal/model"
	"github.com/brightsmile/scheduling-api/pkg/metrics"
	"github.com/brightsmile/scheduling-api/pkg/timefmt"
)

type Verdict string

const (
	// VerdictOpen: at least one slot is still available.
	VerdictOpen Verdict = "open"
	// VerdictNoSchedule: the doctor has not published availability that day.
	VerdictNoSchedule Verdict = "no_schedule"
	// VerdictFullyBooked: slots exist but every one is taken.
	VerdictFullyBooked Verdict = "fully_booked"
)

// DaySchedule is the classified slot list for one (doctor, date) pair.
type DaySchedule struct {
	Date    timefmt.DateOnly `json:"date"`
	Slots   []model.SlotView `json:"slots"`
	Verdict Verdict          `json:"verdict"`
	Message string           `json:"message,omitempty"`
}

const (
	defaultCacheTTL    = 30 * time.Second
	cacheCleanupEvery  = 5 * time.Minute
	msgNoSchedule      = "the doctor has not scheduled availability for this date"
	msgFullyBooked     = "all slots for this date are booked, please try another day"
	msgOpeningsOnOffer = "select an available slot"
)

type Service struct {
	clinic  *clinic.Client
	cache   *cache.Cache
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

func NewService(clinicClient *clinic.Client, cacheTTL time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Service {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &Service{
		clinic:  clinicClient,
		cache:   cache.New(cacheTTL, cacheCleanupEvery),
		logger:  logger,
		metrics: m,
	}
}

// GetDaySchedule fetches and classifies the slots for one doctor and date.
// Classification is deterministic: the same backend state yields the same
// schedule, and a cached entry is returned as-is within the TTL.
func (s *Service) GetDaySchedule(ctx context.Context, creds clinic.CredentialProvider, doctorID string, date timefmt.DateOnly) (*DaySchedule, error) {
	key := cacheKey(doctorID, date)
	if cached, ok := s.cache.Get(key); ok {
		if s.metrics != nil {
			s.metrics.ScheduleCacheHits.Inc()
		}
		return cached.(*DaySchedule), nil
	}
	if s.metrics != nil {
		s.metrics.ScheduleCacheMisses.Inc()
	}

	slots, err := s.clinic.DaySlots(ctx, creds, doctorID, date)
	if err != nil {
		return nil, err
	}

	schedule := classify(date, slots)
	if s.metrics != nil {
		s.metrics.AvailabilityRequests.WithLabelValues(string(schedule.Verdict)).Inc()
	}
	s.cache.SetDefault(key, schedule)
	return schedule, nil
}

func classify(date timefmt.DateOnly, slots []model.Slot) *DaySchedule {
	schedule := &DaySchedule{
		Date:  date,
		Slots: make([]model.SlotView, 0, len(slots)),
	}

	open := 0
	for _, slot := range slots {
		if slot.IsAvailable {
			open++
		}
		schedule.Slots = append(schedule.Slots, model.SlotView{
			Slot: slot,
			Icon: IconFor(slot.Type),
		})
	}

	switch {
	case len(slots) == 0:
		schedule.Verdict = VerdictNoSchedule
		schedule.Message = msgNoSchedule
	case open == 0:
		schedule.Verdict = VerdictFullyBooked
		schedule.Message = msgFullyBooked
	default:
		schedule.Verdict = VerdictOpen
		schedule.Message = msgOpeningsOnOffer
	}
	return schedule
}

func cacheKey(doctorID string, date timefmt.DateOnly) string {
	return fmt.Sprintf("%s|%s", doctorID, date.String())
}
