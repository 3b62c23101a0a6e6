package availability

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brightsmile/scheduling-api/internal/handler"
	"github.com/brightsmile/scheduling-api/internal/schedule"
	availabilityService "github.com/brightsmile/scheduling-api/internal/service/availability"
	"github.com/brightsmile/scheduling-api/pkg/errors"
	"github.com/brightsmile/scheduling-api/pkg/httputil"
	"github.com/brightsmile/scheduling-api/pkg/timefmt"
)

type Handler struct {
	service *availabilityService.Service
	policy  *schedule.Policy
}

func NewHandler(service *availabilityService.Service, policy *schedule.Policy) *Handler {
	return &Handler{service: service, policy: policy}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	availability := r.Group("/availability")
	{
		availability.GET("/window", h.GetBookingWindow)
		availability.GET("/:doctorId/:date", h.GetDaySchedule)
	}
}

// GetDaySchedule returns the classified slot list for one doctor and date,
// rejecting dates outside the booking window before touching the backend.
func (h *Handler) GetDaySchedule(c *gin.Context) {
	creds, err := handler.Credentials(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	doctorID := c.Param("doctorId")
	date, err := timefmt.ParseDateOnly(c.Param("date"), h.policy.Location())
	if err != nil {
		httputil.RespondWithError(c, errors.NewBadRequest("invalid date, expected YYYY-MM-DD", err))
		return
	}

	window := h.policy.WindowFor(schedule.PurposeBook, time.Now())
	if !window.Contains(date) {
		httputil.RespondWithError(c, errors.NewBadRequest("date is outside the booking window", nil))
		return
	}

	daySchedule, err := h.service.GetDaySchedule(c.Request.Context(), creds, doctorID, date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, daySchedule)
}

// GetBookingWindow returns the min/max bookable dates for a purpose so the
// UI can constrain its date picker with the same rules the validator uses.
func (h *Handler) GetBookingWindow(c *gin.Context) {
	purpose := schedule.Purpose(c.DefaultQuery("purpose", string(schedule.PurposeBook)))
	if purpose != schedule.PurposeBook && purpose != schedule.PurposeReschedule {
		httputil.RespondWithError(c, errors.NewBadRequest("purpose must be book or reschedule", nil))
		return
	}

	httputil.RespondWithSuccess(c, h.policy.WindowFor(purpose, time.Now()))
}
