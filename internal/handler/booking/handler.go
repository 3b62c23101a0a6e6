package booking

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brightsmile/scheduling-api/internal/handler"
	"github.com/brightsmile/scheduling-api/internal/model"
	bookingService "github.com/brightsmile/scheduling-api/internal/service/booking"
	"github.com/brightsmile/scheduling-api/pkg/errors"
	"github.com/brightsmile/scheduling-api/pkg/httputil"
)

type Handler struct {
	service *bookingService.Service
}

func NewHandler(service *bookingService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.StartBooking)
		bookings.POST("/confirm", h.ConfirmBooking)
		bookings.GET("/unreconciled", h.ListUnreconciled)
	}
}

// StartBooking validates the draft and, when a fee applies, opens a payment
// order. The response state tells the UI whether to open checkout or whether
// the appointment was booked outright.
func (h *Handler) StartBooking(c *gin.Context) {
	creds, err := handler.Credentials(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var draft model.AppointmentDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		httputil.RespondWithError(c, httputil.BindError("malformed booking request", err))
		return
	}

	result, err := h.service.Book(c.Request.Context(), creds, draft)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, result)
}

type confirmRequest struct {
	Draft  model.AppointmentDraft       `json:"draft"`
	Report bookingService.ConfirmReport `json:"report"`
}

// ConfirmBooking resumes a payment-pending attempt with the checkout result:
// completed payment proof, user cancellation, or an unavailable checkout SDK.
func (h *Handler) ConfirmBooking(c *gin.Context) {
	creds, err := handler.Credentials(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, httputil.BindError("malformed confirmation request", err))
		return
	}

	result, err := h.service.Confirm(c.Request.Context(), creds, req.Draft, req.Report)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, result)
}

// ListUnreconciled exposes the paid-but-unsubmitted backlog for support
// tooling.
func (h *Handler) ListUnreconciled(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	attempts, err := h.service.Unreconciled(c.Request.Context(), limit)
	if err != nil {
		httputil.RespondWithError(c, errors.NewInternal(err))
		return
	}

	httputil.RespondWithSuccess(c, attempts)
}
