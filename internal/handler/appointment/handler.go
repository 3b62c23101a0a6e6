package appointment

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brightsmile/scheduling-api/internal/handler"
	"github.com/brightsmile/scheduling-api/internal/model"
	bookingService "github.com/brightsmile/scheduling-api/internal/service/booking"
	"github.com/brightsmile/scheduling-api/pkg/httputil"
)

type Handler struct {
	service *bookingService.Service
}

func NewHandler(service *bookingService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.PATCH("/:id/reschedule", h.RescheduleAppointment)
		appointments.PATCH("/:id/cancel", h.CancelAppointment)
	}
}

// ListAppointments proxies the caller's appointments, partitioned into
// upcoming and past relative to the clinic's current day.
func (h *Handler) ListAppointments(c *gin.Context) {
	creds, err := handler.Credentials(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	list, err := h.service.MyAppointments(c.Request.Context(), creds, limit)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, list)
}

type rescheduleBody struct {
	DoctorID string `json:"doctorId"`
	model.RescheduleRequest
}

func (h *Handler) RescheduleAppointment(c *gin.Context) {
	creds, err := handler.Credentials(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	appointmentID := c.Param("id")
	var body rescheduleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httputil.RespondWithError(c, httputil.BindError("malformed reschedule request", err))
		return
	}

	result, err := h.service.Reschedule(c.Request.Context(), creds, appointmentID, body.DoctorID, body.RescheduleRequest)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	creds, err := handler.Credentials(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.service.Cancel(c.Request.Context(), creds, c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"cancelled": true})
}
