package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/barberbook/barber-booking-backend/internal/appointment"
	"github.com/barberbook/barber-booking-backend/internal/pkg/response"
	provHttp "github.com/barberbook/barber-booking-backend/internal/provider/http"
	"github.com/barberbook/barber-booking-backend/internal/schedule"
)

type Handler struct {
	service appointment.Service
}

func NewHandler(service appointment.Service) *Handler {
	return &Handler{service: service}
}

// dateQuery parses the required ?date=YYYY-MM-DD query parameter.
func dateQuery(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return time.Time{}, false
	}
	date, err := time.Parse(schedule.DateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}

// Availability serves the customer-facing slot grid for one provider.
func (h *Handler) Availability(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	date, ok := dateQuery(c)
	if !ok {
		return
	}

	avail, err := h.service.Availability(c.Request.Context(), id, date)
	if err != nil {
		if err == appointment.ErrProviderNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAvailabilityResponse(avail, false))
}

// Schedule serves the all-provider day view, with slot occupants visible.
func (h *Handler) Schedule(c *gin.Context) {
	date, ok := dateQuery(c)
	if !ok {
		return
	}

	days, err := h.service.ScheduleForDate(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	entries := make([]DayScheduleEntry, len(days))
	for i, d := range days {
		entries[i] = DayScheduleEntry{
			Provider:     provHttp.ProviderTag{ID: d.Provider.ID, Name: d.Provider.Name},
			Availability: NewAvailabilityResponse(&d.Availability, true),
		}
	}

	c.JSON(http.StatusOK, entries)
}

func (h *Handler) Book(c *gin.Context) {
	var body BookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := body.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date or time format"})
		return
	}

	date, _ := time.Parse(schedule.DateLayout, body.Date)

	appt, err := h.service.Book(c.Request.Context(), appointment.BookRequest{
		ProviderID: body.ProviderID,
		ServiceID:  body.ServiceID,
		CustomerID: body.CustomerID,
		Date:       date,
		Time:       body.Time,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewAppointmentResponse(appt))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	appt, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAppointmentResponse(appt))
}

func (h *Handler) List(c *gin.Context) {
	var req ListAppointmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := appointment.Filter{
		CustomerID: req.CustomerID,
		ProviderID: req.ProviderID,
		Status:     req.Status,
		StartTime:  req.StartTimeFrom,
		EndTime:    req.StartTimeTo,
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}

	appts, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list appointments"})
		return
	}

	items := make([]AppointmentResponse, len(appts))
	for i, a := range appts {
		items[i] = NewAppointmentResponse(a)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// Cancel is the customer self-service cancellation.
func (h *Handler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body CancelBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	appt, err := h.service.Cancel(c.Request.Context(), id, body.CustomerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAppointmentResponse(appt))
}

// UpdateStatus is the administrative transition endpoint.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	status, err := appointment.ParseStatus(body.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	appt, err := h.service.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAppointmentResponse(appt))
}
