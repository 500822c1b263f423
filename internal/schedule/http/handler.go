package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/barberbook/barber-booking-backend/internal/provider"
	"github.com/barberbook/barber-booking-backend/internal/schedule"
)

type Handler struct {
	service schedule.Service
}

func NewHandler(service schedule.Service) *Handler {
	return &Handler{service: service}
}

func providerID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return "", false
	}
	return id, true
}

// GetSchedule returns the weekly template and blackout dates for a provider.
func (h *Handler) GetSchedule(c *gin.Context) {
	id, ok := providerID(c)
	if !ok {
		return
	}

	sched, err := h.service.ScheduleFor(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get schedule"})
		return
	}

	c.JSON(http.StatusOK, NewProviderScheduleResponse(sched))
}

// UpsertWorkingHours creates or replaces the weekday row for a provider.
func (h *Handler) UpsertWorkingHours(c *gin.Context) {
	id, ok := providerID(c)
	if !ok {
		return
	}

	var body UpsertWorkingHoursBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	wh, err := h.service.UpsertWorkingHours(c.Request.Context(), id, schedule.UpsertHoursRequest{
		Weekday:   body.Weekday,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		IsActive:  body.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, provider.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
		case errors.Is(err, schedule.ErrInvalidWeekday),
			errors.Is(err, schedule.ErrInvalidClock),
			errors.Is(err, schedule.ErrInvalidTimeRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save working hours"})
		}
		return
	}

	c.JSON(http.StatusOK, NewWorkingHoursResponse(wh))
}

// BlockDate adds a blackout entry for a provider.
func (h *Handler) BlockDate(c *gin.Context) {
	id, ok := providerID(c)
	if !ok {
		return
	}

	var body BlockDateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, err := parseDate(body.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	bd, err := h.service.BlockDate(c.Request.Context(), id, schedule.BlockDateRequest{
		Date:   date,
		Reason: body.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, provider.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
		case errors.Is(err, schedule.ErrDateAlreadyBlocked):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to block date"})
		}
		return
	}

	c.JSON(http.StatusCreated, NewBlockedDateResponse(bd))
}

// UnblockDate removes a blackout entry.
func (h *Handler) UnblockDate(c *gin.Context) {
	id, ok := providerID(c)
	if !ok {
		return
	}

	date, err := parseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	if err := h.service.UnblockDate(c.Request.Context(), id, date); err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "blocked date not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unblock date"})
		return
	}

	c.Status(http.StatusNoContent)
}
