package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/barberbook/barber-booking-backend/internal/catalog"
	"github.com/barberbook/barber-booking-backend/internal/pkg/response"
)

type Handler struct {
	manager catalog.Manager
}

func NewHandler(manager catalog.Manager) *Handler {
	return &Handler{manager: manager}
}

func (h *Handler) List(c *gin.Context) {
	var req ListServicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := catalog.Filter{
		Keyword:  req.Keyword,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	services, total, err := h.manager.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list services"})
		return
	}

	items := make([]ServiceResponse, len(services))
	for i, svc := range services {
		items[i] = NewServiceResponse(svc)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	svc, err := h.manager.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == catalog.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get service"})
		return
	}

	c.JSON(http.StatusOK, NewServiceResponse(svc))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateServiceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	svc, err := h.manager.Create(c.Request.Context(), catalog.CreateRequest{
		Name:            body.Name,
		PriceCents:      body.PriceCents,
		DurationMinutes: body.DurationMinutes,
	})
	if err != nil {
		switch err {
		case catalog.ErrEmptyName, catalog.ErrInvalidDuration, catalog.ErrInvalidPrice:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create service"})
		}
		return
	}

	c.JSON(http.StatusCreated, NewServiceResponse(svc))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateServiceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	svc, err := h.manager.Update(c.Request.Context(), id, catalog.UpdateRequest{
		Name:            body.Name,
		PriceCents:      body.PriceCents,
		DurationMinutes: body.DurationMinutes,
	})
	if err != nil {
		switch err {
		case catalog.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		case catalog.ErrEmptyName, catalog.ErrInvalidDuration, catalog.ErrInvalidPrice:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update service"})
		}
		return
	}

	c.JSON(http.StatusOK, NewServiceResponse(svc))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.manager.Delete(c.Request.Context(), id); err != nil {
		if err == catalog.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
			return
		}
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
