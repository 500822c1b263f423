package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	g.GET("/providers/:id/availability", h.Availability)
	g.GET("/schedule", h.Schedule)

	group := g.Group("/appointments")
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Book)
		group.POST("/:id/cancel", h.Cancel)
		group.PATCH("/:id/status", h.UpdateStatus)
	}
}
