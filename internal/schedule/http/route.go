package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/providers/:id")
	{
		group.GET("/schedule", h.GetSchedule)
		group.PUT("/working-hours", h.UpsertWorkingHours)
		group.POST("/blocked-dates", h.BlockDate)
		group.DELETE("/blocked-dates/:date", h.UnblockDate)
	}
}
