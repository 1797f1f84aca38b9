package api

import (
	"github.com/gin-gonic/gin"

	"github.com/povertyline/server/internal/handlers"
)

func registerRecordRoutes(api *gin.RouterGroup, h *handlers.RecordHandler) {
	records := api.Group("/records")
	{
		records.GET("", h.List)
		records.POST("", h.Create)
		records.GET("/:id", h.Get)
		records.PUT("/:id", h.Update)
		records.DELETE("/:id", h.Delete)
	}
}
