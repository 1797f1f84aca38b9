package api

import (
	"github.com/gin-gonic/gin"

	"github.com/povertyline/server/internal/handlers"
)

func registerProfileRoutes(api *gin.RouterGroup, h *handlers.ProfileHandler) {
	profile := api.Group("/profile")
	{
		profile.POST("", h.Create)
		profile.GET("", h.Get)
		profile.PUT("", h.Update)
		profile.DELETE("", h.Delete)
	}

	api.GET("/profiles", h.List)
}
