package api

import (
	"github.com/gin-gonic/gin"

	"github.com/povertyline/server/internal/handlers"
)

func registerAuthRoutes(engine *gin.Engine, api *gin.RouterGroup, h *handlers.AuthHandler) {
	auth := engine.Group("/api/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/verify", h.Verify)
		auth.POST("/login", h.Login)
	}

	api.GET("/auth/me", h.Me)
}
