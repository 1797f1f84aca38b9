package api

import (
	"github.com/gin-gonic/gin"

	"github.com/povertyline/server/internal/handlers"
)

// Reference data carries no personal information, so the listings stay
// readable without a token.
func registerReferenceRoutes(engine *gin.Engine, h *handlers.ReferenceHandler) {
	public := engine.Group("/api")
	{
		public.GET("/regions", h.ListRegions)
		public.GET("/social-backgrounds", h.ListSocialBackgrounds)
	}
}
