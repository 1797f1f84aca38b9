package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/povertyline/server/internal/services"
	"github.com/povertyline/server/pkg/response"
)

// ReferenceHandler serves the read-only region and social background catalogues.
type ReferenceHandler struct {
	references *services.ReferenceService
}

func NewReferenceHandler(references *services.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{references: references}
}

// GET /api/regions
func (h *ReferenceHandler) ListRegions(c *gin.Context) {
	regions, err := h.references.ListRegions(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, regions)
}

// GET /api/social-backgrounds
func (h *ReferenceHandler) ListSocialBackgrounds(c *gin.Context) {
	backgrounds, err := h.references.ListSocialBackgrounds(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, backgrounds)
}
