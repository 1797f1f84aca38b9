package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/povertyline/server/internal/middleware"
	"github.com/povertyline/server/internal/services"
	"github.com/povertyline/server/pkg/errors"
	"github.com/povertyline/server/pkg/response"
)

// ProfileHandler exposes the caller's profile plus the public profile listing.
type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type createProfileRequest struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Bio      string `json:"bio" validate:"max=2000"`
	Location string `json:"location" validate:"required,max=100"`
}

type updateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
	Bio      *string `json:"bio" validate:"omitempty,max=2000"`
	Location *string `json:"location" validate:"omitempty,max=100"`
}

// POST /api/profile
func (h *ProfileHandler) Create(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req createProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	profile, err := h.profiles.Create(requestContext(c), userID, services.CreateProfileInput{
		FullName: strings.TrimSpace(req.FullName),
		Bio:      strings.TrimSpace(req.Bio),
		Location: strings.TrimSpace(req.Location),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, profile)
}

// GET /api/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	profile, err := h.profiles.GetByUser(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// PUT /api/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req updateProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	profile, err := h.profiles.Update(requestContext(c), userID, services.UpdateProfileInput{
		FullName: req.FullName,
		Bio:      req.Bio,
		Location: req.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// DELETE /api/profile
func (h *ProfileHandler) Delete(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	if err := h.profiles.Delete(requestContext(c), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GET /api/profiles
func (h *ProfileHandler) List(c *gin.Context) {
	opts := services.ListProfilesOptions{
		Page: services.PageRequest{
			Page:    parseIntQuery(c, "page", 0),
			PerPage: parseIntQuery(c, "per_page", 0),
		},
		Location: strings.TrimSpace(c.Query("location")),
	}

	profiles, total, err := h.profiles.List(requestContext(c), opts)
	if err != nil {
		response.Error(c, err)
		return
	}

	page := opts.Page.Normalize()
	response.SuccessWithMeta(c, http.StatusOK, profiles, response.NewMeta(page.Page, page.PerPage, total))
}
