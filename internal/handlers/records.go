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

// RecordHandler exposes CRUD plus filtered listing for survey records.
type RecordHandler struct {
	records *services.RecordService
}

func NewRecordHandler(records *services.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

type createRecordRequest struct {
	RegionID           string  `json:"region_id" validate:"required"`
	SocialBackgroundID string  `json:"social_background_id" validate:"required"`
	Income             float64 `json:"income" validate:"gte=0"`
	EducationLevel     string  `json:"education_level" validate:"max=100"`
	EmploymentStatus   string  `json:"employment_status" validate:"max=100"`
}

type updateRecordRequest struct {
	RegionID           *string  `json:"region_id"`
	SocialBackgroundID *string  `json:"social_background_id"`
	Income             *float64 `json:"income" validate:"omitempty,gte=0"`
	EducationLevel     *string  `json:"education_level" validate:"omitempty,max=100"`
	EmploymentStatus   *string  `json:"employment_status" validate:"omitempty,max=100"`
}

// POST /api/records
func (h *RecordHandler) Create(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req createRecordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	record, err := h.records.Create(requestContext(c), userID, services.CreateRecordInput{
		RegionID:           req.RegionID,
		SocialBackgroundID: req.SocialBackgroundID,
		Income:             req.Income,
		EducationLevel:     req.EducationLevel,
		EmploymentStatus:   req.EmploymentStatus,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, record)
}

// GET /api/records/:id
func (h *RecordHandler) Get(c *gin.Context) {
	record, err := h.records.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, record)
}

// PUT /api/records/:id
func (h *RecordHandler) Update(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req updateRecordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	record, err := h.records.Update(requestContext(c), c.Param("id"), userID, services.UpdateRecordInput{
		RegionID:           req.RegionID,
		SocialBackgroundID: req.SocialBackgroundID,
		Income:             req.Income,
		EducationLevel:     req.EducationLevel,
		EmploymentStatus:   req.EmploymentStatus,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, record)
}

// DELETE /api/records/:id
func (h *RecordHandler) Delete(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	if err := h.records.Delete(requestContext(c), c.Param("id"), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GET /api/records
func (h *RecordHandler) List(c *gin.Context) {
	minIncome, err := parseFloatQuery(c, "min_income")
	if err != nil {
		response.Error(c, errors.NewBadRequest(err.Error()))
		return
	}
	maxIncome, err := parseFloatQuery(c, "max_income")
	if err != nil {
		response.Error(c, errors.NewBadRequest(err.Error()))
		return
	}

	opts := services.ListRecordsOptions{
		Page: services.PageRequest{
			Page:    parseIntQuery(c, "page", 0),
			PerPage: parseIntQuery(c, "per_page", 0),
		},
		Filters: services.RecordFilters{
			Region:           strings.TrimSpace(c.Query("region")),
			SocialBackground: strings.TrimSpace(c.Query("social_background")),
			MinIncome:        minIncome,
			MaxIncome:        maxIncome,
		},
	}

	records, total, err := h.records.List(requestContext(c), opts)
	if err != nil {
		response.Error(c, err)
		return
	}

	page := opts.Page.Normalize()
	response.SuccessWithMeta(c, http.StatusOK, records, response.NewMeta(page.Page, page.PerPage, total))
}
