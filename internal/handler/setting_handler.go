package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/response"
	"github.com/lelani/transport-backend/internal/service"
	"github.com/lelani/transport-backend/internal/validator"
)

type SettingHandler struct {
	settingService *service.SettingService
}

func NewSettingHandler(settingService *service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// GetSettings godoc
// GET /api/v1/settings
// Returns the school branding printed on reports.
func (h *SettingHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingService.GetSchoolSettings(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings godoc
// PUT /api/v1/admin/settings
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	settings, err := h.settingService.UpdateSchoolSettings(c.Request.Context(), &req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}

// GetPublicSettings godoc
// GET /api/v1/public/settings
// Returns the school name and logo for the sign-in screen.
func (h *SettingHandler) GetPublicSettings(c *gin.Context) {
	settings, err := h.settingService.GetSchoolSettings(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"school_name": settings.SchoolName,
		"logo_url":    settings.LogoURL,
	})
}

// ─── Class structure ──────────────────────────────────────────────────

// ListGrades godoc
// GET /api/v1/grades
func (h *SettingHandler) ListGrades(c *gin.Context) {
	grades, err := h.settingService.ListGrades(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"grades": grades})
}

// CreateGrade godoc
// POST /api/v1/admin/grades
// Adds a grade, or a stream under an existing grade.
func (h *SettingHandler) CreateGrade(c *gin.Context) {
	var req model.GradeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	grade, err := h.settingService.CreateGrade(c.Request.Context(), &req)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"grade": grade})
}

// UpdateGrade godoc
// PUT /api/v1/admin/grades/:id
func (h *SettingHandler) UpdateGrade(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.GradeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	grade, err := h.settingService.UpdateGrade(c.Request.Context(), id, &req)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"grade": grade})
}

// DeleteGrade godoc
// DELETE /api/v1/admin/grades/:id
// Deleting a grade also removes its streams.
func (h *SettingHandler) DeleteGrade(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.settingService.DeleteGrade(c.Request.Context(), id); err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "grade deleted successfully"})
}
