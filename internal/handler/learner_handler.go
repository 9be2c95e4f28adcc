package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lelani/transport-backend/internal/middleware"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/response"
	"github.com/lelani/transport-backend/internal/service"
	"github.com/lelani/transport-backend/internal/validator"
)

// LearnerHandler handles learner records. Drivers only see and edit the
// learners on their own route.
type LearnerHandler struct {
	learnerService *service.LearnerService
	auditService   *service.AuditService
}

// NewLearnerHandler creates a new LearnerHandler.
func NewLearnerHandler(learnerService *service.LearnerService, auditService *service.AuditService) *LearnerHandler {
	return &LearnerHandler{learnerService: learnerService, auditService: auditService}
}

type listLearnersQuery struct {
	Class           string `form:"class" binding:"omitempty,max=50"`
	Search          string `form:"search" binding:"omitempty,max=100"`
	IncludeInactive bool   `form:"include_inactive"`
}

// ListLearners godoc
// GET /api/v1/learners?route_id=&class=&search=&include_inactive=
// Lists learners visible to the caller.
func (h *LearnerHandler) ListLearners(c *gin.Context) {
	var q listLearnersQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	routeID, ok := queryID(c, "route_id")
	if !ok {
		return
	}

	learners, err := h.learnerService.List(c.Request.Context(), middleware.Actor(c), model.LearnerFilter{
		RouteID:         routeID,
		Class:           q.Class,
		Search:          q.Search,
		IncludeInactive: q.IncludeInactive,
	})
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"learners": learners, "total": len(learners)})
}

// GetLearner godoc
// GET /api/v1/learners/:id
func (h *LearnerHandler) GetLearner(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	learner, err := h.learnerService.Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"learner": learner})
}

// CreateLearner godoc
// POST /api/v1/learners
// Adds a learner to a route.
func (h *LearnerHandler) CreateLearner(c *gin.Context) {
	var req model.LearnerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	learner, err := h.learnerService.Create(c.Request.Context(), middleware.Actor(c), &req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"learner": learner})
}

// UpdateLearner godoc
// PUT /api/v1/learners/:id
// Replaces a learner's details. Every changed field is audited.
func (h *LearnerHandler) UpdateLearner(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.LearnerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	learner, err := h.learnerService.Update(c.Request.Context(), middleware.Actor(c), id, &req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"learner": learner})
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetLearnerActive godoc
// PATCH /api/v1/learners/:id/status
// Deactivates or reactivates a learner.
func (h *LearnerHandler) SetLearnerActive(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req setActiveRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	learner, err := h.learnerService.SetActive(c.Request.Context(), middleware.Actor(c), id, *req.Active)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"learner": learner})
}

// GetLearnerHistory godoc
// GET /api/v1/learners/:id/history
// Returns the audit trail of one learner.
func (h *LearnerHandler) GetLearnerHistory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	// Visibility follows the learner itself.
	if _, err := h.learnerService.Get(c.Request.Context(), middleware.Actor(c), id); err != nil {
		failWith(c, err)
		return
	}

	logs, err := h.auditService.List(c.Request.Context(), &id)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"history": logs})
}
