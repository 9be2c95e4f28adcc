package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lelani/transport-backend/internal/middleware"
	"github.com/lelani/transport-backend/internal/response"
	"github.com/lelani/transport-backend/internal/service"
	"github.com/lelani/transport-backend/internal/validator"
)

// RolloverHandler handles year-end maintenance.
type RolloverHandler struct {
	rolloverService *service.RolloverService
}

func NewRolloverHandler(rolloverService *service.RolloverService) *RolloverHandler {
	return &RolloverHandler{rolloverService: rolloverService}
}

// Rollover godoc
// POST /api/v1/admin/rollover
// Moves every active route to a new term and year, optionally deleting all learners.
func (h *RolloverHandler) Rollover(c *gin.Context) {
	var req service.RolloverRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.rolloverService.Rollover(c.Request.Context(), middleware.Actor(c), &req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// DeactivateGraduates godoc
// POST /api/v1/admin/rollover/graduates
// Deactivates learners in the given classes.
func (h *RolloverHandler) DeactivateGraduates(c *gin.Context) {
	var req service.DeactivateGraduatesRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	n, err := h.rolloverService.DeactivateGraduates(c.Request.Context(), middleware.Actor(c), &req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deactivated": n})
}
