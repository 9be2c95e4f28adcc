package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/response"
	"github.com/lelani/transport-backend/internal/service"
	"github.com/lelani/transport-backend/internal/validator"
)

// DriverHandler handles staff account management for administrators.
type DriverHandler struct {
	driverService *service.DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

type listDriversQuery struct {
	Role model.StaffRole `form:"role" binding:"omitempty,oneof=driver admin"`
}

// ListDrivers godoc
// GET /api/v1/admin/drivers?role=
func (h *DriverHandler) ListDrivers(c *gin.Context) {
	var q listDriversQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	drivers, err := h.driverService.List(c.Request.Context(), q.Role)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"drivers": drivers})
}

// GetDriver godoc
// GET /api/v1/admin/drivers/:id
func (h *DriverHandler) GetDriver(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	driver, err := h.driverService.Get(c.Request.Context(), id)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"driver": driver})
}

// CreateDriver godoc
// POST /api/v1/admin/drivers
// Creates a driver or administrator account.
func (h *DriverHandler) CreateDriver(c *gin.Context) {
	var req model.DriverRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	driver, err := h.driverService.Create(c.Request.Context(), &req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"driver": driver})
}

// UpdateDriver godoc
// PUT /api/v1/admin/drivers/:id
// Updates an account. A non-empty password resets it and ends the account's session.
func (h *DriverHandler) UpdateDriver(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.DriverRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	driver, err := h.driverService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"driver": driver})
}

// DeleteDriver godoc
// DELETE /api/v1/admin/drivers/:id
func (h *DriverHandler) DeleteDriver(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.driverService.Delete(c.Request.Context(), id); err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "driver deleted successfully"})
}
