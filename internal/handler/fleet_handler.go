package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/response"
	"github.com/lelani/transport-backend/internal/service"
	"github.com/lelani/transport-backend/internal/validator"
)

// FleetHandler handles minders, vehicles and pickup areas.
type FleetHandler struct {
	fleetService *service.FleetService
}

// NewFleetHandler creates a new FleetHandler.
func NewFleetHandler(fleetService *service.FleetService) *FleetHandler {
	return &FleetHandler{fleetService: fleetService}
}

// ─── Minders ──────────────────────────────────────────────────────────

// ListMinders godoc
// GET /api/v1/admin/minders
func (h *FleetHandler) ListMinders(c *gin.Context) {
	minders, err := h.fleetService.ListMinders(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"minders": minders})
}

// CreateMinder godoc
// POST /api/v1/admin/minders
func (h *FleetHandler) CreateMinder(c *gin.Context) {
	var req model.MinderRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	minder, err := h.fleetService.CreateMinder(c.Request.Context(), &req)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"minder": minder})
}

// UpdateMinder godoc
// PUT /api/v1/admin/minders/:id
func (h *FleetHandler) UpdateMinder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.MinderRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	minder, err := h.fleetService.UpdateMinder(c.Request.Context(), id, &req)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"minder": minder})
}

// DeleteMinder godoc
// DELETE /api/v1/admin/minders/:id
func (h *FleetHandler) DeleteMinder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.fleetService.DeleteMinder(c.Request.Context(), id); err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "minder deleted successfully"})
}

// ─── Vehicles ─────────────────────────────────────────────────────────

// ListVehicles godoc
// GET /api/v1/admin/vehicles
func (h *FleetHandler) ListVehicles(c *gin.Context) {
	vehicles, err := h.fleetService.ListVehicles(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"vehicles": vehicles})
}

// CreateVehicle godoc
// POST /api/v1/admin/vehicles
func (h *FleetHandler) CreateVehicle(c *gin.Context) {
	var req model.VehicleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	vehicle, err := h.fleetService.CreateVehicle(c.Request.Context(), &req)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"vehicle": vehicle})
}

// UpdateVehicle godoc
// PUT /api/v1/admin/vehicles/:id
func (h *FleetHandler) UpdateVehicle(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.VehicleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	vehicle, err := h.fleetService.UpdateVehicle(c.Request.Context(), id, &req)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"vehicle": vehicle})
}

// DeleteVehicle godoc
// DELETE /api/v1/admin/vehicles/:id
func (h *FleetHandler) DeleteVehicle(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.fleetService.DeleteVehicle(c.Request.Context(), id); err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "vehicle deleted successfully"})
}

// ─── Areas ────────────────────────────────────────────────────────────

// ListAreas godoc
// GET /api/v1/areas?route_id=
// Lists pickup areas in pickup order, optionally for one route.
func (h *FleetHandler) ListAreas(c *gin.Context) {
	routeID, ok := queryID(c, "route_id")
	if !ok {
		return
	}

	areas, err := h.fleetService.ListAreas(c.Request.Context(), routeID)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"areas": areas})
}

// CreateArea godoc
// POST /api/v1/admin/areas
// Adds a pickup area. Without a pickup order it goes to the end of the route.
func (h *FleetHandler) CreateArea(c *gin.Context) {
	var req model.AreaRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	area, err := h.fleetService.CreateArea(c.Request.Context(), &req)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"area": area})
}

// UpdateArea godoc
// PUT /api/v1/admin/areas/:id
func (h *FleetHandler) UpdateArea(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.AreaRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	area, err := h.fleetService.UpdateArea(c.Request.Context(), id, &req)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"area": area})
}

// DeleteArea godoc
// DELETE /api/v1/admin/areas/:id
func (h *FleetHandler) DeleteArea(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.fleetService.DeleteArea(c.Request.Context(), id); err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "area deleted successfully"})
}
