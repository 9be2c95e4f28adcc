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

// RouteHandler handles bus route management.
type RouteHandler struct {
	routeService *service.RouteService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(routeService *service.RouteService) *RouteHandler {
	return &RouteHandler{routeService: routeService}
}

// ListRoutes godoc
// GET /api/v1/routes
// Lists routes with learner counts and assigned personnel. Drivers only see their own.
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	routes, err := h.routeService.List(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"routes": routes})
}

// GetRoute godoc
// GET /api/v1/routes/:id
func (h *RouteHandler) GetRoute(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	route, err := h.routeService.Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"route": route})
}

// CreateRoute godoc
// POST /api/v1/admin/routes
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	var req model.RouteRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	route, err := h.routeService.Create(c.Request.Context(), &req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"route": route})
}

// UpdateRoute godoc
// PUT /api/v1/admin/routes/:id
func (h *RouteHandler) UpdateRoute(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.RouteRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	route, err := h.routeService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"route": route})
}

// DeleteRoute godoc
// DELETE /api/v1/admin/routes/:id
// Deletes a route. Fails while learners are still assigned to it.
func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.routeService.Delete(c.Request.Context(), id); err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "route deleted successfully"})
}
