package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lelani/transport-backend/internal/middleware"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/repository"
	"github.com/lelani/transport-backend/internal/response"
	"github.com/lelani/transport-backend/internal/service"
	"github.com/lelani/transport-backend/internal/validator"
)

// AuthHandler handles staff authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// POST /api/v1/auth/login
// Authenticates a driver or administrator and returns a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		case errors.Is(err, service.ErrAccountInactive):
			response.Fail(c, http.StatusForbidden, response.ErrAccountInactive)
		default:
			failWith(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Register godoc
// POST /api/v1/auth/register
// Creates a driver account and signs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			response.FailWithFields(c, http.StatusConflict, response.ErrConflict, map[string]string{"email": "is already registered"})
			return
		}
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// Me godoc
// GET /api/v1/auth/me
// Returns the profile and permissions of the signed-in staff member.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	resp, err := h.authService.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Logout godoc
// POST /api/v1/auth/logout
// Ends the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims.UserID); err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "logged out"})
}
