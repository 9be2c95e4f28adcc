package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/report"
	"github.com/lelani/transport-backend/internal/repository"
	"github.com/lelani/transport-backend/internal/response"
	"github.com/lelani/transport-backend/internal/service"
)

// failWith maps a service or repository error to its HTTP status and API code.
// Unrecognised errors are attached to the context and reported as internal.
func failWith(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, repository.ErrDependencyExists):
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
	case errors.Is(err, repository.ErrDuplicateAdmissionNo),
		errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, repository.ErrDuplicateVehicleNo),
		errors.Is(err, repository.ErrDuplicateRouteName),
		errors.Is(err, repository.ErrDuplicateArea),
		errors.Is(err, repository.ErrDuplicateGrade):
		response.FailWithFields(c, http.StatusConflict, response.ErrConflict, map[string]string{"error": err.Error()})

	case errors.Is(err, service.ErrRouteForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrRouteForbidden)
	case errors.Is(err, service.ErrLastAdmin):
		response.FailWithFields(c, http.StatusConflict, response.ErrActionForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidParent), errors.Is(err, service.ErrPasswordRequired):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"error": err.Error()})

	case errors.Is(err, report.ErrNoLearners):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrNoLearners)
	case errors.Is(err, report.ErrRouteRequired):
		response.Fail(c, http.StatusBadRequest, response.ErrRouteRequired)
	case errors.Is(err, report.ErrUnknownFormat),
		errors.Is(err, report.ErrUnknownSort),
		errors.Is(err, report.ErrUnknownColumn):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrReportInProgress):
		response.Fail(c, http.StatusConflict, response.ErrReportInProgress)

	case errors.Is(err, service.ErrInvalidImport), errors.Is(err, service.ErrUnsupportedImport):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrImportFailed, map[string]string{"error": err.Error()})

	default:
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// paramID parses the :id path parameter, writing a 400 when it is malformed.
func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses an optional UUID query parameter.
func queryID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{key: "must be a valid UUID"})
		return nil, false
	}
	return &id, true
}
