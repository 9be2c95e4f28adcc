package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/middleware"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/report"
	"github.com/lelani/transport-backend/internal/response"
	"github.com/lelani/transport-backend/internal/service"
	"github.com/lelani/transport-backend/internal/validator"
)

// ReportGenerator is the subset of the report service used by ReportHandler.
type ReportGenerator interface {
	Options(ctx context.Context, actor model.Actor, routeID *uuid.UUID) (*model.ReportOptions, error)
	Preview(ctx context.Context, actor model.Actor, req *model.ReportRequest) (*service.ReportPreview, error)
	Generate(ctx context.Context, actor model.Actor, req *model.ReportRequest) (*service.Artifact, error)
}

// ReportHandler serves route manifests as JSON previews and PDF or Excel downloads.
type ReportHandler struct {
	reports ReportGenerator
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports ReportGenerator) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GetOptions godoc
// GET /api/v1/reports/options?route_id=
// Lists the routes, classes, pickup areas, trips and columns a report can use.
func (h *ReportHandler) GetOptions(c *gin.Context) {
	routeID, ok := queryID(c, "route_id")
	if !ok {
		return
	}

	opts, err := h.reports.Options(c.Request.Context(), middleware.Actor(c), routeID)
	if err != nil {
		failWith(c, err)
		return
	}

	columns := make([]gin.H, 0, len(report.Columns()))
	defaults := report.DefaultColumns()
	for _, col := range report.Columns() {
		columns = append(columns, gin.H{
			"key":     col.Key,
			"header":  col.Header,
			"fixed":   col.Fixed,
			"default": defaults.Enabled(col.Key),
		})
	}

	response.Success(c, http.StatusOK, gin.H{"options": opts, "columns": columns})
}

// PreviewReport godoc
// POST /api/v1/reports/preview
// Returns the rows a report would contain without rendering a file.
func (h *ReportHandler) PreviewReport(c *gin.Context) {
	var req model.ReportRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	preview, err := h.reports.Preview(c.Request.Context(), middleware.Actor(c), &req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, preview)
}

// GenerateReport godoc
// POST /api/v1/reports/generate
// Renders the report and returns it as a file download.
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	var req model.ReportRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	artifact, err := h.reports.Generate(c.Request.Context(), middleware.Actor(c), &req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Attachment(c, artifact.Filename, artifact.ContentType, artifact.Data)
}
