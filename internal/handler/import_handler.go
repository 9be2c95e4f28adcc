package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lelani/transport-backend/internal/middleware"
	"github.com/lelani/transport-backend/internal/response"
	"github.com/lelani/transport-backend/internal/service"
	"github.com/lelani/transport-backend/internal/validator"
)

// ImportHandler accepts bulk CSV and XLSX uploads.
type ImportHandler struct {
	importService *service.ImportService
	maxBytes      int64
}

// NewImportHandler creates a new ImportHandler. Uploads above maxBytes are rejected.
func NewImportHandler(importService *service.ImportService, maxBytes int64) *ImportHandler {
	return &ImportHandler{importService: importService, maxBytes: maxBytes}
}

type importForm struct {
	DryRun bool `form:"dry_run"`
}

// ImportLearners godoc
// POST /api/v1/admin/import/learners
// Multipart upload field "file". With dry_run=true rows are validated but not saved.
func (h *ImportHandler) ImportLearners(c *gin.Context) {
	h.handle(c, service.ImportLearners)
}

// ImportAreas godoc
// POST /api/v1/admin/import/areas
// Multipart upload field "file". Route names must match existing routes.
func (h *ImportHandler) ImportAreas(c *gin.Context) {
	h.handle(c, service.ImportAreas)
}

func (h *ImportHandler) handle(c *gin.Context, kind service.ImportKind) {
	var form importForm
	if fields := validator.BindQuery(c, &form); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	if h.maxBytes > 0 && header.Size > h.maxBytes {
		response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		return
	}

	result, err := h.importService.Import(c.Request.Context(), middleware.Actor(c), kind, header.Filename, file, form.DryRun)
	if err != nil {
		if result != nil && len(result.Errors) > 0 {
			fields := make(map[string]string, len(result.Errors))
			for _, e := range result.Errors {
				fields["row_"+strconv.Itoa(e.Row)] = e.Message
			}
			response.FailWithFields(c, http.StatusBadRequest, response.ErrImportFailed, fields)
			return
		}
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}
