package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lelani/transport-backend/internal/response"
	"github.com/lelani/transport-backend/internal/service"
)

// MediaHandler handles media upload endpoints.
type MediaHandler struct {
	mediaService   *service.MediaService
	settingService *service.SettingService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService *service.MediaService, settingService *service.SettingService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService, settingService: settingService}
}

// UploadMedia godoc
// POST /api/v1/admin/media/upload
// Uploads an image file (vehicle or staff photo) and returns its URL.
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	url, ok := h.save(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"url": url})
}

// UploadLogo godoc
// POST /api/v1/admin/settings/logo
// Uploads the school logo and stores it in the settings.
func (h *MediaHandler) UploadLogo(c *gin.Context) {
	url, ok := h.save(c)
	if !ok {
		return
	}

	if err := h.settingService.SetLogo(c.Request.Context(), url); err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"url": url})
}

func (h *MediaHandler) save(c *gin.Context) (string, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return "", false
	}
	defer file.Close()

	url, err := h.mediaService.SaveUpload(file, header)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrFileTooLarge):
			response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		default:
			failWith(c, err)
		}
		return "", false
	}
	return url, true
}
