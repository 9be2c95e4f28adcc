package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/config"
)

// uploadURLPrefix is the public path under which UploadDir is served.
const uploadURLPrefix = "/uploads/"

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// Allowed image MIME types. WebP is accepted for vehicle and staff photos
// but cannot be embedded in the PDF manifest.
var allowedMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaService handles image uploads: the school logo, vehicle images and
// staff photos.
type MediaService struct {
	cfg *config.Config
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config) *MediaService {
	return &MediaService{cfg: cfg}
}

// SaveUpload stores an uploaded image under a random name and returns its
// public URL. The type is sniffed from the content, not the client header.
func (s *MediaService) SaveUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > s.cfg.MaxUploadBytes {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	contentType := http.DetectContentType(head[:n])
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, contentType, strings.Join(allowedTypes(), ", "))
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.cfg.UploadDir, filename))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, s.cfg.MaxUploadBytes)); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return uploadURLPrefix + filename, nil
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
