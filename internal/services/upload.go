// ===============================
// internal/services/upload.go
// ===============================

package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectStore is where uploaded media ends up.
type ObjectStore interface {
	UploadFile(ctx context.Context, key string, file io.Reader, contentType string) error
	DeleteFile(ctx context.Context, key string) error
	GetPublicURL(key string) string
	KeyFromURL(url string) (string, error)
}

// Upload categories accepted by the admin panel.
var (
	allowedUploadTypes = map[string][]string{
		"banner":    {".jpg", ".jpeg", ".png", ".webp", ".gif"},
		"thumbnail": {".jpg", ".jpeg", ".png", ".webp"},
		"video":     {".mp4", ".mov", ".webm", ".mkv", ".m3u8", ".ts"},
	}
	maxUploadSizes = map[string]int64{
		"banner":    10 * 1024 * 1024,
		"thumbnail": 5 * 1024 * 1024,
		"video":     2 * 1024 * 1024 * 1024,
	}
)

type UploadService struct {
	store ObjectStore
}

func NewUploadService(store ObjectStore) *UploadService {
	return &UploadService{store: store}
}

// Validate checks the category, extension and size of an upload.
func (s *UploadService) Validate(fileType, filename string, size int64) error {
	allowed, ok := allowedUploadTypes[fileType]
	if !ok {
		return invalid("invalid upload type %q (banner, thumbnail or video)", fileType)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(allowed, ext) {
		return invalid("invalid file type %q for %s, allowed: %s", ext, fileType, strings.Join(allowed, ", "))
	}

	if limit := maxUploadSizes[fileType]; size > limit {
		return invalid("file too large: %.2f MB, max %.2f MB",
			float64(size)/(1024*1024), float64(limit)/(1024*1024))
	}
	return nil
}

// UploadFile validates and stores file, returning its public URL.
func (s *UploadService) UploadFile(ctx context.Context, file io.Reader, filename, fileType string, size int64) (string, error) {
	if err := s.Validate(fileType, filename, size); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("%s/%d_%s%s", fileType, time.Now().Unix(), uuid.New().String()[:8], ext)

	if err := s.store.UploadFile(ctx, key, file, contentType(ext)); err != nil {
		return "", upstream("r2", err)
	}

	return s.store.GetPublicURL(key), nil
}

// Delete removes a previously uploaded file given its public URL.
func (s *UploadService) Delete(ctx context.Context, publicURL string) error {
	key, err := s.store.KeyFromURL(strings.TrimSpace(publicURL))
	if err != nil {
		return invalid("%s", err.Error())
	}
	if err := s.store.DeleteFile(ctx, key); err != nil {
		return upstream("r2", err)
	}
	return nil
}

func contentType(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".webm":
		return "video/webm"
	case ".mkv":
		return "video/x-matroska"
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".ts":
		return "video/mp2t"
	default:
		return "application/octet-stream"
	}
}
