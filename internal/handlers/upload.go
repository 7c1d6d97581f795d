// ===============================
// internal/handlers/upload.go - Admin media uploads to R2
// ===============================

package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Uploader interface {
	UploadFile(ctx context.Context, file io.Reader, filename, fileType string, size int64) (string, error)
	Delete(ctx context.Context, publicURL string) error
}

type UploadHandler struct {
	uploader Uploader
}

func NewUploadHandler(uploader Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// UploadFile takes a multipart "file" plus a "type" of banner, thumbnail
// or video and returns the public URL.
func (h *UploadHandler) UploadFile(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	fileType := c.PostForm("type")
	if fileType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type required"})
		return
	}

	url, err := h.uploader.UploadFile(c.Request.Context(), file, header.Filename, fileType, header.Size)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":       url,
		"file_name": header.Filename,
		"file_size": header.Size,
		"file_type": fileType,
	})
}

// DeleteFile removes an object by its public URL (?url=).
func (h *UploadHandler) DeleteFile(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}
	target := c.Query("url")
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	if err := h.uploader.Delete(c.Request.Context(), target); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
