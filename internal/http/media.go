package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/storage"
)

func (h *Handler) upload(c *gin.Context) {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": 0, "errors": "file field \"" + uploadField + "\" is required"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.metrics.Upload(false)
		h.internalError(c, err)
		return
	}
	defer f.Close()

	url, err := h.media.Upload(c.Request.Context(), uploadField, fh.Filename, f, fh.Header.Get("Content-Type"))
	if err != nil {
		h.metrics.Upload(false)
		h.internalError(c, err)
		return
	}

	h.metrics.Upload(true)
	c.JSON(http.StatusOK, gin.H{"success": 1, "image_url": url})
}

func (h *Handler) image(c *gin.Context) {
	body, info, err := h.store.Open(c.Request.Context(), c.Param("filename"))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidName) {
			c.JSON(http.StatusNotFound, gin.H{"message": "image not found"})
			return
		}
		h.internalError(c, err)
		return
	}
	defer body.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, info.Size, contentType, body, nil)
}
