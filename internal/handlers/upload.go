package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lumenstudio/api/internal/apperr"
)

// Upload accepts a multipart file under the "file" field and stores it as a
// public asset, returning the URL to reference from a post.
func (h HandlerSet) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.respondError(c, apperr.Validation("no file uploaded"))
		return
	}
	defer file.Close()

	result, err := h.upload.Upload(c.Request.Context(), file, header)
	if err != nil {
		h.respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{
		"url":         result.URL,
		"key":         result.Key,
		"contentType": result.ContentType,
		"size":        result.SizeBytes,
	})
}
