package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lumenstudio/api/internal/apperr"
)

// respond writes the success envelope every endpoint shares.
func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondError maps the error taxonomy to HTTP exactly once. Internal errors
// are logged with detail and flattened to a generic message so nothing leaks
// to the client.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	var status int
	message := err.Error()

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindAuthentication:
		status = http.StatusUnauthorized
	case apperr.KindAuthorization:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		message = "internal server error"
		h.log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}

	c.JSON(status, gin.H{"success": false, "error": message})
}

// bindJSON decodes the request body, converting bind failures into 400s.
func (h HandlerSet) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return false
	}
	return true
}
