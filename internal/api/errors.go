package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduflow/campus/internal/forum"
)

// statusFor maps the service error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch forum.KindOf(err) {
	case forum.KindNotFound:
		return http.StatusNotFound
	case forum.KindValidation:
		return http.StatusBadRequest
	case forum.KindForbidden:
		return http.StatusForbidden
	case forum.KindConflict:
		return http.StatusConflict
	case forum.KindStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error envelope. Internal errors are not echoed to
// clients.
func fail(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

// respond writes the success envelope.
func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondPage writes the success envelope with pagination metadata.
func respondPage(c *gin.Context, data interface{}, pagination forum.Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       data,
		"pagination": pagination,
	})
}
