package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/community-records-api/internal/notify"
	"github.com/community-records-api/internal/records"
	"github.com/community-records-api/internal/service"
	"github.com/community-records-api/internal/validation"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, records.ErrClientUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case records.IsRemote(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondData writes a successful payload with optional notices
func respondData(c *gin.Context, status int, data any, notices ...notify.Notice) {
	body := gin.H{"data": data}
	if len(notices) > 0 {
		body["notices"] = notices
	}
	c.JSON(status, body)
}

// respondError writes err with its mapped status. Validation failures carry
// per-field details.
func respondError(c *gin.Context, err error, notices []notify.Notice) {
	body := gin.H{"error": err.Error()}
	if len(notices) > 0 {
		body["notices"] = notices
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		body["details"] = []validation.ValidationError(verrs)
	}
	c.JSON(statusFor(err), body)
}

// badRequest writes a 400 for malformed requests
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// pathID parses a numeric path parameter, writing a 400 when it is not one
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := records.ParseID(c.Param(name))
	if err != nil || id <= 0 {
		badRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
