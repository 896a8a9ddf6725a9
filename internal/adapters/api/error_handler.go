package api

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	errorspkg "weathermail.app/pkg/errors"
)

const internalErrorMessage = "Internal server error"

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleError maps application errors onto HTTP responses.
// Only the outermost AppError message is exposed; causes stay in the logs.
func (s *HTTPServerAdapter) handleError(c *gin.Context, err error) {
	var appErr *errorspkg.AppError
	if !errors.As(err, &appErr) {
		slog.Error("Unhandled error", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
		return
	}

	var statusCode int
	message := appErr.Message

	switch appErr.Type {
	case errorspkg.ValidationError:
		statusCode = http.StatusBadRequest
	case errorspkg.NotFoundError:
		statusCode = http.StatusNotFound
	case errorspkg.UpstreamError:
		statusCode = http.StatusInternalServerError
		if upstreamStatus, ok := errorspkg.UpstreamStatus(err); ok {
			slog.Error("Upstream failure", "message", message, "upstream_status", upstreamStatus, "error", err)
		} else {
			slog.Error("Upstream failure", "message", message, "error", err)
		}
	default:
		statusCode = http.StatusInternalServerError
		message = internalErrorMessage
		slog.Error("Internal failure", "error", err)
	}

	c.JSON(statusCode, ErrorResponse{Error: message})
}
