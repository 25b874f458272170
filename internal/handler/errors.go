package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Junction-25/pdf-service/internal/apperr"

	"github.com/gin-gonic/gin"
)

// StatusClientClosedRequest is the non-standard status for a caller that
// went away before the response was ready
const StatusClientClosedRequest = 499

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	Stage     string `json:"stage,omitempty"`
	ID        int64  `json:"id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps an error kind onto an HTTP status
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindCanceled:
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	resp := ErrorResponse{
		Error:     err.Error(),
		Kind:      string(apperr.KindOf(err)),
		RequestID: c.GetString(requestIDKey),
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		resp.Stage = string(appErr.Stage)
		resp.ID = appErr.ID
		if appErr.Kind == apperr.KindInternal || appErr.Kind == apperr.KindRenderFailure {
			// causes can carry file paths or driver details
			resp.Error = appErr.Message
		}
	}

	c.AbortWithStatusJSON(statusFor(err), resp)
}
