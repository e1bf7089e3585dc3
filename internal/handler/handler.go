package handler

import (
	"net/http"

	"backend/pkg/apperr"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeErr maps a typed domain error to the HTTP status the client should see.
// Untyped errors are internal.
func writeErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindPermissionDenied:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindGateway:
		status = http.StatusBadGateway
	case apperr.KindVerification:
		status = http.StatusPaymentRequired
	}
	c.JSON(status, response.Error(status, err.Error()))
}
