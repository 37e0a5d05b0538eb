package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/wanderlust/internal/common"
	"github.com/dmitrijs2005/wanderlust/internal/server/localauth"
	"github.com/gin-gonic/gin"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, localauth.ErrMissingUsername),
		errors.Is(err, localauth.ErrMissingPassword):
		return http.StatusBadRequest
	case errors.Is(err, localauth.ErrUserExists),
		errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	case localauth.IsLockout(err):
		return http.StatusTooManyRequests
	case localauth.IsCredentialError(err),
		errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as JSON. Internal errors are logged and hidden from the
// client.
func (s *Server) fail(c *gin.Context, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		msg = common.ErrorInternal.Error()
	}
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}
