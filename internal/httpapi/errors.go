package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/arsip/internal/ai"
	"github.com/dmitrijs2005/arsip/internal/auth"
	"github.com/dmitrijs2005/arsip/internal/common"
	"github.com/dmitrijs2005/arsip/internal/models"
	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrAuthFailure), errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden), errors.Is(err, common.ErrProtectedUser):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrDuplicateID), errors.Is(err, common.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, common.ErrValidation),
		errors.Is(err, models.ErrNotDataURL),
		errors.Is(err, models.ErrUnsupportedMimeType),
		errors.Is(err, models.ErrAttachmentTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, ai.ErrDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, ai.ErrEmptyResponse):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		s.log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		msg = http.StatusText(code)
	}
	abortWithError(c, code, msg)
}

func abortWithError(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}
