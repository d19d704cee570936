package httpapi

import (
	"errors"
	"net/http"

	"callcenter-dashboard/internal/imports"
	"callcenter-dashboard/internal/reanimation"
	"callcenter-dashboard/internal/reporting"
	"callcenter-dashboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

// writeError maps service sentinels to status codes. Anything unknown is a
// 500 and its text is only logged.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, reporting.ErrInvalidRequest),
		errors.Is(err, imports.ErrInvalidRequest),
		errors.Is(err, reanimation.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, reporting.ErrNotFound),
		errors.Is(err, imports.ErrNotFound),
		errors.Is(err, reanimation.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, imports.ErrGCKBoundary):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, reanimation.ErrNothingToExport):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		logger.FromGin(c).Error("request failed", "err", err)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
