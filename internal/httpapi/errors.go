package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pram0n0/Travelog/internal/service"
)

// writeError maps a failed operation onto the response. Cooldown
// conflicts become 429 with the remaining wait so the client can render
// it; Invariant failures are reported as plain bad requests since the
// offending input never persisted.
func writeError(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case service.KindValidation, service.KindInvariant:
			c.JSON(http.StatusBadRequest, gin.H{"error": svcErr.Error()})
		case service.KindAuthorization:
			c.JSON(http.StatusForbidden, gin.H{"error": svcErr.Error()})
		case service.KindNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": svcErr.Error()})
		case service.KindConflict:
			if svcErr.RetryAfterMinutes > 0 {
				c.JSON(http.StatusTooManyRequests, gin.H{
					"error":            svcErr.Error(),
					"minutesRemaining": svcErr.RetryAfterMinutes,
				})
				return
			}
			c.JSON(http.StatusConflict, gin.H{"error": svcErr.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": svcErr.Error()})
		}
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
