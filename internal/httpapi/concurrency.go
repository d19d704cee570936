package httpapi

import (
	"context"
	"net/http"
	"time"

	"callcenter-dashboard/internal/auth"
	"callcenter-dashboard/pkg/logger"
	"callcenter-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const reportSlotPrefix = "cap:reports:"

// RequireReportSlot caps report requests in flight per user.
//
// How it works:
// - Acquires a slot on cap:reports:<user_id> with the Redis concurrency script.
// - Rejects with 429 when limit slots are taken.
// - Releases the slot after the handler returns; ttl frees slots leaked by a crash.
// - A Redis failure lets the request through.
func RequireReportSlot(rdb *redis.Client, limit int, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}
		userID, err := auth.UserID(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user_id required"})
			return
		}
		key := reportSlotPrefix + userID

		ok, err := utils.AcquireConcurrencyCap(c.Request.Context(), rdb, key, limit, ttl)
		if err != nil {
			logger.FromGin(c).Warn("report slot acquire failed", "err", err)
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many reports in progress"})
			return
		}
		defer func() {
			// The request context may already be canceled.
			if err := utils.ReleaseConcurrencyCap(context.WithoutCancel(c.Request.Context()), rdb, key); err != nil {
				logger.FromGin(c).Warn("report slot release failed", "err", err)
			}
		}()
		c.Next()
	}
}
