package restapi

import (
	"net/http"
	"time"

	"portfolio_tracker/internal/app/port"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// UserIDHeader carries the caller identity set by the upstream auth gateway.
	UserIDHeader = "X-User-ID"
	userIDCtxKey = "userID"
)

// requestLogger logs every request once it has been served.
func requestLogger(log port.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("HTTP request", args...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("HTTP request", args...)
		default:
			log.Debug("HTTP request", args...)
		}
	}
}

// requireUser rejects requests without a valid user id header.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.GetHeader(UserIDHeader))
		if err != nil || userID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid " + UserIDHeader + " header"})
			return
		}
		c.Set(userIDCtxKey, userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) uuid.UUID {
	v, _ := c.Get(userIDCtxKey)
	id, _ := v.(uuid.UUID)
	return id
}
