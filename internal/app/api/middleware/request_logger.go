package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rekoonads/sweven-games-gateway/pkg/logctx"
)

// RequestLoggerMiddleware attaches a request-scoped logger enriched with the
// trace id to gin.Context and the request context, and mirrors the trace id
// back to the client via X-Request-ID.
func RequestLoggerMiddleware(base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetString(logctx.TraceIDKey)

		reqLogger := base
		if traceID != "" {
			reqLogger = base.With("trace_id", traceID)
			c.Writer.Header().Set("X-Request-ID", traceID)
		}
		c.Set(logctx.LoggerKey, reqLogger)

		ctx := context.WithValue(c.Request.Context(), logctx.LoggerKey, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
