package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/rekoonads/sweven-games-gateway/pkg/logctx"
	"github.com/rekoonads/sweven-games-gateway/pkg/tool"
)

// TraceMiddleware assigns every request a trace id, honoring X-Request-ID
// when the caller (or an upstream proxy) already set one. The id is stored in
// both gin.Context and the request's context.Context so it survives into
// service-layer logging.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Request-ID")
		if traceID == "" {
			traceID = tool.GenerateUUIDV7()
		}

		c.Set(logctx.TraceIDKey, traceID)
		ctx := context.WithValue(c.Request.Context(), logctx.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
