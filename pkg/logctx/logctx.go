package logctx

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys shared by the middleware chain. trace and identity middleware
// write them; services read them through FromGin/FromCtx.
const (
	LoggerKey  = "logger"
	TraceIDKey = "traceID"
	UserIDKey  = "user_id"
)

// FromGin returns the request-scoped logger attached by the middleware chain,
// falling back to ctx enrichment and finally to base.
func FromGin(c *gin.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if c == nil {
		return base
	}
	if l, ok := c.Get(LoggerKey); ok {
		if lg, ok := l.(*zap.SugaredLogger); ok && lg != nil {
			return lg
		}
	}
	return FromCtx(c.Request.Context(), base)
}

// FromCtx returns a logger from context if set, otherwise enriches base with
// whichever of trace id and user id the context carries.
func FromCtx(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if ctx == nil {
		return base
	}
	if lg, ok := ctx.Value(LoggerKey).(*zap.SugaredLogger); ok && lg != nil {
		return lg
	}

	var fields []interface{}
	for _, k := range []struct{ ctxKey, field string }{
		{TraceIDKey, "trace_id"},
		{UserIDKey, "user_id"},
	} {
		if v, ok := ctx.Value(k.ctxKey).(string); ok && v != "" {
			fields = append(fields, k.field, v)
		}
	}
	if len(fields) > 0 {
		return base.With(fields...)
	}
	return base
}
