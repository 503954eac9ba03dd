package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	sessionIDKey contextKey = "session_id"
	adminIDKey   contextKey = "admin_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from context, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID in ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithSessionID stores the storefront session ID in ctx.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// WithAdminID stores the authenticated admin ID in ctx.
func WithAdminID(ctx context.Context, adminID string) context.Context {
	return context.WithValue(ctx, adminIDKey, adminID)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// GetSessionID retrieves the session ID from context
func GetSessionID(ctx context.Context) string {
	v, _ := ctx.Value(sessionIDKey).(string)
	return v
}

// GetAdminID retrieves the admin ID from context
func GetAdminID(ctx context.Context) string {
	v, _ := ctx.Value(adminIDKey).(string)
	return v
}

// GetTraceID returns the trace ID of the active span, or "".
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// L returns the context logger enriched with the trace, request, session and
// admin identifiers carried by ctx.
//
//	logger.L(ctx).Info("order persisted", zap.Int64("order_id", id))
func L(ctx context.Context) *zap.Logger {
	return Enrich(ctx, FromContext(ctx))
}

// Enrich adds the identifiers carried by ctx to logger.
func Enrich(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	var fields []zap.Field
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := GetSessionID(ctx); id != "" {
		fields = append(fields, zap.String("session_id", id))
	}
	if id := GetAdminID(ctx); id != "" {
		fields = append(fields, zap.String("admin_id", id))
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}
