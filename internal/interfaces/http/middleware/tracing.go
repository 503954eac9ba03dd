package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts a server span per request through otelgin
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return otelgin.Middleware(serviceName)
}

// SpanAttributes copies request, session and admin ids onto the active
// span and marks 5xx responses as errors. Register it inside Tracing.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := GetRequestID(c); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
			if sid := GetSessionID(c); sid != "" {
				span.SetAttributes(attribute.String("session_id", sid))
			}
		}

		c.Next()

		if !span.IsRecording() {
			return
		}
		if adminID := GetAdminID(c); adminID != "" {
			span.SetAttributes(attribute.String("admin_id", adminID))
		}
		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
