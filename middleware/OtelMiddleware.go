package middleware

import (
	"github.com/gin-gonic/gin"
	"go.nhat.io/otelsql/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"git.sr.ht/~aondrejcak/pos-api/kernel"
)

const maxRecordedBody = 4 << 10

type responseWriter struct {
	gin.ResponseWriter
	span     trace.Span
	recorded int
}

func TracerMiddleware(art *kernel.AppRuntime) gin.HandlerFunc {
	return func(c *gin.Context) {
		rt := kernel.InitRequest(art, c)

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID, _ = kernel.UuidV7()
		}
		c.Header("X-Request-ID", requestID)
		rt.Log = rt.Log.With().Str("requestId", requestID).Logger()

		rt.Span.SetAttributes(
			attribute.KeyValue("http.method", c.Request.Method),
			attribute.KeyValue("http.url", c.Request.URL.String()),
			attribute.KeyValue("http.host", c.Request.Host),
			attribute.KeyValue("http.request_id", requestID),
		)

		art.Diagnostic.RequestCounter.Add(rt.SpanContext, 1,
			metric.WithAttributes(attribute.KeyValue("http.method", c.Request.Method)),
		)

		c.Writer = &responseWriter{
			ResponseWriter: c.Writer,
			span:           rt.Span,
		}

		c.Set("rt", rt)
		c.Next()

		rt.SkipBackTo(0)
		rt.Span.SetAttributes(attribute.KeyValue("http.status_code", c.Writer.Status()))
		rt.End()
	}
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.recorded < maxRecordedBody {
		chunk := b
		if len(chunk) > maxRecordedBody-w.recorded {
			chunk = chunk[:maxRecordedBody-w.recorded]
		}
		w.recorded += len(chunk)
		w.span.SetAttributes(attribute.KeyValue("http.response_body", string(chunk)))
	}

	return w.ResponseWriter.Write(b)
}
