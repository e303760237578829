package kernel

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"git.sr.ht/~aondrejcak/pos-api/models"
)

type spanCtxPair struct {
	span trace.Span
	ctx  context.Context
}

// RequestRuntime is created per request by the tracer middleware and stored
// in the gin context under "rt".
type RequestRuntime struct {
	AppRuntime *AppRuntime
	DB         *gorm.DB
	Log        zerolog.Logger

	User *models.User

	RequestContext *gin.Context
	Span           trace.Span
	SpanContext    context.Context

	Error error

	pairs   []*spanCtxPair
	current int
}

func InitRequest(art *AppRuntime, rctx *gin.Context) *RequestRuntime {
	ctx := rctx.Request.Context()
	name := rctx.FullPath()
	if name == "" {
		name = rctx.Request.URL.Path
	}
	span, ctx := art.Diagnostic.BeginTracing(ctx, name)

	rt := &RequestRuntime{
		AppRuntime: art,
		DB:         art.DatabaseClient.WithContext(ctx),
		Log: log.With().
			Str("method", rctx.Request.Method).
			Str("path", rctx.Request.URL.Path).
			Str("traceId", span.SpanContext().TraceID().String()).
			Logger(),

		RequestContext: rctx,
		Span:           span,
		SpanContext:    ctx,

		pairs:   make([]*spanCtxPair, 0, 4),
		current: 0,
	}

	rt.pairs = append(rt.pairs, &spanCtxPair{span: span, ctx: ctx})

	return rt
}

// FromContext returns the runtime installed by the tracer middleware.
func FromContext(c *gin.Context) *RequestRuntime {
	return c.MustGet("rt").(*RequestRuntime)
}

func (rt *RequestRuntime) NewChildTracer(spanName string) *RequestRuntime {
	ctx, span := rt.AppRuntime.Diagnostic.Tracer.Start(rt.SpanContext, spanName)
	rt.Log.Trace().Str("span", spanName).Msg("starting child span")
	rt.PushTrace(span, ctx)
	return rt
}

func (rt *RequestRuntime) PushTrace(span trace.Span, ctx context.Context) {
	rt.pairs = append(rt.pairs, &spanCtxPair{span: span, ctx: ctx})
}

// Advance moves onto the most recently pushed span.
func (rt *RequestRuntime) Advance() {
	if rt.current >= len(rt.pairs)-1 {
		rt.Log.Warn().Int("current", rt.current).Msg("trying to advance out of bounds")
		return
	}
	rt.use(len(rt.pairs) - 1)
}

func (rt *RequestRuntime) StepBack() {
	if rt.current == 0 {
		return
	}
	rt.use(rt.current - 1)
}

func (rt *RequestRuntime) SkipBackTo(index int) {
	if index < 0 || index >= len(rt.pairs) {
		rt.Log.Warn().Int("index", index).Msg("trying to skip out of bounds")
		return
	}
	rt.use(index)
}

// End finishes the current span. The root span stays on the stack so errors
// can still be recorded on it.
func (rt *RequestRuntime) End() *RequestRuntime {
	rt.Span.End()
	if rt.current > 0 {
		rt.pairs = append(rt.pairs[:rt.current], rt.pairs[rt.current+1:]...)
	}
	return rt
}

func (rt *RequestRuntime) EndBlock() {
	if rt.current == 0 {
		return
	}
	rt.End().StepBack()
}

func (rt *RequestRuntime) Depth() int {
	return rt.current
}

func (rt *RequestRuntime) use(index int) {
	rt.current = index
	pair := rt.pairs[index]
	rt.Span = pair.span
	rt.SpanContext = pair.ctx
}
