package kernel

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"go.nhat.io/otelsql/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

func (rt *RequestRuntime) MakeError(err error) error {
	s := rt.Span
	s.RecordError(err)
	s.SetStatus(codes.Error, err.Error())
	rt.Error = err
	rt.EndBlock()

	return err
}

func (rt *RequestRuntime) MakeErrorf(format string, args ...interface{}) error {
	return rt.MakeError(fmt.Errorf(format, args...))
}

// Fail aborts the request with {"message", "error", "traceId"}.
func (rt *RequestRuntime) Fail(code int, message string, err error) *RequestRuntime {
	traceID := rt.Span.SpanContext().TraceID().String()
	_ = rt.MakeError(err)

	ev := rt.Log.Warn()
	if code >= http.StatusInternalServerError {
		ev = rt.Log.Error()
	}
	ev.Err(err).Int("status", code).Msg(message)

	rt.AppRuntime.Diagnostic.ErrorCounter.Add(rt.SpanContext, 1,
		metric.WithAttributes(attribute.KeyValue("http.status_code", code)),
	)

	rt.RequestContext.AbortWithStatusJSON(code, &gin.H{
		"message": message,
		"error":   err.Error(),
		"traceId": traceID,
	})
	return rt
}

func (rt *RequestRuntime) E(code int, err error) *RequestRuntime {
	return rt.Fail(code, http.StatusText(code), err)
}

func (rt *RequestRuntime) Ef(code int, format string, args ...interface{}) *RequestRuntime {
	return rt.E(code, fmt.Errorf(format, args...))
}

// Invalid answers a failed Validate(). Field errors become a 422 with an
// "errors" map, internal rule failures (database lookups) become a 500.
func (rt *RequestRuntime) Invalid(message string, err error) *RequestRuntime {
	var internal validation.InternalError
	if errors.As(err, &internal) && internal.InternalError() != nil {
		return rt.Fail(http.StatusInternalServerError, message, internal.InternalError())
	}

	var fields validation.Errors
	if !errors.As(err, &fields) {
		return rt.Fail(http.StatusUnprocessableEntity, message, err)
	}

	_ = rt.MakeError(err)
	rt.Log.Warn().Interface("errors", fields).Msg(message)

	rt.RequestContext.AbortWithStatusJSON(http.StatusUnprocessableEntity, &gin.H{
		"message": message,
		"errors":  fields,
	})
	return rt
}

// FieldError builds a single-field validation failure, e.g. a wrong current password.
func FieldError(field string, message string) error {
	return validation.Errors{field: errors.New(message)}
}
