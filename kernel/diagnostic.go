package kernel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type AppDiagnostic struct {
	Tracer trace.Tracer
	Meter  metric.Meter

	RequestCounter  metric.Int64Counter
	ErrorCounter    metric.Int64Counter
	SalesCounter    metric.Int64Counter
	SalesAmount     metric.Float64Counter
	ImportedCounter metric.Int64Counter
}

// NewDiagnostic creates instruments on the global providers. They follow the
// providers installed later by SetupOtel.
func NewDiagnostic(serviceName string) (*AppDiagnostic, error) {
	diag := &AppDiagnostic{
		Tracer: otel.Tracer(serviceName + "-tracer"),
		Meter:  otel.Meter(serviceName + "-meter"),
	}

	var err error
	if diag.RequestCounter, err = diag.Meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests")); err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}
	if diag.ErrorCounter, err = diag.Meter.Int64Counter("http_errors_total",
		metric.WithDescription("Total number of HTTP requests answered with an error")); err != nil {
		return nil, fmt.Errorf("creating error counter: %w", err)
	}
	if diag.SalesCounter, err = diag.Meter.Int64Counter("pos_sales_total",
		metric.WithDescription("Number of recorded sales")); err != nil {
		return nil, fmt.Errorf("creating sales counter: %w", err)
	}
	if diag.SalesAmount, err = diag.Meter.Float64Counter("pos_sales_amount",
		metric.WithDescription("Sum of recorded sale totals")); err != nil {
		return nil, fmt.Errorf("creating sales amount counter: %w", err)
	}
	if diag.ImportedCounter, err = diag.Meter.Int64Counter("pos_products_imported_total",
		metric.WithDescription("Products created by spreadsheet imports")); err != nil {
		return nil, fmt.Errorf("creating import counter: %w", err)
	}

	return diag, nil
}

func (diag *AppDiagnostic) BeginTracing(ctx context.Context, spanName string) (trace.Span, context.Context) {
	ctx, span := diag.Tracer.Start(ctx, spanName)
	return span, ctx
}
