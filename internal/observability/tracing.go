package observability

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Environment switches for SetupTracing.
const (
	TracingEndpointEnv = "STOREFRONT_OTEL_ENDPOINT"
	TracingEnabledEnv  = "STOREFRONT_OTEL_ENABLED"
)

// SetupTracing registers a global tracer provider exporting over OTLP/HTTP to
// STOREFRONT_OTEL_ENDPOINT and installs the W3C trace-context propagator.
//
// Tracing is opt-in: with no endpoint, or STOREFRONT_OTEL_ENABLED=false, nothing is registered
// and the returned shutdown is a no-op. Callers defer shutdown to flush pending spans.
func SetupTracing(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(os.Getenv(TracingEnabledEnv), "false") {
		return noop, nil
	}
	endpoint := strings.TrimSpace(os.Getenv(TracingEndpointEnv))
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// FlushTracing exports buffered spans when an SDK provider is registered. Lambda handlers call
// it before returning because the runtime may freeze the process between invocations.
func FlushTracing(ctx context.Context) {
	if tp, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); ok {
		_ = tp.ForceFlush(ctx)
	}
}
