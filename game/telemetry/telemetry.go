// Package telemetry wires OpenTelemetry tracing for the tilemerge CLI.
package telemetry

import (
	"context"
	"io"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName    = "tilemerge"
	serviceVersion = "0.1.0"

	// EndpointEnv selects the OTLP exporter when set
	EndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// Setup installs a global tracer provider and returns its shutdown function.
// Spans go to an OTLP HTTP collector when OTEL_EXPORTER_OTLP_ENDPOINT is set
// (headers and the rest come from the standard OTEL_* variables), otherwise
// they are written to w as pretty-printed JSON.
func Setup(ctx context.Context, w io.Writer) (shutdown func(context.Context) error, err error) {
	var exporter sdktrace.SpanExporter
	if os.Getenv(EndpointEnv) != "" {
		exporter, err = otlptracehttp.New(ctx)
	} else {
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	}
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Our own resource, not merged with resource.Default(), to avoid schema URL conflicts.
func newResource(ctx context.Context) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
			attribute.String("host.name", hostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.name", "go"),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
}

// ScopeName is the instrumentation scope for a component, e.g. "tilemerge/service"
func ScopeName(component string) string {
	return serviceName + "/" + component
}

// Tracer returns the component's tracer from the global provider
func Tracer(component string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(ScopeName(component))
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
