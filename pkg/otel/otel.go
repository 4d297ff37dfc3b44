package otel

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.38.0"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
)

// Setup configures logging and, when enabled, the OpenTelemetry pipelines.
// The returned function flushes and stops the exporters.
func Setup(ctx context.Context, serviceName, serviceVersion string) (func(context.Context) error, error) {
	readEnv()

	level := slog.LevelInfo

	if EnableDebug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	var shutdown []func(context.Context) error

	if EnablePrometheus {
		fn, err := setupPrometheus()

		if err != nil {
			return nil, err
		}

		shutdown = append(shutdown, fn)
	}

	if EnableTelemetry {
		resource, err := sdkresource.Merge(
			sdkresource.Default(),
			sdkresource.NewWithAttributes(semconv.SchemaURL,
				semconv.ServiceName(serviceName),
				semconv.ServiceVersion(serviceVersion),
			),
		)

		if err != nil {
			return nil, err
		}

		if fn, err := setupLogger(ctx, resource); err == nil {
			shutdown = append(shutdown, fn)
		} else {
			return nil, err
		}

		if !EnablePrometheus {
			if fn, err := setupMeter(ctx, resource); err == nil {
				shutdown = append(shutdown, fn)
			} else {
				return nil, err
			}
		}

		if fn, err := setupTracer(ctx, resource); err == nil {
			shutdown = append(shutdown, fn)
		} else {
			return nil, err
		}
	}

	return func(ctx context.Context) error {
		var result error

		for _, fn := range shutdown {
			result = errors.Join(result, fn(ctx))
		}

		return result
	}, nil
}

func setupTracer(ctx context.Context, resource *sdkresource.Resource) (func(context.Context) error, error) {
	var err error
	var exporter sdktrace.SpanExporter

	if strings.ToLower(os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL")) == "grpc" || strings.ToLower(os.Getenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL")) == "grpc" {
		exporter, err = otlptracegrpc.New(ctx)
	} else {
		exporter, err = otlptracehttp.New(ctx)
	}

	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(time.Second)),
		sdktrace.WithResource(resource),
	)

	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
