package otel

import (
	"context"
	"fmt"
	"time"

	"github.com/mdelapenya/otelcompat/compat"
	"github.com/mdelapenya/otelcompat/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type OtelProvider struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider

	logger *zap.SugaredLogger
}

// Handle forwards err to the global OpenTelemetry error handler.
func (p *OtelProvider) Handle(err error) {
	otel.Handle(err)
}

func (p *OtelProvider) Tracer(serviceName string) trace.Tracer {
	return p.TracerProvider.Tracer(serviceName)
}

func (p *OtelProvider) Meter(serviceName string) metric.Meter {
	return p.MeterProvider.Meter(serviceName)
}

func (p *OtelProvider) Shutdown(ctx context.Context) {
	err := p.TracerProvider.Shutdown(ctx)
	if err != nil {
		p.logger.Errorw("failed to shutdown tracer provider", "error", err)
		p.Handle(err)
	}

	err = p.MeterProvider.Shutdown(ctx)
	if err != nil {
		p.logger.Errorw("failed to shutdown meter provider", "error", err)
		p.Handle(err)
	}
}

// NewProvider builds tracer and meter providers reporting res. A nil res
// falls back to the SDK default resource.
func NewProvider(ctx context.Context, cfg *config.Config, res *compat.Resource, logger *zap.SugaredLogger) (*OtelProvider, error) {
	if res == nil {
		res = compat.DefaultResource()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	tracesProvider, err := initTracerProvider(ctx, cfg, res.Native())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize trace pusher: %w", err)
	}

	meterProvider, err := initMetricsProvider(ctx, cfg, res.Native())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metric pusher: %w", err)
	}

	logger.Debugw("otel providers ready",
		"skipTraces", cfg.SkipTraces,
		"skipMetrics", cfg.SkipMetrics,
		"batchSize", cfg.BatchSize,
	)

	return &OtelProvider{
		TracerProvider: tracesProvider,
		MeterProvider:  meterProvider,
		logger:         logger,
	}, nil
}

func initMetricsProvider(ctx context.Context, cfg *config.Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	if cfg.SkipMetrics {
		return sdkmetric.NewMeterProvider(sdkmetric.WithResource(res)), nil
	}

	exporter, err := otlpmetricgrpc.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create the collector exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(2*time.Second))
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(meterProvider)

	return meterProvider, nil
}

func initTracerProvider(ctx context.Context, cfg *config.Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	if cfg.SkipTraces {
		return sdktrace.NewTracerProvider(sdktrace.WithResource(res)), nil
	}

	traceExporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(
			sdktrace.NewBatchSpanProcessor(
				traceExporter,
				sdktrace.WithMaxExportBatchSize(cfg.BatchSize),
			),
		),
	)

	otel.SetTracerProvider(tracerProvider)

	return tracerProvider, nil
}
