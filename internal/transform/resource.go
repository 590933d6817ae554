package transform

import (
	"context"

	"github.com/mdelapenya/otelcompat/compat"
	"github.com/mdelapenya/otelcompat/internal/config"
	"github.com/mdelapenya/otelcompat/internal/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type OtelProvider interface {
	Tracer(string) trace.Tracer
	Meter(string) metric.Meter
}

// AnnounceResource records a single span describing res, and counts its
// attributes, so the resolved resource shows up in the backend.
func AnnounceResource(ctx context.Context, cfg *config.Config, provider OtelProvider, res *compat.Resource) error {
	ctx = otel.InitOtelContext(ctx)

	tracer := provider.Tracer(cfg.ServiceName)
	meter := provider.Meter(cfg.ServiceName)

	attributesCounter := createIntCounter(meter, otel.ResourceAttributesCount, "Number of attributes on the resolved resource")

	spanAttributes := res.KeyValues()
	spanAttributes = append(spanAttributes, attribute.Key(otel.ResourceSchemaURL).String(res.SchemaURL()))

	_, span := tracer.Start(ctx, cfg.TraceName, trace.WithAttributes(spanAttributes...), trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	attributesCounter.Add(ctx, int64(res.Len()), metric.WithAttributes(
		attribute.Key(otel.ResourceSchemaURL).String(res.SchemaURL()),
	))

	return nil
}

func createIntCounter(meter metric.Meter, name string, description string) metric.Int64Counter {
	counter, _ := meter.Int64Counter(name, metric.WithDescription(description))
	// Accumulators always return nil errors
	// see https://github.com/open-telemetry/opentelemetry-go/blob/e8fbfd3ec52d8153eea3f13465b7de15cd8f6320/sdk/metric/sdk.go#L256-L264
	return counter
}
