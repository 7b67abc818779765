// internal/common/observability/metrics.go
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	pairCounter   otelmetric.Int64Counter
	pairDuration  otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	pairCounter, _ := meter.Int64Counter(
		"matching.pairs.processed",
		otelmetric.WithDescription("Number of company/RFP pairs processed"),
	)

	pairDuration, _ := meter.Float64Histogram(
		"matching.pairs.duration",
		otelmetric.WithDescription("Pair scoring duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		pairCounter:   pairCounter,
		pairDuration:  pairDuration,
	}
}

func (o *Observability) RecordPairProcessed(ctx context.Context, status string) {
	if o.pairCounter != nil {
		o.pairCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordPairDuration(ctx context.Context, duration time.Duration, status string) {
	if o.pairDuration != nil {
		o.pairDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
