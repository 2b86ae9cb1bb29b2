package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/speechkit/logger"
)

// MeterConfig configures the OpenTelemetry meter.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string
	Insecure bool
	// Interval is the export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the pipeline instruments. A nil *Metrics records nothing.
type Metrics struct {
	pipelineTotal    metric.Int64Counter
	pipelineDuration metric.Float64Histogram
	stageTotal       metric.Int64Counter
	stageDuration    metric.Float64Histogram
	turnsActive      metric.Int64UpDownCounter
	errorTotal       metric.Int64Counter
}

// NewMetrics creates the pipeline instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	pipelineTotal, err := meter.Int64Counter("speech.pipeline.total",
		metric.WithDescription("Pipeline runs by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speech.pipeline.total counter: %w", err)
	}

	pipelineDuration, err := meter.Float64Histogram("speech.pipeline.duration",
		metric.WithDescription("Duration of pipeline runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speech.pipeline.duration histogram: %w", err)
	}

	stageTotal, err := meter.Int64Counter("speech.stage.total",
		metric.WithDescription("Stage executions by stage and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speech.stage.total counter: %w", err)
	}

	stageDuration, err := meter.Float64Histogram("speech.stage.duration",
		metric.WithDescription("Duration of pipeline stages in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speech.stage.duration histogram: %w", err)
	}

	turnsActive, err := meter.Int64UpDownCounter("speech.turns.active",
		metric.WithDescription("Turn sub-pipelines currently running"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speech.turns.active gauge: %w", err)
	}

	errorTotal, err := meter.Int64Counter("speech.error.total",
		metric.WithDescription("Errors by stage and code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speech.error.total counter: %w", err)
	}

	return &Metrics{
		pipelineTotal:    pipelineTotal,
		pipelineDuration: pipelineDuration,
		stageTotal:       stageTotal,
		stageDuration:    stageDuration,
		turnsActive:      turnsActive,
		errorTotal:       errorTotal,
	}, nil
}

// RecordPipeline records one finished pipeline run.
func (m *Metrics) RecordPipeline(ctx context.Context, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.pipelineTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	m.pipelineDuration.Record(ctx, duration.Seconds())
}

// RecordStage records one stage execution.
func (m *Metrics) RecordStage(ctx context.Context, stage, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.stageTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
	m.stageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
	))
}

// TurnStarted increments the active turn gauge.
func (m *Metrics) TurnStarted(ctx context.Context) {
	if m == nil {
		return
	}
	m.turnsActive.Add(ctx, 1)
}

// TurnFinished decrements the active turn gauge.
func (m *Metrics) TurnFinished(ctx context.Context) {
	if m == nil {
		return
	}
	m.turnsActive.Add(ctx, -1)
}

// RecordError records an error by stage and error code.
func (m *Metrics) RecordError(ctx context.Context, stage, code string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("code", code),
	))
}
