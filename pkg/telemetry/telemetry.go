// Package telemetry provides OpenTelemetry metrics for the simulation
// engine, exported through Prometheus.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.25.0"
)

const (
	// Service name for telemetry
	serviceName = "ontology-simulation-engine"

	// Metric names
	metricSimulations       = "simulation.executions.total"
	metricSimulationLatency = "simulation.execution.duration"
	metricSimulationSuccess = "simulation.executions.success.total"
	metricSimulationFailure = "simulation.executions.failure.total"
	metricRippleSize        = "simulation.ripple.size"
	metricInsights          = "simulation.insights.total"
	metricWorkspaceLoads    = "workspace.loads.total"
	metricWorkspaceResets   = "workspace.resets.total"
)

// Provider manages OpenTelemetry setup and provides access to the meter.
type Provider struct {
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter

	simulations       metric.Int64Counter
	simulationLatency metric.Float64Histogram
	simulationSuccess metric.Int64Counter
	simulationFailure metric.Int64Counter
	rippleSize        metric.Int64Histogram
	insights          metric.Int64Counter
	workspaceLoads    metric.Int64Counter
	workspaceResets   metric.Int64Counter
}

// Config holds telemetry configuration
type Config struct {
	// ServiceName is the name of the service for telemetry
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// Environment (e.g., "production", "development")
	Environment string

	// EnableMetrics enables metrics collection
	EnableMetrics bool
}

// DefaultConfig returns default telemetry configuration
func DefaultConfig() Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    "development",
		EnableMetrics:  true,
	}
}

// NewProvider creates a telemetry provider with a Prometheus metrics
// exporter. Metrics become visible on the server's /metrics endpoint.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	provider := &Provider{}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			attribute.String("environment", config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if config.EnableMetrics {
		if err := provider.initMetrics(res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	return provider, nil
}

// initMetrics initializes the metrics provider with Prometheus exporter
func (p *Provider) initMetrics(res *resource.Resource) error {
	exporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	otel.SetMeterProvider(p.meterProvider)
	p.meter = p.meterProvider.Meter(serviceName)

	return p.createMetricInstruments()
}

// createMetricInstruments creates all metric instruments
func (p *Provider) createMetricInstruments() error {
	var err error

	p.simulations, err = p.meter.Int64Counter(
		metricSimulations,
		metric.WithDescription("Total number of simulation executions"),
	)
	if err != nil {
		return err
	}

	p.simulationLatency, err = p.meter.Float64Histogram(
		metricSimulationLatency,
		metric.WithDescription("Simulation execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	p.simulationSuccess, err = p.meter.Int64Counter(
		metricSimulationSuccess,
		metric.WithDescription("Total number of successful simulation executions"),
	)
	if err != nil {
		return err
	}

	p.simulationFailure, err = p.meter.Int64Counter(
		metricSimulationFailure,
		metric.WithDescription("Total number of failed simulation executions"),
	)
	if err != nil {
		return err
	}

	p.rippleSize, err = p.meter.Int64Histogram(
		metricRippleSize,
		metric.WithDescription("Number of nodes touched per simulation"),
	)
	if err != nil {
		return err
	}

	p.insights, err = p.meter.Int64Counter(
		metricInsights,
		metric.WithDescription("Total number of insights emitted"),
	)
	if err != nil {
		return err
	}

	p.workspaceLoads, err = p.meter.Int64Counter(
		metricWorkspaceLoads,
		metric.WithDescription("Total number of workspace loads"),
	)
	if err != nil {
		return err
	}

	p.workspaceResets, err = p.meter.Int64Counter(
		metricWorkspaceResets,
		metric.WithDescription("Total number of workspace resets"),
	)
	return err
}

// Meter returns the meter for recording metrics
func (p *Provider) Meter() metric.Meter {
	return p.meter
}

// RecordSimulation records metrics for one action execution
func (p *Provider) RecordSimulation(ctx context.Context, actionID string, duration time.Duration, success bool, nodesTouched, insightCount int) {
	if p.meter == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("action.id", actionID),
	}

	p.simulations.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.simulationLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	p.rippleSize.Record(ctx, int64(nodesTouched), metric.WithAttributes(attrs...))
	p.insights.Add(ctx, int64(insightCount), metric.WithAttributes(attrs...))

	if success {
		p.simulationSuccess.Add(ctx, 1, metric.WithAttributes(attrs...))
	} else {
		p.simulationFailure.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordWorkspaceLoad records one workspace load
func (p *Provider) RecordWorkspaceLoad(ctx context.Context, domain string) {
	if p.meter == nil {
		return
	}
	p.workspaceLoads.Add(ctx, 1, metric.WithAttributes(attribute.String("workspace.domain", domain)))
}

// RecordWorkspaceReset records one workspace reset
func (p *Provider) RecordWorkspaceReset(ctx context.Context) {
	if p.meter == nil {
		return
	}
	p.workspaceResets.Add(ctx, 1)
}

// Shutdown gracefully shuts down the telemetry provider
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown meter provider: %w", err)
		}
	}
	return nil
}
