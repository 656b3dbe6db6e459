package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
)

// MeterName is the instrumentation scope for all dashboard telemetry.
const MeterName = "wricefviz"

// TelemetryConfig controls tracing and metrics setup.
type TelemetryConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	EnableTracing  bool
	EnableMetrics  bool
	SampleRatio    float64
}

// DefaultTelemetryConfig returns production defaults: Prometheus
// metrics on, stdout tracing off.
func DefaultTelemetryConfig() *TelemetryConfig {
	return &TelemetryConfig{
		ServiceName:    "wricef-dashboard",
		ServiceVersion: "dev",
		Environment:    "production",
		EnableTracing:  false,
		EnableMetrics:  true,
		SampleRatio:    1.0,
	}
}

// Telemetry bundles the initialized OpenTelemetry providers.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler

	logger *slog.Logger
}

// InitializeTelemetry sets up tracing and metrics and installs the
// global providers.
func InitializeTelemetry(cfg *TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if cfg == nil {
		cfg = DefaultTelemetryConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
	)

	t := &Telemetry{logger: logger}

	if cfg.EnableTracing {
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
		)
		t.TracerProvider = tp
		t.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))
		otel.SetTracerProvider(tp)
	}

	if cfg.EnableMetrics {
		registry := promclient.NewRegistry()
		exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
		if err != nil {
			return nil, fmt.Errorf("create prometheus exporter: %w", err)
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		t.MeterProvider = mp
		t.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
		t.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
		otel.SetMeterProvider(mp)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("telemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.Bool("tracing", cfg.EnableTracing),
		slog.Bool("metrics", cfg.EnableMetrics))
	return t, nil
}

// Shutdown flushes and stops the providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var firstErr error
	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// DashboardMetrics holds the application-level instruments.
type DashboardMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	ChartRendersTotal   metric.Int64Counter
	ReloadsTotal        metric.Int64Counter
	TableRows           metric.Int64Gauge
}

// NewDashboardMetrics creates the dashboard instrument set on a meter.
func NewDashboardMetrics(meter metric.Meter) (*DashboardMetrics, error) {
	requests, err := meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests"))
	if err != nil {
		return nil, fmt.Errorf("create http_requests_total: %w", err)
	}

	duration, err := meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create http_request_duration_seconds: %w", err)
	}

	renders, err := meter.Int64Counter("chart_renders_total",
		metric.WithDescription("Total number of chart renders by name and outcome"))
	if err != nil {
		return nil, fmt.Errorf("create chart_renders_total: %w", err)
	}

	reloads, err := meter.Int64Counter("data_reloads_total",
		metric.WithDescription("Total number of tracker data reloads"))
	if err != nil {
		return nil, fmt.Errorf("create data_reloads_total: %w", err)
	}

	rows, err := meter.Int64Gauge("tracker_table_rows",
		metric.WithDescription("Rows in the currently loaded tracker table"))
	if err != nil {
		return nil, fmt.Errorf("create tracker_table_rows: %w", err)
	}

	return &DashboardMetrics{
		HTTPRequestsTotal:   requests,
		HTTPRequestDuration: duration,
		ChartRendersTotal:   renders,
		ReloadsTotal:        reloads,
		TableRows:           rows,
	}, nil
}

// RecordRequest records one served HTTP request.
func (m *DashboardMetrics) RecordRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.Int("status", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordChartRender records one chart render attempt.
func (m *DashboardMetrics) RecordChartRender(ctx context.Context, chart string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ChartRendersTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("chart", chart),
		attribute.String("outcome", outcome),
	))
}

// RecordReload records a tracker reload and the resulting row count.
func (m *DashboardMetrics) RecordReload(ctx context.Context, rows int, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ReloadsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	if err == nil {
		m.TableRows.Record(ctx, int64(rows))
	}
}
