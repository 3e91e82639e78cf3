package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelglobal "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const meterName = "lnr"

// Common attribute keys for metrics.
var (
	AttrRoute   = attribute.Key("http.route")
	AttrMethod  = attribute.Key("http.method")
	AttrStatus  = attribute.Key("http.status_code")
	AttrAction  = attribute.Key("action")
	AttrOutcome = attribute.Key("outcome")
)

// Outcome labels for command and interpreter metrics.
const (
	OutcomeSuccess       = "success"
	OutcomeFailure       = "failure"
	OutcomeNotUnderstood = "not_understood"
	OutcomeError         = "error"
)

var (
	initOnce sync.Once
	handler  http.Handler
	initErr  error

	httpRequests     metric.Int64Counter
	httpDuration     metric.Float64Histogram
	commandCounter   metric.Int64Counter
	interpretCounter metric.Int64Counter
	interpretLatency metric.Float64Histogram
	tasksCreated     metric.Int64Counter
)

// Init installs a Prometheus-backed MeterProvider as the global provider,
// creates the instruments and returns the /metrics handler. Only the first
// call does any work; later calls return the same handler.
func Init(ctx context.Context, serviceName string) (http.Handler, error) {
	initOnce.Do(func() {
		handler, initErr = initProvider(ctx, serviceName)
		if initErr != nil {
			return
		}
		initErr = initInstruments()
	})
	return handler, initErr
}

func initProvider(ctx context.Context, serviceName string) (http.Handler, error) {
	if serviceName == "" {
		serviceName = "lnr"
	}
	reg := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return nil, err
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otelglobal.SetMeterProvider(provider)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true}), nil
}

func initInstruments() error {
	m := otelglobal.Meter(meterName)
	var err error
	if httpRequests, err = m.Int64Counter("lnr_http_requests_total", metric.WithDescription("HTTP requests by route and status")); err != nil {
		return err
	}
	if httpDuration, err = m.Float64Histogram("lnr_http_request_duration_seconds", metric.WithDescription("HTTP request duration in seconds"), metric.WithUnit("s")); err != nil {
		return err
	}
	if commandCounter, err = m.Int64Counter("lnr_command_executions_total", metric.WithDescription("Command bar executions by action and outcome")); err != nil {
		return err
	}
	if interpretCounter, err = m.Int64Counter("lnr_interpreter_calls_total", metric.WithDescription("Language model interpreter calls by outcome")); err != nil {
		return err
	}
	if interpretLatency, err = m.Float64Histogram("lnr_interpreter_duration_seconds", metric.WithDescription("Interpreter call duration in seconds"), metric.WithUnit("s")); err != nil {
		return err
	}
	if tasksCreated, err = m.Int64Counter("lnr_tasks_created_total", metric.WithDescription("Tasks created through REST or the command bar")); err != nil {
		return err
	}
	return nil
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	attrs := metric.WithAttributes(AttrMethod.String(method), AttrRoute.String(route), AttrStatus.Int(status))
	if httpRequests != nil {
		httpRequests.Add(ctx, 1, attrs)
	}
	if httpDuration != nil {
		httpDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(AttrMethod.String(method), AttrRoute.String(route)))
	}
}

// RecordCommand records one executed command action.
func RecordCommand(ctx context.Context, action string, success bool) {
	if commandCounter == nil {
		return
	}
	outcome := OutcomeSuccess
	if !success {
		outcome = OutcomeFailure
	}
	commandCounter.Add(ctx, 1, metric.WithAttributes(AttrAction.String(action), AttrOutcome.String(outcome)))
}

// RecordInterpret records one interpreter call with its outcome label.
func RecordInterpret(ctx context.Context, outcome string, duration time.Duration) {
	if interpretCounter != nil {
		interpretCounter.Add(ctx, 1, metric.WithAttributes(AttrOutcome.String(outcome)))
	}
	if interpretLatency != nil {
		interpretLatency.Record(ctx, duration.Seconds(), metric.WithAttributes(AttrOutcome.String(outcome)))
	}
}

// RecordTaskCreated counts a created task by origin ("rest" or "command").
func RecordTaskCreated(ctx context.Context, origin string) {
	if tasksCreated != nil {
		tasksCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("origin", origin)))
	}
}
