package tracing

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/narraforge/pipeline/internal/platform/envutil"
	"github.com/narraforge/pipeline/internal/platform/logger"
)

type Config struct {
	ServiceName string
	Environment string
}

var (
	once     sync.Once
	shutdown func(context.Context) error
	tracer   trace.Tracer
)

// Init wires a tracer provider when OTEL_ENABLED is set; otherwise
// otel.Tracer falls back to the no-op global tracer and Start is a cheap
// pass-through. Safe to call once at startup.
func Init(ctx context.Context, log *logger.Logger, cfg Config) func(context.Context) error {
	once.Do(func() {
		tracer = otel.Tracer("pipeline")
		if !envutil.Bool("OTEL_ENABLED", false) {
			shutdown = func(context.Context) error { return nil }
			return
		}
		serviceName := strings.TrimSpace(cfg.ServiceName)
		if serviceName == "" {
			serviceName = "pipeline"
		}
		res, err := resource.New(ctx, resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("deployment.environment", cfg.Environment),
		))
		if err != nil && log != nil {
			log.Warn("tracing resource init failed, continuing without resource attrs", "error", err)
		}

		endpoint := envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "")
		var tp *sdktrace.TracerProvider
		if endpoint != "" {
			opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
			if envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false) {
				opts = append(opts, otlptracehttp.WithInsecure())
			}
			exporter, expErr := otlptracehttp.New(ctx, opts...)
			if expErr != nil {
				if log != nil {
					log.Warn("otlp exporter init failed, tracing disabled", "error", expErr)
				}
				shutdown = func(context.Context) error { return nil }
				return
			}
			tp = sdktrace.NewTracerProvider(
				sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
				sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio()))),
				sdktrace.WithResource(res),
			)
		} else {
			tp = sdktrace.NewTracerProvider(
				sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio()))),
				sdktrace.WithResource(res),
			)
		}
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, propagation.Baggage{},
		))
		tracer = tp.Tracer("pipeline")
		shutdown = tp.Shutdown
		if log != nil {
			log.Info("tracing initialized", "service", serviceName, "endpoint", endpoint)
		}
	})
	return shutdown
}

func sampleRatio() float64 {
	v := envutil.String("OTEL_SAMPLER_RATIO", "1")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || f > 1 {
		return 1
	}
	return f
}

// Start begins a span using the process-wide tracer. Safe to call before
// Init; returns a no-op span against the global tracer in that case.
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	t := tracer
	if t == nil {
		t = otel.Tracer("pipeline")
	}
	return t.Start(ctx, name, trace.WithAttributes(attrs...))
}
