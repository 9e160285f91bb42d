package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Kargones/apk-files/internal/pkg/logging"
)

// TracerName - имя tracer-а для span-ов команд.
const TracerName = "apk-files"

// ShutdownFunc сбрасывает накопленные span-ы и останавливает экспорт.
type ShutdownFunc = func(context.Context) error

// NewNopTracerProvider возвращает shutdown, который ничего не делает.
func NewNopTracerProvider() ShutdownFunc {
	return func(context.Context) error { return nil }
}

// NewTracerProvider регистрирует глобальный TracerProvider с батчевым OTLP HTTP экспортом.
// Выключенный трейсинг даёт nop shutdown без ошибок.
func NewTracerProvider(cfg Config, logger logging.Logger) (ShutdownFunc, error) {
	if !cfg.Enabled {
		logger.Debug("трейсинг выключен")
		return NewNopTracerProvider(), nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Schemaless: иначе конфликт schema URL между resource.Default и semconv.
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.Version),
		semconv.DeploymentEnvironment(cfg.Environment),
	))
	if err != nil {
		return nil, err
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(endpointHost(cfg.Endpoint)),
		otlptracehttp.WithTimeout(cfg.Timeout),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg.SamplingRate)),
	)
	otel.SetTracerProvider(tp)

	logger.Info("трейсинг включён",
		"endpoint", cfg.Endpoint,
		"service_name", cfg.ServiceName,
		"sampling_rate", cfg.SamplingRate,
	)
	return tp.Shutdown, nil
}

// ContextWithOTelTraceID делает traceIDHex удалённым родителем span-ов ctx.
// Невалидный идентификатор оставляет ctx без изменений.
func ContextWithOTelTraceID(ctx context.Context, traceIDHex string) context.Context {
	id, err := trace.TraceIDFromHex(traceIDHex)
	if err != nil {
		return ctx
	}
	return trace.ContextWithRemoteSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    id,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	}))
}

// StartCommandSpan открывает корневой span команды с атрибутами запуска.
// Пустые source и dest не попадают в атрибуты.
func StartCommandSpan(ctx context.Context, command, source, dest string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("command", command)}
	if id := TraceIDFromContext(ctx); id != "" {
		attrs = append(attrs, attribute.String("trace_id", id))
	}
	if source != "" {
		attrs = append(attrs, attribute.String("fileio.source", source))
	}
	if dest != "" {
		attrs = append(attrs, attribute.String("fileio.dest", dest))
	}
	return otel.Tracer(TracerName).Start(ctx, command, trace.WithAttributes(attrs...))
}

// newSampler применяет долю и к корневым span-ам, и к удалённому родителю:
// ContextWithOTelTraceID всегда ставит FlagsSampled, и стандартный
// ParentBased игнорировал бы SamplingRate.
func newSampler(rate float64) sdktrace.Sampler {
	ratio := sdktrace.TraceIDRatioBased(rate)
	return sdktrace.ParentBased(ratio, sdktrace.WithRemoteParentSampled(ratio))
}
