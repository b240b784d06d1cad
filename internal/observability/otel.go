// Package observability wires tracing and domain metrics.
//
// SetupOTel installs the global tracer provider that the otelgin middleware,
// the GORM tracing plugin and the service spans (services/RecipeService,
// services/Toggle, ...) report to. It exports over OTLP/gRPC.
//
// Sampling is biased towards writes: a root span of a POST, PUT, PATCH or
// DELETE request (recipe compositions, relation toggles, registrations) is
// always sampled, reads are sampled at OTEL_TRACES_SAMPLER_ARG, and child
// spans follow their parent.
package observability

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"google.golang.org/grpc/credentials"

	"github.com/tbourn/foodgram-backend/internal/config"
)

const serviceNamespace = "foodgram"

// Seams replaced by tests.
var (
	newOTLPClient = otlptracegrpc.NewClient

	newOTLPExporterFn = func(ctx context.Context, client otlptrace.Client) (*otlptrace.Exporter, error) {
		return otlptrace.New(ctx, client)
	}

	newServiceResourceFn = serviceResource
)

func serviceResource(ctx context.Context, cfg config.OTELConfig, version string) (*resource.Resource, error) {
	attrs := []resource.Option{
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceNamespace(serviceNamespace),
			semconv.ServiceVersion(version),
		),
	}
	if cfg.Environment != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.DeploymentEnvironment(cfg.Environment)))
	}
	return resource.New(ctx, attrs...)
}

// SetupOTel configures tracing and returns the provider's shutdown function.
// When tracing is disabled the global no-op provider stays in place.
func SetupOTel(ctx context.Context, cfg config.OTELConfig, version string) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
	}

	exp, err := newOTLPExporterFn(ctx, newOTLPClient(opts...))
	if err != nil {
		return nil, err
	}

	res, err := newServiceResourceFn(ctx, cfg, version)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithSampler(newSampler(cfg.SampleRatio)),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

func newSampler(readRatio float64) sdktrace.Sampler {
	return sdktrace.ParentBased(writeBiasedSampler{
		reads: sdktrace.TraceIDRatioBased(clampRatio(readRatio)),
	})
}

// writeBiasedSampler samples every state-changing HTTP request and hands the
// rest to reads. otelgin sets the method attribute at span start; both the
// current and the legacy semantic-convention keys are recognised.
type writeBiasedSampler struct {
	reads sdktrace.Sampler
}

func (s writeBiasedSampler) ShouldSample(p sdktrace.SamplingParameters) sdktrace.SamplingResult {
	for _, kv := range p.Attributes {
		if kv.Key != semconv.HTTPRequestMethodKey && kv.Key != "http.method" {
			continue
		}
		if isWriteMethod(kv.Value.AsString()) {
			return sdktrace.SamplingResult{
				Decision:   sdktrace.RecordAndSample,
				Tracestate: trace.SpanContextFromContext(p.ParentContext).TraceState(),
			}
		}
		break
	}
	return s.reads.ShouldSample(p)
}

func (s writeBiasedSampler) Description() string {
	return "WriteBiased{reads:" + s.reads.Description() + "}"
}

func isWriteMethod(m string) bool {
	switch m {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// clampRatio bounds a sampling ratio to [0, 1].
func clampRatio(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}
