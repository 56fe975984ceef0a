//
// Tencent is pleased to support the open source community by making trpc-solr-gateway available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-solr-gateway is licensed under the Apache License Version 2.0.
//
//

// Package telemetry wires OpenTelemetry tracing and metrics for the gateway.
// The global Tracer and Meter are no-ops until Start is called, so importing
// packages can instrument unconditionally.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	noopm "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	noopt "go.opentelemetry.io/otel/trace/noop"
)

// InstrumentName identifies this module's instrumentation scope.
const InstrumentName = "trpc.group/trpc-go/trpc-solr-gateway"

const defaultServiceName = "trpc-solr-gateway"

// Tracer is the global tracer; a no-op until Start succeeds.
var Tracer trace.Tracer = noopt.NewTracerProvider().Tracer("")

// Meter is the global meter; a no-op until Start succeeds.
var Meter metric.Meter = noopm.Meter{}

type options struct {
	endpoint    string
	serviceName string
}

// Option configures Start.
type Option func(*options)

// WithEndpoint sets the OTLP gRPC endpoint, overriding the
// OTEL_EXPORTER_OTLP_ENDPOINT environment variable.
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// WithServiceName overrides the reported service name.
func WithServiceName(name string) Option {
	return func(o *options) { o.serviceName = name }
}

// Start initializes OTLP gRPC exporters for traces and metrics and installs
// the global Tracer and Meter. The returned clean function flushes and shuts
// the providers down.
func Start(ctx context.Context, opts ...Option) (clean func() error, err error) {
	o := options{
		endpoint:    defaultEndpoint(),
		serviceName: defaultServiceName,
	}
	for _, opt := range opts {
		opt(&o)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(o.serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create resource: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(o.endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create trace exporter: %w", err)
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(traceExporter),
	)

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(o.endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create metric exporter: %w", err)
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	Tracer = tracerProvider.Tracer(InstrumentName)
	Meter = meterProvider.Meter(InstrumentName)

	return func() error {
		shutdownCtx := context.Background()
		return errors.Join(
			tracerProvider.Shutdown(shutdownCtx),
			meterProvider.Shutdown(shutdownCtx),
		)
	}, nil
}

func defaultEndpoint() string {
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	return "localhost:4317"
}
