package main

import (
	"io"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/trezcool/classdesk/core"
)

// newTracerProvider traces API calls to w in debug mode. It returns nil otherwise.
func newTracerProvider(conf *core.Config, w io.Writer) (*sdktrace.TracerProvider, error) {
	if !conf.Debug {
		return nil, nil
	}
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, errors.Wrap(err, "creating trace exporter")
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", conf.AppName),
			attribute.String("service.version", conf.Build),
			attribute.String("deployment.environment", conf.Env),
		)),
	), nil
}
