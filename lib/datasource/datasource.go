// Package datasource normalizes third party data sources into a common
// measurement mapping through a two step extract/transform capability.
package datasource

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/datasource")

var ErrNotImplemented = errors.New("not implemented")

// Config holds the parameters of a single extraction, their meaning is
// specific to each data source.
type Config map[string]string

// Result maps display names (the names of scorpion indicators) to values.
type Result map[string]any

// Plugin pulls raw data from an upstream source and normalizes it.
type Plugin interface {
	Extract(ctx context.Context, config Config) (any, error)
	Transform(data any) (Result, error)
}

// Unimplemented can be embedded by plugins to get default methods that
// fail on invocation.
type Unimplemented struct{}

func (Unimplemented) Extract(context.Context, Config) (any, error) {
	return nil, fmt.Errorf("extract: %w", ErrNotImplemented)
}

func (Unimplemented) Transform(any) (Result, error) {
	return nil, fmt.Errorf("transform: %w", ErrNotImplemented)
}

// DataSource binds a name to exactly one plugin and forwards calls to it.
type DataSource struct {
	name   string
	plugin Plugin
}

func New(name string, plugin Plugin) *DataSource {
	return &DataSource{name: name, plugin: plugin}
}

func (d *DataSource) Name() string {
	return d.name
}

func (d *DataSource) Extract(ctx context.Context, config Config) (any, error) {
	ctx, span := tracer.Start(ctx, "datasource:Extract")
	defer span.End()
	span.SetAttributes(attribute.String("datasource.name", d.name))

	data, err := d.plugin.Extract(ctx, config)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%s: %w", d.name, err)
	}
	return data, nil
}

func (d *DataSource) Transform(data any) (Result, error) {
	result, err := d.plugin.Transform(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.name, err)
	}
	return result, nil
}

// Run extracts with config and transforms what was extracted.
func (d *DataSource) Run(ctx context.Context, config Config) (Result, error) {
	data, err := d.Extract(ctx, config)
	if err != nil {
		return nil, err
	}
	return d.Transform(data)
}
