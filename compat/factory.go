package compat

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Factory abstracts the resource constructors exposed by a given line of the
// OpenTelemetry SDK.
type Factory interface {
	// FromAttributes builds a resource holding exactly the given attributes.
	FromAttributes(attrs ...attribute.KeyValue) (*resource.Resource, error)
	// Default returns the SDK's default resource.
	Default() *resource.Resource
	// Empty returns a resource without attributes.
	Empty() *resource.Resource
}

// SchemalessFactory builds resources without a schema URL, so they can be
// merged with resources of any schema.
type SchemalessFactory struct{}

func (SchemalessFactory) FromAttributes(attrs ...attribute.KeyValue) (*resource.Resource, error) {
	return resource.NewSchemaless(attrs...), nil
}

func (SchemalessFactory) Default() *resource.Resource {
	return resource.Default()
}

func (SchemalessFactory) Empty() *resource.Resource {
	return resource.Empty()
}

// SchemaFactory builds resources bound to SchemaURL. An empty SchemaURL uses
// the schema of the SDK's default resource.
type SchemaFactory struct {
	SchemaURL string
}

func (f SchemaFactory) FromAttributes(attrs ...attribute.KeyValue) (*resource.Resource, error) {
	return resource.NewWithAttributes(f.schemaURL(), attrs...), nil
}

func (SchemaFactory) Default() *resource.Resource {
	return resource.Default()
}

func (SchemaFactory) Empty() *resource.Resource {
	return resource.Empty()
}

func (f SchemaFactory) schemaURL() string {
	if f.SchemaURL != "" {
		return f.SchemaURL
	}
	return resource.Default().SchemaURL()
}

// Funcs adapts three plain constructor functions into a Factory. Nil fields
// fall back to SchemalessFactory.
type Funcs struct {
	New        func(attrs ...attribute.KeyValue) (*resource.Resource, error)
	NewDefault func() *resource.Resource
	NewEmpty   func() *resource.Resource
}

func (f Funcs) FromAttributes(attrs ...attribute.KeyValue) (*resource.Resource, error) {
	if f.New == nil {
		return SchemalessFactory{}.FromAttributes(attrs...)
	}
	return f.New(attrs...)
}

func (f Funcs) Default() *resource.Resource {
	if f.NewDefault == nil {
		return SchemalessFactory{}.Default()
	}
	return f.NewDefault()
}

func (f Funcs) Empty() *resource.Resource {
	if f.NewEmpty == nil {
		return SchemalessFactory{}.Empty()
	}
	return f.NewEmpty()
}
