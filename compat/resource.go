package compat

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Resource is a version-stable view over an SDK resource. Its attributes are
// always read from the wrapped handle. A nil *Resource is the empty resource.
type Resource struct {
	native *resource.Resource
}

// Wrap returns a Resource around an existing SDK resource.
func Wrap(native *resource.Resource) *Resource {
	return &Resource{native: native}
}

// Attributes returns a copy of the resource attributes.
func (r *Resource) Attributes() Attributes {
	return FromKeyValues(r.Native().Attributes())
}

// KeyValues returns the resource attributes as sorted key-values.
func (r *Resource) KeyValues() []attribute.KeyValue {
	return r.Native().Attributes()
}

// Merge returns a new Resource holding the attributes of r overlaid with the
// attributes of other. Values from other win on key collision.
func (r *Resource) Merge(other *Resource) (*Resource, error) {
	merged, err := resource.Merge(r.Native(), other.Native())
	if err != nil {
		return nil, err
	}
	return Wrap(merged), nil
}

// Native returns the underlying SDK resource.
func (r *Resource) Native() *resource.Resource {
	if r == nil || r.native == nil {
		return resource.Empty()
	}
	return r.native
}

// SchemaURL returns the schema URL of the underlying resource, if any.
func (r *Resource) SchemaURL() string {
	return r.Native().SchemaURL()
}

func (r *Resource) Len() int {
	return r.Native().Len()
}

// Equal reports whether both resources hold the same attributes.
func (r *Resource) Equal(other *Resource) bool {
	return r.Native().Equal(other.Native())
}

func (r *Resource) String() string {
	return r.Native().String()
}

// Adapter builds Resources through a Factory.
type Adapter struct {
	factory Factory
}

// NewAdapter returns an Adapter for the given factory. A nil factory uses
// SchemalessFactory.
func NewAdapter(factory Factory) *Adapter {
	if factory == nil {
		factory = SchemalessFactory{}
	}
	return &Adapter{factory: factory}
}

// CreateResource builds a resource whose attributes equal attrs. Errors coming
// from the factory are returned as is.
func (a *Adapter) CreateResource(attrs Attributes) (*Resource, error) {
	kvs, err := attrs.KeyValues()
	if err != nil {
		return nil, err
	}

	native, err := a.factory.FromAttributes(kvs...)
	if err != nil {
		return nil, err
	}

	return Wrap(native), nil
}

// DefaultResource returns the resource the SDK designates as default.
func (a *Adapter) DefaultResource() *Resource {
	return Wrap(a.factory.Default())
}

// EmptyResource returns a resource without attributes.
func (a *Adapter) EmptyResource() *Resource {
	return Wrap(a.factory.Empty())
}

// CreateResourceFromDetector builds a resource out of whatever a detector
// produced. See DetectorAttributes for the accepted shapes.
func (a *Adapter) CreateResourceFromDetector(result any) (*Resource, error) {
	return a.CreateResource(DetectorAttributes(result))
}

// CreateResourceFromOTelDetector runs an SDK detector and wraps its output.
// A detector returning a nil resource yields the empty resource.
func (a *Adapter) CreateResourceFromOTelDetector(ctx context.Context, detector resource.Detector) (*Resource, error) {
	detected, err := detector.Detect(ctx)
	if err != nil {
		return nil, err
	}
	if detected == nil {
		return a.EmptyResource(), nil
	}
	return a.CreateResourceFromDetector(detected)
}

var defaultAdapter = NewAdapter(SchemalessFactory{})

// CreateResource builds a schemaless resource whose attributes equal attrs.
func CreateResource(attrs Attributes) (*Resource, error) {
	return defaultAdapter.CreateResource(attrs)
}

// DefaultResource returns the SDK default resource.
func DefaultResource() *Resource {
	return defaultAdapter.DefaultResource()
}

// EmptyResource returns a resource without attributes.
func EmptyResource() *Resource {
	return defaultAdapter.EmptyResource()
}

// CreateResourceFromDetector builds a schemaless resource out of a detector
// result.
func CreateResourceFromDetector(result any) (*Resource, error) {
	return defaultAdapter.CreateResourceFromDetector(result)
}

// CreateResourceFromOTelDetector runs an SDK detector and wraps its output.
func CreateResourceFromOTelDetector(ctx context.Context, detector resource.Detector) (*Resource, error) {
	return defaultAdapter.CreateResourceFromOTelDetector(ctx, detector)
}
