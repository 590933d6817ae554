package compat

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func TestCreateResource(t *testing.T) {
	tests := []struct {
		name  string
		attrs Attributes
	}{
		{name: "nil attributes", attrs: nil},
		{name: "empty attributes", attrs: Attributes{}},
		{name: "scalars", attrs: Attributes{
			"service.name": "checkout",
			"replicas":     int64(3),
			"ratio":        0.5,
			"canary":       true,
		}},
		{name: "slices", attrs: Attributes{
			"tags":    []string{"a", "b"},
			"ports":   []int64{80, 443},
			"weights": []float64{0.1, 0.9},
			"flags":   []bool{true, false},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CreateResource(tt.attrs)
			require.NoError(t, err)

			expected := tt.attrs
			if expected == nil {
				expected = Attributes{}
			}
			assert.Equal(t, expected, res.Attributes())
			assert.Equal(t, len(expected), res.Len())
		})
	}
}

func TestCreateResource_NormalizesValues(t *testing.T) {
	res, err := CreateResource(Attributes{
		"int":     7,
		"int32":   int32(8),
		"uint16":  uint16(9),
		"float32": float32(1.5),
		"ints":    []int{1, 2},
		"decoded": []any{"x", "y"},
		"uint":    uint(3),
		"uint64":  uint64(4),
		"uintptr": uintptr(5),
		"missing": nil,
	})
	require.NoError(t, err)

	assert.Equal(t, Attributes{
		"int":     int64(7),
		"int32":   int64(8),
		"uint16":  int64(9),
		"float32": 1.5,
		"ints":    []int64{1, 2},
		"decoded": []string{"x", "y"},
		"uint":    int64(3),
		"uint64":  int64(4),
		"uintptr": int64(5),
	}, res.Attributes())
}

func TestCreateResource_UnsupportedValue(t *testing.T) {
	t.Run("struct value", func(t *testing.T) {
		_, err := CreateResource(Attributes{"bad": struct{}{}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedValue))
	})

	t.Run("uint64 overflow", func(t *testing.T) {
		_, err := CreateResource(Attributes{"big": uint64(math.MaxUint64)})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedValue))
	})

	t.Run("mixed slice", func(t *testing.T) {
		_, err := CreateResource(Attributes{"bad": []any{"a", 1.0}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedValue))
	})
}

func TestCreateResource_FactoryErrorIsReturnedAsIs(t *testing.T) {
	boom := errors.New("boom")
	adapter := NewAdapter(Funcs{
		New: func(...attribute.KeyValue) (*resource.Resource, error) {
			return nil, boom
		},
	})

	res, err := adapter.CreateResource(Attributes{"a": "b"})
	assert.Nil(t, res)
	assert.Same(t, boom, err)
}

func TestEmptyResource(t *testing.T) {
	res := EmptyResource()

	assert.Empty(t, res.Attributes())
	assert.Equal(t, 0, res.Len())
}

func TestDefaultResource(t *testing.T) {
	res := DefaultResource()

	attrs := res.Attributes()
	assert.Contains(t, attrs, string(semconv.ServiceNameKey))
	assert.Contains(t, attrs, string(semconv.TelemetrySDKLanguageKey))
	assert.True(t, res.Native().Equal(resource.Default()))
}

func TestMerge(t *testing.T) {
	r1, err := CreateResource(Attributes{"a": "1", "shared": "left"})
	require.NoError(t, err)
	r2, err := CreateResource(Attributes{"b": "2", "shared": "right"})
	require.NoError(t, err)

	merged, err := r1.Merge(r2)
	require.NoError(t, err)

	assert.Equal(t, Attributes{"a": "1", "b": "2", "shared": "right"}, merged.Attributes())

	t.Run("operands are untouched", func(t *testing.T) {
		assert.Equal(t, Attributes{"a": "1", "shared": "left"}, r1.Attributes())
		assert.Equal(t, Attributes{"b": "2", "shared": "right"}, r2.Attributes())
	})

	t.Run("merge order decides the winner", func(t *testing.T) {
		reversed, err := r2.Merge(r1)
		require.NoError(t, err)
		assert.Equal(t, "left", reversed.Attributes()["shared"])
	})

	t.Run("with nil", func(t *testing.T) {
		same, err := r1.Merge(nil)
		require.NoError(t, err)
		assert.Equal(t, r1.Attributes(), same.Attributes())

		var empty *Resource
		other, err := empty.Merge(r2)
		require.NoError(t, err)
		assert.Equal(t, r2.Attributes(), other.Attributes())
	})

	t.Run("with default", func(t *testing.T) {
		withDefault, err := DefaultResource().Merge(r1)
		require.NoError(t, err)

		attrs := withDefault.Attributes()
		assert.Equal(t, "1", attrs["a"])
		assert.Contains(t, attrs, string(semconv.TelemetrySDKNameKey))
	})
}

func TestMerge_SchemaConflictIsReturnedAsIs(t *testing.T) {
	left, err := NewAdapter(SchemaFactory{SchemaURL: "https://opentelemetry.io/schemas/1.0.0"}).CreateResource(Attributes{"a": "1"})
	require.NoError(t, err)
	right, err := NewAdapter(SchemaFactory{SchemaURL: "https://opentelemetry.io/schemas/2.0.0"}).CreateResource(Attributes{"b": "2"})
	require.NoError(t, err)

	merged, err := left.Merge(right)
	assert.Nil(t, merged)
	assert.ErrorIs(t, err, resource.ErrSchemaURLConflict)
}

func TestNative(t *testing.T) {
	res, err := CreateResource(Attributes{"a": "1", "n": int64(2)})
	require.NoError(t, err)

	native := res.Native()
	require.NotNil(t, native)
	assert.Equal(t, res.Attributes(), FromKeyValues(native.Attributes()))

	t.Run("nil resource", func(t *testing.T) {
		var nilRes *Resource
		assert.NotNil(t, nilRes.Native())
		assert.Empty(t, nilRes.Attributes())
	})
}

func TestAttributesAreCopies(t *testing.T) {
	input := Attributes{"tags": []string{"a"}}
	res, err := CreateResource(input)
	require.NoError(t, err)

	attrs := res.Attributes()
	attrs["tags"] = []string{"changed"}
	attrs["extra"] = "x"

	input["tags"].([]string)[0] = "mutated"

	assert.Equal(t, Attributes{"tags": []string{"a"}}, res.Attributes())
}

func TestSchemaFactory(t *testing.T) {
	t.Run("explicit schema", func(t *testing.T) {
		res, err := NewAdapter(SchemaFactory{SchemaURL: semconv.SchemaURL}).CreateResource(Attributes{"a": "1"})
		require.NoError(t, err)
		assert.Equal(t, semconv.SchemaURL, res.SchemaURL())
	})

	t.Run("default schema merges with the default resource", func(t *testing.T) {
		res, err := NewAdapter(SchemaFactory{}).CreateResource(Attributes{"a": "1"})
		require.NoError(t, err)
		assert.Equal(t, resource.Default().SchemaURL(), res.SchemaURL())

		merged, err := DefaultResource().Merge(res)
		require.NoError(t, err)
		assert.Equal(t, "1", merged.Attributes()["a"])
	})
}

func TestFuncs(t *testing.T) {
	called := map[string]bool{}
	adapter := NewAdapter(Funcs{
		New: func(attrs ...attribute.KeyValue) (*resource.Resource, error) {
			called["new"] = true
			return resource.NewSchemaless(attrs...), nil
		},
		NewDefault: func() *resource.Resource {
			called["default"] = true
			return resource.NewSchemaless(attribute.String("service.name", "legacy"))
		},
		NewEmpty: func() *resource.Resource {
			called["empty"] = true
			return resource.Empty()
		},
	})

	_, err := adapter.CreateResource(Attributes{"a": "1"})
	require.NoError(t, err)
	assert.Equal(t, Attributes{"service.name": "legacy"}, adapter.DefaultResource().Attributes())
	assert.Empty(t, adapter.EmptyResource().Attributes())

	assert.Equal(t, map[string]bool{"new": true, "default": true, "empty": true}, called)
}

func TestEqual(t *testing.T) {
	a, err := CreateResource(Attributes{"a": "1"})
	require.NoError(t, err)
	b, err := NewAdapter(SchemaFactory{}).CreateResource(Attributes{"a": "1"})
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(EmptyResource()))
	assert.Equal(t, "a=1", a.String())
}

type failingDetector struct{ err error }

func (d failingDetector) Detect(context.Context) (*resource.Resource, error) {
	return nil, d.err
}

type nilDetector struct{}

func (nilDetector) Detect(context.Context) (*resource.Resource, error) {
	return nil, nil
}

func TestCreateResourceFromOTelDetector(t *testing.T) {
	ctx := context.Background()

	t.Run("string detector", func(t *testing.T) {
		detector := resource.StringDetector(semconv.SchemaURL, semconv.HostNameKey, func() (string, error) {
			return "build-01", nil
		})

		res, err := CreateResourceFromOTelDetector(ctx, detector)
		require.NoError(t, err)
		assert.Equal(t, Attributes{"host.name": "build-01"}, res.Attributes())
	})

	t.Run("detector error", func(t *testing.T) {
		boom := errors.New("boom")
		res, err := CreateResourceFromOTelDetector(ctx, failingDetector{err: boom})
		assert.Nil(t, res)
		assert.Same(t, boom, err)
	})

	t.Run("nil resource", func(t *testing.T) {
		res, err := CreateResourceFromOTelDetector(ctx, nilDetector{})
		require.NoError(t, err)
		assert.Empty(t, res.Attributes())
	})
}
