package compat

import (
	"reflect"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
)

const attributesKey = "attributes"

// AttributesProvider is implemented by detector results carrying their own
// attributes, *Resource included.
type AttributesProvider interface {
	Attributes() Attributes
}

// DetectorAttributes normalizes a detector result into attributes, in this
// order:
//  1. a result exposing attributes: an AttributesProvider, an SDK resource, a
//     struct (or pointer to one) whose exported Attributes field is
//     mapping-like, or a mapping whose "attributes" entry is mapping-like;
//  2. a result that is mapping-like;
//  3. anything else, nil included, yields empty attributes.
func DetectorAttributes(result any) Attributes {
	switch r := result.(type) {
	case nil:
		return Attributes{}
	case AttributesProvider:
		return r.Attributes()
	case *resource.Resource:
		return FromKeyValues(r.Attributes())
	case Attributes:
		if attrs, ok := asMapping(r[attributesKey]); ok {
			return attrs
		}
	case map[string]any:
		if attrs, ok := asMapping(r[attributesKey]); ok {
			return attrs
		}
	}

	if attrs, ok := attributesField(result); ok {
		return attrs
	}

	if attrs, ok := asMapping(result); ok {
		return attrs
	}

	return Attributes{}
}

// attributesField reads an exported Attributes field off a struct result.
func attributesField(result any) (Attributes, bool) {
	v := reflect.ValueOf(result)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}

	field := v.FieldByName("Attributes")
	if !field.IsValid() || !field.CanInterface() {
		return nil, false
	}

	return asMapping(field.Interface())
}

func asMapping(v any) (Attributes, bool) {
	switch m := v.(type) {
	case Attributes:
		return m.Clone(), true
	case map[string]any:
		return Attributes(m).Clone(), true
	case map[string]string:
		out := make(Attributes, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	case []attribute.KeyValue:
		return FromKeyValues(m), true
	case attribute.Set:
		return FromKeyValues(m.ToSlice()), true
	case *attribute.Set:
		if m == nil {
			return nil, false
		}
		return FromKeyValues(m.ToSlice()), true
	}
	return nil, false
}
