package compat

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// ErrUnsupportedValue is returned when an attribute value cannot be represented
// as an OpenTelemetry attribute.
var ErrUnsupportedValue = errors.New("unsupported attribute value")

// Attributes maps attribute keys to scalar values or slices of scalars.
type Attributes map[string]any

// Clone returns a shallow copy of the attributes. Slice values are copied too.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = cloneValue(v)
	}
	return out
}

// Keys returns the sorted attribute keys.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// KeyValues converts the mapping into OpenTelemetry key-values, sorted by key.
// Nil values are treated as absent.
func (a Attributes) KeyValues() ([]attribute.KeyValue, error) {
	kvs := make([]attribute.KeyValue, 0, len(a))
	for _, k := range a.Keys() {
		if a[k] == nil {
			continue
		}
		kv, err := toKeyValue(k, a[k])
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, kv)
	}
	return kvs, nil
}

// FromKeyValues builds a mapping out of OpenTelemetry key-values. Later keys
// override earlier ones.
func FromKeyValues(kvs []attribute.KeyValue) Attributes {
	out := make(Attributes, len(kvs))
	for _, kv := range kvs {
		out[string(kv.Key)] = kv.Value.AsInterface()
	}
	return out
}

func toKeyValue(key string, v any) (attribute.KeyValue, error) {
	k := attribute.Key(key)

	switch val := v.(type) {
	case attribute.Value:
		return attribute.KeyValue{Key: k, Value: val}, nil
	case string:
		return k.String(val), nil
	case fmt.Stringer:
		return k.String(val.String()), nil
	case bool:
		return k.Bool(val), nil
	case int:
		return k.Int(val), nil
	case int8:
		return k.Int64(int64(val)), nil
	case int16:
		return k.Int64(int64(val)), nil
	case int32:
		return k.Int64(int64(val)), nil
	case int64:
		return k.Int64(val), nil
	case uint8:
		return k.Int64(int64(val)), nil
	case uint16:
		return k.Int64(int64(val)), nil
	case uint32:
		return k.Int64(int64(val)), nil
	case uint:
		return uintToKeyValue(k, uint64(val))
	case uint64:
		return uintToKeyValue(k, val)
	case uintptr:
		return uintToKeyValue(k, uint64(val))
	case float32:
		return k.Float64(float64(val)), nil
	case float64:
		return k.Float64(val), nil
	case []string:
		return k.StringSlice(val), nil
	case []bool:
		return k.BoolSlice(val), nil
	case []int:
		return k.IntSlice(val), nil
	case []int64:
		return k.Int64Slice(val), nil
	case []float64:
		return k.Float64Slice(val), nil
	case []any:
		return anySliceToKeyValue(k, val)
	}

	return attribute.KeyValue{}, errors.Wrapf(ErrUnsupportedValue, "key %q has type %T", key, v)
}

func uintToKeyValue(k attribute.Key, v uint64) (attribute.KeyValue, error) {
	if v > math.MaxInt64 {
		return attribute.KeyValue{}, errors.Wrapf(ErrUnsupportedValue, "key %q overflows int64: %d", string(k), v)
	}
	return k.Int64(int64(v)), nil
}

// anySliceToKeyValue handles decoded documents, where arrays come back as
// []any. All elements must share one scalar kind.
func anySliceToKeyValue(k attribute.Key, vals []any) (attribute.KeyValue, error) {
	if len(vals) == 0 {
		return k.StringSlice([]string{}), nil
	}

	switch vals[0].(type) {
	case string:
		out := make([]string, 0, len(vals))
		for _, v := range vals {
			s, ok := v.(string)
			if !ok {
				return attribute.KeyValue{}, mixedSliceError(k, v)
			}
			out = append(out, s)
		}
		return k.StringSlice(out), nil
	case bool:
		out := make([]bool, 0, len(vals))
		for _, v := range vals {
			b, ok := v.(bool)
			if !ok {
				return attribute.KeyValue{}, mixedSliceError(k, v)
			}
			out = append(out, b)
		}
		return k.BoolSlice(out), nil
	case int, int64:
		out := make([]int64, 0, len(vals))
		for _, v := range vals {
			switch n := v.(type) {
			case int:
				out = append(out, int64(n))
			case int64:
				out = append(out, n)
			default:
				return attribute.KeyValue{}, mixedSliceError(k, v)
			}
		}
		return k.Int64Slice(out), nil
	case float64:
		out := make([]float64, 0, len(vals))
		for _, v := range vals {
			f, ok := v.(float64)
			if !ok {
				return attribute.KeyValue{}, mixedSliceError(k, v)
			}
			out = append(out, f)
		}
		return k.Float64Slice(out), nil
	}

	return attribute.KeyValue{}, mixedSliceError(k, vals[0])
}

func mixedSliceError(k attribute.Key, v any) error {
	return errors.Wrapf(ErrUnsupportedValue, "key %q has slice element of type %T", string(k), v)
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []bool:
		return append([]bool(nil), val...)
	case []int:
		return append([]int(nil), val...)
	case []int64:
		return append([]int64(nil), val...)
	case []float64:
		return append([]float64(nil), val...)
	case []any:
		return append([]any(nil), val...)
	}
	return v
}
