package types

import (
	"fmt"
	"strconv"
)

// DeepCopyValue returns a deep copy of a JSON-domain value
// (string, number, boolean, nil, map[string]interface{}, []interface{}).
// Unknown types are returned as-is.
func DeepCopyValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return DeepCopyMap(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = DeepCopyValue(item)
		}
		return out
	default:
		return v
	}
}

// DeepCopyMap returns a deep copy of a property map.
// A nil input yields an empty, writable map.
func DeepCopyMap(attrs map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		out[k] = DeepCopyValue(v)
	}
	return out
}

// ToFloat64 converts a JSON-domain value to float64.
// Strings are parsed as decimal numbers.
func ToFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// FormatValue renders an attribute value in its string form.
// Floats use plain decimal notation so large valuations never render
// in exponent form inside insight text.
func FormatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}
