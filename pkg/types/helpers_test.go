package types

import "testing"

func TestDeepCopyMapIsolation(t *testing.T) {
	original := map[string]interface{}{
		"name":   "Alpha",
		"nested": map[string]interface{}{"key": "value"},
		"list":   []interface{}{1.0, map[string]interface{}{"deep": true}},
	}

	copied := DeepCopyMap(original)

	copied["name"] = "mutated"
	copied["nested"].(map[string]interface{})["key"] = "mutated"
	copied["list"].([]interface{})[1].(map[string]interface{})["deep"] = false

	if original["name"] != "Alpha" {
		t.Error("top-level value aliased")
	}
	if original["nested"].(map[string]interface{})["key"] != "value" {
		t.Error("nested map aliased")
	}
	if original["list"].([]interface{})[1].(map[string]interface{})["deep"] != true {
		t.Error("nested slice element aliased")
	}
}

func TestDeepCopyMapNil(t *testing.T) {
	copied := DeepCopyMap(nil)
	if copied == nil {
		t.Fatal("expected writable map for nil input")
	}
	copied["k"] = "v"
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		want   float64
		wantOK bool
	}{
		{"float64", 1.5, 1.5, true},
		{"int", 42, 42, true},
		{"int64", int64(7), 7, true},
		{"numeric string", "3.25", 3.25, true},
		{"non-numeric string", "abc", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.value)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"large float without exponent", 7000000.0, "7000000"},
		{"fractional float", 310.5, "310.5"},
		{"string", "HIGH_RISK", "HIGH_RISK"},
		{"bool", true, "true"},
		{"int", 2, "2"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.value); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
