package validation

import (
	"math"
	"unicode/utf16"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/text/unicode/norm"
)

// asObject accepts the two map flavours that reach the validators: decoded
// JSON bodies and documents read back from a collection.
func asObject(v any) (map[string]any, bool) {
	switch obj := v.(type) {
	case map[string]any:
		return obj, obj != nil
	case bson.M:
		return obj, obj != nil
	case bson.D:
		m := make(map[string]any, len(obj))
		for _, e := range obj {
			m[e.Key] = e.Value
		}
		return m, true
	}
	return nil, false
}

func hasAll(input map[string]any, fields ...string) bool {
	for _, field := range fields {
		if _, ok := input[field]; !ok {
			return false
		}
	}
	return true
}

func hasOnly(input map[string]any, fields ...string) bool {
	for key := range input {
		known := false
		for _, field := range fields {
			if key == field {
				known = true
				break
			}
		}
		if !known {
			return false
		}
	}
	return true
}

func hasExactly(input map[string]any, fields ...string) bool {
	return hasAll(input, fields...) && hasOnly(input, fields...)
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// isEmpty reports the values a client can send to mean "nothing": null,
// false, zero and the empty string.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return val == ""
	case bool:
		return !val
	}
	if n, ok := asNumber(v); ok {
		return n == 0 || math.IsNaN(n)
	}
	return false
}

// textLength counts UTF-16 code units of the NFC form, which is how the
// clients measure the same limits.
func textLength(s string) int {
	return len(utf16.Encode([]rune(norm.NFC.String(s))))
}

func inRange(n, lo, hi float64) bool {
	return n >= lo && n <= hi
}
