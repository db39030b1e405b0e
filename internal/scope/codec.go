// Package scope turns heterogeneous caller-supplied scope values into the
// canonical keys the document index is queried with.
package scope

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Encode coerces each field to its string form so that index lookups match
// regardless of whether a caller passed 7, "7" or 7.0. nil becomes "null".
// The typed scope constructors and NewSession build on it.
func Encode(vs ...any) []string {
	out := make([]string, len(vs))
	for i, f := range vs {
		out[i] = Stringify(f)
	}
	return out
}

// Stringify renders a single scope value.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case *string:
		if x == nil {
			return "null"
		}
		return *x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return formatFloat(float64(x))
	case float64:
		return formatFloat(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return formatFloat(f)
		}
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// formatFloat mirrors the shortest round-trip form used by browsers, so 3.0
// and 3 encode identically.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		out := strconv.FormatFloat(f, 'g', -1, 64)
		out = strings.Replace(out, "e-0", "e-", 1)
		return strings.Replace(out, "e+0", "e+", 1)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
