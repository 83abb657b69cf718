package translator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FallbackPolicy decides when a response field counts as missing.
type FallbackPolicy int

const (
	// PolicyPresence accepts any JSON string, including "".
	PolicyPresence FallbackPolicy = iota
	// PolicyTruthy treats null, false, 0 and "" as missing, as JavaScript's
	// || does, and renders every other value with JavaScript string
	// conversion.
	PolicyTruthy
)

func (p FallbackPolicy) String() string {
	switch p {
	case PolicyPresence:
		return "presence"
	case PolicyTruthy:
		return "truthy"
	default:
		return fmt.Sprintf("FallbackPolicy(%d)", int(p))
	}
}

func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "presence":
		return PolicyPresence, nil
	case "truthy":
		return PolicyTruthy, nil
	default:
		return PolicyPresence, fmt.Errorf("unknown fallback policy %q", s)
	}
}

// Field extracts the display value of a raw JSON field. ok is false when the
// field is missing under the policy.
func (p FallbackPolicy) Field(raw json.RawMessage) (value string, ok bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		if p == PolicyTruthy && s == "" {
			return "", false
		}
		return s, true
	}

	if p != PolicyTruthy {
		return "", false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	switch t := v.(type) {
	case bool:
		if !t {
			return "", false
		}
	case float64:
		if t == 0 {
			return "", false
		}
	}
	return jsString(v), true
}

// jsString converts a decoded JSON value to text the way JavaScript's
// String() does: objects become "[object Object]", arrays join their
// elements with "," (null elements are empty) and numbers use the shortest
// round-trip form, switching to exponent notation outside [1e-6, 1e21).
func jsString(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return jsNumber(t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			if e != nil {
				parts[i] = jsString(e)
			}
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

func jsNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	// Go writes the exponent with at least two digits ("1.5e-07").
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}
